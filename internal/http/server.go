package http

import (
	"net/http"

	"github.com/Mavithya/SpiritX-Telusko-02/internal/catalog"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/config"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/metrics"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/realtime"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/roster"
)

func NewServer(catalogStore catalog.Store, ledger roster.Ledger, broadcaster *realtime.Broadcaster, metricsSvc metrics.Metrics, metricsHandler http.Handler, wsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Catalog:        catalogStore,
		Ledger:         ledger,
		Broadcaster:    broadcaster,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		WSHandler:      wsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an
	// authentication middleware for the admin routes.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	if s.WSHandler != nil {
		s.Router.Handle("/ws", s.WSHandler)
	}

	s.Router.Handle("GET /players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("GET /players/{id}", Chain(s.GetPlayerHandler(), paramsMiddleware))

	s.Router.Handle("GET /admin/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("POST /admin/players", Chain(s.CreatePlayerHandler(), paramsMiddleware))
	s.Router.Handle("PUT /admin/players/{id}", Chain(s.UpdatePlayerHandler(), paramsMiddleware))
	s.Router.Handle("GET /admin/players/{id}/stats", Chain(s.RecomputeStatsHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /admin/players/{id}", Chain(s.DeletePlayerHandler(), paramsMiddleware))
	s.Router.Handle("GET /admin/tournament/summary", Chain(s.TournamentSummaryHandler(), paramsMiddleware))
	s.Router.Handle("POST /admin/refresh", Chain(s.RefreshValuesHandler(), paramsMiddleware))

	s.Router.Handle("POST /users", Chain(s.CreateUserHandler(), paramsMiddleware))
	s.Router.Handle("GET /team/{accountID}", Chain(s.GetTeamHandler(), paramsMiddleware))
	s.Router.Handle("POST /team/add", Chain(s.AddToTeamHandler(), paramsMiddleware))
	s.Router.Handle("POST /team/remove", Chain(s.RemoveFromTeamHandler(), paramsMiddleware))
	s.Router.Handle("GET /leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
