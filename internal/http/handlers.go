package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/Mavithya/SpiritX-Telusko-02/internal/catalog"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/roster"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/scoring"
)

// errorResponse is the stable error envelope. Code is part of the API
// contract; clients branch on it, not on the message text.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, msg string) {
	respondJSON(w, status, errorResponse{Error: msg, Code: code})
}

// respondDomainError maps domain errors onto stable HTTP statuses and codes.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, roster.ErrAccountNotFound):
		respondError(w, http.StatusNotFound, "ACCOUNT_NOT_FOUND", err.Error())
	case errors.Is(err, roster.ErrPlayerNotFound), errors.Is(err, catalog.ErrNotFound):
		respondError(w, http.StatusNotFound, "PLAYER_NOT_FOUND", err.Error())
	case errors.Is(err, roster.ErrPlayerNotInRoster):
		respondError(w, http.StatusNotFound, "PLAYER_NOT_IN_TEAM", err.Error())
	case errors.Is(err, roster.ErrDuplicatePlayer):
		respondError(w, http.StatusConflict, "DUPLICATE_PLAYER", err.Error())
	case errors.Is(err, roster.ErrTeamFull):
		respondError(w, http.StatusConflict, "TEAM_FULL", err.Error())
	case errors.Is(err, roster.ErrDuplicateUsername):
		respondError(w, http.StatusConflict, "DUPLICATE_USERNAME", err.Error())
	case errors.Is(err, catalog.ErrDuplicateName):
		respondError(w, http.StatusConflict, "DUPLICATE_NAME", err.Error())
	case errors.Is(err, roster.ErrInsufficientBudget):
		respondError(w, http.StatusPaymentRequired, "INSUFFICIENT_BUDGET", err.Error())
	case errors.Is(err, roster.ErrIndeterminate):
		respondError(w, http.StatusInternalServerError, "INDETERMINATE", "mutation outcome unknown, refetch team state")
	default:
		log.Error("Unhandled domain error", "error", err)
		respondError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

// validCounters rejects malformed payloads before they reach the scoring
// pipeline, which is only defined over non-negative counters.
func validCounters(p *catalog.Player) bool {
	return p.TotalRuns >= 0 && p.BallsFaced >= 0 && p.InningsPlayed >= 0 &&
		p.Wickets >= 0 && p.OversBowled >= 0 && p.RunsConceded >= 0
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := catalog.Filter{Category: r.URL.Query().Get("category")}
		players, err := s.Catalog.ListPlayers(filter)
		if err != nil {
			log.Error("Failed to list players", "error", err)
			respondError(w, http.StatusInternalServerError, "INTERNAL", "failed to list players")
			return
		}
		respondJSON(w, http.StatusOK, players)
	}
}

func (s *Server) GetPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, err := s.Catalog.GetPlayer(r.PathValue("id"))
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, player)
	}
}

func (s *Server) CreatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p catalog.Player
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid player payload")
			return
		}
		if p.Name == "" {
			respondError(w, http.StatusBadRequest, "BAD_REQUEST", "player name is required")
			return
		}
		if !validCounters(&p) {
			respondError(w, http.StatusBadRequest, "BAD_REQUEST", "counters must be non-negative")
			return
		}

		if err := s.Catalog.CreatePlayer(&p); err != nil {
			respondDomainError(w, err)
			return
		}
		log.Info("Player created", "player_id", p.ID, "name", p.Name)
		respondJSON(w, http.StatusCreated, p)
	}
}

func (s *Server) UpdatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p catalog.Player
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid player payload")
			return
		}
		p.ID = r.PathValue("id")
		if !validCounters(&p) {
			respondError(w, http.StatusBadRequest, "BAD_REQUEST", "counters must be non-negative")
			return
		}

		if err := s.Catalog.UpdatePlayer(&p); err != nil {
			respondDomainError(w, err)
			return
		}

		// Rereads so the response carries the freshly derived attributes.
		updated, err := s.Catalog.GetPlayer(p.ID)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		log.Info("Player updated", "player_id", p.ID)
		respondJSON(w, http.StatusOK, updated)
	}
}

func (s *Server) DeletePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := s.Catalog.DeletePlayer(id); err != nil {
			respondDomainError(w, err)
			return
		}
		log.Info("Player deleted", "player_id", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// RecomputeStatsHandler recomputes a player's derived attributes from its
// current raw counters on demand and returns them.
func (s *Server) RecomputeStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		player, err := s.Catalog.GetPlayer(id)
		if err != nil {
			respondDomainError(w, err)
			return
		}

		m := scoring.Compute(player.Counters())
		if err := s.Catalog.UpdateDerivedMetrics(id, m); err != nil {
			respondDomainError(w, err)
			return
		}
		log.Info("Player stats recomputed", "player_id", id, "points", m.Points, "value", m.Value)
		respondJSON(w, http.StatusOK, m)
	}
}

func (s *Server) TournamentSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := s.Catalog.TournamentSummary()
		if err != nil {
			log.Error("Failed to build tournament summary", "error", err)
			respondError(w, http.StatusInternalServerError, "INTERNAL", "failed to build summary")
			return
		}
		respondJSON(w, http.StatusOK, summary)
	}
}

// RefreshValuesHandler backfills valuations for records that predate the
// pricing rule, e.g. rows imported by hand.
func (s *Server) RefreshValuesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := s.Catalog.BackfillValues()
		if err != nil {
			log.Error("Value backfill failed", "error", err)
			respondError(w, http.StatusInternalServerError, "INTERNAL", "backfill failed")
			return
		}
		log.Info("Value backfill complete", "updated", count)
		respondJSON(w, http.StatusOK, map[string]int{"updated": count})
	}
}

type createUserRequest struct {
	Username string `json:"username"`
}

func (s *Server) CreateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
			respondError(w, http.StatusBadRequest, "BAD_REQUEST", "username is required")
			return
		}

		account, err := s.Ledger.CreateUser(req.Username, s.Cfg.DefaultBudget)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		log.Info("User created", "account_id", account.ID, "username", account.Username)
		respondJSON(w, http.StatusCreated, account)
	}
}

func (s *Server) GetTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := s.Ledger.GetTeam(r.PathValue("accountID"))
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, view)
	}
}

type teamMutationRequest struct {
	AccountID string `json:"account_id"`
	PlayerID  string `json:"player_id"`
}

func (s *Server) AddToTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req teamMutationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccountID == "" || req.PlayerID == "" {
			respondError(w, http.StatusBadRequest, "BAD_REQUEST", "account_id and player_id are required")
			return
		}

		account, err := s.Ledger.AddPlayer(req.AccountID, req.PlayerID)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, account)
	}
}

func (s *Server) RemoveFromTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req teamMutationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccountID == "" || req.PlayerID == "" {
			respondError(w, http.StatusBadRequest, "BAD_REQUEST", "account_id and player_id are required")
			return
		}

		account, err := s.Ledger.RemovePlayer(req.AccountID, req.PlayerID)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, account)
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := s.Ledger.Leaderboard()
		if err != nil {
			log.Error("Failed to build leaderboard", "error", err)
			respondError(w, http.StatusInternalServerError, "INTERNAL", "failed to build leaderboard")
			return
		}
		respondJSON(w, http.StatusOK, board)
	}
}
