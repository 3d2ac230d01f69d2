package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Mavithya/SpiritX-Telusko-02/internal/catalog"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/config"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/database"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/feed"
	server "github.com/Mavithya/SpiritX-Telusko-02/internal/http"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/metrics"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/notifier"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/notifier/slack"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/realtime"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/relay"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/roster"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/ws"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	catalogStore := catalog.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	// Rows imported before the pricing rule existed get a valuation now.
	if n, err := catalogStore.BackfillValues(); err != nil {
		log.Fatalf("Failed to backfill player valuations: %s", err)
	} else if n > 0 {
		log.Info("Backfilled player valuations", "count", n)
	}

	var notif notifier.Notifier
	if cfg.Slack.Token != "" {
		notif = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		log.Warn("Slack token not configured, operational notifications disabled")
	}

	var relayClient relay.Client
	if cfg.Relay.ProjectID != "" {
		relayClient = relay.New(cfg.Relay.ProjectID)
	}

	registry := realtime.NewRegistry()
	broadcaster := realtime.NewBroadcaster(registry, relayClient, cfg.Relay.Topic, metricsSvc)
	wsHandler := ws.NewHandler(registry, metricsSvc)
	ledger := roster.NewLedger(db, catalogStore, broadcaster.Publish, notif, metricsSvc)

	// One watcher per collection tails the change outbox into the broadcaster.
	watcherCfg := feed.WatcherConfig{
		PollInterval: time.Duration(cfg.Feed.PollIntervalMS) * time.Millisecond,
		BackoffBase:  time.Duration(cfg.Feed.BackoffBaseMS) * time.Millisecond,
		BackoffMax:   time.Duration(cfg.Feed.BackoffMaxMS) * time.Millisecond,
	}
	watchers := []*feed.Watcher{
		feed.NewWatcher(db, realtime.TopicPlayers, broadcaster, metricsSvc, notif, watcherCfg),
		feed.NewWatcher(db, realtime.TopicUsers, broadcaster, metricsSvc, notif, watcherCfg),
	}
	for _, w := range watchers {
		if err := w.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start change feed watcher: %s", err)
		}
	}

	s := server.NewServer(
		catalogStore,
		ledger,
		broadcaster,
		metricsSvc,
		metricsHandler,
		wsHandler,
		cfg,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}

		// Watchers stop after the server so no accepted request loses its
		// change notification.
		for _, w := range watchers {
			w.Stop(ctx)
		}
	}

	log.Info("Server process shutting down")
}
