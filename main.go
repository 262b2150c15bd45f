package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-connect/internal/auth"
	"github.com/mauv0809/padel-connect/internal/community"
	"github.com/mauv0809/padel-connect/internal/config"
	"github.com/mauv0809/padel-connect/internal/database"
	server "github.com/mauv0809/padel-connect/internal/http"
	"github.com/mauv0809/padel-connect/internal/inngest"
	"github.com/mauv0809/padel-connect/internal/matchmaking"
	"github.com/mauv0809/padel-connect/internal/metrics"
	"github.com/mauv0809/padel-connect/internal/notifier"
	"github.com/mauv0809/padel-connect/internal/notifier/slack"
	"github.com/mauv0809/padel-connect/internal/player"
	"github.com/mauv0809/padel-connect/internal/playtomic"
	"github.com/mauv0809/padel-connect/internal/pubsub"
	"github.com/mauv0809/padel-connect/internal/reconcile"
	"github.com/mauv0809/padel-connect/internal/storage"
)

func main() {
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	ctx := context.Background()

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	log.Info("Database initialization time recorded", "duration_ms", time.Since(startTime).Milliseconds())
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	var blobs storage.Storage
	if cfg.Storage.Enabled() {
		s3, err := storage.NewS3(ctx, cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %s", err)
		}
		blobs = s3
	} else {
		log.Warn("Object storage not configured, photo uploads are disabled")
	}

	var publisher pubsub.Publisher = pubsub.NewLogPublisher()
	if cfg.ProjectID != "" {
		publisher, err = pubsub.New(ctx, cfg.ProjectID, cfg.PubSubTopic)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
	}
	defer publisher.Close()

	var notify notifier.Notifier = notifier.NewLogNotifier()
	if cfg.Slack.Enabled() {
		notify = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	}

	playerStore := player.New(db)
	players := player.NewService(playerStore, blobs, publisher)
	matchmakingSvc := matchmaking.NewService(matchmaking.NewStore(db), playerStore, notify, publisher, metricsSvc,
		matchmaking.WithTTL(cfg.RequestTTL))
	pulse := community.NewService(playerStore, matchmakingSvc, playtomic.NewClient(), cfg.TenantID)
	reconciler := reconcile.New(matchmakingSvc, cfg.Reconcile.OrphanGrace)

	var inngestClient inngest.InngestClient
	if cfg.Inngest.Enabled() {
		provider, err := inngest.NewProvider(cfg.Inngest)
		if err != nil {
			log.Fatalf("Failed to initialize inngest: %s", err)
		}
		inngestClient, err = inngest.New(provider, reconciler)
		if err != nil {
			log.Fatalf("Failed to register inngest functions: %s", err)
		}
		log.Info("Reconciliation delegated to Inngest")
	} else {
		scheduler, err := reconcile.NewScheduler(reconciler, cfg.Reconcile.Interval)
		if err != nil {
			log.Fatalf("Failed to create reconciliation scheduler: %s", err)
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				log.Error("Failed to stop scheduler", "error", err)
			}
		}()
	}

	s := server.NewServer(
		server.Services{
			DB:          db,
			PlayerStore: playerStore,
			Players:     players,
			Matchmaking: matchmakingSvc,
			Community:   pulse,
			Reconciler:  reconciler,
		},
		auth.NewJWTDirectory(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		notify,
		metricsHandler,
		cfg,
		inngestClient,
	)

	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
