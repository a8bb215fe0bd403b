package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/nbsync/notebook-order/internal/api/http"
	"github.com/nbsync/notebook-order/internal/config"
	"github.com/nbsync/notebook-order/internal/execqueue"
	"github.com/nbsync/notebook-order/internal/health"
	"github.com/nbsync/notebook-order/internal/logger"
	"github.com/nbsync/notebook-order/internal/store"
	"github.com/nbsync/notebook-order/internal/store/postgres"
	"github.com/nbsync/notebook-order/internal/store/sqlite"
)

func main() {
	log := logger.New("notebook-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("notebook-service starting")

	ctx := context.Background()

	var s store.Store
	var dispatcherDB execqueue.DB

	switch cfg.DBDriver {
	case "postgres":
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres unavailable")
		}
		if err := postgres.Bootstrap(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("postgres bootstrap failed")
		}
		s = postgres.NewWithDB(db)
		dispatcherDB = db
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("sqlite unavailable")
		}
		if err := sqlite.Bootstrap(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("sqlite bootstrap failed")
		}
		s = sqlite.NewWithDB(db)
	default:
		log.Fatal().Str("driver", cfg.DBDriver).Msg("unsupported DB_DRIVER")
	}
	defer func() { _ = s.Close() }()

	storeChecker := store.NewStoreHealthChecker(s, log, cfg.HealthProbeTimeout)
	serviceChecker := health.NewServiceHealthChecker(log, storeChecker)
	healthCtx, stopHealth := context.WithCancel(ctx)
	defer stopHealth()
	go storeChecker.Start(healthCtx, 15*time.Second)
	go serviceChecker.Start(healthCtx, 15*time.Second)

	if cfg.ExecQueueEnabled && dispatcherDB != nil {
		dispatcher := execqueue.NewWorker(dispatcherDB, s, execqueue.Config{
			BatchSize: cfg.ExecQueueBatch,
			Interval:  cfg.ExecQueueInterval,
		}, log)
		dispatchCtx, stopDispatch := context.WithCancel(ctx)
		defer stopDispatch()
		go func() {
			if err := dispatcher.Run(dispatchCtx); err != nil && err != context.Canceled {
				log.Error().Err(err).Msg("execqueue dispatcher stopped")
			}
		}()
	} else if cfg.ExecQueueEnabled {
		log.Warn().Msg("execqueue dispatcher requires the postgres backend; skipping (sqlite has no concurrent writers to race)")
	}

	router := httpapi.NewRouter(s, serviceChecker)
	server := &http.Server{
		Addr:         cfg.GetHTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg(fmt.Sprintf("server on %s exited", cfg.GetHTTPAddr()))
}
