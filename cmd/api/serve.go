package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/cache"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/events"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
	"github.com/BruksfildServices01/clinic-scheduler/internal/mailer"
	"github.com/BruksfildServices01/clinic-scheduler/internal/routes"
	"github.com/BruksfildServices01/clinic-scheduler/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel, cfg.Env)

	// --------------------------------------------------
	// Resource handles, closed in reverse order
	// --------------------------------------------------
	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("database unavailable")
		return err
	}
	defer dbpkg.Close(db)

	if err := dbpkg.Migrate(db); err != nil {
		log.Error().Err(err).Msg("migration failed")
		return err
	}

	rdb, err := cache.NewRedis(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("cache unavailable")
		return err
	}
	defer rdb.Close()

	mail, err := mailer.New(cfg.Mail, log)
	if err != nil {
		return err
	}

	publisher, err := events.New(cfg.NATSURL)
	if err != nil {
		log.Error().Err(err).Msg("event bus unavailable")
		return err
	}
	defer publisher.Close()

	dispatcher := audit.NewDispatcher(audit.New(db), publisher, log)
	defer dispatcher.Close()

	var uploader storage.Uploader
	if s3 := storage.NewS3(cfg.Storage); s3 != nil {
		uploader = s3
	} else {
		log.Warn().Msg("S3_BUCKET not set, avatar uploads disabled")
	}

	// --------------------------------------------------
	// HTTP
	// --------------------------------------------------
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	routes.RegisterRoutes(r, routes.Dependencies{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		Mailer:  mail,
		Audit:   dispatcher,
		Logger:  log,
		Storage: uploader,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server error")
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}
