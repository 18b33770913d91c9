// Command server runs the Studio X forms backend: the public form endpoints
// under /api and the CRM webhook surface under /hooks/crm, on one port.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/studiox/forms-backend/internal/config"
	httpapi "github.com/studiox/forms-backend/internal/http"
	"github.com/studiox/forms-backend/internal/observability"
	"github.com/studiox/forms-backend/internal/repo"
)

const version = "1.0.0"

func main() {
	// Local development convenience; absence of a .env file is fine.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	setupLogging(cfg)
	gin.SetMode(cfg.GinMode)

	log.Info().
		Str("version", version).
		Str("port", cfg.Port).
		Str("db_path", cfg.DBPath).
		Bool("forwarding", cfg.CRMEndpoint != "").
		Msg("starting forms backend")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up tracing")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, db, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Error().Err(err).Msg("server failed")
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := otelShutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown failed")
	}
	log.Info().Msg("stopped")
}

// setupLogging configures the zerolog global: level from config, RFC 3339
// timestamps, optional pretty console output for development.
func setupLogging(cfg config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
