// Command server runs the procurement backend: purchase request queue,
// order record store, document extraction pipeline, inventory reporting,
// and purchase order generation behind a single HTTP API.
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

	"github.com/iabhiroop/go-procure-backend/internal/config"
	"github.com/iabhiroop/go-procure-backend/internal/extract"
	httpapi "github.com/iabhiroop/go-procure-backend/internal/http"
	"github.com/iabhiroop/go-procure-backend/internal/observability"
	"github.com/iabhiroop/go-procure-backend/internal/queue"
	"github.com/iabhiroop/go-procure-backend/internal/repo"
	"github.com/iabhiroop/go-procure-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx := context.Background()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return err
	}

	db, err := repo.OpenSQLite(cfg.DBPath, cfg.OTEL.Enabled)
	if err != nil {
		return err
	}
	if err := repo.AutoMigrate(db); err != nil {
		return err
	}
	if err := repo.SeedInventory(ctx, db); err != nil {
		return err
	}

	var store queue.Store
	switch cfg.QueueBackend {
	case "sqlite":
		store, err = queue.NewSQLiteStore(db)
	default:
		store, err = queue.NewFileStore(cfg.QueuePath)
	}
	if err != nil {
		return err
	}
	q := queue.New(store)

	ocr := extract.NewHTTPOCRClient(cfg.Extraction.OCREndpoint, cfg.Extraction.Timeout)
	structurer, err := extract.NewGeminiStructurer(cfg.Extraction.GeminiAPIKey, cfg.Extraction.GeminiModel, cfg.Extraction.Timeout)
	if err != nil {
		return err
	}
	pipeline := extract.NewPipeline(ocr, structurer, cfg.Extraction.Timeout)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, q, pipeline, cfg)

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
		log.Info().
			Str("addr", srv.Addr).
			Str("queue_backend", cfg.QueueBackend).
			Str("version", version).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}

	log.Info().Msg("server stopped")
	return nil
}
