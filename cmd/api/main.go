package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/commerce-insights/internal/analytics"
	"github.com/dvloznov/commerce-insights/internal/api/handlers"
	"github.com/dvloznov/commerce-insights/internal/api/middleware"
	"github.com/dvloznov/commerce-insights/internal/config"
	"github.com/dvloznov/commerce-insights/internal/dataset"
	"github.com/dvloznov/commerce-insights/internal/logger"
)

func main() {
	cfg := config.Load()

	// Parse command-line flags; they override the environment.
	var (
		port    = flag.String("port", cfg.Port, "HTTP server port")
		dataDir = flag.String("data-dir", cfg.DataDir, "directory holding transactions.csv and customers.csv")
	)
	flag.Parse()
	cfg.DataDir = *dataDir

	// Initialize logger
	log := logger.New()

	ctx := context.Background()

	snap, err := loadSnapshot(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load dataset")
	}

	engine := analytics.New(snap)
	anchor := engine.Anchor()
	log.Info().
		Int("transactions", snap.TransactionCount()).
		Int("customers", snap.CustomerCount()).
		Str("data_start", anchor.DataStart.Format(dataset.DateFormat)).
		Str("data_end", anchor.DataEnd.Format(dataset.DateFormat)).
		Msg("Dataset loaded")

	mux := handlers.Router(engine, log)

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// loadSnapshot reads the two tables from whichever source the
// configuration selects.
func loadSnapshot(ctx context.Context, cfg config.Settings) (*dataset.Snapshot, error) {
	switch cfg.DataSource {
	case config.SourceLocal:
		return dataset.Load(cfg.DataDir)
	case config.SourceGCS:
		return dataset.LoadFromGCS(ctx, cfg.GCSBucket)
	case config.SourceBigQuery:
		return dataset.LoadFromBigQuery(ctx, cfg.BQProject, cfg.BQDataset)
	default:
		return nil, fmt.Errorf("unknown data source: %s", cfg.DataSource)
	}
}
