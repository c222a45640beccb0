package bubbles

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/soundprediction/bubbles"
	"github.com/soundprediction/bubbles/pkg/config"
	"github.com/soundprediction/bubbles/pkg/driver"
	bubblesLogger "github.com/soundprediction/bubbles/pkg/logger"
	"github.com/soundprediction/bubbles/pkg/telemetry"
	"github.com/soundprediction/bubbles/pkg/types"
)

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger. When a telemetry path is configured,
// error records are also written there as Parquet files. The returned
// function flushes pending telemetry.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	logger, err := bubblesLogger.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Telemetry.ParquetPath == "" {
		return logger, func() {}, nil
	}

	handler, err := telemetry.NewParquetHandler(logger.Handler(), cfg.Telemetry.ParquetPath)
	if err != nil {
		logger.Warn("Error tracking disabled", "error", err)
		return logger, func() {}, nil
	}
	logger = slog.New(handler)
	logger.Debug("Error tracking enabled", "path", cfg.Telemetry.ParquetPath)
	return logger, func() {
		if err := handler.Close(); err != nil {
			fmt.Fprintln(os.Stderr, "failed to flush telemetry:", err)
		}
	}, nil
}

// openClient connects to the graph store and returns a client over it.
func openClient(cfg *config.Config, logger *slog.Logger) (*bubbles.Client, error) {
	info, err := driver.ParseURI(cfg.Database.URI, cfg.Database.Username, cfg.Database.Password)
	if err != nil {
		return nil, types.NewStartupError("parse database uri", err)
	}

	neo4jDriver, err := driver.NewNeo4jDriver(info.URI, info.Username, info.Password, cfg.Database.Database)
	if err != nil {
		return nil, types.NewStartupError("connect to neo4j", err)
	}

	var graphDriver driver.GraphDriver = neo4jDriver
	if cfg.CircuitBreaker.Enabled {
		graphDriver = driver.NewBreakerDriver(neo4jDriver, cfg.CircuitBreaker, logger)
	}

	logger.Info("Graph store configured", "uri", info.URI, "database", cfg.Database.Database)
	return bubbles.NewClient(graphDriver, logger), nil
}

// cliContext tags calls made from the command line.
func cliContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, types.ContextKeyRequestSource, "cli")
}
