package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/lab-interpretation-server/internal/api"
	"github.com/lab-interpretation-server/internal/audit"
	"github.com/lab-interpretation-server/internal/cache"
	"github.com/lab-interpretation-server/internal/config"
	"github.com/lab-interpretation-server/internal/database"
	"github.com/lab-interpretation-server/internal/domain"
	"github.com/lab-interpretation-server/internal/registry"
	"github.com/lab-interpretation-server/internal/repository"
	"github.com/lab-interpretation-server/internal/service"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := newLogger(cfg.Logging)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Test registry and engine
	reg, err := registry.New(logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load test registry")
	}

	interpreter := service.NewInterpreterService(logger, reg, cfg.Interpretation.MinSupportedAge)
	converter := service.NewConverterService(logger, reg)
	batch := service.NewBatchService(logger, reg, interpreter, converter)

	deps := api.Deps{
		Registry:  reg,
		Batch:     batch,
		Converter: converter,
	}

	// Optional interpretation history (PostgreSQL)
	if cfg.Database.Enabled {
		runner, err := database.NewMigrationRunner(database.URL(cfg.Database), cfg.Database.MigrationsPath, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create migration runner")
		}
		if err := runner.Up(); err != nil {
			logger.WithError(err).Fatal("Failed to run migrations")
		}
		runner.Close()

		db, err := database.NewConnection(ctx, cfg.Database, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()

		deps.History = repository.NewHistoryRepository(db.Pool, logger)
	}

	// Audit trail
	auditStore, err := newAuditStore(cfg.Audit)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open audit store")
	}
	if auditStore != nil {
		defer auditStore.Close()
		deps.Audit = auditStore
	}

	// Response cache
	if cfg.Cache.Enabled {
		responseCache, err := cache.New(cfg.Cache, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create response cache")
		}
		defer responseCache.Close()
		deps.Cache = responseCache
	}

	logger.WithFields(logrus.Fields{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Starting Lab Interpretation Server")

	server := api.NewServer(*cfg, logger, deps)
	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

// newLogger builds the process logger from configuration.
func newLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

// newAuditStore opens the configured audit backend, or none.
func newAuditStore(cfg domain.AuditConfig) (audit.Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return audit.NewSQLiteStore(cfg.SQLitePath)
	case "postgres":
		return audit.NewPostgresStoreFromURL(cfg.PostgresURL)
	default:
		return nil, nil
	}
}
