package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/lab-interpretation-server/internal/config"
	"github.com/lab-interpretation-server/internal/mcp"
	"github.com/lab-interpretation-server/internal/registry"
	"github.com/lab-interpretation-server/internal/service"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()

	// Stdout carries the MCP protocol, so logs go to stderr.
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}

	reg, err := registry.New(logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load test registry")
	}

	interpreter := service.NewInterpreterService(logger, reg, cfg.Interpretation.MinSupportedAge)
	converter := service.NewConverterService(logger, reg)
	batch := service.NewBatchService(logger, reg, interpreter, converter)

	server := mcp.NewServer(logger, reg, batch, converter)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down MCP server...")
		cancel()
	}()

	if err := server.Run(ctx); err != nil {
		logger.WithError(err).Fatal("MCP server failed")
	}

	logger.Info("MCP server stopped")
}
