// Package api exposes the interpretation engine over HTTP: the interpret
// and convert operations, the supported-test listing, stored-interpretation
// retrieval, and a websocket stream of critical alerts.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lab-interpretation-server/internal/audit"
	"github.com/lab-interpretation-server/internal/cache"
	"github.com/lab-interpretation-server/internal/domain"
	"github.com/lab-interpretation-server/internal/middleware"
	"github.com/lab-interpretation-server/internal/repository"
	"github.com/lab-interpretation-server/internal/service"
)

// Deps carries the server's collaborators. Cache, Audit, and History are
// optional: a nil field disables that concern without changing behavior
// elsewhere.
type Deps struct {
	Registry  domain.TestRegistry
	Batch     *service.BatchService
	Converter *service.ConverterService
	Cache     *cache.ResponseCache
	Audit     audit.Store
	History   *repository.HistoryRepository
}

// Server represents the HTTP server
type Server struct {
	config domain.Config
	logger *logrus.Logger
	router *gin.Engine
	server *http.Server
	deps   Deps
	alerts *AlertHub
}

// NewServer creates a new HTTP server instance
func NewServer(config domain.Config, logger *logrus.Logger, deps Deps) *Server {
	// Set Gin mode based on environment
	if config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.AuditLogger())
	router.Use(corsMiddleware())
	if config.Server.RequestTimeout > 0 {
		router.Use(middleware.RequestTimeout(config.Server.RequestTimeout))
	}
	if config.Server.RateLimitPerSec > 0 {
		limiter := middleware.NewRateLimiter(config.Server.RateLimitPerSec, config.Server.RateLimitBurst)
		router.Use(limiter.Middleware())
	}

	server := &Server{
		config: config,
		logger: logger,
		router: router,
		deps:   deps,
		alerts: NewAlertHub(logger),
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// Start starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.alerts.Close()
	return s.server.Shutdown(shutdownCtx)
}

// Router exposes the configured handler, used by httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/tests", s.handleListTests)
		v1.POST("/interpret", s.handleInterpret)
		v1.POST("/convert", s.handleConvert)
		v1.GET("/interpretations/:id", s.handleGetInterpretation)
		v1.GET("/alerts/stream", s.alerts.Handle)
	}
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-Correlation-ID")
		c.Header("Access-Control-Expose-Headers", "Content-Length, X-Correlation-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
