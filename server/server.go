// Package server wires the HTTP API around the reconciliation pipeline.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"planact/internal/config"
	"planact/normalization"
	"planact/pipeline"
	"planact/server/handlers"
	"planact/server/middleware"

	apperrors "planact/server/errors"
)

// Server is the report HTTP server.
type Server struct {
	config   *config.Config
	logger   *slog.Logger
	pipeline *pipeline.Pipeline

	handlerOnce sync.Once
	httpHandler http.Handler

	mu         sync.Mutex
	httpServer *http.Server
}

// NewServer creates a server for cfg. A nil logger uses Logger.
func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = Logger
	}
	p := pipeline.New(pipeline.Options{
		Normalization: normalization.Options{
			TeamLabel:        cfg.TeamLabel,
			PlanFixedColumns: cfg.PlanFixedColumns,
		},
		Logger:   logger,
		Observer: pipeline.LogObserver{Logger: logger},
	})
	return &Server{config: cfg, logger: logger, pipeline: p}
}

// Handler returns the router, building it on first use.
func (s *Server) Handler() http.Handler {
	s.handlerOnce.Do(func() {
		s.httpHandler = s.buildRouter()
	})
	return s.httpHandler
}

func (s *Server) buildRouter() *gin.Engine {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.GinRequestIDMiddleware())
	router.Use(middleware.GinRecoveryMiddleware(s.logger))
	router.Use(middleware.GinLoggerMiddleware(s.logger))
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.GinGzipMiddleware())

	reports := handlers.NewReportHandler(s.pipeline, handlers.ReportConfig{
		MaxUploadBytes: s.config.MaxUploadBytes,
		PreviewRows:    s.config.PreviewRows,
		SheetName:      s.config.ReportSheetName,
		FileName:       s.config.ReportFileName,
	}, s.logger)

	router.GET("/health", reports.HandleHealth)
	handlers.RegisterSwaggerRoutes(router, "localhost"+s.config.Addr())

	api := router.Group("/api")
	{
		api.GET("/errors/metrics", handlers.NewErrorMetricsHandler().GetErrorMetrics)

		rg := api.Group("/reports",
			middleware.GinRateLimitMiddleware(s.config.RateLimitPerSec, s.config.RateLimitBurst),
			middleware.GinBodyLimitMiddleware(s.config.MaxUploadBytes),
		)
		rg.POST("/preview", reports.HandlePreview)
		rg.POST("/export", reports.HandleExport)
		rg.POST("/crosstab/export", reports.HandleCrossTabExport)
	}

	router.NoRoute(func(c *gin.Context) {
		middleware.GinHandleError(c, apperrors.NewNotFoundError(
			fmt.Sprintf("No route for %s %s", c.Request.Method, c.Request.URL.Path), nil))
	})

	return router
}

// Start listens on the configured port and blocks until the server stops.
// It returns nil after a graceful Shutdown.
func (s *Server) Start() error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.Handler(),
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("server starting", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx
// expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	s.logger.Info("graceful shutdown started")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("graceful shutdown completed")
	return nil
}
