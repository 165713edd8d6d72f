package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neo/passwordanalyzer/internal/logging"
)

type Server struct {
	router       *gin.Engine
	featureFlags *FeatureFlagManager
}

// NewServer creates the HTTP server with the form, API and WebSocket routes.
// A nil config is treated as production.
func NewServer(config *Config, featureFlags *FeatureFlagManager) *Server {
	development := config != nil && config.IsDevelopment()

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(development))
	router.Use(LoggingMiddleware())
	router.Use(SecurityHeadersMiddleware())
	router.Use(ErrorHandler(development))
	router.SetHTMLTemplate(loadTemplates())

	server := &Server{
		router:       router,
		featureFlags: featureFlags,
	}

	router.GET("/", server.handleIndex)
	router.POST("/analyze", server.handleAnalyzeForm)
	router.GET("/health", server.handleHealth)

	router.POST("/api/analyze",
		server.requireFlag(func(f FeatureFlags) bool { return f.EnableJSONAPI }),
		server.handleAnalyzeAPI)
	router.GET("/ws/analyze",
		server.requireFlag(func(f FeatureFlags) bool { return f.EnableLiveAnalysis }),
		server.handleLiveAnalysis)

	server.setupFeatureFlagRoutes()

	return server
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains connections for up to shutdownTimeout
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logging.Info("Starting HTTP server", map[string]interface{}{"addr": addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info("Shutting down", map[string]interface{}{"timeout": shutdownTimeout.String()})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logging.Info("Shutdown completed gracefully")
	return nil
}
