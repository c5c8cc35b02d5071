// Package server provides HTTP server lifecycle management.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/formward/formward/internal/core/api"
	"github.com/formward/formward/internal/core/config"
)

// HTTPServer manages the gin server lifecycle.
type HTTPServer struct {
	server *http.Server
	config *config.Config
}

// NewHTTPServer builds the router and wires the API surfaces.
func NewHTTPServer(cfg *config.Config, endpoints *api.HttpEndpoints) (*HTTPServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if endpoints == nil {
		return nil, fmt.Errorf("endpoints cannot be nil")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.Static("/uploads", cfg.Server.UploadDir)

	v1 := router.Group("/v1")
	endpoints.AddPublicAPI(v1)
	endpoints.AddAdminAPI(v1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.RequestTimeout,
		WriteTimeout: cfg.Server.RequestTimeout,
	}

	return &HTTPServer{server: srv, config: cfg}, nil
}

// Start serves HTTP requests. Blocks until Shutdown is called.
func (s *HTTPServer) Start(ctx context.Context) error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve on %s: %w", s.server.Addr, err)
	}
	return nil
}

// Shutdown stops the server, draining in-flight requests until the
// configured shutdown timeout, then forces the close.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.server.Close()
		return fmt.Errorf("graceful shutdown failed, forced stop: %w", err)
	}
	return nil
}
