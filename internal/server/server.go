package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	healthCheckTimeout = 2 * time.Second
	shutdownTimeout    = 5 * time.Second
)

// HealthChecker is an interface for components that can report their health status.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Options tunes the engine. Zero RateLimitRPS disables rate limiting.
type Options struct {
	Mode           string
	RateLimitRPS   float64
	RateLimitBurst int
}

type Server struct {
	Engine *gin.Engine
	Addr   string
	health HealthChecker
}

func New(addr string, health HealthChecker, opts Options) *Server {
	// Set Gin mode based on configuration
	if opts.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog())
	if opts.RateLimitRPS > 0 {
		r.Use(RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))
	}

	s := &Server{
		Engine: r,
		Addr:   addr,
		health: health,
	}

	// Health check endpoint with store connectivity verification
	r.GET("/health", s.healthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s
}

func (s *Server) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if s.health != nil {
		if err := s.health.Ping(ctx); err != nil {
			slog.Error("[Server] Health check failed: store unreachable", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "store unreachable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"store":  "connected",
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("[Server] Starting HTTP server", "address", s.Addr)

	go func() {
		<-ctx.Done()
		slog.Info("[Server] Stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("[Server] HTTP server forced to shutdown", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
