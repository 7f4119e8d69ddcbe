package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/simple-nfs/internal/api/middleware"
	"github.com/GriffinCanCode/simple-nfs/internal/infrastructure/config"
)

// shutdownTimeout bounds the graceful stop of the admin listener.
const shutdownTimeout = 5 * time.Second

// NewRouter builds the admin router. It never exposes file operations.
func NewRouter(cfg config.AdminConfig, h *Handlers, logger *zap.Logger, development bool) *gin.Engine {
	if !development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	cors := middleware.DefaultCORSConfig()
	if len(cfg.CORSOrigins) > 0 {
		cors.AllowOrigins = cfg.CORSOrigins
	}
	router.Use(middleware.CORS(cors))

	limit := middleware.DefaultRateLimitConfig()
	if cfg.RequestsPerSecond > 0 {
		limit.RequestsPerSecond = cfg.RequestsPerSecond
	}
	if cfg.Burst > 0 {
		limit.Burst = cfg.Burst
	}
	router.Use(middleware.RateLimit(limit))

	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	router.GET("/metrics/json", h.MetricsJSON)

	return router
}

// Serve runs the admin endpoint on addr until ctx is done, then shuts it
// down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Admin endpoint listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Admin endpoint stopped")
	return nil
}
