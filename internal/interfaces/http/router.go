// Package http wires the gin router and server of the netmodel API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/netmodel/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/netmodel/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/netmodel/internal/interfaces/http/handlers"
	"github.com/turtacn/netmodel/internal/interfaces/http/middleware"
	"github.com/turtacn/netmodel/pkg/errors"
)

// RouterConfig collects the handlers and infrastructure of the router.
type RouterConfig struct {
	// Handlers
	ReactionHandler *handlers.ReactionHandler
	ModelHandler    *handlers.ModelHandler
	HealthHandler   *handlers.HealthHandler

	// Middleware
	Logging     middleware.LoggingConfig
	MaxBodySize int64

	// Infrastructure
	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
}

// NewRouter builds the gin engine: global middleware, public health and
// metrics endpoints, and the /api/v1 group.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = prometheus.NewNoopAppMetrics()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger, cfg.Logging))
	r.Use(middleware.Metrics(cfg.Metrics))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{Code: string(errors.ErrCodeNotFound), Message: "route not found"})
	})

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(r)
	}

	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	api := r.Group("/api/v1", middleware.BodyLimit(cfg.MaxBodySize))
	if cfg.ReactionHandler != nil {
		cfg.ReactionHandler.RegisterRoutes(api)
	}
	if cfg.ModelHandler != nil {
		cfg.ModelHandler.RegisterRoutes(api)
	}

	return r
}
