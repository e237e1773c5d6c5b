// Package httpapi exposes the planner over HTTP with gin.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rcliao/field-planner/internal/planner"
)

// Handlers serves the planner endpoints.
type Handlers struct {
	Planner *planner.Planner
	Logger  *zap.Logger
}

// NewRouter builds the engine with middleware and every route registered.
// gatherer serves /metrics; nil uses the default registry.
func NewRouter(h *Handlers, gatherer prometheus.Gatherer) *gin.Engine {
	if h.Logger == nil {
		h.Logger = zap.NewNop()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logger(h.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		api.GET("/schedule", h.Schedule)
		api.GET("/schedule/senior", h.Senior)

		api.POST("/recommend", h.Recommend)
		api.GET("/recommend/cooldown", h.Cooldown)

		api.POST("/entries/:id/verify", h.Verify)
		api.POST("/entries/:id/start", h.Start)
		api.POST("/entries/:id/skip", h.Skip)

		api.POST("/manual", h.AddManual)
		api.PUT("/manual/:id", h.UpdateManual)
		api.DELETE("/manual/:id", h.RemoveManual)
		api.DELETE("/manual", h.ClearManual)

		api.GET("/stats", h.Stats)

		api.GET("/notifications", h.Notifications)
		api.POST("/notifications/read-all", h.MarkAllRead)
		api.POST("/notifications/:id/read", h.MarkRead)

		api.GET("/settings", h.Settings)
		api.PUT("/settings", h.UpdateSettings)
	}
	return r
}
