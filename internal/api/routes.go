package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hyunhan-cho/LT-GDG/internal/server"
)

// RouteConfig configures the public routes.
type RouteConfig struct {
	Server       server.Config
	Started      time.Time
	Metrics      http.Handler
	HealthChecks map[string]server.HealthChecker
}

// SetupRoutes registers health, metrics and the /api/v1 group. The group is
// JWT protected when cfg.Server.JWTSecret is set.
func SetupRoutes(router *gin.Engine, handler *Handler, cfg RouteConfig) {
	server.RegisterHealthRoutes(router, cfg.Server, cfg.Started, cfg.HealthChecks)
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	v1 := router.Group("/api/v1")
	if cfg.Server.JWTSecret != "" {
		v1.Use(server.JWTMiddleware(cfg.Server.JWTSecret))
	}

	v1.POST("/analyze", handler.Analyze)                     // POST /api/v1/analyze
	v1.POST("/analyze/batch", handler.AnalyzeBatch)          // POST /api/v1/analyze/batch
	v1.POST("/compliance/check", handler.CheckCompliance)    // POST /api/v1/compliance/check
	v1.POST("/profanity/check", handler.CheckProfanity)      // POST /api/v1/profanity/check
	v1.GET("/alerts", handler.ListAlerts)                    // GET /api/v1/alerts
	v1.GET("/sessions", handler.ListSessions)                // GET /api/v1/sessions
	v1.GET("/sessions/high-risk", handler.ListHighRiskTurns) // GET /api/v1/sessions/high-risk
	v1.GET("/sessions/:id/turns", handler.GetSessionTurns)   // GET /api/v1/sessions/:id/turns
}
