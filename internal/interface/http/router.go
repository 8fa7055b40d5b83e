package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/marcus-medeiros/analise-bess/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		errorHandlingMiddleware(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/profiles", handler.Profiles)
		api.POST("/load-curves", handler.BuildLoadCurve)
		api.GET("/regions", handler.Regions)
		api.GET("/regions/:state", handler.Region)
		api.POST("/analyses", handler.Analyze)
		api.POST("/viability", handler.Viability)
		api.GET("/stats/states", handler.TrendingStates)

		scenarios := api.Group("/scenarios")
		scenarios.POST("", handler.CreateScenario)
		scenarios.GET("", handler.ListScenarios)
		scenarios.GET("/:id", handler.GetScenario)
		scenarios.POST("/:id/analysis", handler.AnalyzeScenario)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, handler.logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
