package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vondralink/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		search := v1.Group("/search")
		{
			search.POST("", handler.Search)
			search.POST("/analyze", handler.Analyze)
		}

		recommendations := v1.Group("/recommendations")
		{
			recommendations.POST("", handler.Recommendations)
			recommendations.POST("/personalized", handler.PersonalizedRecommendations)
		}

		activity := v1.Group("/activity")
		{
			activity.POST("/search", handler.RecordSearch)
			activity.POST("/views", handler.RecordViews)
			activity.GET("/:userId", handler.GetActivity)
			activity.DELETE("/:userId", handler.ClearActivity)
		}
	}

	return router
}
