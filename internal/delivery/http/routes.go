package http

import (
	"github.com/basketlens/backend/config"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log logrus.FieldLogger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestLogger(log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		cart := v1.Group("/cart")
		{
			cart.POST("/discover", handler.Discover)
			cart.GET("/runs/:id", handler.GetRun)
		}

		v1.POST("/recipes/:id/cart", handler.DiscoverRecipe)
	}

	return router
}
