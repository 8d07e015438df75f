package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/skinfridge/fridge/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(NewIPRateLimiter(cfg.RateLimit.PerIP)))
	{
		fridge := v1.Group("/fridge")
		{
			fridge.GET("", handler.GetFridge)
			fridge.POST("/refresh", handler.Refresh)

			fridge.PUT("/day", handler.SetDay)
			fridge.POST("/day/toggle", handler.ToggleDay)

			fridge.PUT("/theme", handler.SetTheme)
			fridge.POST("/theme/toggle", handler.ToggleTheme)

			fridge.POST("/panels/:panel", handler.OpenPanel)
			fridge.DELETE("/panels/:panel", handler.ClosePanel)

			fridge.POST("/search", handler.Search)
			fridge.POST("/search/input", handler.SearchInputChanged)

			fridge.POST("/products", handler.AddProduct)
			fridge.DELETE("/products/:id", handler.DeleteProduct)
		}

		v1.POST("/onboarding", handler.Onboard)
	}

	return router
}
