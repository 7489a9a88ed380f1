package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plantid/backend/config"
)

// SetupRouter creates and configures the Gin router.
// metrics may be nil, in which case no metrics route is registered.
func SetupRouter(cfg *config.Config, handler *Handler, metrics http.Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if cfg.Server.MaxUploadMB > 0 {
		router.MaxMultipartMemory = cfg.Server.MaxUploadMB << 20
	}

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// Upload page
	router.GET("/", handler.Index)
	router.POST("/", handler.SubmitPage)

	// Legacy path kept for existing web clients
	router.POST("/api/gemini", handler.IdentifyPlant)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		plants := v1.Group("/plants")
		{
			plants.POST("/identify", handler.IdentifyPlant)
		}
	}

	if metrics != nil && cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(metrics))
	}

	return router
}
