package http

import (
	"github.com/gin-gonic/gin"

	"aperture/internal/api/health"
	"aperture/internal/metrics"
)

// NewRouter builds the gin engine with API, health, and metrics routes.
func NewRouter(service *Service, healthHandler *health.Handler, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	service.Register(router.Group("/api/v1"))

	router.GET("/healthz", gin.WrapF(healthHandler.HandleLiveness))
	router.GET("/readyz", gin.WrapF(healthHandler.HandleReadiness))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return router
}
