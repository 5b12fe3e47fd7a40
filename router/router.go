package router

import (
	controllers "intechdl/controller"
	"intechdl/services"

	"github.com/gin-gonic/gin"
)

// Dependencies are the services the HTTP handlers are wired to.
type Dependencies struct {
	Dispatcher *services.Dispatcher
	Prober     services.Prober
	RateLimit  RateLimitConfig
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())

	r.GET("/healthz", controllers.HealthHandler)
	r.GET("/ws/:request_id", controllers.WebSocketHandler)

	api := r.Group("/api")
	api.GET("/platforms", controllers.PlatformSupportHandler(deps.Dispatcher.OutputDir()))
	api.GET("/progress/:request_id", controllers.SSEHandler)

	limited := api.Group("", RateLimit(deps.RateLimit))
	limited.POST("/download/", controllers.DownloadHandler(deps.Dispatcher))
	if deps.Prober != nil {
		limited.POST("/info", controllers.InfoHandler(deps.Prober))
	}

	return r
}
