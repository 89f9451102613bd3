// router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mehmetNetAx/papirai-sub001/controller"
	"github.com/mehmetNetAx/papirai-sub001/middleware"
)

func SetupRouter(
	controllers *controller.Controllers,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))

	api := router.Group("/api/v1")

	controllers.Integration.RegisterRoutes(api)
	controllers.Sync.RegisterRoutes(api)
	controllers.MasterVariable.RegisterRoutes(api)
	controllers.Compliance.RegisterRoutes(api)

	return router
}
