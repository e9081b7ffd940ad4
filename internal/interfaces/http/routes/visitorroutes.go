package routes

import (
	"github.com/gin-gonic/gin"

	visitorhandlers "github.com/orris-inc/visitorpass/internal/interfaces/http/handlers/visitor"
	"github.com/orris-inc/visitorpass/internal/interfaces/http/middleware"
)

type VisitorRouteConfig struct {
	Handler        *visitorhandlers.Handler
	AuthMiddleware *middleware.AuthMiddleware
	SubmitLimiter  *middleware.RateLimiter
}

// SetupVisitorRoutes registers the visitor request endpoints. Capability checks
// happen in the use cases, the routes only require an authenticated caller.
func SetupVisitorRoutes(engine *gin.Engine, config *VisitorRouteConfig) {
	requests := engine.Group("/visitor-requests")
	requests.Use(config.AuthMiddleware.RequireAuth())
	{
		requests.POST("",
			config.SubmitLimiter.Limit(),
			config.Handler.Create)
		requests.GET("",
			config.Handler.List)

		// static segment before /:id
		requests.GET("/approval/:code",
			config.Handler.LookupByApprovalCode)

		requests.POST("/:id/review",
			config.Handler.Review)
		requests.POST("/:id/check-in",
			config.Handler.CheckIn)
		requests.POST("/:id/check-out",
			config.Handler.CheckOut)

		requests.GET("/:id",
			config.Handler.Get)
	}
}
