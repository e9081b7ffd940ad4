package http

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/visitorpass/internal/interfaces/http/middleware"
	"github.com/orris-inc/visitorpass/internal/interfaces/http/routes"
)

// SetupRoutes installs the global middleware chain and every route group.
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Logger(c.log.Named("http")))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.SecurityHeaders())

	c.engine.GET("/health", c.healthHandler.Health)
	c.engine.GET("/version", c.healthHandler.Version)

	routes.SetupVisitorRoutes(c.engine, &routes.VisitorRouteConfig{
		Handler:        c.visitorHandler,
		AuthMiddleware: c.authMiddleware,
		SubmitLimiter:  c.submitLimiter,
	})
}

func (c *Container) GetEngine() *gin.Engine {
	return c.engine
}

// StartScheduler begins the periodic expiry sweep.
func (c *Container) StartScheduler() {
	c.schedulerManager.Start()
}
