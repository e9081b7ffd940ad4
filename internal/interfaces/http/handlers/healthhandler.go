package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/orris-inc/visitorpass/internal/shared/version"
)

const healthPingTimeout = 2 * time.Second

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health handles GET /health. It reports unhealthy when the database does not
// answer a ping.
func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status":  "healthy",
		"service": "visitorpass",
	}

	if err := h.pingDB(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "unhealthy"
		body["database"] = err.Error()
	}

	c.JSON(status, body)
}

// Version handles GET /version
func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, version.Current())
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
