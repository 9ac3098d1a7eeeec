// Package health serves the liveness endpoint.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/promptstash/promptstash/internal/database/database"
)

// pingTimeout bounds the database ping inside one health request.
const pingTimeout = 5 * time.Second

// Handler answers GET /health.
type Handler struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a health handler.
func New(db *gorm.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{db: db, logger: logger}
}

// Response is the health endpoint body.
type Response struct {
	Status string `json:"status"`
}

// Check reports ok while the database answers pings, unhealthy with a 503
// otherwise.
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	if err := database.HealthCheck(ctx, h.db); err != nil {
		h.logger.Warnw("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, Response{Status: "unhealthy"})
		return
	}

	c.JSON(http.StatusOK, Response{Status: "ok"})
}
