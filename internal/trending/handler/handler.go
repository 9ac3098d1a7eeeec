// Package handler provides HTTP handlers for trending endpoints.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/promptstash/promptstash/internal/trending/service"
)

// Handler handles HTTP requests for trending endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new trending handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// MostFavorited handles GET /trending/most-favorited.
func (h *Handler) MostFavorited(c *gin.Context) {
	resp, err := h.service.MostFavorited(c.Request.Context(), queryInt(c, "window_days"), queryInt(c, "limit"))
	if err != nil {
		h.logger.Errorw("error getting most favorited", "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FastRising handles GET /trending/fast-rising.
func (h *Handler) FastRising(c *gin.Context) {
	resp, err := h.service.FastRising(c.Request.Context(), queryInt(c, "window_days"), queryInt(c, "limit"))
	if err != nil {
		h.logger.Errorw("error getting fast rising", "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Newest handles GET /trending/newest.
func (h *Handler) Newest(c *gin.Context) {
	resp, err := h.service.Newest(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		h.logger.Errorw("error getting newest", "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Overview handles GET /trending/overview.
func (h *Handler) Overview(c *gin.Context) {
	resp, err := h.service.Overview(c.Request.Context())
	if err != nil {
		h.logger.Errorw("error getting overview", "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// queryInt parses an integer query parameter, returning 0 when absent or
// malformed so the service applies its defaults.
func queryInt(c *gin.Context, name string) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return value
}
