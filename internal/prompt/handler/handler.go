// Package handler provides HTTP handlers for prompt endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/promptstash/promptstash/internal/access"
	"github.com/promptstash/promptstash/internal/middleware"
	promptModel "github.com/promptstash/promptstash/internal/prompt/model"
	"github.com/promptstash/promptstash/internal/prompt/service"
)

// Handler handles HTTP requests for prompt endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new prompt handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Create handles POST /prompts.
func (h *Handler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	var req promptModel.CreatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	prompt, err := h.service.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.respondError(c, err, "error creating prompt")
		return
	}

	c.JSON(http.StatusCreated, prompt)
}

// Get handles GET /prompts/:id.
func (h *Handler) Get(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	prompt, err := h.service.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "error getting prompt")
		return
	}

	c.JSON(http.StatusOK, prompt)
}

// List handles GET /prompts.
func (h *Handler) List(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	prompts, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, err, "error listing prompts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"prompts": prompts})
}

// Update handles PUT /prompts/:id.
func (h *Handler) Update(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	var req promptModel.UpdatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	prompt, err := h.service.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		h.respondError(c, err, "error updating prompt")
		return
	}

	c.JSON(http.StatusOK, prompt)
}

// Delete handles DELETE /prompts/:id.
func (h *Handler) Delete(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.respondError(c, err, "error deleting prompt")
		return
	}

	c.Status(http.StatusNoContent)
}

// Fork handles POST /prompts/:id/fork.
func (h *Handler) Fork(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	fork, err := h.service.Fork(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "error forking prompt")
		return
	}

	c.JSON(http.StatusCreated, fork)
}

// ToggleFavorite handles POST /prompts/:id/favorite.
func (h *Handler) ToggleFavorite(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	resp, err := h.service.ToggleFavorite(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "error toggling favorite")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// IncrementCopy handles POST /prompts/:id/copy.
func (h *Handler) IncrementCopy(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	prompt, err := h.service.IncrementCopy(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "error incrementing copy count")
		return
	}

	c.JSON(http.StatusOK, prompt)
}

// respondError maps service errors to HTTP responses.
func (h *Handler) respondError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, promptModel.ErrPromptNotFound):
		notFoundResponse(c, "prompt not found")
	case errors.Is(err, access.ErrForbidden):
		errorResponse(c, "FORBIDDEN", "operation not permitted", http.StatusForbidden)
	case errors.Is(err, access.ErrPrivateTeamResource):
		errorResponse(c, "INVALID_REQUEST", "team prompt cannot be private", http.StatusBadRequest)
	case errors.Is(err, access.ErrInvalidVisibility):
		errorResponse(c, "INVALID_REQUEST", "visibility must be PRIVATE, TEAM or PUBLIC", http.StatusBadRequest)
	case errors.Is(err, promptModel.ErrInvalidTitle):
		errorResponse(c, "INVALID_REQUEST", "title must be between 1 and 255 characters", http.StatusBadRequest)
	case errors.Is(err, promptModel.ErrNotTeamMember):
		errorResponse(c, "FORBIDDEN", "actor is not a member of the target team", http.StatusForbidden)
	default:
		h.logger.Errorw(logMsg, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
	}
}
