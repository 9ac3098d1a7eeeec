// Package handler provides HTTP handlers for collection endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/promptstash/promptstash/internal/access"
	collectionModel "github.com/promptstash/promptstash/internal/collection/model"
	"github.com/promptstash/promptstash/internal/collection/service"
	"github.com/promptstash/promptstash/internal/middleware"
)

// Handler handles HTTP requests for collection endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new collection handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Create handles POST /collections.
func (h *Handler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	var req collectionModel.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.respondError(c, err, "error creating collection")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Get handles GET /collections/:id.
func (h *Handler) Get(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	resp, err := h.service.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "error getting collection")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// List handles GET /collections.
func (h *Handler) List(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	collections, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, err, "error listing collections")
		return
	}

	c.JSON(http.StatusOK, gin.H{"collections": collections})
}

// Update handles PUT /collections/:id.
func (h *Handler) Update(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	var req collectionModel.UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		h.respondError(c, err, "error updating collection")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /collections/:id.
func (h *Handler) Delete(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.respondError(c, err, "error deleting collection")
		return
	}

	c.Status(http.StatusNoContent)
}

// AddItem handles POST /collections/:id/items.
func (h *Handler) AddItem(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	var req collectionModel.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.AddItem(c.Request.Context(), actor, c.Param("id"), req.PromptID); err != nil {
		h.respondError(c, err, "error adding collection item")
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveItem handles DELETE /collections/:id/items/:promptId.
func (h *Handler) RemoveItem(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	if err := h.service.RemoveItem(c.Request.Context(), actor, c.Param("id"), c.Param("promptId")); err != nil {
		h.respondError(c, err, "error removing collection item")
		return
	}

	c.Status(http.StatusNoContent)
}

// respondError maps service errors to HTTP responses.
func (h *Handler) respondError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, collectionModel.ErrCollectionNotFound):
		notFoundResponse(c, "collection not found")
	case errors.Is(err, collectionModel.ErrPromptNotFound):
		notFoundResponse(c, "prompt not found")
	case errors.Is(err, collectionModel.ErrEntryNotFound):
		notFoundResponse(c, "collection entry not found")
	case errors.Is(err, access.ErrForbidden):
		errorResponse(c, "FORBIDDEN", "operation not permitted", http.StatusForbidden)
	case errors.Is(err, collectionModel.ErrNotTeamMember):
		errorResponse(c, "FORBIDDEN", "actor is not a member of the target team", http.StatusForbidden)
	case errors.Is(err, collectionModel.ErrDuplicateEntry):
		errorResponse(c, "DUPLICATE_ENTRY", "prompt already in collection", http.StatusConflict)
	case errors.Is(err, access.ErrPrivateTeamResource):
		errorResponse(c, "INVALID_REQUEST", "team collection cannot be private", http.StatusBadRequest)
	case errors.Is(err, access.ErrInvalidVisibility):
		errorResponse(c, "INVALID_REQUEST", "visibility must be PRIVATE, TEAM or PUBLIC", http.StatusBadRequest)
	case errors.Is(err, collectionModel.ErrTeamRequired):
		errorResponse(c, "INVALID_REQUEST", "team collection requires a team", http.StatusBadRequest)
	case errors.Is(err, collectionModel.ErrInvalidName):
		errorResponse(c, "INVALID_REQUEST", "name must be between 1 and 255 characters", http.StatusBadRequest)
	default:
		h.logger.Errorw(logMsg, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
	}
}
