// Package handler provides HTTP handlers for invite endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/promptstash/promptstash/internal/access"
	inviteModel "github.com/promptstash/promptstash/internal/invite/model"
	"github.com/promptstash/promptstash/internal/invite/service"
	"github.com/promptstash/promptstash/internal/middleware"
)

// Handler handles HTTP requests for invite endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new invite handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// CreateInvite handles POST /invites.
func (h *Handler) CreateInvite(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	var req inviteModel.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	invite, err := h.service.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.respondError(c, err, "error creating invite")
		return
	}

	c.JSON(http.StatusCreated, invite)
}

// ListInvites handles GET /invites.
func (h *Handler) ListInvites(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	invites, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, err, "error listing invites")
		return
	}

	c.JSON(http.StatusOK, invites)
}

// ValidateInvite handles GET /invites/:token.
func (h *Handler) ValidateInvite(c *gin.Context) {
	resp, err := h.service.Validate(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.respondError(c, err, "error validating invite")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req inviteModel.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, "error registering")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// RevokeInvite handles DELETE /invites/:id.
func (h *Handler) RevokeInvite(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	if err := h.service.Revoke(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.respondError(c, err, "error revoking invite")
		return
	}

	c.Status(http.StatusNoContent)
}

// respondError maps service errors to HTTP responses.
func (h *Handler) respondError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, inviteModel.ErrInviteInvalid):
		notFoundResponse(c, "invalid invite token")
	case errors.Is(err, inviteModel.ErrInviteNotFound):
		notFoundResponse(c, "invite not found")
	case errors.Is(err, access.ErrForbidden):
		errorResponse(c, "FORBIDDEN", "operation not permitted", http.StatusForbidden)
	case errors.Is(err, inviteModel.ErrInviteUsed):
		errorResponse(c, "INVITE_USED", "invite already used", http.StatusConflict)
	case errors.Is(err, inviteModel.ErrInviteExpired):
		errorResponse(c, "INVITE_EXPIRED", "invite expired", http.StatusConflict)
	case errors.Is(err, inviteModel.ErrEmailExists):
		errorResponse(c, "EMAIL_EXISTS", "email already registered", http.StatusConflict)
	case errors.Is(err, inviteModel.ErrEmailMismatch):
		errorResponse(c, "EMAIL_MISMATCH", "email does not match invite", http.StatusBadRequest)
	case errors.Is(err, inviteModel.ErrInvalidEmail):
		errorResponse(c, "INVALID_REQUEST", "email is required", http.StatusBadRequest)
	case errors.Is(err, inviteModel.ErrInvalidRole):
		errorResponse(c, "INVALID_REQUEST", "role must be USER or SUPER_ADMIN", http.StatusBadRequest)
	default:
		h.logger.Errorw(logMsg, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
	}
}
