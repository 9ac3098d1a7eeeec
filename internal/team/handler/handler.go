// Package handler provides HTTP handlers for team endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/promptstash/promptstash/internal/access"
	"github.com/promptstash/promptstash/internal/middleware"
	teamModel "github.com/promptstash/promptstash/internal/team/model"
	"github.com/promptstash/promptstash/internal/team/service"
)

// Handler handles HTTP requests for team endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new team handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// CreateTeam handles POST /teams.
func (h *Handler) CreateTeam(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	var req teamModel.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.CreateTeam(c.Request.Context(), actor, &req)
	if err != nil {
		h.respondError(c, err, "error creating team")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetTeam handles GET /teams/:id.
func (h *Handler) GetTeam(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	resp, err := h.service.GetTeam(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "error getting team")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListMyTeams handles GET /teams.
func (h *Handler) ListMyTeams(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	teams, err := h.service.ListMyTeams(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, err, "error listing teams")
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// AddMember handles POST /teams/:id/members.
func (h *Handler) AddMember(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	var req teamModel.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.AddMember(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		h.respondError(c, err, "error adding member")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// RemoveMember handles DELETE /teams/:id/members/:userId.
func (h *Handler) RemoveMember(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	err := h.service.RemoveMember(c.Request.Context(), actor, c.Param("id"), c.Param("userId"))
	if err != nil {
		h.respondError(c, err, "error removing member")
		return
	}

	c.Status(http.StatusNoContent)
}

// ChangeMemberRole handles PUT /teams/:id/members/:userId.
func (h *Handler) ChangeMemberRole(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	var req teamModel.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.ChangeMemberRole(c.Request.Context(), actor, c.Param("id"), c.Param("userId"), req.Role)
	if err != nil {
		h.respondError(c, err, "error changing member role")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// AssignAdmin handles POST /teams/:id/admins/:userId.
func (h *Handler) AssignAdmin(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	resp, err := h.service.AssignAdmin(c.Request.Context(), actor, c.Param("id"), c.Param("userId"))
	if err != nil {
		h.respondError(c, err, "error assigning admin")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DemoteAdmin handles DELETE /teams/:id/admins/:userId.
func (h *Handler) DemoteAdmin(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	resp, err := h.service.DemoteAdmin(c.Request.Context(), actor, c.Param("id"), c.Param("userId"))
	if err != nil {
		h.respondError(c, err, "error demoting admin")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteTeam handles DELETE /teams/:id.
func (h *Handler) DeleteTeam(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	if err := h.service.DeleteTeam(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.respondError(c, err, "error deleting team")
		return
	}

	c.Status(http.StatusNoContent)
}

// PinPrompt handles POST /teams/:id/pins.
func (h *Handler) PinPrompt(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	var req teamModel.PinPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.PinPrompt(c.Request.Context(), actor, c.Param("id"), req.PromptID); err != nil {
		h.respondError(c, err, "error pinning prompt")
		return
	}

	c.Status(http.StatusNoContent)
}

// UnpinPrompt handles DELETE /teams/:id/pins/:promptId.
func (h *Handler) UnpinPrompt(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	if err := h.service.UnpinPrompt(c.Request.Context(), actor, c.Param("id"), c.Param("promptId")); err != nil {
		h.respondError(c, err, "error unpinning prompt")
		return
	}

	c.Status(http.StatusNoContent)
}

// respondError maps service errors to HTTP responses.
func (h *Handler) respondError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, teamModel.ErrTeamNotFound):
		notFoundResponse(c, "team not found")
	case errors.Is(err, teamModel.ErrMembershipNotFound):
		notFoundResponse(c, "team membership not found")
	case errors.Is(err, teamModel.ErrUserNotFound):
		notFoundResponse(c, "user not found")
	case errors.Is(err, teamModel.ErrPromptNotFound):
		notFoundResponse(c, "prompt not found")
	case errors.Is(err, teamModel.ErrPinNotFound):
		notFoundResponse(c, "pinned prompt not found")
	case errors.Is(err, access.ErrForbidden):
		errorResponse(c, "FORBIDDEN", "operation not permitted", http.StatusForbidden)
	case errors.Is(err, teamModel.ErrTeamExists):
		errorResponse(c, "TEAM_EXISTS", "team name already exists", http.StatusConflict)
	case errors.Is(err, teamModel.ErrAlreadyMember):
		errorResponse(c, "ALREADY_MEMBER", "user is already a team member", http.StatusConflict)
	case errors.Is(err, teamModel.ErrAlreadyPinned):
		errorResponse(c, "ALREADY_PINNED", "prompt already pinned", http.StatusConflict)
	case errors.Is(err, teamModel.ErrLastAdmin):
		errorResponse(c, "LAST_ADMIN", "team must retain at least one admin", http.StatusConflict)
	case errors.Is(err, teamModel.ErrInvalidTeamName):
		errorResponse(c, "INVALID_REQUEST", "name is required", http.StatusBadRequest)
	case errors.Is(err, teamModel.ErrInvalidRole):
		errorResponse(c, "INVALID_REQUEST", "role must be MEMBER or ADMIN", http.StatusBadRequest)
	default:
		h.logger.Errorw(logMsg, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
	}
}
