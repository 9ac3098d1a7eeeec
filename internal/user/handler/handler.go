// Package handler provides HTTP handlers for auth and user endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/promptstash/promptstash/internal/middleware"
	userModel "github.com/promptstash/promptstash/internal/user/model"
	"github.com/promptstash/promptstash/internal/user/service"
)

// Handler handles HTTP requests for auth and user endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new user handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req userModel.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err, "error logging in")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProfile handles GET /users/me.
func (h *Handler) GetProfile(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	resp, err := h.service.GetProfile(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, err, "error loading profile")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PinPrompt handles POST /users/me/pins.
func (h *Handler) PinPrompt(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	var req userModel.PinPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.PinPrompt(c.Request.Context(), actor, req.PromptID); err != nil {
		h.respondError(c, err, "error pinning prompt")
		return
	}

	c.Status(http.StatusNoContent)
}

// UnpinPrompt handles DELETE /users/me/pins/:promptId.
func (h *Handler) UnpinPrompt(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		errorResponse(c, "UNAUTHORIZED", "missing actor", http.StatusUnauthorized)
		return
	}

	if err := h.service.UnpinPrompt(c.Request.Context(), actor, c.Param("promptId")); err != nil {
		h.respondError(c, err, "error unpinning prompt")
		return
	}

	c.Status(http.StatusNoContent)
}

// respondError maps service errors to HTTP responses.
func (h *Handler) respondError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, userModel.ErrInvalidCredentials):
		errorResponse(c, "INVALID_CREDENTIALS", "invalid email or password", http.StatusUnauthorized)
	case errors.Is(err, userModel.ErrUserNotFound):
		notFoundResponse(c, "user not found")
	case errors.Is(err, userModel.ErrPromptNotFound):
		notFoundResponse(c, "prompt not found")
	case errors.Is(err, userModel.ErrPinNotFound):
		notFoundResponse(c, "pinned prompt not found")
	case errors.Is(err, userModel.ErrAlreadyPinned):
		errorResponse(c, "ALREADY_PINNED", "prompt already pinned", http.StatusConflict)
	case errors.Is(err, userModel.ErrPinLimitReached):
		errorResponse(c, "PIN_LIMIT_REACHED", "pin list is full", http.StatusConflict)
	default:
		h.logger.Errorw(logMsg, "error", err)
		errorResponse(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
	}
}
