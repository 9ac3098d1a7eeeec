// Package router provides invite module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/promptstash/promptstash/internal/config"
	"github.com/promptstash/promptstash/internal/invite/handler"
	"github.com/promptstash/promptstash/internal/invite/repository"
	"github.com/promptstash/promptstash/internal/invite/service"
)

// RegisterRoutes registers invite routes. Registration and token validation
// are public; issuing and revoking invites sit behind the auth middleware.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, auth gin.HandlerFunc, cfg config.AuthConfig, logger *zap.SugaredLogger) {
	repo := repository.New(db)
	svc := service.New(repo, db, cfg, logger)
	h := handler.New(svc, logger)

	r.POST("/auth/register", h.Register)
	r.GET("/invites/:token", h.ValidateInvite)

	invites := r.Group("/invites", auth)
	invites.POST("", h.CreateInvite)
	invites.GET("", h.ListInvites)
	invites.DELETE("/:id", h.RevokeInvite)
}
