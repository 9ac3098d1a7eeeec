// Package router provides user module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/promptstash/promptstash/internal/config"
	"github.com/promptstash/promptstash/internal/user/handler"
	"github.com/promptstash/promptstash/internal/user/repository"
	"github.com/promptstash/promptstash/internal/user/service"
)

// RegisterRoutes registers auth and user routes. Login is public; profile
// and pin routes sit behind the auth middleware.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, auth gin.HandlerFunc, cfg config.AuthConfig, logger *zap.SugaredLogger) {
	repo := repository.New(db)
	svc := service.New(repo, db, cfg, logger)
	h := handler.New(svc, logger)

	r.POST("/auth/login", h.Login)

	users := r.Group("/users", auth)
	users.GET("/me", h.GetProfile)
	users.POST("/me/pins", h.PinPrompt)
	users.DELETE("/me/pins/:promptId", h.UnpinPrompt)
}
