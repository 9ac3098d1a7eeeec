// Package router provides prompt module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/promptstash/promptstash/internal/access"
	"github.com/promptstash/promptstash/internal/prompt/handler"
	"github.com/promptstash/promptstash/internal/prompt/repository"
	"github.com/promptstash/promptstash/internal/prompt/service"
	teamRepository "github.com/promptstash/promptstash/internal/team/repository"
)

// RegisterRoutes registers prompt module routes behind the auth middleware.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, auth gin.HandlerFunc, logger *zap.SugaredLogger) {
	repo := repository.New(db)
	resolver := access.NewResolver(teamRepository.New(db))
	svc := service.New(repo, resolver, db, logger)
	h := handler.New(svc, logger)

	prompts := r.Group("/prompts", auth)
	prompts.POST("", h.Create)
	prompts.GET("", h.List)
	prompts.GET("/:id", h.Get)
	prompts.PUT("/:id", h.Update)
	prompts.DELETE("/:id", h.Delete)
	prompts.POST("/:id/fork", h.Fork)
	prompts.POST("/:id/favorite", h.ToggleFavorite)
	prompts.POST("/:id/copy", h.IncrementCopy)
}
