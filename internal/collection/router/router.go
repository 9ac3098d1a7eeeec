// Package router provides collection module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/promptstash/promptstash/internal/access"
	"github.com/promptstash/promptstash/internal/collection/handler"
	"github.com/promptstash/promptstash/internal/collection/repository"
	"github.com/promptstash/promptstash/internal/collection/service"
	teamRepository "github.com/promptstash/promptstash/internal/team/repository"
)

// RegisterRoutes registers collection module routes behind the auth middleware.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, auth gin.HandlerFunc, logger *zap.SugaredLogger) {
	repo := repository.New(db)
	resolver := access.NewResolver(teamRepository.New(db))
	svc := service.New(repo, resolver, logger)
	h := handler.New(svc, logger)

	collections := r.Group("/collections", auth)
	collections.POST("", h.Create)
	collections.GET("", h.List)
	collections.GET("/:id", h.Get)
	collections.PUT("/:id", h.Update)
	collections.DELETE("/:id", h.Delete)
	collections.POST("/:id/items", h.AddItem)
	collections.DELETE("/:id/items/:promptId", h.RemoveItem)
}
