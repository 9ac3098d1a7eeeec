// Package router provides trending module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/promptstash/promptstash/internal/trending/handler"
	"github.com/promptstash/promptstash/internal/trending/repository"
	"github.com/promptstash/promptstash/internal/trending/service"
)

// RegisterRoutes registers trending module routes. Trending lists expose
// only PUBLIC prompts, so they do not sit behind the auth middleware.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, logger *zap.SugaredLogger) {
	repo := repository.New(db)
	svc := service.New(repo, logger)
	h := handler.New(svc, logger)

	trending := r.Group("/trending")
	trending.GET("/most-favorited", h.MostFavorited)
	trending.GET("/fast-rising", h.FastRising)
	trending.GET("/newest", h.Newest)
	trending.GET("/overview", h.Overview)
}
