// Package router provides team module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/promptstash/promptstash/internal/team/handler"
	"github.com/promptstash/promptstash/internal/team/repository"
	"github.com/promptstash/promptstash/internal/team/service"
)

// RegisterRoutes registers team module routes behind the auth middleware.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, auth gin.HandlerFunc, logger *zap.SugaredLogger) {
	repo := repository.New(db)
	svc := service.New(repo, db, logger)
	h := handler.New(svc, logger)

	teams := r.Group("/teams", auth)
	teams.POST("", h.CreateTeam)
	teams.GET("", h.ListMyTeams)
	teams.GET("/:id", h.GetTeam)
	teams.DELETE("/:id", h.DeleteTeam)
	teams.POST("/:id/members", h.AddMember)
	teams.PUT("/:id/members/:userId", h.ChangeMemberRole)
	teams.DELETE("/:id/members/:userId", h.RemoveMember)
	teams.POST("/:id/admins/:userId", h.AssignAdmin)
	teams.DELETE("/:id/admins/:userId", h.DemoteAdmin)
	teams.POST("/:id/pins", h.PinPrompt)
	teams.DELETE("/:id/pins/:promptId", h.UnpinPrompt)
}
