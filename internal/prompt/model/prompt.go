package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/promptstash/promptstash/internal/access"
)

// Prompt represents a shared prompt entity.
// Matches the prompts table schema.
type Prompt struct {
	ID            string            `gorm:"primaryKey;column:id;type:uuid" json:"id"`
	OwnerID       string            `gorm:"column:owner_id;type:uuid;not null;index:idx_prompts_owner" json:"owner_id"`
	TeamID        *string           `gorm:"column:team_id;type:uuid;index:idx_prompts_team" json:"team_id"`
	Title         string            `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Body          string            `gorm:"column:body;type:text;not null" json:"body"`
	Description   string            `gorm:"column:description;type:text;not null;default:''" json:"description"`
	Visibility    access.Visibility `gorm:"column:visibility;type:varchar(32);not null;default:PRIVATE" json:"visibility"`
	FavoriteCount int               `gorm:"column:favorite_count;not null;default:0" json:"favorite_count"`
	CopyCount     int               `gorm:"column:copy_count;not null;default:0" json:"copy_count"`
	CreatedAt     time.Time         `gorm:"column:created_at;type:timestamptz;not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;type:timestamptz;not null;default:now()" json:"-"`
}

// TableName specifies the table name for GORM.
func (Prompt) TableName() string {
	return "prompts"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (p *Prompt) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return nil
}

// GetOwnerID implements access.Resource.
func (p *Prompt) GetOwnerID() string { return p.OwnerID }

// GetVisibility implements access.Resource.
func (p *Prompt) GetVisibility() access.Visibility { return p.Visibility }

// GetTeamID implements access.Resource.
func (p *Prompt) GetTeamID() *string { return p.TeamID }

// Favorite marks a prompt as favorited by a user. Its presence is the
// source of truth for the prompt's favorite_count.
type Favorite struct {
	UserID    string    `gorm:"primaryKey;column:user_id;type:uuid" json:"user_id"`
	PromptID  string    `gorm:"primaryKey;column:prompt_id;type:uuid" json:"prompt_id"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Favorite) TableName() string {
	return "favorites"
}
