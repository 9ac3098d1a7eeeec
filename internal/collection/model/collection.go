package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/promptstash/promptstash/internal/access"
)

// Collection represents a curated set of prompts.
// Matches the collections table schema.
type Collection struct {
	ID          string            `gorm:"primaryKey;column:id;type:uuid" json:"id"`
	OwnerID     string            `gorm:"column:owner_id;type:uuid;not null;index:idx_collections_owner" json:"owner_id"`
	TeamID      *string           `gorm:"column:team_id;type:uuid;index:idx_collections_team" json:"team_id"`
	Name        string            `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string            `gorm:"column:description;type:text;not null;default:''" json:"description"`
	Visibility  access.Visibility `gorm:"column:visibility;type:varchar(32);not null;default:PRIVATE" json:"visibility"`
	CreatedAt   time.Time         `gorm:"column:created_at;type:timestamptz;not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;type:timestamptz;not null;default:now()" json:"-"`
}

// TableName specifies the table name for GORM.
func (Collection) TableName() string {
	return "collections"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (col *Collection) BeforeUpdate(tx *gorm.DB) error {
	col.UpdatedAt = time.Now()
	return nil
}

// GetOwnerID implements access.Resource.
func (col *Collection) GetOwnerID() string { return col.OwnerID }

// GetVisibility implements access.Resource.
func (col *Collection) GetVisibility() access.Visibility { return col.Visibility }

// GetTeamID implements access.Resource.
func (col *Collection) GetTeamID() *string { return col.TeamID }

// CollectionItem is one entry of a collection's ordered prompt list.
// The (collection_id, prompt_id) pair is unique.
type CollectionItem struct {
	CollectionID string    `gorm:"primaryKey;column:collection_id;type:uuid" json:"collection_id"`
	PromptID     string    `gorm:"primaryKey;column:prompt_id;type:uuid" json:"prompt_id"`
	Position     int       `gorm:"column:position;not null" json:"position"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()" json:"-"`
}

// TableName specifies the table name for GORM.
func (CollectionItem) TableName() string {
	return "collection_items"
}
