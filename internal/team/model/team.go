package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/promptstash/promptstash/internal/access"
)

// Team represents a team entity in the system.
// Matches the teams table schema.
type Team struct {
	ID          string    `gorm:"primaryKey;column:id;type:uuid" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(255);not null;uniqueIndex:idx_teams_name" json:"name"`
	Description string    `gorm:"column:description;type:text;not null;default:''" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:timestamptz;not null;default:now()" json:"-"`
}

// TableName specifies the table name for GORM.
func (Team) TableName() string {
	return "teams"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (t *Team) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return nil
}

// TeamMembership represents a user's membership in a team.
// The (team_id, user_id) pair is unique; the role is mutated only through
// the change-role operations.
type TeamMembership struct {
	TeamID    string          `gorm:"primaryKey;column:team_id;type:uuid" json:"team_id"`
	UserID    string          `gorm:"primaryKey;column:user_id;type:uuid" json:"user_id"`
	Role      access.TeamRole `gorm:"column:role;type:varchar(32);not null" json:"role"`
	CreatedAt time.Time       `gorm:"column:created_at;type:timestamptz;not null;default:now()" json:"created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at;type:timestamptz;not null;default:now()" json:"-"`
}

// TableName specifies the table name for GORM.
func (TeamMembership) TableName() string {
	return "team_memberships"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (m *TeamMembership) BeforeUpdate(tx *gorm.DB) error {
	m.UpdatedAt = time.Now()
	return nil
}

// TeamPin is one entry of a team's ordered pinned-prompt list.
// Team pin lists are deduplicated but uncapped.
type TeamPin struct {
	TeamID    string    `gorm:"primaryKey;column:team_id;type:uuid" json:"team_id"`
	PromptID  string    `gorm:"primaryKey;column:prompt_id;type:uuid" json:"prompt_id"`
	Position  int       `gorm:"column:position;not null" json:"position"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()" json:"-"`
}

// TableName specifies the table name for GORM.
func (TeamPin) TableName() string {
	return "team_pins"
}
