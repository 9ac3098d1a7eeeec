package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/promptstash/promptstash/internal/access"
)

// User represents a registered user.
// Matches the users table schema.
type User struct {
	ID           string              `gorm:"primaryKey;column:id;type:uuid" json:"id"`
	Email        string              `gorm:"column:email;type:varchar(255);not null;uniqueIndex:idx_users_email" json:"email"`
	Name         string              `gorm:"column:name;type:varchar(255);not null" json:"name"`
	PasswordHash string              `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	PlatformRole access.PlatformRole `gorm:"column:platform_role;type:varchar(32);not null;default:USER" json:"platform_role"`
	CreatedAt    time.Time           `gorm:"column:created_at;type:timestamptz;not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;type:timestamptz;not null;default:now()" json:"-"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// UserPin is one entry of a user's ordered pinned-prompt list, capped at
// MaxUserPins entries.
type UserPin struct {
	UserID    string    `gorm:"primaryKey;column:user_id;type:uuid" json:"user_id"`
	PromptID  string    `gorm:"primaryKey;column:prompt_id;type:uuid" json:"prompt_id"`
	Position  int       `gorm:"column:position;not null" json:"position"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()" json:"-"`
}

// TableName specifies the table name for GORM.
func (UserPin) TableName() string {
	return "user_pins"
}

// MaxUserPins caps a user's pin list. Team pin lists carry no cap.
const MaxUserPins = 3
