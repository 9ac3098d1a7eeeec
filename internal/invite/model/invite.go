package model

import (
	"time"

	"github.com/promptstash/promptstash/internal/access"
)

// Invite represents a single-use, expiring registration invite.
type Invite struct {
	ID        string              `gorm:"primaryKey;column:id;type:uuid" json:"id"`
	Token     string              `gorm:"column:token;type:uuid;not null;uniqueIndex:idx_invites_token" json:"token"`
	Email     string              `gorm:"column:email;type:varchar(255);not null" json:"email"`
	Role      access.PlatformRole `gorm:"column:role;type:varchar(32);not null;default:USER" json:"role"`
	CreatedBy string              `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	ExpiresAt time.Time           `gorm:"column:expires_at;type:timestamptz;not null" json:"expires_at"`
	UsedAt    *time.Time          `gorm:"column:used_at;type:timestamptz" json:"used_at,omitempty"`
	CreatedAt time.Time           `gorm:"column:created_at;type:timestamptz;not null;default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Invite) TableName() string {
	return "invites"
}

// Used reports whether the invite has already been redeemed.
func (i *Invite) Used() bool {
	return i.UsedAt != nil
}

// Expired reports whether the invite's lifetime has passed at the given
// moment.
func (i *Invite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
