// Package repository provides data access for invites.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/promptstash/promptstash/internal/access"
	inviteModel "github.com/promptstash/promptstash/internal/invite/model"
)

// Repository defines the interface for invite data access operations.
type Repository interface {
	Create(ctx context.Context, invite *inviteModel.Invite) error
	GetByToken(ctx context.Context, token string) (*inviteModel.Invite, error)
	ListByCreator(ctx context.Context, userID string) ([]inviteModel.Invite, error)
	MarkUsed(ctx context.Context, inviteID string, usedAt time.Time) error
	Delete(ctx context.Context, inviteID string) error

	// CreateUser inserts a user row for a redeemed invite.
	CreateUser(ctx context.Context, user *NewUser) error
	// EmailTaken reports whether a user with the email already exists.
	EmailTaken(ctx context.Context, email string) (bool, error)
}

// NewUser carries the fields of the user row created on registration.
type NewUser struct {
	ID           string              `gorm:"column:id"`
	Email        string              `gorm:"column:email"`
	Name         string              `gorm:"column:name"`
	PasswordHash string              `gorm:"column:password_hash"`
	PlatformRole access.PlatformRole `gorm:"column:platform_role"`
	CreatedAt    time.Time           `gorm:"column:created_at"`
	UpdatedAt    time.Time           `gorm:"column:updated_at"`
}

type repository struct {
	db *gorm.DB
}

// New creates a new instance of invite repository.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, invite *inviteModel.Invite) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

func (r *repository) GetByToken(ctx context.Context, token string) (*inviteModel.Invite, error) {
	var invite inviteModel.Invite
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inviteModel.ErrInviteInvalid
		}
		return nil, err
	}
	return &invite, nil
}

func (r *repository) ListByCreator(ctx context.Context, userID string) ([]inviteModel.Invite, error) {
	var invites []inviteModel.Invite
	err := r.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&invites).Error
	if err != nil {
		return nil, err
	}
	return invites, nil
}

func (r *repository) MarkUsed(ctx context.Context, inviteID string, usedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&inviteModel.Invite{}).
		Where("id = ? AND used_at IS NULL", inviteID).
		Update("used_at", usedAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return inviteModel.ErrInviteUsed
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, inviteID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", inviteID).
		Delete(&inviteModel.Invite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return inviteModel.ErrInviteNotFound
	}
	return nil
}

func (r *repository) CreateUser(ctx context.Context, user *NewUser) error {
	err := r.db.WithContext(ctx).Table("users").Create(user).Error
	if err != nil {
		if isDuplicateError(err) {
			return inviteModel.ErrEmailExists
		}
		return err
	}
	return nil
}

func (r *repository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("users").
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// isDuplicateError checks if error is a unique constraint violation.
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint")
}
