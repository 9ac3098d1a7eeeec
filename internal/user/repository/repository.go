// Package repository provides data access for users and user pins.
package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/promptstash/promptstash/internal/access"
	userModel "github.com/promptstash/promptstash/internal/user/model"
)

// Repository defines the interface for user data access operations.
type Repository interface {
	Create(ctx context.Context, user *userModel.User) error
	GetByID(ctx context.Context, id string) (*userModel.User, error)
	GetByEmail(ctx context.Context, email string) (*userModel.User, error)

	ListPins(ctx context.Context, userID string) ([]userModel.UserPin, error)
	CountPins(ctx context.Context, userID string) (int64, error)
	AddPin(ctx context.Context, userID, promptID string) error
	RemovePin(ctx context.Context, userID, promptID string) error

	GetPromptForAccess(ctx context.Context, promptID string) (access.Resource, error)
	RoleInTeam(ctx context.Context, userID, teamID string) (access.TeamRole, bool, error)
}

type repository struct {
	db *gorm.DB
}

// New creates a new instance of user repository.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *userModel.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateError(err) {
			return userModel.ErrEmailExists
		}
		return err
	}
	return nil
}

func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint")
}

func (r *repository) GetByID(ctx context.Context, id string) (*userModel.User, error) {
	var user userModel.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userModel.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*userModel.User, error) {
	var user userModel.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userModel.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) ListPins(ctx context.Context, userID string) ([]userModel.UserPin, error) {
	var pins []userModel.UserPin
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position ASC").
		Find(&pins).Error
	if err != nil {
		return nil, err
	}
	return pins, nil
}

func (r *repository) CountPins(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userModel.UserPin{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) AddPin(ctx context.Context, userID, promptID string) error {
	pin := userModel.UserPin{
		UserID:   userID,
		PromptID: promptID,
	}
	err := r.db.WithContext(ctx).
		Model(&userModel.UserPin{}).
		Where("user_id = ?", userID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&pin.Position).Error
	if err != nil {
		return err
	}
	pin.Position++
	if err := r.db.WithContext(ctx).Create(&pin).Error; err != nil {
		if isDuplicateError(err) {
			return userModel.ErrAlreadyPinned
		}
		return err
	}
	return nil
}

func (r *repository) RemovePin(ctx context.Context, userID, promptID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND prompt_id = ?", userID, promptID).
		Delete(&userModel.UserPin{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return userModel.ErrPinNotFound
	}
	return nil
}

// promptRef carries the access-relevant fields of a prompt row.
type promptRef struct {
	OwnerID    string            `gorm:"column:owner_id"`
	Visibility access.Visibility `gorm:"column:visibility"`
	TeamID     *string           `gorm:"column:team_id"`
}

func (p promptRef) GetOwnerID() string               { return p.OwnerID }
func (p promptRef) GetVisibility() access.Visibility { return p.Visibility }
func (p promptRef) GetTeamID() *string               { return p.TeamID }

// GetPromptForAccess loads the access-relevant fields of a prompt.
func (r *repository) GetPromptForAccess(ctx context.Context, promptID string) (access.Resource, error) {
	var ref promptRef
	result := r.db.WithContext(ctx).
		Table("prompts").
		Select("owner_id, visibility, team_id").
		Where("id = ?", promptID).
		Limit(1).
		Find(&ref)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, userModel.ErrPromptNotFound
	}
	return ref, nil
}

// RoleInTeam returns the team role of the user in the given team. Implements
// access.MembershipSource.
func (r *repository) RoleInTeam(ctx context.Context, userID, teamID string) (access.TeamRole, bool, error) {
	var row struct {
		Role access.TeamRole `gorm:"column:role"`
	}
	result := r.db.WithContext(ctx).
		Table("team_memberships").
		Select("role").
		Where("user_id = ? AND team_id = ?", userID, teamID).
		Limit(1).
		Find(&row)
	if result.Error != nil {
		return "", false, result.Error
	}
	if result.RowsAffected == 0 {
		return "", false, nil
	}
	return row.Role, true, nil
}
