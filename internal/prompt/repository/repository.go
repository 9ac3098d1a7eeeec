// Package repository provides the data access layer for the prompt module.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	promptModel "github.com/promptstash/promptstash/internal/prompt/model"
)

// Repository defines the interface for prompt data access operations.
type Repository interface {
	// Create inserts a new prompt.
	Create(ctx context.Context, prompt *promptModel.Prompt) error

	// GetByID finds a prompt by id.
	GetByID(ctx context.Context, promptID string) (*promptModel.Prompt, error)

	// Update saves changed prompt fields.
	Update(ctx context.Context, prompt *promptModel.Prompt) error

	// Delete removes a prompt together with every row referencing it:
	// favorites, collection entries, and team and user pins.
	Delete(ctx context.Context, promptID string) error

	// ListVisible returns prompts the user may read: own, public, and
	// prompts of teams the user belongs to.
	ListVisible(ctx context.Context, userID string) ([]promptModel.Prompt, error)

	// GetFavorite returns whether the user has favorited the prompt.
	GetFavorite(ctx context.Context, userID, promptID string) (bool, error)

	// CreateFavorite inserts a favorite row. The unique (user_id,
	// prompt_id) constraint serializes concurrent toggles.
	CreateFavorite(ctx context.Context, favorite *promptModel.Favorite) error

	// DeleteFavorite removes a favorite row.
	DeleteFavorite(ctx context.Context, userID, promptID string) error

	// AdjustFavoriteCount adds delta to the denormalized favorite counter.
	AdjustFavoriteCount(ctx context.Context, promptID string, delta int) error

	// IncrementCopyCount adds one to the copy counter.
	IncrementCopyCount(ctx context.Context, promptID string) error
}

type repository struct {
	db *gorm.DB
}

// New creates a new prompt repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ErrDuplicateFavorite is returned when the favorite row already exists.
var ErrDuplicateFavorite = errors.New("favorite already exists")

// Create inserts a new prompt.
func (r *repository) Create(ctx context.Context, prompt *promptModel.Prompt) error {
	now := time.Now()
	prompt.CreatedAt = now
	prompt.UpdatedAt = now
	return r.db.WithContext(ctx).Create(prompt).Error
}

// GetByID finds a prompt by id.
func (r *repository) GetByID(ctx context.Context, promptID string) (*promptModel.Prompt, error) {
	var prompt promptModel.Prompt
	err := r.db.WithContext(ctx).
		Where("id = ?", promptID).
		First(&prompt).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, promptModel.ErrPromptNotFound
		}
		return nil, err
	}

	return &prompt, nil
}

// Update saves changed prompt fields.
func (r *repository) Update(ctx context.Context, prompt *promptModel.Prompt) error {
	prompt.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(prompt).Error
}

// Delete removes a prompt together with every row referencing it. The
// referencing tables carry foreign keys to prompts, so they go first.
func (r *repository) Delete(ctx context.Context, promptID string) error {
	if err := r.db.WithContext(ctx).
		Where("prompt_id = ?", promptID).
		Delete(&promptModel.Favorite{}).Error; err != nil {
		return err
	}

	for _, table := range []string{"collection_items", "team_pins", "user_pins"} {
		if err := r.db.WithContext(ctx).
			Exec("DELETE FROM "+table+" WHERE prompt_id = ?", promptID).Error; err != nil {
			return err
		}
	}

	result := r.db.WithContext(ctx).
		Where("id = ?", promptID).
		Delete(&promptModel.Prompt{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return promptModel.ErrPromptNotFound
	}
	return nil
}

// ListVisible returns prompts the user may read, newest first.
func (r *repository) ListVisible(ctx context.Context, userID string) ([]promptModel.Prompt, error) {
	var prompts []promptModel.Prompt
	err := r.db.WithContext(ctx).
		Where(
			"owner_id = ? OR visibility = ? OR (visibility = ? AND team_id IN (?))",
			userID,
			"PUBLIC",
			"TEAM",
			r.db.Table("team_memberships").Select("team_id").Where("user_id = ?", userID),
		).
		Order("created_at DESC").
		Find(&prompts).Error
	if err != nil {
		return nil, err
	}
	if prompts == nil {
		prompts = []promptModel.Prompt{}
	}
	return prompts, nil
}

// GetFavorite returns whether the user has favorited the prompt.
func (r *repository) GetFavorite(ctx context.Context, userID, promptID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&promptModel.Favorite{}).
		Where("user_id = ? AND prompt_id = ?", userID, promptID).
		Count(&count).Error
	return count > 0, err
}

// CreateFavorite inserts a favorite row.
func (r *repository) CreateFavorite(ctx context.Context, favorite *promptModel.Favorite) error {
	favorite.CreatedAt = time.Now()
	err := r.db.WithContext(ctx).Create(favorite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(err.Error(), "duplicate key") ||
			strings.Contains(err.Error(), "UNIQUE constraint") {
			return ErrDuplicateFavorite
		}
		return err
	}
	return nil
}

// DeleteFavorite removes a favorite row.
func (r *repository) DeleteFavorite(ctx context.Context, userID, promptID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND prompt_id = ?", userID, promptID).
		Delete(&promptModel.Favorite{}).Error
}

// AdjustFavoriteCount adds delta to the denormalized favorite counter.
func (r *repository) AdjustFavoriteCount(ctx context.Context, promptID string, delta int) error {
	return r.db.WithContext(ctx).
		Model(&promptModel.Prompt{}).
		Where("id = ?", promptID).
		Updates(map[string]interface{}{
			"favorite_count": gorm.Expr("favorite_count + ?", delta),
			"updated_at":     time.Now(),
		}).Error
}

// IncrementCopyCount adds one to the copy counter.
func (r *repository) IncrementCopyCount(ctx context.Context, promptID string) error {
	return r.db.WithContext(ctx).
		Model(&promptModel.Prompt{}).
		Where("id = ?", promptID).
		Updates(map[string]interface{}{
			"copy_count": gorm.Expr("copy_count + 1"),
			"updated_at": time.Now(),
		}).Error
}
