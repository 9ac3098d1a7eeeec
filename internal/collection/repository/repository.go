// Package repository provides the data access layer for the collection module.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/promptstash/promptstash/internal/access"
	collectionModel "github.com/promptstash/promptstash/internal/collection/model"
)

// Repository defines the interface for collection data access operations.
type Repository interface {
	// Create inserts a new collection.
	Create(ctx context.Context, collection *collectionModel.Collection) error

	// GetByID finds a collection by id.
	GetByID(ctx context.Context, collectionID string) (*collectionModel.Collection, error)

	// Update saves changed collection fields.
	Update(ctx context.Context, collection *collectionModel.Collection) error

	// Delete removes a collection and its items.
	Delete(ctx context.Context, collectionID string) error

	// ListVisible returns collections the user may read.
	ListVisible(ctx context.Context, userID string) ([]collectionModel.Collection, error)

	// ListItems returns the collection's prompt ids in order.
	ListItems(ctx context.Context, collectionID string) ([]string, error)

	// AddItem appends a prompt to the collection.
	AddItem(ctx context.Context, collectionID, promptID string) error

	// RemoveItem removes a prompt from the collection.
	RemoveItem(ctx context.Context, collectionID, promptID string) error

	// GetPromptForAccess loads the access-relevant fields of a prompt.
	GetPromptForAccess(ctx context.Context, promptID string) (access.Resource, error)
}

type repository struct {
	db *gorm.DB
}

// New creates a new collection repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint")
}

// Create inserts a new collection.
func (r *repository) Create(ctx context.Context, collection *collectionModel.Collection) error {
	now := time.Now()
	collection.CreatedAt = now
	collection.UpdatedAt = now
	return r.db.WithContext(ctx).Create(collection).Error
}

// GetByID finds a collection by id.
func (r *repository) GetByID(ctx context.Context, collectionID string) (*collectionModel.Collection, error) {
	var collection collectionModel.Collection
	err := r.db.WithContext(ctx).
		Where("id = ?", collectionID).
		First(&collection).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, collectionModel.ErrCollectionNotFound
		}
		return nil, err
	}

	return &collection, nil
}

// Update saves changed collection fields.
func (r *repository) Update(ctx context.Context, collection *collectionModel.Collection) error {
	collection.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(collection).Error
}

// Delete removes a collection and its items.
func (r *repository) Delete(ctx context.Context, collectionID string) error {
	if err := r.db.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Delete(&collectionModel.CollectionItem{}).Error; err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Where("id = ?", collectionID).
		Delete(&collectionModel.Collection{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return collectionModel.ErrCollectionNotFound
	}
	return nil
}

// ListVisible returns collections the user may read, newest first.
func (r *repository) ListVisible(ctx context.Context, userID string) ([]collectionModel.Collection, error) {
	var collections []collectionModel.Collection
	err := r.db.WithContext(ctx).
		Where(
			"owner_id = ? OR visibility = ? OR (visibility = ? AND team_id IN (?))",
			userID,
			"PUBLIC",
			"TEAM",
			r.db.Table("team_memberships").Select("team_id").Where("user_id = ?", userID),
		).
		Order("created_at DESC").
		Find(&collections).Error
	if err != nil {
		return nil, err
	}
	if collections == nil {
		collections = []collectionModel.Collection{}
	}
	return collections, nil
}

// ListItems returns the collection's prompt ids in order.
func (r *repository) ListItems(ctx context.Context, collectionID string) ([]string, error) {
	var promptIDs []string
	err := r.db.WithContext(ctx).
		Model(&collectionModel.CollectionItem{}).
		Where("collection_id = ?", collectionID).
		Order("position ASC").
		Pluck("prompt_id", &promptIDs).Error
	if err != nil {
		return nil, err
	}
	if promptIDs == nil {
		promptIDs = []string{}
	}
	return promptIDs, nil
}

// AddItem appends a prompt to the collection.
func (r *repository) AddItem(ctx context.Context, collectionID, promptID string) error {
	var maxPosition int
	err := r.db.WithContext(ctx).
		Model(&collectionModel.CollectionItem{}).
		Where("collection_id = ?", collectionID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&maxPosition).Error
	if err != nil {
		return err
	}

	item := &collectionModel.CollectionItem{
		CollectionID: collectionID,
		PromptID:     promptID,
		Position:     maxPosition + 1,
		CreatedAt:    time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		if isDuplicateError(err) {
			return collectionModel.ErrDuplicateEntry
		}
		return err
	}
	return nil
}

// RemoveItem removes a prompt from the collection.
func (r *repository) RemoveItem(ctx context.Context, collectionID, promptID string) error {
	result := r.db.WithContext(ctx).
		Where("collection_id = ? AND prompt_id = ?", collectionID, promptID).
		Delete(&collectionModel.CollectionItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return collectionModel.ErrEntryNotFound
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
		return nil, collectionModel.ErrPromptNotFound
	}
	return ref, nil
}
