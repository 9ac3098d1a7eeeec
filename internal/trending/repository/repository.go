// Package repository provides the data access layer for the trending module.
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	promptModel "github.com/promptstash/promptstash/internal/prompt/model"
)

// Repository defines the interface for trending data access operations.
// Trending surfaces are PUBLIC-only; private and team content never
// reaches the ranking functions.
type Repository interface {
	// ListPublicSince returns public prompts created at or after the
	// cutoff, ordered by favorite count then recency.
	ListPublicSince(ctx context.Context, cutoff time.Time) ([]promptModel.Prompt, error)

	// ListPublicNewest returns public prompts ordered by creation time,
	// newest first, capped at limit.
	ListPublicNewest(ctx context.Context, limit int) ([]promptModel.Prompt, error)
}

type repository struct {
	db *gorm.DB
}

// New creates a new trending repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ListPublicSince returns public prompts created at or after the cutoff.
func (r *repository) ListPublicSince(ctx context.Context, cutoff time.Time) ([]promptModel.Prompt, error) {
	var prompts []promptModel.Prompt
	err := r.db.WithContext(ctx).
		Where("visibility = ? AND created_at >= ?", "PUBLIC", cutoff).
		Order("favorite_count DESC, created_at DESC").
		Find(&prompts).Error
	if err != nil {
		return nil, err
	}
	if prompts == nil {
		prompts = []promptModel.Prompt{}
	}
	return prompts, nil
}

// ListPublicNewest returns public prompts, newest first.
func (r *repository) ListPublicNewest(ctx context.Context, limit int) ([]promptModel.Prompt, error) {
	var prompts []promptModel.Prompt
	err := r.db.WithContext(ctx).
		Where("visibility = ?", "PUBLIC").
		Order("created_at DESC").
		Limit(limit).
		Find(&prompts).Error
	if err != nil {
		return nil, err
	}
	if prompts == nil {
		prompts = []promptModel.Prompt{}
	}
	return prompts, nil
}
