// Package service provides the ranking logic for the trending module.
package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	promptModel "github.com/promptstash/promptstash/internal/prompt/model"
	"github.com/promptstash/promptstash/internal/trending/model"
	"github.com/promptstash/promptstash/internal/trending/repository"
)

// Service defines the interface for trending business logic operations.
// All lists re-derive from current counters on every call; there is no
// caching layer.
type Service interface {
	// MostFavorited returns prompts created within the trailing window,
	// ordered by favorite count with newer-first tie-breaks.
	MostFavorited(ctx context.Context, windowDays, limit int) (*model.TrendingResponse, error)

	// FastRising returns prompts ordered by favorites per day of age.
	FastRising(ctx context.Context, windowDays, limit int) (*model.FastRisingResponse, error)

	// Newest returns public prompts by creation time, no window.
	Newest(ctx context.Context, limit int) (*model.TrendingResponse, error)

	// Overview returns the three lists at a fixed smaller limit.
	Overview(ctx context.Context) (*model.OverviewResponse, error)
}

type service struct {
	repo   repository.Repository
	now    func() time.Time
	logger *zap.SugaredLogger
}

// New creates a new trending service instance.
func New(repo repository.Repository, logger *zap.SugaredLogger) Service {
	return NewWithClock(repo, logger, time.Now)
}

// NewWithClock creates a trending service with an injected clock.
func NewWithClock(repo repository.Repository, logger *zap.SugaredLogger, now func() time.Time) Service {
	return &service{
		repo:   repo,
		now:    now,
		logger: logger,
	}
}

const (
	defaultWindowDays = 7
	defaultLimit      = 10
	maxLimit          = 100
	overviewLimit     = 5

	// minAgeDays is the denominator floor for the fast-rising score. A
	// prompt created seconds ago would otherwise divide by almost zero.
	minAgeDays = 0.1
)

// MostFavorited returns the most favorited prompts of the window.
func (s *service) MostFavorited(ctx context.Context, windowDays, limit int) (*model.TrendingResponse, error) {
	windowDays = normalizeWindow(windowDays)
	limit = normalizeLimit(limit)

	cutoff := s.now().AddDate(0, 0, -windowDays)
	prompts, err := s.repo.ListPublicSince(ctx, cutoff)
	if err != nil {
		s.logger.Errorw("MostFavorited failed", "error", err)
		return nil, err
	}

	if len(prompts) > limit {
		prompts = prompts[:limit]
	}

	return &model.TrendingResponse{Prompts: prompts, Total: len(prompts)}, nil
}

// FastRising returns prompts of the window ordered by favorites per day.
func (s *service) FastRising(ctx context.Context, windowDays, limit int) (*model.FastRisingResponse, error) {
	windowDays = normalizeWindow(windowDays)
	limit = normalizeLimit(limit)

	now := s.now()
	cutoff := now.AddDate(0, 0, -windowDays)
	prompts, err := s.repo.ListPublicSince(ctx, cutoff)
	if err != nil {
		s.logger.Errorw("FastRising failed", "error", err)
		return nil, err
	}

	ranked := make([]model.RankedPrompt, 0, len(prompts))
	for _, p := range prompts {
		ranked = append(ranked, model.RankedPrompt{
			Prompt: p,
			Score:  risingScore(p, now),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return &model.FastRisingResponse{Prompts: ranked, Total: len(ranked)}, nil
}

// risingScore is favorites divided by age in fractional days, floored at
// minAgeDays.
func risingScore(p promptModel.Prompt, now time.Time) float64 {
	ageDays := now.Sub(p.CreatedAt).Hours() / 24
	if ageDays < minAgeDays {
		ageDays = minAgeDays
	}
	return float64(p.FavoriteCount) / ageDays
}

// Newest returns public prompts by creation time.
func (s *service) Newest(ctx context.Context, limit int) (*model.TrendingResponse, error) {
	limit = normalizeLimit(limit)

	prompts, err := s.repo.ListPublicNewest(ctx, limit)
	if err != nil {
		s.logger.Errorw("Newest failed", "error", err)
		return nil, err
	}

	return &model.TrendingResponse{Prompts: prompts, Total: len(prompts)}, nil
}

// Overview returns the three lists at a fixed smaller limit.
func (s *service) Overview(ctx context.Context) (*model.OverviewResponse, error) {
	mostFavorited, err := s.MostFavorited(ctx, defaultWindowDays, overviewLimit)
	if err != nil {
		return nil, err
	}
	fastRising, err := s.FastRising(ctx, defaultWindowDays, overviewLimit)
	if err != nil {
		return nil, err
	}
	newest, err := s.Newest(ctx, overviewLimit)
	if err != nil {
		return nil, err
	}

	return &model.OverviewResponse{
		MostFavorited: mostFavorited.Prompts,
		FastRising:    fastRising.Prompts,
		Newest:        newest.Prompts,
	}, nil
}

func normalizeWindow(windowDays int) int {
	if windowDays <= 0 {
		return defaultWindowDays
	}
	return windowDays
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
