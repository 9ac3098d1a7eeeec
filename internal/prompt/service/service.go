// Package service provides the business logic layer for the prompt module.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/promptstash/promptstash/internal/access"
	promptModel "github.com/promptstash/promptstash/internal/prompt/model"
	"github.com/promptstash/promptstash/internal/prompt/repository"
)

// Service defines the interface for prompt business logic operations.
type Service interface {
	// Create creates a prompt owned by the actor.
	Create(ctx context.Context, actor access.Actor, req *promptModel.CreatePromptRequest) (*promptModel.Prompt, error)

	// Get returns a prompt the actor may read. Missing and inaccessible
	// prompts are indistinguishable.
	Get(ctx context.Context, actor access.Actor, promptID string) (*promptModel.Prompt, error)

	// List returns every prompt the actor may read, newest first.
	List(ctx context.Context, actor access.Actor) ([]promptModel.Prompt, error)

	// Update mutates a prompt the actor may write.
	Update(ctx context.Context, actor access.Actor, promptID string, req *promptModel.UpdatePromptRequest) (*promptModel.Prompt, error)

	// Delete removes a prompt the actor may write.
	Delete(ctx context.Context, actor access.Actor, promptID string) error

	// Fork copies a readable prompt into a new PRIVATE prompt owned by the
	// actor, never inheriting the source's team scope.
	Fork(ctx context.Context, actor access.Actor, promptID string) (*promptModel.Prompt, error)

	// ToggleFavorite flips the actor's favorite mark on a readable prompt.
	ToggleFavorite(ctx context.Context, actor access.Actor, promptID string) (*promptModel.FavoriteResponse, error)

	// IncrementCopy records a copy of a readable prompt's content.
	IncrementCopy(ctx context.Context, actor access.Actor, promptID string) (*promptModel.Prompt, error)
}

type service struct {
	repo     repository.Repository
	resolver *access.Resolver
	db       *gorm.DB
	logger   *zap.SugaredLogger
}

// New creates a new prompt service instance.
func New(repo repository.Repository, resolver *access.Resolver, db *gorm.DB, logger *zap.SugaredLogger) Service {
	return &service{
		repo:     repo,
		resolver: resolver,
		db:       db,
		logger:   logger,
	}
}

const maxTitleLength = 255

// Create creates a prompt owned by the actor.
func (s *service) Create(ctx context.Context, actor access.Actor, req *promptModel.CreatePromptRequest) (*promptModel.Prompt, error) {
	if req.Title == "" || len(req.Title) > maxTitleLength {
		return nil, promptModel.ErrInvalidTitle
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = access.VisibilityPrivate
	}
	if err := access.ValidateScope(visibility, req.TeamID); err != nil {
		return nil, err
	}
	if req.TeamID != nil {
		if err := s.requireMembership(ctx, actor, *req.TeamID); err != nil {
			return nil, err
		}
	}

	prompt := &promptModel.Prompt{
		ID:          uuid.NewString(),
		OwnerID:     actor.ID,
		TeamID:      req.TeamID,
		Title:       req.Title,
		Body:        req.Body,
		Description: req.Description,
		Visibility:  visibility,
	}
	if err := s.repo.Create(ctx, prompt); err != nil {
		return nil, err
	}

	s.logger.Infow("prompt created", "prompt_id", prompt.ID, "owner_id", actor.ID, "visibility", visibility)
	return prompt, nil
}

// Get returns a prompt the actor may read.
func (s *service) Get(ctx context.Context, actor access.Actor, promptID string) (*promptModel.Prompt, error) {
	return s.getReadable(ctx, actor, promptID)
}

// List returns every prompt the actor may read.
func (s *service) List(ctx context.Context, actor access.Actor) ([]promptModel.Prompt, error) {
	return s.repo.ListVisible(ctx, actor.ID)
}

// Update mutates a prompt the actor may write.
func (s *service) Update(ctx context.Context, actor access.Actor, promptID string, req *promptModel.UpdatePromptRequest) (*promptModel.Prompt, error) {
	prompt, err := s.getWritable(ctx, actor, promptID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" || len(*req.Title) > maxTitleLength {
			return nil, promptModel.ErrInvalidTitle
		}
		prompt.Title = *req.Title
	}
	if req.Body != nil {
		prompt.Body = *req.Body
	}
	if req.Description != nil {
		prompt.Description = *req.Description
	}
	if req.Visibility != nil {
		prompt.Visibility = *req.Visibility
	}
	if req.ClearTeam {
		prompt.TeamID = nil
	} else if req.TeamID != nil {
		if err := s.requireMembership(ctx, actor, *req.TeamID); err != nil {
			return nil, err
		}
		prompt.TeamID = req.TeamID
	}

	if err := access.ValidateScope(prompt.Visibility, prompt.TeamID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, prompt); err != nil {
		return nil, err
	}
	return prompt, nil
}

// Delete removes a prompt the actor may write.
func (s *service) Delete(ctx context.Context, actor access.Actor, promptID string) error {
	if _, err := s.getWritable(ctx, actor, promptID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx)
		return txRepo.Delete(ctx, promptID)
	})
	if err != nil {
		return err
	}

	s.logger.Infow("prompt deleted", "prompt_id", promptID, "actor_id", actor.ID)
	return nil
}

// Fork copies a readable prompt. The fork is always PRIVATE with no team
// reference, and its counters start at zero; the source's copy counter is
// incremented in the same transaction.
func (s *service) Fork(ctx context.Context, actor access.Actor, promptID string) (*promptModel.Prompt, error) {
	source, err := s.getReadable(ctx, actor, promptID)
	if err != nil {
		return nil, err
	}

	fork := &promptModel.Prompt{
		ID:          uuid.NewString(),
		OwnerID:     actor.ID,
		TeamID:      nil,
		Title:       source.Title,
		Body:        source.Body,
		Description: source.Description,
		Visibility:  access.VisibilityPrivate,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx)

		if err := txRepo.IncrementCopyCount(ctx, source.ID); err != nil {
			return err
		}
		return txRepo.Create(ctx, fork)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("prompt forked", "source_id", source.ID, "fork_id", fork.ID, "actor_id", actor.ID)
	return fork, nil
}

// ToggleFavorite flips the actor's favorite mark. The favorite row and the
// denormalized counter move in one transaction so they cannot drift.
func (s *service) ToggleFavorite(ctx context.Context, actor access.Actor, promptID string) (*promptModel.FavoriteResponse, error) {
	if _, err := s.getReadable(ctx, actor, promptID); err != nil {
		return nil, err
	}

	var favorited bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx)

		has, err := txRepo.GetFavorite(ctx, actor.ID, promptID)
		if err != nil {
			return err
		}

		if has {
			if err := txRepo.DeleteFavorite(ctx, actor.ID, promptID); err != nil {
				return err
			}
			favorited = false
			return txRepo.AdjustFavoriteCount(ctx, promptID, -1)
		}

		err = txRepo.CreateFavorite(ctx, &promptModel.Favorite{
			UserID:   actor.ID,
			PromptID: promptID,
		})
		if err != nil {
			// A concurrent toggle won the race on the unique constraint;
			// the row exists, so this call contributes nothing.
			if errors.Is(err, repository.ErrDuplicateFavorite) {
				favorited = true
				return nil
			}
			return err
		}
		favorited = true
		return txRepo.AdjustFavoriteCount(ctx, promptID, 1)
	})
	if err != nil {
		return nil, err
	}

	prompt, err := s.repo.GetByID(ctx, promptID)
	if err != nil {
		return nil, err
	}

	return &promptModel.FavoriteResponse{
		PromptID:      promptID,
		Favorited:     favorited,
		FavoriteCount: prompt.FavoriteCount,
	}, nil
}

// IncrementCopy records a copy of the prompt's content.
func (s *service) IncrementCopy(ctx context.Context, actor access.Actor, promptID string) (*promptModel.Prompt, error) {
	if _, err := s.getReadable(ctx, actor, promptID); err != nil {
		return nil, err
	}
	if err := s.repo.IncrementCopyCount(ctx, promptID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, promptID)
}

// getReadable loads a prompt and hides inaccessible ones behind not-found.
func (s *service) getReadable(ctx context.Context, actor access.Actor, promptID string) (*promptModel.Prompt, error) {
	prompt, err := s.repo.GetByID(ctx, promptID)
	if err != nil {
		return nil, err
	}
	readable, err := s.resolver.CanRead(ctx, actor, prompt)
	if err != nil {
		return nil, err
	}
	if !readable {
		return nil, promptModel.ErrPromptNotFound
	}
	return prompt, nil
}

// getWritable loads a prompt, hiding unreadable ones and refusing
// readable-but-unwritable ones.
func (s *service) getWritable(ctx context.Context, actor access.Actor, promptID string) (*promptModel.Prompt, error) {
	prompt, err := s.getReadable(ctx, actor, promptID)
	if err != nil {
		return nil, err
	}
	writable, err := s.resolver.CanWrite(ctx, actor, prompt)
	if err != nil {
		return nil, err
	}
	if !writable {
		return nil, access.ErrForbidden
	}
	return prompt, nil
}

// requireMembership checks the actor belongs to the team they are scoping
// the prompt to.
func (s *service) requireMembership(ctx context.Context, actor access.Actor, teamID string) error {
	res := teamScopedCheck{teamID: teamID}
	readable, err := s.resolver.CanRead(ctx, actor, res)
	if err != nil {
		return err
	}
	if !readable {
		return promptModel.ErrNotTeamMember
	}
	return nil
}

// teamScopedCheck is a synthetic TEAM-visibility resource used to test an
// actor's membership through the resolver.
type teamScopedCheck struct {
	teamID string
}

func (t teamScopedCheck) GetOwnerID() string               { return "" }
func (t teamScopedCheck) GetVisibility() access.Visibility { return access.VisibilityTeam }
func (t teamScopedCheck) GetTeamID() *string               { return &t.teamID }
