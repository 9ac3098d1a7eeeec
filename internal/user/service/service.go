// Package service provides the business logic layer for the user module.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/promptstash/promptstash/internal/access"
	"github.com/promptstash/promptstash/internal/config"
	userModel "github.com/promptstash/promptstash/internal/user/model"
	"github.com/promptstash/promptstash/internal/user/repository"
	"github.com/promptstash/promptstash/pkg/authtoken"
)

// Service defines the interface for user business logic operations.
type Service interface {
	// Login verifies credentials and issues an access token.
	Login(ctx context.Context, req *userModel.LoginRequest) (*userModel.TokenResponse, error)

	// GetProfile returns the actor's profile together with their pin list.
	GetProfile(ctx context.Context, actor access.Actor) (*userModel.ProfileResponse, error)

	// PinPrompt adds a readable prompt to the actor's pin list.
	PinPrompt(ctx context.Context, actor access.Actor, promptID string) error

	// UnpinPrompt removes a prompt from the actor's pin list.
	UnpinPrompt(ctx context.Context, actor access.Actor, promptID string) error
}

type service struct {
	repo     repository.Repository
	resolver *access.Resolver
	db       *gorm.DB
	auth     config.AuthConfig
	logger   *zap.SugaredLogger
}

// New creates a new user service instance.
func New(repo repository.Repository, db *gorm.DB, auth config.AuthConfig, logger *zap.SugaredLogger) Service {
	return &service{
		repo:     repo,
		resolver: access.NewResolver(repo),
		db:       db,
		auth:     auth,
		logger:   logger,
	}
}

// Login verifies credentials and issues an access token.
func (s *service) Login(ctx context.Context, req *userModel.LoginRequest) (*userModel.TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userModel.ErrUserNotFound) {
			return nil, userModel.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, userModel.ErrInvalidCredentials
	}

	token, expiresAt, err := authtoken.Generate(s.auth.JWTSecret, user.ID, user.PlatformRole, s.auth.TokenTTL)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("user logged in", "user_id", user.ID)

	return &userModel.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *user,
	}, nil
}

// GetProfile returns the actor's profile together with their pin list.
func (s *service) GetProfile(ctx context.Context, actor access.Actor) (*userModel.ProfileResponse, error) {
	user, err := s.repo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	pins, err := s.repo.ListPins(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	promptIDs := make([]string, 0, len(pins))
	for _, pin := range pins {
		promptIDs = append(promptIDs, pin.PromptID)
	}

	return &userModel.ProfileResponse{
		User:            *user,
		PinnedPromptIDs: promptIDs,
	}, nil
}

// PinPrompt adds a readable prompt to the actor's pin list. The list is
// capped at userModel.MaxUserPins entries; count and insert run in one
// transaction so concurrent pins cannot exceed the cap.
func (s *service) PinPrompt(ctx context.Context, actor access.Actor, promptID string) error {
	prompt, err := s.repo.GetPromptForAccess(ctx, promptID)
	if err != nil {
		return err
	}

	readable, err := s.resolver.CanRead(ctx, actor, prompt)
	if err != nil {
		return err
	}
	if !readable {
		return userModel.ErrPromptNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx)

		count, err := txRepo.CountPins(ctx, actor.ID)
		if err != nil {
			return err
		}
		if count >= userModel.MaxUserPins {
			return userModel.ErrPinLimitReached
		}

		return txRepo.AddPin(ctx, actor.ID, promptID)
	})
	if err != nil {
		return err
	}

	s.logger.Infow("prompt pinned", "user_id", actor.ID, "prompt_id", promptID)
	return nil
}

// UnpinPrompt removes a prompt from the actor's pin list.
func (s *service) UnpinPrompt(ctx context.Context, actor access.Actor, promptID string) error {
	if err := s.repo.RemovePin(ctx, actor.ID, promptID); err != nil {
		return err
	}

	s.logger.Infow("prompt unpinned", "user_id", actor.ID, "prompt_id", promptID)
	return nil
}
