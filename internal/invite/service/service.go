// Package service provides the business logic layer for the invite module.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/promptstash/promptstash/internal/access"
	"github.com/promptstash/promptstash/internal/config"
	inviteModel "github.com/promptstash/promptstash/internal/invite/model"
	"github.com/promptstash/promptstash/internal/invite/repository"
	"github.com/promptstash/promptstash/pkg/authtoken"
)

// Service defines the interface for invite business logic operations.
type Service interface {
	// Create issues a single-use invite. Only super admins may invite.
	Create(ctx context.Context, actor access.Actor, req *inviteModel.CreateInviteRequest) (*inviteModel.Invite, error)

	// List returns the invites the actor has issued.
	List(ctx context.Context, actor access.Actor) ([]inviteModel.Invite, error)

	// Validate checks a token and describes the invite it belongs to.
	Validate(ctx context.Context, token string) (*inviteModel.ValidateResponse, error)

	// Register redeems an invite, creates the account and issues a token.
	Register(ctx context.Context, req *inviteModel.RegisterRequest) (*inviteModel.RegisterResponse, error)

	// Revoke deletes an unredeemed invite. Only super admins may revoke.
	Revoke(ctx context.Context, actor access.Actor, inviteID string) error
}

type service struct {
	repo   repository.Repository
	db     *gorm.DB
	auth   config.AuthConfig
	logger *zap.SugaredLogger
	now    func() time.Time
}

// New creates a new invite service instance.
func New(repo repository.Repository, db *gorm.DB, auth config.AuthConfig, logger *zap.SugaredLogger) Service {
	return NewWithClock(repo, db, auth, logger, time.Now)
}

// NewWithClock creates an invite service with an injectable clock.
func NewWithClock(repo repository.Repository, db *gorm.DB, auth config.AuthConfig, logger *zap.SugaredLogger, now func() time.Time) Service {
	return &service{
		repo:   repo,
		db:     db,
		auth:   auth,
		logger: logger,
		now:    now,
	}
}

// Create issues a single-use invite.
func (s *service) Create(ctx context.Context, actor access.Actor, req *inviteModel.CreateInviteRequest) (*inviteModel.Invite, error) {
	if !actor.IsSuperAdmin() {
		return nil, access.ErrForbidden
	}
	if req.Email == "" {
		return nil, inviteModel.ErrInvalidEmail
	}

	role := req.Role
	if role == "" {
		role = access.RoleUser
	}
	if !role.Valid() {
		return nil, inviteModel.ErrInvalidRole
	}

	days := req.ExpiresInDays
	if days <= 0 {
		days = s.auth.InviteTTLDays
	}

	invite := &inviteModel.Invite{
		ID:        uuid.New().String(),
		Token:     uuid.New().String(),
		Email:     req.Email,
		Role:      role,
		CreatedBy: actor.ID,
		ExpiresAt: s.now().Add(time.Duration(days) * 24 * time.Hour),
	}
	if err := s.repo.Create(ctx, invite); err != nil {
		return nil, err
	}

	s.logger.Infow("invite created", "invite_id", invite.ID, "email", invite.Email, "created_by", actor.ID)
	return invite, nil
}

// List returns the invites the actor has issued.
func (s *service) List(ctx context.Context, actor access.Actor) ([]inviteModel.Invite, error) {
	if !actor.IsSuperAdmin() {
		return nil, access.ErrForbidden
	}
	return s.repo.ListByCreator(ctx, actor.ID)
}

// Validate checks a token and describes the invite it belongs to.
func (s *service) Validate(ctx context.Context, token string) (*inviteModel.ValidateResponse, error) {
	invite, err := s.getRedeemable(ctx, token)
	if err != nil {
		return nil, err
	}
	return &inviteModel.ValidateResponse{
		Email:     invite.Email,
		Role:      invite.Role,
		ExpiresAt: invite.ExpiresAt,
	}, nil
}

// getRedeemable loads an invite that is neither used nor expired.
func (s *service) getRedeemable(ctx context.Context, token string) (*inviteModel.Invite, error) {
	invite, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if invite.Used() {
		return nil, inviteModel.ErrInviteUsed
	}
	if invite.Expired(s.now()) {
		return nil, inviteModel.ErrInviteExpired
	}
	return invite, nil
}

// Register redeems an invite, creates the account and issues a token. The
// email must match the invite exactly, including case. The user insert and
// the used_at mark run in one transaction so an invite redeems at most once.
func (s *service) Register(ctx context.Context, req *inviteModel.RegisterRequest) (*inviteModel.RegisterResponse, error) {
	invite, err := s.getRedeemable(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	if req.Email != invite.Email {
		return nil, inviteModel.ErrEmailMismatch
	}

	taken, err := s.repo.EmailTaken(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, inviteModel.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &repository.NewUser{
		ID:           uuid.New().String(),
		Email:        invite.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		PlatformRole: invite.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx)
		if err := txRepo.CreateUser(ctx, user); err != nil {
			return err
		}
		return txRepo.MarkUsed(ctx, invite.ID, now)
	})
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := authtoken.Generate(s.auth.JWTSecret, user.ID, user.PlatformRole, s.auth.TokenTTL)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("invite redeemed", "invite_id", invite.ID, "user_id", user.ID)

	return &inviteModel.RegisterResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    user.ID,
	}, nil
}

// Revoke deletes an unredeemed invite.
func (s *service) Revoke(ctx context.Context, actor access.Actor, inviteID string) error {
	if !actor.IsSuperAdmin() {
		return access.ErrForbidden
	}
	if err := s.repo.Delete(ctx, inviteID); err != nil {
		return err
	}
	s.logger.Infow("invite revoked", "invite_id", inviteID, "revoked_by", actor.ID)
	return nil
}
