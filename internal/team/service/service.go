// Package service provides the business logic layer for the team module,
// including the last-admin invariant and the delete-team cascade.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/promptstash/promptstash/internal/access"
	teamModel "github.com/promptstash/promptstash/internal/team/model"
	"github.com/promptstash/promptstash/internal/team/repository"
)

// Service defines the interface for team business logic operations.
type Service interface {
	// CreateTeam creates a team with the actor as its first admin.
	CreateTeam(ctx context.Context, actor access.Actor, req *teamModel.CreateTeamRequest) (*teamModel.TeamResponse, error)

	// GetTeam returns a team with members and pins; members only.
	GetTeam(ctx context.Context, actor access.Actor, teamID string) (*teamModel.TeamResponse, error)

	// ListMyTeams returns the teams the actor belongs to.
	ListMyTeams(ctx context.Context, actor access.Actor) ([]teamModel.Team, error)

	// AddMember adds a user to the team; team admins only.
	AddMember(ctx context.Context, actor access.Actor, teamID string, req *teamModel.AddMemberRequest) (*teamModel.MemberResponse, error)

	// RemoveMember removes a member; team admins only, guarded by the
	// last-admin floor.
	RemoveMember(ctx context.Context, actor access.Actor, teamID, userID string) error

	// ChangeMemberRole changes a member's role; team admins only, guarded
	// by the last-admin floor on demotion.
	ChangeMemberRole(ctx context.Context, actor access.Actor, teamID, userID string, role access.TeamRole) (*teamModel.MemberResponse, error)

	// AssignAdmin promotes a user to team admin, creating the membership
	// if needed; platform super-admins only.
	AssignAdmin(ctx context.Context, actor access.Actor, teamID, userID string) (*teamModel.MemberResponse, error)

	// DemoteAdmin demotes a team admin to member; platform super-admins
	// only, guarded by the last-admin floor.
	DemoteAdmin(ctx context.Context, actor access.Actor, teamID, userID string) (*teamModel.MemberResponse, error)

	// DeleteTeam deletes the team, its memberships and pins, and strips the
	// team reference from every prompt and collection.
	DeleteTeam(ctx context.Context, actor access.Actor, teamID string) error

	// PinPrompt appends a prompt to the team's pin list; team admins only.
	PinPrompt(ctx context.Context, actor access.Actor, teamID, promptID string) error

	// UnpinPrompt removes a prompt from the team's pin list; team admins only.
	UnpinPrompt(ctx context.Context, actor access.Actor, teamID, promptID string) error
}

type service struct {
	repo     repository.Repository
	resolver *access.Resolver
	db       *gorm.DB
	logger   *zap.SugaredLogger
}

// New creates a new team service instance.
func New(repo repository.Repository, db *gorm.DB, logger *zap.SugaredLogger) Service {
	return &service{
		repo:     repo,
		resolver: access.NewResolver(repo),
		db:       db,
		logger:   logger,
	}
}

// CreateTeam creates a team with the actor as its first admin.
func (s *service) CreateTeam(ctx context.Context, actor access.Actor, req *teamModel.CreateTeamRequest) (*teamModel.TeamResponse, error) {
	if req.Name == "" {
		return nil, teamModel.ErrInvalidTeamName
	}

	team := &teamModel.Team{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx)

		if err := txRepo.Create(ctx, team); err != nil {
			return err
		}

		membership := &teamModel.TeamMembership{
			TeamID: team.ID,
			UserID: actor.ID,
			Role:   access.TeamRoleAdmin,
		}
		return txRepo.CreateMembership(ctx, membership)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("team created", "team_id", team.ID, "owner_id", actor.ID)
	return s.buildResponse(ctx, team)
}

// GetTeam returns a team with members and pins. Non-members get the same
// not-found error as a missing team.
func (s *service) GetTeam(ctx context.Context, actor access.Actor, teamID string) (*teamModel.TeamResponse, error) {
	team, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if !actor.IsSuperAdmin() {
		_, member, err := s.repo.RoleInTeam(ctx, actor.ID, teamID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, teamModel.ErrTeamNotFound
		}
	}

	return s.buildResponse(ctx, team)
}

// ListMyTeams returns the teams the actor belongs to.
func (s *service) ListMyTeams(ctx context.Context, actor access.Actor) ([]teamModel.Team, error) {
	return s.repo.ListForUser(ctx, actor.ID)
}

// AddMember adds a user to the team.
func (s *service) AddMember(ctx context.Context, actor access.Actor, teamID string, req *teamModel.AddMemberRequest) (*teamModel.MemberResponse, error) {
	if !req.Role.Valid() {
		return nil, teamModel.ErrInvalidRole
	}
	if err := s.requireTeamAdmin(ctx, actor, teamID); err != nil {
		return nil, err
	}

	exists, err := s.repo.UserExists(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, teamModel.ErrUserNotFound
	}

	membership := &teamModel.TeamMembership{
		TeamID: teamID,
		UserID: req.UserID,
		Role:   req.Role,
	}
	if err := s.repo.CreateMembership(ctx, membership); err != nil {
		return nil, err
	}

	s.logger.Infow("member added", "team_id", teamID, "user_id", req.UserID, "role", req.Role)
	return &teamModel.MemberResponse{UserID: req.UserID, Role: req.Role}, nil
}

// RemoveMember removes a member, refusing to remove the last admin.
func (s *service) RemoveMember(ctx context.Context, actor access.Actor, teamID, userID string) error {
	if err := s.requireTeamAdmin(ctx, actor, teamID); err != nil {
		return err
	}

	// Count and delete inside one transaction so two concurrent removals
	// cannot both observe two admins and proceed.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx)

		membership, err := txRepo.GetMembership(ctx, teamID, userID)
		if err != nil {
			return err
		}

		if membership.Role == access.TeamRoleAdmin {
			admins, err := txRepo.CountAdmins(ctx, teamID)
			if err != nil {
				return err
			}
			if admins < 2 {
				return teamModel.ErrLastAdmin
			}
		}

		return txRepo.DeleteMembership(ctx, teamID, userID)
	})
}

// ChangeMemberRole changes a member's role.
func (s *service) ChangeMemberRole(ctx context.Context, actor access.Actor, teamID, userID string, role access.TeamRole) (*teamModel.MemberResponse, error) {
	if !role.Valid() {
		return nil, teamModel.ErrInvalidRole
	}
	if err := s.requireTeamAdmin(ctx, actor, teamID); err != nil {
		return nil, err
	}
	if err := s.changeRoleGuarded(ctx, teamID, userID, role); err != nil {
		return nil, err
	}
	return &teamModel.MemberResponse{UserID: userID, Role: role}, nil
}

// changeRoleGuarded applies a role change under the last-admin floor.
func (s *service) changeRoleGuarded(ctx context.Context, teamID, userID string, role access.TeamRole) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx)

		membership, err := txRepo.GetMembership(ctx, teamID, userID)
		if err != nil {
			return err
		}
		if membership.Role == role {
			return nil
		}

		if membership.Role == access.TeamRoleAdmin && role != access.TeamRoleAdmin {
			admins, err := txRepo.CountAdmins(ctx, teamID)
			if err != nil {
				return err
			}
			if admins < 2 {
				return teamModel.ErrLastAdmin
			}
		}

		return txRepo.UpdateMembershipRole(ctx, teamID, userID, role)
	})
}

// AssignAdmin promotes a user to team admin, creating the membership if the
// user is not yet a member. Safe to repeat.
func (s *service) AssignAdmin(ctx context.Context, actor access.Actor, teamID, userID string) (*teamModel.MemberResponse, error) {
	if !actor.IsSuperAdmin() {
		return nil, access.ErrForbidden
	}
	if _, err := s.repo.GetByID(ctx, teamID); err != nil {
		return nil, err
	}

	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, teamModel.ErrUserNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx)

		_, getErr := txRepo.GetMembership(ctx, teamID, userID)
		if getErr == nil {
			return txRepo.UpdateMembershipRole(ctx, teamID, userID, access.TeamRoleAdmin)
		}
		if !errors.Is(getErr, teamModel.ErrMembershipNotFound) {
			return getErr
		}
		return txRepo.CreateMembership(ctx, &teamModel.TeamMembership{
			TeamID: teamID,
			UserID: userID,
			Role:   access.TeamRoleAdmin,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("admin assigned", "team_id", teamID, "user_id", userID)
	return &teamModel.MemberResponse{UserID: userID, Role: access.TeamRoleAdmin}, nil
}

// DemoteAdmin demotes a team admin to member under the last-admin floor.
func (s *service) DemoteAdmin(ctx context.Context, actor access.Actor, teamID, userID string) (*teamModel.MemberResponse, error) {
	if !actor.IsSuperAdmin() {
		return nil, access.ErrForbidden
	}
	if _, err := s.repo.GetByID(ctx, teamID); err != nil {
		return nil, err
	}
	if err := s.changeRoleGuarded(ctx, teamID, userID, access.TeamRoleMember); err != nil {
		return nil, err
	}
	return &teamModel.MemberResponse{UserID: userID, Role: access.TeamRoleMember}, nil
}

// DeleteTeam deletes the team and everything it owns. The floor does not
// apply: memberships are cascaded to empty first, then prompts and
// collections lose their team reference and drop to PRIVATE, then the team
// row goes. The ordering keeps resources from referencing a missing team.
func (s *service) DeleteTeam(ctx context.Context, actor access.Actor, teamID string) error {
	if err := s.requireTeamAdminOrSuper(ctx, actor, teamID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx)

		if err := txRepo.DeleteAllMemberships(ctx, teamID); err != nil {
			return err
		}
		if err := txRepo.DeleteAllPins(ctx, teamID); err != nil {
			return err
		}
		if err := txRepo.StripTeamFromResources(ctx, teamID); err != nil {
			return err
		}
		return txRepo.Delete(ctx, teamID)
	})
	if err != nil {
		return err
	}

	s.logger.Infow("team deleted", "team_id", teamID, "actor_id", actor.ID)
	return nil
}

// PinPrompt appends a prompt to the team's pin list.
func (s *service) PinPrompt(ctx context.Context, actor access.Actor, teamID, promptID string) error {
	if err := s.requireTeamAdmin(ctx, actor, teamID); err != nil {
		return err
	}

	prompt, err := s.repo.GetPromptForAccess(ctx, promptID)
	if err != nil {
		return err
	}
	readable, err := s.resolver.CanRead(ctx, actor, prompt)
	if err != nil {
		return err
	}
	if !readable {
		return teamModel.ErrPromptNotFound
	}

	return s.repo.AddPin(ctx, teamID, promptID)
}

// UnpinPrompt removes a prompt from the team's pin list.
func (s *service) UnpinPrompt(ctx context.Context, actor access.Actor, teamID, promptID string) error {
	if err := s.requireTeamAdmin(ctx, actor, teamID); err != nil {
		return err
	}
	return s.repo.RemovePin(ctx, teamID, promptID)
}

// requireTeamAdmin checks the team exists and the actor holds ADMIN in it.
func (s *service) requireTeamAdmin(ctx context.Context, actor access.Actor, teamID string) error {
	if _, err := s.repo.GetByID(ctx, teamID); err != nil {
		return err
	}
	role, member, err := s.repo.RoleInTeam(ctx, actor.ID, teamID)
	if err != nil {
		return err
	}
	if !member || role != access.TeamRoleAdmin {
		return access.ErrForbidden
	}
	return nil
}

// requireTeamAdminOrSuper allows platform super-admins through as well.
func (s *service) requireTeamAdminOrSuper(ctx context.Context, actor access.Actor, teamID string) error {
	if actor.IsSuperAdmin() {
		if _, err := s.repo.GetByID(ctx, teamID); err != nil {
			return err
		}
		return nil
	}
	return s.requireTeamAdmin(ctx, actor, teamID)
}

// buildResponse assembles the team view with members and pins.
func (s *service) buildResponse(ctx context.Context, team *teamModel.Team) (*teamModel.TeamResponse, error) {
	members, err := s.repo.ListMembers(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	pins, err := s.repo.ListPins(ctx, team.ID)
	if err != nil {
		return nil, err
	}

	memberResponses := make([]teamModel.MemberResponse, 0, len(members))
	for _, m := range members {
		memberResponses = append(memberResponses, teamModel.MemberResponse{
			UserID: m.UserID,
			Role:   m.Role,
		})
	}

	return &teamModel.TeamResponse{
		Team:            *team,
		Members:         memberResponses,
		PinnedPromptIDs: pins,
	}, nil
}
