// Package repository provides the data access layer for the team module.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/promptstash/promptstash/internal/access"
	teamModel "github.com/promptstash/promptstash/internal/team/model"
)

// Repository defines the interface for team data access operations.
// It also serves as the membership source for the visibility resolver.
type Repository interface {
	// Create creates a new team.
	Create(ctx context.Context, team *teamModel.Team) error

	// GetByID finds a team by id.
	GetByID(ctx context.Context, teamID string) (*teamModel.Team, error)

	// Delete removes the team row.
	Delete(ctx context.Context, teamID string) error

	// ListForUser returns all teams the user is a member of.
	ListForUser(ctx context.Context, userID string) ([]teamModel.Team, error)

	// RoleInTeam returns the role of the user in a team, implementing
	// access.MembershipSource.
	RoleInTeam(ctx context.Context, userID, teamID string) (access.TeamRole, bool, error)

	// GetMembership returns the membership of a user in a team.
	GetMembership(ctx context.Context, teamID, userID string) (*teamModel.TeamMembership, error)

	// ListMembers returns all memberships of a team ordered by join time.
	ListMembers(ctx context.Context, teamID string) ([]teamModel.TeamMembership, error)

	// CountAdmins returns the number of ADMIN memberships in a team.
	CountAdmins(ctx context.Context, teamID string) (int64, error)

	// CreateMembership inserts a membership row.
	CreateMembership(ctx context.Context, membership *teamModel.TeamMembership) error

	// UpdateMembershipRole changes the role of an existing membership.
	UpdateMembershipRole(ctx context.Context, teamID, userID string, role access.TeamRole) error

	// DeleteMembership removes a single membership row.
	DeleteMembership(ctx context.Context, teamID, userID string) error

	// DeleteAllMemberships removes every membership of a team.
	DeleteAllMemberships(ctx context.Context, teamID string) error

	// StripTeamFromResources nulls the team reference and downgrades
	// visibility to PRIVATE on every prompt and collection still
	// referencing the team.
	StripTeamFromResources(ctx context.Context, teamID string) error

	// ListPins returns the team's pinned prompt ids in order.
	ListPins(ctx context.Context, teamID string) ([]string, error)

	// AddPin appends a prompt to the team's pin list.
	AddPin(ctx context.Context, teamID, promptID string) error

	// RemovePin removes a prompt from the team's pin list.
	RemovePin(ctx context.Context, teamID, promptID string) error

	// DeleteAllPins removes every pin of a team.
	DeleteAllPins(ctx context.Context, teamID string) error

	// UserExists reports whether a user row with the given id exists.
	UserExists(ctx context.Context, userID string) (bool, error)

	// GetPromptForAccess loads the access-relevant fields of a prompt.
	GetPromptForAccess(ctx context.Context, promptID string) (access.Resource, error)
}

type repository struct {
	db *gorm.DB
}

// New creates a new team repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create creates a new team.
func (r *repository) Create(ctx context.Context, team *teamModel.Team) error {
	now := time.Now()
	team.CreatedAt = now
	team.UpdatedAt = now

	err := r.db.WithContext(ctx).Create(team).Error
	if err != nil {
		if isDuplicateError(err) {
			return teamModel.ErrTeamExists
		}
		return err
	}
	return nil
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

// GetByID finds a team by id.
func (r *repository) GetByID(ctx context.Context, teamID string) (*teamModel.Team, error) {
	var team teamModel.Team
	err := r.db.WithContext(ctx).
		Where("id = ?", teamID).
		First(&team).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, teamModel.ErrTeamNotFound
		}
		return nil, err
	}

	return &team, nil
}

// Delete removes the team row.
func (r *repository) Delete(ctx context.Context, teamID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", teamID).
		Delete(&teamModel.Team{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return teamModel.ErrTeamNotFound
	}
	return nil
}

// ListForUser returns all teams the user is a member of.
func (r *repository) ListForUser(ctx context.Context, userID string) ([]teamModel.Team, error) {
	var teams []teamModel.Team
	err := r.db.WithContext(ctx).
		Joins("JOIN team_memberships ON team_memberships.team_id = teams.id").
		Where("team_memberships.user_id = ?", userID).
		Order("teams.name ASC").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}
	if teams == nil {
		teams = []teamModel.Team{}
	}
	return teams, nil
}

// RoleInTeam returns the role of the user in a team.
func (r *repository) RoleInTeam(ctx context.Context, userID, teamID string) (access.TeamRole, bool, error) {
	membership, err := r.GetMembership(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, teamModel.ErrMembershipNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return membership.Role, true, nil
}

// GetMembership returns the membership of a user in a team.
func (r *repository) GetMembership(ctx context.Context, teamID, userID string) (*teamModel.TeamMembership, error) {
	var membership teamModel.TeamMembership
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, teamModel.ErrMembershipNotFound
		}
		return nil, err
	}

	return &membership, nil
}

// ListMembers returns all memberships of a team ordered by join time.
func (r *repository) ListMembers(ctx context.Context, teamID string) ([]teamModel.TeamMembership, error) {
	var members []teamModel.TeamMembership
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("created_at ASC, user_id ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []teamModel.TeamMembership{}
	}
	return members, nil
}

// CountAdmins returns the number of ADMIN memberships in a team.
func (r *repository) CountAdmins(ctx context.Context, teamID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&teamModel.TeamMembership{}).
		Where("team_id = ? AND role = ?", teamID, access.TeamRoleAdmin).
		Count(&count).Error
	return count, err
}

// CreateMembership inserts a membership row.
func (r *repository) CreateMembership(ctx context.Context, membership *teamModel.TeamMembership) error {
	now := time.Now()
	membership.CreatedAt = now
	membership.UpdatedAt = now

	err := r.db.WithContext(ctx).Create(membership).Error
	if err != nil {
		if isDuplicateError(err) {
			return teamModel.ErrAlreadyMember
		}
		return err
	}
	return nil
}

// UpdateMembershipRole changes the role of an existing membership.
func (r *repository) UpdateMembershipRole(ctx context.Context, teamID, userID string, role access.TeamRole) error {
	result := r.db.WithContext(ctx).
		Model(&teamModel.TeamMembership{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Updates(map[string]interface{}{
			"role":       role,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return teamModel.ErrMembershipNotFound
	}
	return nil
}

// DeleteMembership removes a single membership row.
func (r *repository) DeleteMembership(ctx context.Context, teamID, userID string) error {
	result := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&teamModel.TeamMembership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return teamModel.ErrMembershipNotFound
	}
	return nil
}

// DeleteAllMemberships removes every membership of a team.
func (r *repository) DeleteAllMemberships(ctx context.Context, teamID string) error {
	return r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Delete(&teamModel.TeamMembership{}).Error
}

// StripTeamFromResources nulls the team reference and downgrades visibility
// to PRIVATE on every prompt and collection still referencing the team.
// Runs before the team row is deleted so no resource ever points at a
// nonexistent team.
func (r *repository) StripTeamFromResources(ctx context.Context, teamID string) error {
	for _, table := range []string{"prompts", "collections"} {
		err := r.db.WithContext(ctx).
			Table(table).
			Where("team_id = ?", teamID).
			Updates(map[string]interface{}{
				"team_id":    nil,
				"visibility": access.VisibilityPrivate,
				"updated_at": time.Now(),
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// ListPins returns the team's pinned prompt ids in order.
func (r *repository) ListPins(ctx context.Context, teamID string) ([]string, error) {
	var promptIDs []string
	err := r.db.WithContext(ctx).
		Model(&teamModel.TeamPin{}).
		Where("team_id = ?", teamID).
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

// AddPin appends a prompt to the team's pin list.
func (r *repository) AddPin(ctx context.Context, teamID, promptID string) error {
	var maxPosition int
	err := r.db.WithContext(ctx).
		Model(&teamModel.TeamPin{}).
		Where("team_id = ?", teamID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&maxPosition).Error
	if err != nil {
		return err
	}

	pin := &teamModel.TeamPin{
		TeamID:    teamID,
		PromptID:  promptID,
		Position:  maxPosition + 1,
		CreatedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(pin).Error; err != nil {
		if isDuplicateError(err) {
			return teamModel.ErrAlreadyPinned
		}
		return err
	}
	return nil
}

// RemovePin removes a prompt from the team's pin list.
func (r *repository) RemovePin(ctx context.Context, teamID, promptID string) error {
	result := r.db.WithContext(ctx).
		Where("team_id = ? AND prompt_id = ?", teamID, promptID).
		Delete(&teamModel.TeamPin{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return teamModel.ErrPinNotFound
	}
	return nil
}

// DeleteAllPins removes every pin of a team.
func (r *repository) DeleteAllPins(ctx context.Context, teamID string) error {
	return r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Delete(&teamModel.TeamPin{}).Error
}

// UserExists reports whether a user row with the given id exists.
func (r *repository) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("users").
		Where("id = ?", userID).
		Count(&count).Error
	return count > 0, err
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
		return nil, teamModel.ErrPromptNotFound
	}
	return ref, nil
}
