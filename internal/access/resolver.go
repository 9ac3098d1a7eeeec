package access

import "context"

// Resource is the view of a prompt or collection the resolver needs.
type Resource interface {
	// GetOwnerID returns the id of the owning user.
	GetOwnerID() string
	// GetVisibility returns the resource visibility tag.
	GetVisibility() Visibility
	// GetTeamID returns the referenced team id, or nil when the resource is
	// not team-scoped.
	GetTeamID() *string
}

// MembershipSource looks up an actor's role within a team.
type MembershipSource interface {
	// RoleInTeam returns the team role of the user in the given team.
	// The second return value is false when no membership exists.
	RoleInTeam(ctx context.Context, userID, teamID string) (TeamRole, bool, error)
}

// Resolver decides read/write eligibility for (actor, resource) pairs.
type Resolver struct {
	members MembershipSource
}

// NewResolver creates a resolver backed by the given membership source.
func NewResolver(members MembershipSource) *Resolver {
	return &Resolver{members: members}
}

// CanRead reports whether the actor may read the resource.
//
// Rules, first match wins: owner, then PUBLIC, then TEAM visibility with any
// membership in the resource's team. A TEAM resource with no team id is
// readable by its owner only.
func (r *Resolver) CanRead(ctx context.Context, actor Actor, res Resource) (bool, error) {
	if actor.ID == res.GetOwnerID() {
		return true, nil
	}
	switch res.GetVisibility() {
	case VisibilityPublic:
		return true, nil
	case VisibilityTeam:
		teamID := res.GetTeamID()
		if teamID == nil {
			return false, nil
		}
		_, ok, err := r.members.RoleInTeam(ctx, actor.ID, *teamID)
		if err != nil {
			return false, err
		}
		return ok, nil
	default:
		return false, nil
	}
}

// CanWrite reports whether the actor may mutate or delete the resource:
// the owner always may, and so may an ADMIN of the resource's team.
func (r *Resolver) CanWrite(ctx context.Context, actor Actor, res Resource) (bool, error) {
	if actor.ID == res.GetOwnerID() {
		return true, nil
	}
	teamID := res.GetTeamID()
	if teamID == nil {
		return false, nil
	}
	role, ok, err := r.members.RoleInTeam(ctx, actor.ID, *teamID)
	if err != nil {
		return false, err
	}
	return ok && role == TeamRoleAdmin, nil
}

// ValidateScope checks the structural visibility/team constraints of a
// resource: a team-scoped resource must not be PRIVATE.
func ValidateScope(visibility Visibility, teamID *string) error {
	if !visibility.Valid() {
		return ErrInvalidVisibility
	}
	if teamID != nil && visibility == VisibilityPrivate {
		return ErrPrivateTeamResource
	}
	return nil
}
