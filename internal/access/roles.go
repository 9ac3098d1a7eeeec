// Package access provides the role model and the visibility resolver used by
// every resource service to decide read/write eligibility.
package access

// PlatformRole is the platform-wide role of an actor.
type PlatformRole string

// Platform roles.
const (
	RoleUser       PlatformRole = "USER"
	RoleSuperAdmin PlatformRole = "SUPER_ADMIN"
)

// Valid reports whether the platform role is one of the known values.
func (r PlatformRole) Valid() bool {
	return r == RoleUser || r == RoleSuperAdmin
}

// TeamRole is a role scoped to a single team membership.
type TeamRole string

// Team roles.
const (
	TeamRoleMember TeamRole = "MEMBER"
	TeamRoleAdmin  TeamRole = "ADMIN"
)

// Valid reports whether the team role is one of the known values.
func (r TeamRole) Valid() bool {
	return r == TeamRoleMember || r == TeamRoleAdmin
}

// Visibility controls who may read a resource.
type Visibility string

// Visibility levels.
const (
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityTeam    Visibility = "TEAM"
	VisibilityPublic  Visibility = "PUBLIC"
)

// Valid reports whether the visibility is one of the known values.
func (v Visibility) Valid() bool {
	return v == VisibilityPrivate || v == VisibilityTeam || v == VisibilityPublic
}

// Actor is the authenticated identity performing a request. It is resolved
// from the auth token per request and never persisted by this subsystem.
type Actor struct {
	ID           string
	PlatformRole PlatformRole
}

// IsSuperAdmin reports whether the actor holds the platform admin role.
func (a Actor) IsSuperAdmin() bool {
	return a.PlatformRole == RoleSuperAdmin
}
