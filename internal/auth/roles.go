package auth

import (
	"fmt"
	"strings"
)

// Role is the closed set of privilege levels a user account can hold.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleResponder  Role = "responder"
	RoleVolunteer  Role = "volunteer"
	RoleCitizen    Role = "citizen"

	// RolePublic is a sentinel used only in route allow-sets; it is never
	// stored on a user record. An allow-set containing it skips all checks.
	RolePublic Role = "public"
)

// Roles lists every assignable role, highest privilege first.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleResponder, RoleVolunteer, RoleCitizen}

// ParseRole normalizes and validates an assignable role. The public
// sentinel is rejected: it has no meaning outside of allow-sets.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.TrimSpace(strings.ToLower(raw)))
	for _, known := range Roles {
		if role == known {
			return role, nil
		}
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, raw)
}

// AllowSet is the declared set of roles permitted to invoke a route.
type AllowSet map[Role]struct{}

// Allow builds an AllowSet from the given roles.
func Allow(roles ...Role) AllowSet {
	set := make(AllowSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Public is the allow-set meaning "no check at all".
func Public() AllowSet { return Allow(RolePublic) }

// Contains reports membership of role in the set.
func (s AllowSet) Contains(role Role) bool {
	_, ok := s[role]
	return ok
}
