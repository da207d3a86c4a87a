package auth

// Grant tags the branch of the authorization decision that admitted the
// request, so access decisions stay auditable in isolation from transport.
type Grant int

const (
	GrantNone Grant = iota
	// GrantPublic: the allow-set contains the public sentinel; no identity
	// is required and none is inspected.
	GrantPublic
	// GrantExplicit: the actor's role is listed in the allow-set.
	GrantExplicit
	// GrantSuperRole: the super_admin bypass. Checked after explicit
	// membership, so an explicitly listed super_admin reports GrantExplicit.
	GrantSuperRole
)

// DenyReason distinguishes "never authenticated" from "authenticated but
// not permitted"; callers render 401 vs 403 from it.
type DenyReason int

const (
	DenyNone DenyReason = iota
	DenyUnauthenticated
	DenyForbidden
)

// Decision is the outcome of a single authorization check.
type Decision struct {
	Allowed bool
	Grant   Grant
	Reason  DenyReason
}

// Err maps a denial to its operational error. Returns nil for allowed
// decisions.
func (d Decision) Err() error {
	switch {
	case d.Allowed:
		return nil
	case d.Reason == DenyUnauthenticated:
		return ErrAuthenticationRequired
	default:
		return ErrInsufficientPermissions
	}
}

// Authorize decides whether actor may proceed against allow. It is pure:
// no side effects, no mutation of actor, safe for any number of routes.
// actor is nil when the request never authenticated.
func Authorize(actor *Actor, allow AllowSet) Decision {
	if allow.Contains(RolePublic) {
		return Decision{Allowed: true, Grant: GrantPublic}
	}
	if actor == nil {
		return Decision{Reason: DenyUnauthenticated}
	}
	if allow.Contains(actor.Role) {
		return Decision{Allowed: true, Grant: GrantExplicit}
	}
	if actor.Role == RoleSuperAdmin {
		return Decision{Allowed: true, Grant: GrantSuperRole}
	}
	return Decision{Reason: DenyForbidden}
}
