package auth

import "context"

// Store describes the persistence operations the auth and user-directory
// subsystems depend on. Absent records surface as ErrNotFound, never as
// driver errors, so error mapping above stays purely functional.
type Store interface {
	Users(ctx context.Context) UserStore
}

// UserStore manages identity records and their role-linked responder
// profiles.
type UserStore interface {
	// Create inserts the user and, when the role is responder, provisions
	// the linked responder profile in the same transaction.
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, offset, limit int) ([]*User, error)
	Count(ctx context.Context) (int, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*User, error)
	// UpdateRole changes the role and reconciles the responder profile
	// (upsert on transition to responder, delete on transition away) as a
	// single all-or-nothing unit.
	UpdateRole(ctx context.Context, id string, role Role) (*User, error)
	Delete(ctx context.Context, id string) error
	ResponderProfile(ctx context.Context, userID string) (*ResponderProfile, error)
}
