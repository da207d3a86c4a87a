// Package users is the account directory: profile reads and updates for
// the authenticated user, plus the administrative list/re-role/delete
// surface.
package users

import (
	"context"
	"errors"

	"crisisgrid.org/internal/auth"
)

// ErrProtectedAccount guards the seeded super-admin account from role
// changes and deletion.
var ErrProtectedAccount = errors.New("users: the super admin account cannot be modified")

// Service wraps the credential store with directory-level rules.
type Service struct {
	store        auth.Store
	superAdminID string
}

// NewService constructs the directory service. superAdminID may be empty
// when no protected account is configured.
func NewService(store auth.Store, superAdminID string) (*Service, error) {
	if store == nil {
		return nil, errors.New("users: store is required")
	}
	return &Service{store: store, superAdminID: superAdminID}, nil
}

// Profile is a user joined with their responder profile when one exists.
type Profile struct {
	*auth.User
	Responder *auth.ResponderProfile `json:"responderProfile,omitempty"`
}

func (s *Service) Get(ctx context.Context, id string) (*auth.User, error) {
	u, err := s.store.Users(ctx).Find(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return u, nil
}

// GetProfile resolves a user together with their responder profile.
func (s *Service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	users := s.store.Users(ctx)
	u, err := users.Find(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	profile := &Profile{User: u}
	if u.Role == auth.RoleResponder {
		rp, err := users.ResponderProfile(ctx, id)
		if err != nil && !errors.Is(err, auth.ErrNotFound) {
			return nil, err
		}
		profile.Responder = rp
	}
	return profile, nil
}

// UpdateMe applies a self-service profile update.
func (s *Service) UpdateMe(ctx context.Context, id string, upd auth.ProfileUpdate) (*auth.User, error) {
	u, err := s.store.Users(ctx).UpdateProfile(ctx, id, upd)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return u, nil
}

// List returns a page of users, newest first, plus the total count.
func (s *Service) List(ctx context.Context, offset, limit int) ([]*auth.User, int, error) {
	users := s.store.Users(ctx)
	page, err := users.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := users.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return page, total, nil
}

// ChangeRole re-roles a user. The store reconciles the responder profile
// in the same transaction. The configured super-admin account is
// untouchable.
func (s *Service) ChangeRole(ctx context.Context, id, rawRole string) (*auth.User, error) {
	if s.protected(id) {
		return nil, ErrProtectedAccount
	}
	role, err := auth.ParseRole(rawRole)
	if err != nil {
		return nil, err
	}
	u, err := s.store.Users(ctx).UpdateRole(ctx, id, role)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return u, nil
}

// Delete removes a user and their responder profile.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.protected(id) {
		return ErrProtectedAccount
	}
	if err := s.store.Users(ctx).Delete(ctx, id); err != nil {
		return mapNotFound(err)
	}
	return nil
}

func (s *Service) protected(id string) bool {
	return s.superAdminID != "" && id == s.superAdminID
}

func mapNotFound(err error) error {
	if errors.Is(err, auth.ErrNotFound) {
		return auth.ErrUserNotFound
	}
	return err
}
