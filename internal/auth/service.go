package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crisisgrid.org/internal/ids"
)

const minPasswordLength = 8

// Service orchestrates registration, login, token refresh and request
// authentication over the credential store, hasher and token service.
type Service struct {
	store  Store
	hasher Hasher
	tokens *TokenService
}

// NewService constructs the auth service.
func NewService(store Store, hasher Hasher, tokens *TokenService) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth: store is required")
	}
	if tokens == nil {
		return nil, errors.New("auth: token service is required")
	}
	return &Service{store: store, hasher: hasher, tokens: tokens}, nil
}

// RegisterInput carries the already-schema-validated registration payload.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	// Role is optional; empty defaults to citizen. Restricting who may
	// pass a non-default role is the route layer's responsibility, not
	// ours — this service performs data validity checks only.
	Role string
}

// Register creates a new identity and returns it alongside a fresh token
// pair for immediate login. A responder registration provisions the
// linked responder profile atomically with the user record.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, TokenPair, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, TokenPair{}, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLength {
		return nil, TokenPair{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	if firstName == "" || lastName == "" {
		return nil, TokenPair{}, fmt.Errorf("%w: first and last name are required", ErrInvalidInput)
	}
	role := RoleCitizen
	if strings.TrimSpace(in.Role) != "" {
		parsed, err := ParseRole(in.Role)
		if err != nil {
			return nil, TokenPair{}, err
		}
		role = parsed
	}

	users := s.store.Users(ctx)
	if _, err := users.FindByEmail(ctx, email); err == nil {
		return nil, TokenPair{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, TokenPair{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, TokenPair{}, err
	}

	user := &User{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         role,
		IsActive:     true,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Login authenticates by email and password. A missing account and a
// wrong password collapse to the identical ErrInvalidCredentials; the
// deactivated check runs only after credentials verify, so neither path
// leaks account existence.
func (s *Service) Login(ctx context.Context, email, password string) (*User, TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	user, err := s.store.Users(ctx).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, TokenPair{}, ErrInvalidCredentials
		}
		return nil, TokenPair{}, err
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, TokenPair{}, ErrAccountDeactivated
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh verifies a refresh token and mints a brand-new access token
// carrying the subject's CURRENT role from the store, not whatever the
// subject held when the refresh token was issued. The refresh token
// itself is never rotated here; it stays valid until its own expiry.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}
	user, err := s.store.Users(ctx).Find(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInvalidRefreshToken
		}
		return "", err
	}
	if user.Role == "" {
		return "", ErrInvalidRefreshToken
	}
	return s.tokens.IssueAccess(user.ID, user.Role)
}

// Authenticate verifies a bearer access token and re-resolves the subject
// from the store. The token's embedded role is never trusted for
// authorization: the role on the returned actor is read fresh on every
// request, so a role change takes effect on the subject's very next call.
func (s *Service) Authenticate(ctx context.Context, token string) (Actor, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return Actor{}, err
	}
	user, err := s.store.Users(ctx).Find(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Actor{}, ErrUserNotFound
		}
		return Actor{}, err
	}
	return Actor{ID: user.ID, Role: user.Role}, nil
}

func (s *Service) issuePair(user *User) (TokenPair, error) {
	access, err := s.tokens.IssueAccess(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
