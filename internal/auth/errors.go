package auth

import "errors"

// Operational errors surfaced to callers. None of these indicate a server
// fault; the HTTP layer maps them to stable machine-checkable codes.
var (
	ErrInvalidInput = errors.New("auth: invalid input")

	// ErrEmailTaken signals the uniqueness invariant on registration.
	ErrEmailTaken = errors.New("auth: email already registered")

	// ErrInvalidCredentials deliberately covers both "no such user" and
	// "wrong password" so login cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrAccountDeactivated is returned only after credentials verify, so
	// deactivated accounts do not leak existence either.
	ErrAccountDeactivated = errors.New("auth: account deactivated")

	ErrTokenInvalid        = errors.New("auth: invalid token")
	ErrTokenExpired        = errors.New("auth: token expired")
	ErrInvalidRefreshToken = errors.New("auth: invalid refresh token")

	ErrAuthenticationRequired  = errors.New("auth: authentication required")
	ErrInsufficientPermissions = errors.New("auth: insufficient permissions")

	ErrUserNotFound = errors.New("auth: user not found")

	// ErrNotFound is the store-level absent outcome; services map it to
	// the domain errors above.
	ErrNotFound = errors.New("auth: not found")
)
