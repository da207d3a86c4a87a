package httpapi

import (
	"errors"
	"net/http"

	"crisisgrid.org/internal/auth"
	"crisisgrid.org/internal/hazard"
	"crisisgrid.org/internal/obs"
	"crisisgrid.org/internal/users"
	"crisisgrid.org/internal/warning"
)

// Stable machine-checkable error codes carried in every error payload.
const (
	codeValidationFailed        = "validation_failed"
	codeDuplicateEmail          = "duplicate_email"
	codeInvalidCredentials      = "invalid_credentials"
	codeAccountDeactivated      = "account_deactivated"
	codeAuthenticationRequired  = "authentication_required"
	codeTokenInvalid            = "token_invalid"
	codeTokenExpired            = "token_expired"
	codeInvalidRefreshToken     = "invalid_refresh_token"
	codeInsufficientPermissions = "insufficient_permissions"
	codeUserNotFound            = "user_not_found"
	codeProtectedAccount        = "protected_account"
	codeNotFound                = "not_found"
	codeZoneNotFound            = "zone_not_found"
	codeMethodNotAllowed        = "method_not_allowed"
	codeInternal                = "internal_error"
)

// handleDomainError maps operational errors to status + code. Anything
// outside the taxonomy is a server fault: logged only when verbose, and
// returned without internal detail.
func (a *API) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidInput),
		errors.Is(err, hazard.ErrInvalidInput),
		errors.Is(err, warning.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, codeValidationFailed, err.Error())
	case errors.Is(err, auth.ErrEmailTaken):
		writeError(w, r, http.StatusConflict, codeDuplicateEmail, "email already registered")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, r, http.StatusUnauthorized, codeInvalidCredentials, "invalid email or password")
	case errors.Is(err, auth.ErrAccountDeactivated):
		writeError(w, r, http.StatusForbidden, codeAccountDeactivated, "account is deactivated")
	case errors.Is(err, auth.ErrInvalidRefreshToken):
		writeError(w, r, http.StatusUnauthorized, codeInvalidRefreshToken, "invalid or expired refresh token")
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, r, http.StatusNotFound, codeUserNotFound, "user not found")
	case errors.Is(err, users.ErrProtectedAccount):
		writeError(w, r, http.StatusForbidden, codeProtectedAccount, "the super admin account cannot be modified")
	case errors.Is(err, warning.ErrZoneNotFound):
		writeError(w, r, http.StatusNotFound, codeZoneNotFound, "hazard zone not found")
	case errors.Is(err, hazard.ErrNotFound):
		writeError(w, r, http.StatusNotFound, codeNotFound, "hazard zone not found")
	case errors.Is(err, warning.ErrNotFound):
		writeError(w, r, http.StatusNotFound, codeNotFound, "warning not found")
	default:
		a.serverFault(w, r, err)
	}
}

func (a *API) serverFault(w http.ResponseWriter, r *http.Request, err error) {
	if a.verbose {
		obs.LogError("unexpected failure", err, map[string]any{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": RequestIDFromContext(r.Context()),
		})
	}
	writeError(w, r, http.StatusInternalServerError, codeInternal, "internal error")
}
