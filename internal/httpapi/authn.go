package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"crisisgrid.org/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// authorize runs the request-authorization pipeline for one route: the
// public bypass is decided before any token work; otherwise the bearer
// token is verified, the subject re-resolved from the store and the role
// decision applied. On denial the response is written and ok is false.
// On success the returned request carries the actor in its context.
func (a *API) authorize(w http.ResponseWriter, r *http.Request, allow auth.AllowSet) (*http.Request, bool) {
	if dec := auth.Authorize(nil, allow); dec.Allowed {
		return r, true
	}

	header := r.Header.Get(authHeader)
	token, err := extractBearerToken(header)
	if err != nil {
		if strings.TrimSpace(header) == "" {
			writeError(w, r, http.StatusUnauthorized, codeAuthenticationRequired, "authentication required")
		} else {
			writeError(w, r, http.StatusUnauthorized, codeTokenInvalid, err.Error())
		}
		return r, false
	}

	actor, err := a.auth.Authenticate(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			writeError(w, r, http.StatusUnauthorized, codeTokenExpired, "token expired")
		case errors.Is(err, auth.ErrTokenInvalid):
			writeError(w, r, http.StatusUnauthorized, codeTokenInvalid, "invalid token")
		case errors.Is(err, auth.ErrUserNotFound):
			writeError(w, r, http.StatusUnauthorized, codeUserNotFound, "user not found")
		default:
			a.serverFault(w, r, err)
		}
		return r, false
	}

	r = r.WithContext(auth.ContextWithActor(r.Context(), actor))
	if dec := auth.Authorize(&actor, allow); !dec.Allowed {
		writeError(w, r, http.StatusForbidden, codeInsufficientPermissions, "insufficient permissions")
		return r, false
	}
	return r, true
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
