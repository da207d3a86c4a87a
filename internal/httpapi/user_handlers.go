package httpapi

import (
	"net/http"
	"strings"

	"crisisgrid.org/internal/auth"
)

type updateMeRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

// anyRole permits every assignable role; authentication is still
// required.
func anyRole() auth.AllowSet {
	return auth.Allow(auth.Roles...)
}

func (a *API) handleUsersCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	r, ok := a.authorize(w, r, auth.Allow(auth.RoleAdmin, auth.RoleSuperAdmin))
	if !ok {
		return
	}

	p, err := paginationParams(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	page, total, err := a.users.List(r.Context(), p.offset, p.limit)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	if page == nil {
		page = []*auth.User{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"users": page,
		"meta":  newPageMeta(total, p),
	})
}

func (a *API) handleUserScoped(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/users/"), "/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, codeNotFound, "resource not found")
		return
	}
	parts := strings.Split(path, "/")

	switch {
	case len(parts) == 1 && parts[0] == "me":
		a.handleMe(w, r)
	case len(parts) == 1:
		a.handleUserResource(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "role":
		a.handleUserRole(w, r, parts[0])
	default:
		writeError(w, r, http.StatusNotFound, codeNotFound, "resource not found")
	}
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	r, ok := a.authorize(w, r, anyRole())
	if !ok {
		return
	}
	actor, _ := auth.ActorFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		profile, err := a.users.GetProfile(r.Context(), actor.ID)
		if err != nil {
			a.handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	case http.MethodPut:
		var req updateMeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, codeValidationFailed, err.Error())
			return
		}
		user, err := a.users.UpdateMe(r.Context(), actor.ID, auth.ProfileUpdate{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
		})
		if err != nil {
			a.handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut)
	}
}

func (a *API) handleUserResource(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		r, ok := a.authorize(w, r, auth.Allow(auth.RoleAdmin, auth.RoleSuperAdmin))
		if !ok {
			return
		}
		profile, err := a.users.GetProfile(r.Context(), id)
		if err != nil {
			a.handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	case http.MethodDelete:
		r, ok := a.authorize(w, r, auth.Allow(auth.RoleSuperAdmin))
		if !ok {
			return
		}
		if err := a.users.Delete(r.Context(), id); err != nil {
			a.handleDomainError(w, r, err)
			return
		}
		a.audit(r.Context(), "users.delete", "user", id, nil)
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodDelete)
	}
}

func (a *API) handleUserRole(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}
	r, ok := a.authorize(w, r, auth.Allow(auth.RoleSuperAdmin))
	if !ok {
		return
	}

	var req changeRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	user, err := a.users.ChangeRole(r.Context(), id, req.Role)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	a.audit(r.Context(), "users.role.change", "user", id, map[string]string{
		"role": string(user.Role),
	})
	writeJSON(w, http.StatusOK, user)
}
