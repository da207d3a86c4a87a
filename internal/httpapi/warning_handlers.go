package httpapi

import (
	"net/http"
	"strings"
	"time"

	"crisisgrid.org/internal/stream"
	"crisisgrid.org/internal/warning"
)

type createWarningRequest struct {
	HazardZoneID string `json:"hazardZoneId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Level        string `json:"level"`
	IssuedBy     string `json:"issuedBy"`
	ValidUntil   string `json:"validUntil"`
	IsActive     *bool  `json:"isActive"`
}

type updateWarningRequest struct {
	HazardZoneID *string `json:"hazardZoneId"`
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Level        *string `json:"level"`
	IssuedBy     *string `json:"issuedBy"`
	ValidUntil   *string `json:"validUntil"`
	IsActive     *bool   `json:"isActive"`
}

func parseValidUntil(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	u := t.UTC()
	return &u, nil
}

func (a *API) handleWarningsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		// Public read access.
		p, err := paginationParams(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, codeValidationFailed, err.Error())
			return
		}
		warnings, total, err := a.warnings.List(r.Context(), p.offset, p.limit)
		if err != nil {
			a.handleDomainError(w, r, err)
			return
		}
		if warnings == nil {
			warnings = []*warning.Warning{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"warnings": warnings,
			"meta":     newPageMeta(total, p),
		})
	case http.MethodPost:
		r, ok := a.authorize(w, r, zoneAdmins())
		if !ok {
			return
		}
		var req createWarningRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, codeValidationFailed, err.Error())
			return
		}
		validUntil, err := parseValidUntil(req.ValidUntil)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, codeValidationFailed, "validUntil must be RFC 3339")
			return
		}
		wrn, err := a.warnings.Create(r.Context(), warning.CreateInput{
			HazardZoneID: req.HazardZoneID,
			Title:        req.Title,
			Description:  req.Description,
			Level:        req.Level,
			IssuedBy:     req.IssuedBy,
			ValidUntil:   validUntil,
			IsActive:     req.IsActive,
		})
		if err != nil {
			a.handleDomainError(w, r, err)
			return
		}
		a.audit(r.Context(), "warning.create", "warning", wrn.ID, map[string]string{
			"hazard_zone_id": wrn.HazardZoneID,
			"level":          string(wrn.Level),
		})
		a.publish(stream.Created(wrn))
		w.Header().Set("Location", "/v1/warnings/"+wrn.ID)
		writeJSON(w, http.StatusCreated, wrn)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleWarningResource(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/warnings/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, codeNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		// Public read access.
		wrn, err := a.warnings.Get(r.Context(), id)
		if err != nil {
			a.handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, wrn)
	case http.MethodPut:
		r, ok := a.authorize(w, r, zoneAdmins())
		if !ok {
			return
		}
		var req updateWarningRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, codeValidationFailed, err.Error())
			return
		}
		in := warning.UpdateInput{
			HazardZoneID: req.HazardZoneID,
			Title:        req.Title,
			Description:  req.Description,
			Level:        req.Level,
			IssuedBy:     req.IssuedBy,
			IsActive:     req.IsActive,
		}
		if req.ValidUntil != nil {
			validUntil, err := parseValidUntil(*req.ValidUntil)
			if err != nil {
				writeError(w, r, http.StatusBadRequest, codeValidationFailed, "validUntil must be RFC 3339")
				return
			}
			in.ValidUntil = validUntil
		}
		wrn, err := a.warnings.Update(r.Context(), id, in)
		if err != nil {
			a.handleDomainError(w, r, err)
			return
		}
		a.audit(r.Context(), "warning.update", "warning", wrn.ID, nil)
		a.publish(stream.Updated(wrn))
		writeJSON(w, http.StatusOK, wrn)
	case http.MethodDelete:
		r, ok := a.authorize(w, r, zoneAdmins())
		if !ok {
			return
		}
		if err := a.warnings.Delete(r.Context(), id); err != nil {
			a.handleDomainError(w, r, err)
			return
		}
		a.audit(r.Context(), "warning.delete", "warning", id, nil)
		a.publish(stream.Deleted(id))
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
