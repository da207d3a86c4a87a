package httpapi

import (
	"net/http"
	"strings"

	"crisisgrid.org/internal/auth"
	"crisisgrid.org/internal/hazard"
)

type createZoneRequest struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	GeometryData string `json:"geometryData"`
	RiskLevel    string `json:"riskLevel"`
	AdminNotes   string `json:"adminNotes"`
}

type updateZoneRequest struct {
	Name         *string `json:"name"`
	Type         *string `json:"type"`
	GeometryData *string `json:"geometryData"`
	RiskLevel    *string `json:"riskLevel"`
	AdminNotes   *string `json:"adminNotes"`
}

func zoneAdmins() auth.AllowSet {
	return auth.Allow(auth.RoleAdmin, auth.RoleSuperAdmin)
}

func (a *API) handleZonesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		// Public read access.
		p, err := paginationParams(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, codeValidationFailed, err.Error())
			return
		}
		zones, total, err := a.hazards.List(r.Context(), p.offset, p.limit)
		if err != nil {
			a.handleDomainError(w, r, err)
			return
		}
		if zones == nil {
			zones = []*hazard.Zone{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"zones": zones,
			"meta":  newPageMeta(total, p),
		})
	case http.MethodPost:
		r, ok := a.authorize(w, r, zoneAdmins())
		if !ok {
			return
		}
		var req createZoneRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, codeValidationFailed, err.Error())
			return
		}
		zone, err := a.hazards.Create(r.Context(), hazard.CreateInput{
			Name:         req.Name,
			Type:         req.Type,
			GeometryData: req.GeometryData,
			RiskLevel:    req.RiskLevel,
			AdminNotes:   req.AdminNotes,
		})
		if err != nil {
			a.handleDomainError(w, r, err)
			return
		}
		a.audit(r.Context(), "hazard.zone.create", "hazard_zone", zone.ID, map[string]string{
			"name":       zone.Name,
			"risk_level": string(zone.RiskLevel),
		})
		w.Header().Set("Location", "/v1/hazard-zones/"+zone.ID)
		writeJSON(w, http.StatusCreated, zone)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleZoneResource(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/hazard-zones/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, codeNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		// Public read access.
		zone, err := a.hazards.Get(r.Context(), id)
		if err != nil {
			a.handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, zone)
	case http.MethodPut:
		r, ok := a.authorize(w, r, zoneAdmins())
		if !ok {
			return
		}
		var req updateZoneRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, codeValidationFailed, err.Error())
			return
		}
		zone, err := a.hazards.Update(r.Context(), id, hazard.UpdateInput{
			Name:         req.Name,
			Type:         req.Type,
			GeometryData: req.GeometryData,
			RiskLevel:    req.RiskLevel,
			AdminNotes:   req.AdminNotes,
		})
		if err != nil {
			a.handleDomainError(w, r, err)
			return
		}
		a.audit(r.Context(), "hazard.zone.update", "hazard_zone", zone.ID, nil)
		writeJSON(w, http.StatusOK, zone)
	case http.MethodDelete:
		r, ok := a.authorize(w, r, zoneAdmins())
		if !ok {
			return
		}
		if err := a.hazards.Delete(r.Context(), id); err != nil {
			a.handleDomainError(w, r, err)
			return
		}
		a.audit(r.Context(), "hazard.zone.delete", "hazard_zone", id, nil)
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
