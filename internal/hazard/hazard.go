// Package hazard manages the hazard-zone registry: geographic areas with
// an assessed risk level, maintained by administrators and readable by
// anyone.
package hazard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"crisisgrid.org/internal/ids"
)

var (
	ErrInvalidInput = errors.New("hazard: invalid input")
	ErrNotFound     = errors.New("hazard: zone not found")
)

// RiskLevel grades the severity of a hazard zone.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// ParseRiskLevel validates a risk level; empty input falls back to MEDIUM.
func ParseRiskLevel(raw string) (RiskLevel, error) {
	level := RiskLevel(strings.ToUpper(strings.TrimSpace(raw)))
	switch level {
	case "":
		return RiskMedium, nil
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return level, nil
	}
	return "", fmt.Errorf("%w: unknown risk level %q", ErrInvalidInput, raw)
}

// Zone is a geographic area with hazard metadata. GeometryData holds an
// opaque spatial payload (GeoJSON or similar); the service never
// interprets it.
type Zone struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	GeometryData string    `json:"geometryData"`
	RiskLevel    RiskLevel `json:"riskLevel"`
	AdminNotes   string    `json:"adminNotes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Update carries a partial zone update; nil fields are left untouched.
type Update struct {
	Name         *string
	Type         *string
	GeometryData *string
	RiskLevel    *RiskLevel
	AdminNotes   *string
}

// Store is the persistence boundary. Absent records surface as
// ErrNotFound.
type Store interface {
	Create(ctx context.Context, z *Zone) error
	Find(ctx context.Context, id string) (*Zone, error)
	List(ctx context.Context, offset, limit int) ([]*Zone, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, id string, upd Update) (*Zone, error)
	Delete(ctx context.Context, id string) error
}

// Service validates and orchestrates zone operations.
type Service struct {
	store Store
}

func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("hazard: store is required")
	}
	return &Service{store: store}, nil
}

// CreateInput carries the already-schema-validated creation payload.
type CreateInput struct {
	Name         string
	Type         string
	GeometryData string
	RiskLevel    string
	AdminNotes   string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Zone, error) {
	name := strings.TrimSpace(in.Name)
	if len(name) < 3 {
		return nil, fmt.Errorf("%w: name must be at least 3 characters", ErrInvalidInput)
	}
	zoneType := strings.TrimSpace(in.Type)
	if len(zoneType) < 3 {
		return nil, fmt.Errorf("%w: type is required", ErrInvalidInput)
	}
	geometry := strings.TrimSpace(in.GeometryData)
	if len(geometry) < 10 {
		return nil, fmt.Errorf("%w: geometry data is required", ErrInvalidInput)
	}
	level, err := ParseRiskLevel(in.RiskLevel)
	if err != nil {
		return nil, err
	}

	zone := &Zone{
		ID:           ids.New(),
		Name:         name,
		Type:         zoneType,
		GeometryData: geometry,
		RiskLevel:    level,
		AdminNotes:   strings.TrimSpace(in.AdminNotes),
	}
	if err := s.store.Create(ctx, zone); err != nil {
		return nil, err
	}
	return zone, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Zone, error) {
	return s.store.Find(ctx, id)
}

// List returns a page of zones, newest first, plus the total count.
func (s *Service) List(ctx context.Context, offset, limit int) ([]*Zone, int, error) {
	zones, err := s.store.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return zones, total, nil
}

// UpdateInput mirrors CreateInput with every field optional.
type UpdateInput struct {
	Name         *string
	Type         *string
	GeometryData *string
	RiskLevel    *string
	AdminNotes   *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Zone, error) {
	var upd Update
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len(name) < 3 {
			return nil, fmt.Errorf("%w: name must be at least 3 characters", ErrInvalidInput)
		}
		upd.Name = &name
	}
	if in.Type != nil {
		zoneType := strings.TrimSpace(*in.Type)
		if len(zoneType) < 3 {
			return nil, fmt.Errorf("%w: type is required", ErrInvalidInput)
		}
		upd.Type = &zoneType
	}
	if in.GeometryData != nil {
		geometry := strings.TrimSpace(*in.GeometryData)
		if len(geometry) < 10 {
			return nil, fmt.Errorf("%w: geometry data is required", ErrInvalidInput)
		}
		upd.GeometryData = &geometry
	}
	if in.RiskLevel != nil {
		level, err := ParseRiskLevel(*in.RiskLevel)
		if err != nil {
			return nil, err
		}
		upd.RiskLevel = &level
	}
	if in.AdminNotes != nil {
		notes := strings.TrimSpace(*in.AdminNotes)
		upd.AdminNotes = &notes
	}
	return s.store.Update(ctx, id, upd)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
