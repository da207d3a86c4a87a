// Package warning manages public alerts issued against hazard zones.
package warning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"crisisgrid.org/internal/ids"
)

var (
	ErrInvalidInput = errors.New("warning: invalid input")
	ErrNotFound     = errors.New("warning: not found")
	ErrZoneNotFound = errors.New("warning: hazard zone not found")
)

// Level grades the urgency of a warning.
type Level string

const (
	LevelLow      Level = "LOW"
	LevelMedium   Level = "MEDIUM"
	LevelHigh     Level = "HIGH"
	LevelCritical Level = "CRITICAL"
)

// ParseLevel validates a warning level; empty input falls back to MEDIUM.
func ParseLevel(raw string) (Level, error) {
	level := Level(strings.ToUpper(strings.TrimSpace(raw)))
	switch level {
	case "":
		return LevelMedium, nil
	case LevelLow, LevelMedium, LevelHigh, LevelCritical:
		return level, nil
	}
	return "", fmt.Errorf("%w: unknown level %q", ErrInvalidInput, raw)
}

// ZoneSummary is the joined zone context carried on list and get results.
type ZoneSummary struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Warning is an alert bound to a hazard zone. ValidUntil is nil for
// open-ended warnings.
type Warning struct {
	ID           string       `json:"id"`
	HazardZoneID string       `json:"hazardZoneId"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Level        Level        `json:"level"`
	IssuedBy     string       `json:"issuedBy"`
	ValidUntil   *time.Time   `json:"validUntil,omitempty"`
	IsActive     bool         `json:"isActive"`
	HazardZone   *ZoneSummary `json:"hazardZone,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Update carries a partial warning update; nil fields are left untouched.
type Update struct {
	HazardZoneID *string
	Title        *string
	Description  *string
	Level        *Level
	IssuedBy     *string
	ValidUntil   *time.Time
	IsActive     *bool
}

// Store is the persistence boundary. A broken zone reference surfaces as
// ErrZoneNotFound, absent warnings as ErrNotFound.
type Store interface {
	Create(ctx context.Context, w *Warning) error
	Find(ctx context.Context, id string) (*Warning, error)
	List(ctx context.Context, offset, limit int) ([]*Warning, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, id string, upd Update) (*Warning, error)
	Delete(ctx context.Context, id string) error
}

// Service validates and orchestrates warning operations.
type Service struct {
	store Store
}

func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("warning: store is required")
	}
	return &Service{store: store}, nil
}

// CreateInput carries the already-schema-validated creation payload.
type CreateInput struct {
	HazardZoneID string
	Title        string
	Description  string
	Level        string
	IssuedBy     string
	ValidUntil   *time.Time
	IsActive     *bool
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Warning, error) {
	zoneID := strings.TrimSpace(in.HazardZoneID)
	if zoneID == "" {
		return nil, fmt.Errorf("%w: hazard zone id is required", ErrInvalidInput)
	}
	title := strings.TrimSpace(in.Title)
	if len(title) < 5 {
		return nil, fmt.Errorf("%w: title must be at least 5 characters", ErrInvalidInput)
	}
	description := strings.TrimSpace(in.Description)
	if len(description) < 10 {
		return nil, fmt.Errorf("%w: description must be at least 10 characters", ErrInvalidInput)
	}
	issuedBy := strings.TrimSpace(in.IssuedBy)
	if issuedBy == "" {
		return nil, fmt.Errorf("%w: issuer is required", ErrInvalidInput)
	}
	level, err := ParseLevel(in.Level)
	if err != nil {
		return nil, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	w := &Warning{
		ID:           ids.New(),
		HazardZoneID: zoneID,
		Title:        title,
		Description:  description,
		Level:        level,
		IssuedBy:     issuedBy,
		ValidUntil:   in.ValidUntil,
		IsActive:     active,
	}
	if err := s.store.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Warning, error) {
	return s.store.Find(ctx, id)
}

// List returns a page of warnings, newest first, each joined with its
// zone summary, plus the total count.
func (s *Service) List(ctx context.Context, offset, limit int) ([]*Warning, int, error) {
	warnings, err := s.store.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return warnings, total, nil
}

// UpdateInput mirrors CreateInput with every field optional.
type UpdateInput struct {
	HazardZoneID *string
	Title        *string
	Description  *string
	Level        *string
	IssuedBy     *string
	ValidUntil   *time.Time
	IsActive     *bool
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Warning, error) {
	var upd Update
	if in.HazardZoneID != nil {
		zoneID := strings.TrimSpace(*in.HazardZoneID)
		if zoneID == "" {
			return nil, fmt.Errorf("%w: hazard zone id is required", ErrInvalidInput)
		}
		upd.HazardZoneID = &zoneID
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if len(title) < 5 {
			return nil, fmt.Errorf("%w: title must be at least 5 characters", ErrInvalidInput)
		}
		upd.Title = &title
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if len(description) < 10 {
			return nil, fmt.Errorf("%w: description must be at least 10 characters", ErrInvalidInput)
		}
		upd.Description = &description
	}
	if in.Level != nil {
		level, err := ParseLevel(*in.Level)
		if err != nil {
			return nil, err
		}
		upd.Level = &level
	}
	if in.IssuedBy != nil {
		issuedBy := strings.TrimSpace(*in.IssuedBy)
		if issuedBy == "" {
			return nil, fmt.Errorf("%w: issuer is required", ErrInvalidInput)
		}
		upd.IssuedBy = &issuedBy
	}
	upd.ValidUntil = in.ValidUntil
	upd.IsActive = in.IsActive
	return s.store.Update(ctx, id, upd)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
