package hazard

import (
	"context"
	"database/sql"
	"errors"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

const zoneColumns = `id, name, type, geometry_data, risk_level, admin_notes, created_at, updated_at`

func scanZone(row interface{ Scan(...any) error }) (*Zone, error) {
	var z Zone
	err := row.Scan(&z.ID, &z.Name, &z.Type, &z.GeometryData, &z.RiskLevel,
		&z.AdminNotes, &z.CreatedAt, &z.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &z, nil
}

func (s *PGStore) Create(ctx context.Context, z *Zone) error {
	_, err := s.db.ExecContext(ctx, `
		insert into hazard_zones(id, name, type, geometry_data, risk_level, admin_notes)
		values ($1,$2,$3,$4,$5,$6)
	`, z.ID, z.Name, z.Type, z.GeometryData, z.RiskLevel, z.AdminNotes)
	return err
}

func (s *PGStore) Find(ctx context.Context, id string) (*Zone, error) {
	return scanZone(s.db.QueryRowContext(ctx,
		`select `+zoneColumns+` from hazard_zones where id=$1`, id))
}

func (s *PGStore) List(ctx context.Context, offset, limit int) ([]*Zone, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+zoneColumns+` from hazard_zones order by created_at desc offset $1 limit $2`,
		offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []*Zone
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

func (s *PGStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `select count(*) from hazard_zones`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *PGStore) Update(ctx context.Context, id string, upd Update) (*Zone, error) {
	return scanZone(s.db.QueryRowContext(ctx, `
		update hazard_zones
		set name          = coalesce($2, name),
		    type          = coalesce($3, type),
		    geometry_data = coalesce($4, geometry_data),
		    risk_level    = coalesce($5, risk_level),
		    admin_notes   = coalesce($6, admin_notes),
		    updated_at    = now()
		where id=$1
		returning `+zoneColumns,
		id, upd.Name, upd.Type, upd.GeometryData, upd.RiskLevel, upd.AdminNotes))
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from hazard_zones where id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
