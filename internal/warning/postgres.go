package warning

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

const foreignKeyViolation = "23503"

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

const warningColumns = `w.id, w.hazard_zone_id, w.title, w.description, w.level, w.issued_by, w.valid_until, w.is_active, w.created_at, w.updated_at`

func scanWarning(row interface{ Scan(...any) error }, joined bool) (*Warning, error) {
	var (
		w          Warning
		validUntil sql.NullTime
		zoneName   sql.NullString
		zoneType   sql.NullString
	)
	dest := []any{&w.ID, &w.HazardZoneID, &w.Title, &w.Description, &w.Level,
		&w.IssuedBy, &validUntil, &w.IsActive, &w.CreatedAt, &w.UpdatedAt}
	if joined {
		dest = append(dest, &zoneName, &zoneType)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if validUntil.Valid {
		t := validUntil.Time
		w.ValidUntil = &t
	}
	if zoneName.Valid {
		w.HazardZone = &ZoneSummary{Name: zoneName.String, Type: zoneType.String}
	}
	return &w, nil
}

func (s *PGStore) Create(ctx context.Context, w *Warning) error {
	_, err := s.db.ExecContext(ctx, `
		insert into warnings(id, hazard_zone_id, title, description, level, issued_by, valid_until, is_active)
		values ($1,$2,$3,$4,$5,$6,$7,$8)
	`, w.ID, w.HazardZoneID, w.Title, w.Description, w.Level, w.IssuedBy, w.ValidUntil, w.IsActive)
	if isForeignKeyViolation(err) {
		return ErrZoneNotFound
	}
	return err
}

func (s *PGStore) Find(ctx context.Context, id string) (*Warning, error) {
	return scanWarning(s.db.QueryRowContext(ctx, `
		select `+warningColumns+`, z.name, z.type
		from warnings w
		join hazard_zones z on z.id = w.hazard_zone_id
		where w.id=$1
	`, id), true)
}

func (s *PGStore) List(ctx context.Context, offset, limit int) ([]*Warning, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+warningColumns+`, z.name, z.type
		from warnings w
		join hazard_zones z on z.id = w.hazard_zone_id
		order by w.created_at desc offset $1 limit $2
	`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warnings []*Warning
	for rows.Next() {
		w, err := scanWarning(rows, true)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, w)
	}
	return warnings, rows.Err()
}

func (s *PGStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `select count(*) from warnings`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *PGStore) Update(ctx context.Context, id string, upd Update) (*Warning, error) {
	w, err := scanWarning(s.db.QueryRowContext(ctx, `
		update warnings w
		set hazard_zone_id = coalesce($2, hazard_zone_id),
		    title          = coalesce($3, title),
		    description    = coalesce($4, description),
		    level          = coalesce($5, level),
		    issued_by      = coalesce($6, issued_by),
		    valid_until    = coalesce($7, valid_until),
		    is_active      = coalesce($8, is_active),
		    updated_at     = now()
		where w.id=$1
		returning `+warningColumns,
		id, upd.HazardZoneID, upd.Title, upd.Description, upd.Level,
		upd.IssuedBy, upd.ValidUntil, upd.IsActive), false)
	if isForeignKeyViolation(err) {
		return nil, ErrZoneNotFound
	}
	return w, err
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from warnings where id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
