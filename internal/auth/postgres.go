package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"crisisgrid.org/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Users(context.Context) UserStore { return &userStore{db: s.db} }

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is the driver's duplicate-key
// error, so the email-uniqueness invariant surfaces as a domain error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// User store ---------------------------------------------------------------

type userStore struct{ db *sql.DB }

const userColumns = `id, email, password_hash, first_name, last_name, phone, role, is_active, is_verified, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Phone, &u.Role, &u.IsActive, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *userStore) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		insert into users(id, email, password_hash, first_name, last_name, phone, role, is_active, is_verified)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.Role, u.IsActive, u.IsVerified); err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	if u.Role == RoleResponder {
		if _, err := tx.ExecContext(ctx,
			`insert into responders(user_id) values ($1)`, u.ID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *userStore) Find(ctx context.Context, id string) (*User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where id=$1`, id))
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where email=$1`, email))
}

func (s *userStore) List(ctx context.Context, offset, limit int) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+userColumns+` from users order by created_at desc offset $1 limit $2`,
		offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *userStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `select count(*) from users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *userStore) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `
		update users
		set first_name = coalesce($2, first_name),
		    last_name  = coalesce($3, last_name),
		    phone      = coalesce($4, phone),
		    updated_at = now()
		where id=$1
		returning `+userColumns,
		id, upd.FirstName, upd.LastName, upd.Phone))
}

// UpdateRole changes the role and reconciles the responder profile in one
// transaction, so the "profile exists iff role is responder" invariant
// holds even across repeated toggles.
func (s *userStore) UpdateRole(ctx context.Context, id string, role Role) (*User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	u, err := scanUser(tx.QueryRowContext(ctx, `
		update users set role=$2, updated_at=now() where id=$1
		returning `+userColumns,
		id, role))
	if err != nil {
		return nil, err
	}

	if role == RoleResponder {
		_, err = tx.ExecContext(ctx, `
			insert into responders(user_id) values ($1)
			on conflict (user_id) do nothing
		`, id)
	} else {
		_, err = tx.ExecContext(ctx, `delete from responders where user_id=$1`, id)
	}
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `delete from responders where user_id=$1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `delete from users where id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (s *userStore) ResponderProfile(ctx context.Context, userID string) (*ResponderProfile, error) {
	var p ResponderProfile
	err := s.db.QueryRowContext(ctx, `
		select user_id, is_available, specialty, created_at, updated_at
		from responders where user_id=$1
	`, userID).Scan(&p.UserID, &p.IsAvailable, &p.Specialty, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
