package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PostgresRepo implements Repository on database/sql with the pgx stdlib
// driver. Schema lives in internal/migrations.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const userColumns = `id, email, password_hash, refresh_token_hash, role, firstname, lastname, created_at, updated_at`

func scanUser(row *sql.Row) (User, error) {
	var u User
	var refreshHash, firstname, lastname sql.NullString
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&refreshHash,
		&u.Role,
		&firstname,
		&lastname,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	u.RefreshTokenHash = refreshHash.String
	u.Firstname = firstname.String
	u.Lastname = lastname.String
	return u, nil
}

func (r *PostgresRepo) FindByEmail(ctx context.Context, email string) (User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

func (r *PostgresRepo) FindByID(ctx context.Context, id string) (User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepo) Create(ctx context.Context, u User) (User, error) {
	const q = `
INSERT INTO users (id, email, password_hash, role, firstname, lastname, created_at, updated_at)
VALUES ($1,$2,$3,$4,NULLIF($5,''),NULLIF($6,''),$7,$8)
RETURNING ` + userColumns + `
`
	created, err := scanUser(r.db.QueryRowContext(ctx, q,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.Firstname,
		u.Lastname,
		u.CreatedAt,
		u.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return created, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
ORDER BY created_at
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		var refreshHash, firstname, lastname sql.NullString
		if err := rows.Scan(
			&u.ID,
			&u.Email,
			&u.PasswordHash,
			&refreshHash,
			&u.Role,
			&firstname,
			&lastname,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		u.RefreshTokenHash = refreshHash.String
		u.Firstname = firstname.String
		u.Lastname = lastname.String
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, id string, upd ProfileUpdate) (User, error) {
	const q = `
UPDATE users
SET email     = COALESCE($2, email),
    firstname = COALESCE($3, firstname),
    lastname  = COALESCE($4, lastname),
    updated_at = now()
WHERE id = $1
RETURNING ` + userColumns + `
`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id, upd.Email, upd.Firstname, upd.Lastname))
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepo) UpdateRefreshHash(ctx context.Context, id, hash string) error {
	const q = `
UPDATE users
SET refresh_token_hash = NULLIF($2, ''),
    updated_at = now()
WHERE id = $1
`
	return r.exec(ctx, q, id, hash)
}

func (r *PostgresRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	const q = `
UPDATE users
SET password_hash = $2,
    updated_at = now()
WHERE id = $1
`
	return r.exec(ctx, q, id, hash)
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM users WHERE id = $1`
	return r.exec(ctx, q, id)
}

func (r *PostgresRepo) exec(ctx context.Context, q string, args ...any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
