// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package postgres implements auth.UserStore on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/holoauth/internal/auth"
)

// Unique constraint names created by the users migration.
const (
	loginConstraint = "users_login_key"
	nameConstraint  = "users_name_key"
)

// Pool is the subset of *pgxpool.Pool used by the repository.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository implements auth.UserStore using PostgreSQL.
type UserRepository struct {
	pool Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// FindOne returns the user whose login or name matches the filter,
// preferring a login match.
func (r *UserRepository) FindOne(ctx context.Context, filter auth.Filter) (*auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, login, name, password_hash, role, created_at
		FROM users
		WHERE login = $1 OR name = $2
		ORDER BY (login = $1) DESC NULLS LAST
		LIMIT 1
	`, filter.Login, nullable(filter.Name))

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("login", filter.Login).
			With("name", filter.Name).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_FIND_FAILED").
			With("operation", "find user").
			With("login", filter.Login).
			With("name", filter.Name).
			Wrap(err)
	}
	return user, nil
}

// Insert stores a new user. Unique violations are reported as
// auth.ErrLoginTaken or auth.ErrNameTaken.
func (r *UserRepository) Insert(ctx context.Context, user *auth.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, login, name, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		user.ID.String(),
		user.Login,
		user.Name,
		user.PasswordHash,
		string(user.Role),
		user.CreatedAt,
	)
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		switch pgErr.ConstraintName {
		case loginConstraint:
			return oops.Code(string(auth.KindLoginTaken)).
				With("login", user.Login).
				Wrap(auth.ErrLoginTaken)
		case nameConstraint:
			return oops.Code(string(auth.KindNameTaken)).
				With("name", user.Name).
				Wrap(auth.ErrNameTaken)
		}
	}

	return oops.Code("USER_INSERT_FAILED").
		With("operation", "insert user").
		With("login", user.Login).
		Wrap(err)
}

// FindAll returns every user ordered by creation time.
func (r *UserRepository) FindAll(ctx context.Context) ([]*auth.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, login, name, password_hash, role, created_at
		FROM users
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, oops.Code("USER_LIST_FAILED").With("operation", "list users").Wrap(err)
	}
	defer rows.Close()

	users := make([]*auth.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, oops.Code("USER_LIST_FAILED").With("operation", "scan user row").Wrap(err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("USER_LIST_FAILED").With("operation", "iterate users").Wrap(err)
	}
	return users, nil
}

// scanUser scans a single row into a User.
// Callers are responsible for handling pgx.ErrNoRows.
func scanUser(row pgx.Row) (*auth.User, error) {
	var (
		idStr        string
		login        string
		name         string
		passwordHash string
		role         string
		createdAt    time.Time
	)

	if err := row.Scan(&idStr, &login, &name, &passwordHash, &role, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("USER_SCAN_FAILED").With("operation", "scan user").Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("USER_INVALID_ID").
			With("operation", "parse user id").
			With("id", idStr).
			Wrap(err)
	}

	if !auth.Role(role).Valid() {
		return nil, oops.Code("USER_INVALID_ROLE").
			With("id", idStr).
			With("role", role).
			Errorf("unknown role %q", role)
	}

	return &auth.User{
		ID:           id,
		Login:        login,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         auth.Role(role),
		CreatedAt:    createdAt,
	}, nil
}

// nullable maps an empty name to NULL so it never matches.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Compile-time interface check.
var _ auth.UserStore = (*UserRepository)(nil)
