// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Role is the authorization level carried by a user and its tokens.
type Role string

// Known roles. New accounts are always RoleUser.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// String returns the role name.
func (r Role) String() string {
	return string(r)
}

// User is a persisted account record. Records are immutable once created.
type User struct {
	ID           ulid.ULID
	Login        string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Profile returns the public projection of the user.
func (u *User) Profile() PublicProfile {
	return PublicProfile{
		Login: u.Login,
		Name:  u.Name,
		Role:  u.Role,
	}
}

// PublicProfile is the non-secret view of a user. It is also the token claim set.
type PublicProfile struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// RegistrationRequest carries the credentials of a new account.
type RegistrationRequest struct {
	Login    string
	Name     string
	Password string
}

// Filter selects users whose login OR name equals the given value.
// Login is compared exactly, empty included. An empty Name is not part of the
// filter.
type Filter struct {
	Login string
	Name  string
}

// Matches reports whether u satisfies the filter.
func (f Filter) Matches(u *User) bool {
	if u.Login == f.Login {
		return true
	}
	return f.Name != "" && u.Name == f.Name
}

// UserStore persists user records.
type UserStore interface {
	// FindOne returns a user matching the filter. A record matching on login
	// is preferred over one matching on name.
	// Returns an error wrapping ErrNotFound if no user matches.
	FindOne(ctx context.Context, filter Filter) (*User, error)

	// Insert stores a new user. Implementations enforcing uniqueness return
	// errors wrapping ErrLoginTaken or ErrNameTaken on collision.
	Insert(ctx context.Context, user *User) error

	// FindAll returns every user in store iteration order.
	FindAll(ctx context.Context) ([]*User, error)
}
