// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package events publishes account lifecycle events to a message broker.
package events

import (
	"context"
	"time"

	"github.com/holomush/holoauth/internal/auth"
)

// Routing keys.
const (
	KeyUserRegistered = "user.registered"
)

// UserRegistered is emitted once per stored account. It never carries the
// password hash.
type UserRegistered struct {
	ID           string    `json:"id"`
	Login        string    `json:"login"`
	Name         string    `json:"name"`
	Role         auth.Role `json:"role"`
	RegisteredAt time.Time `json:"registered_at"`
}

// NewUserRegistered builds the event for a stored user.
func NewUserRegistered(u *auth.User) UserRegistered {
	return UserRegistered{
		ID:           u.ID.String(),
		Login:        u.Login,
		Name:         u.Name,
		Role:         u.Role,
		RegisteredAt: u.CreatedAt.UTC(),
	}
}

// Publisher delivers events.
type Publisher interface {
	PublishUserRegistered(ctx context.Context, event UserRegistered) error
	Close() error
}

// NopPublisher discards every event. Used when no broker is configured.
type NopPublisher struct{}

// PublishUserRegistered implements Publisher.
func (NopPublisher) PublishUserRegistered(context.Context, UserRegistered) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }

var _ Publisher = NopPublisher{}
