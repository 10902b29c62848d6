// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package events

import (
	"context"
	"log/slog"

	"github.com/holomush/holoauth/internal/auth"
	"github.com/holomush/holoauth/pkg/errutil"
)

// FailureCounter counts events that could not be published.
type FailureCounter interface {
	PublishFailed()
}

// StoreOption configures a NotifyingStore.
type StoreOption func(*NotifyingStore)

// WithLogger sets the logger for publish failures. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *NotifyingStore) {
		s.logger = logger
	}
}

// WithFailureCounter records publish failures in c.
func WithFailureCounter(c FailureCounter) StoreOption {
	return func(s *NotifyingStore) {
		s.failures = c
	}
}

// NotifyingStore wraps a UserStore and publishes UserRegistered after every
// successful Insert. Publish failures are logged and never fail the insert.
type NotifyingStore struct {
	auth.UserStore
	publisher Publisher
	logger    *slog.Logger
	failures  FailureCounter
}

// NewNotifyingStore wraps inner.
func NewNotifyingStore(inner auth.UserStore, publisher Publisher, opts ...StoreOption) *NotifyingStore {
	s := &NotifyingStore{
		UserStore: inner,
		publisher: publisher,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert stores the user and then publishes the registration.
func (s *NotifyingStore) Insert(ctx context.Context, user *auth.User) error {
	if err := s.UserStore.Insert(ctx, user); err != nil {
		return err //nolint:wrapcheck // decorator is transparent
	}

	if err := s.publisher.PublishUserRegistered(ctx, NewUserRegistered(user)); err != nil {
		errutil.LogErrorContext(ctx, s.logger, "publish user registered", err)
		if s.failures != nil {
			s.failures.PublishFailed()
		}
	}
	return nil
}

var _ auth.UserStore = (*NotifyingStore)(nil)
