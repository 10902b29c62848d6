// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package memstore provides an in-memory auth.UserStore.
package memstore

import (
	"context"
	"sync"

	"github.com/samber/oops"

	"github.com/holomush/holoauth/internal/auth"
)

// Store keeps users in insertion order. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	users   []*auth.User
	byLogin map[string]*auth.User
	byName  map[string]*auth.User
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		byLogin: make(map[string]*auth.User),
		byName:  make(map[string]*auth.User),
	}
}

// FindOne returns the user matching filter.Login, else the one matching filter.Name.
func (s *Store) FindOne(_ context.Context, filter auth.Filter) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u, ok := s.byLogin[filter.Login]; ok {
		return clone(u), nil
	}
	if filter.Name != "" {
		if u, ok := s.byName[filter.Name]; ok {
			return clone(u), nil
		}
	}
	return nil, oops.Code("USER_NOT_FOUND").
		With("login", filter.Login).
		With("name", filter.Name).
		Wrap(auth.ErrNotFound)
}

// Insert stores a copy of user, enforcing unique login and name.
func (s *Store) Insert(_ context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byLogin[user.Login]; ok {
		return oops.Code(string(auth.KindLoginTaken)).With("login", user.Login).Wrap(auth.ErrLoginTaken)
	}
	if _, ok := s.byName[user.Name]; ok {
		return oops.Code(string(auth.KindNameTaken)).With("name", user.Name).Wrap(auth.ErrNameTaken)
	}

	stored := clone(user)
	s.users = append(s.users, stored)
	s.byLogin[stored.Login] = stored
	s.byName[stored.Name] = stored
	return nil
}

// FindAll returns copies of all users in insertion order.
func (s *Store) FindAll(_ context.Context) ([]*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*auth.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, clone(u))
	}
	return users, nil
}

// Len returns the number of stored users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func clone(u *auth.User) *auth.User {
	c := *u
	return &c
}

// Compile-time interface check.
var _ auth.UserStore = (*Store)(nil)
