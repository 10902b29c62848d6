// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service provides registration, login and profile lookups.
// It holds no mutable state of its own; all state lives in the UserStore.
type Service struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenCodec
	now    func() time.Time
}

// NewService creates a new Service.
func NewService(users UserStore, hasher PasswordHasher, tokens TokenCodec) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_INVALID_SERVICE").Errorf("user store is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_SERVICE").Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Code("AUTH_INVALID_SERVICE").Errorf("token codec is required")
	}
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		now:    time.Now,
	}, nil
}

// Register creates a user with RoleUser and logs it in, returning a token.
// Failures keep their original kind and message.
func (s *Service) Register(ctx context.Context, req RegistrationRequest) (string, error) {
	token, err := s.register(ctx, req)
	if err != nil {
		return "", oops.With("operation", "register").With("login", req.Login).Wrap(err)
	}
	return token, nil
}

func (s *Service) register(ctx context.Context, req RegistrationRequest) (string, error) {
	// Tokens require both identity claims.
	if req.Login == "" || req.Name == "" {
		return "", oops.Code(string(KindInvalidRequest)).
			Public("login and name are required").
			Wrapf(ErrInvalidRequest, "login and name are required")
	}
	if err := s.checkAvailable(ctx, req.Login, req.Name); err != nil {
		return "", err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return "", oops.With("operation", "hash password").Wrap(err)
	}

	user := &User{
		ID:           ulid.Make(),
		Login:        req.Login,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         RoleUser,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.Insert(ctx, user); err != nil {
		// A concurrent registration can pass checkAvailable; the store's
		// unique constraints report the collision.
		if errors.Is(err, ErrLoginTaken) || errors.Is(err, ErrNameTaken) {
			return "", oops.With("operation", "insert user").Wrap(err)
		}
		return "", oops.Code(string(KindServerError)).
			With("operation", "insert user").
			Wrap(err)
	}

	return s.Login(ctx, req.Login, req.Password)
}

// checkAvailable fails when login or name belongs to an existing user.
// A login collision is reported before a name collision.
func (s *Service) checkAvailable(ctx context.Context, login, name string) error {
	existing, err := s.users.FindOne(ctx, Filter{Login: login, Name: name})
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return oops.Code(string(KindServerError)).
			With("operation", "check uniqueness").
			Wrap(err)
	}

	switch {
	case existing.Login == login:
		return oops.Code(string(KindLoginTaken)).With("login", login).Wrap(ErrLoginTaken)
	case existing.Name == name:
		return oops.Code(string(KindNameTaken)).With("name", name).Wrap(ErrNameTaken)
	default:
		return oops.Code(string(KindServerError)).
			With("operation", "check uniqueness").
			Wrapf(ErrServerError, "store returned a user matching neither login nor name")
	}
}

// Login verifies the password of the user with the given login and returns a token.
func (s *Service) Login(ctx context.Context, login, password string) (string, error) {
	user, err := s.findByLogin(ctx, login)
	if err != nil {
		return "", err
	}

	valid, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return "", oops.With("operation", "verify password").With("login", login).Wrap(err)
	}
	if !valid {
		return "", oops.Code(string(KindWrongPassword)).With("login", login).Wrap(ErrWrongPassword)
	}

	token, err := s.tokens.Issue(user.Profile())
	if err != nil {
		return "", oops.With("operation", "issue token").With("login", login).Wrap(err)
	}
	if token == "" {
		return "", oops.Code(string(KindServerError)).
			With("operation", "issue token").
			With("login", login).
			Wrapf(ErrServerError, "token codec returned an empty token")
	}

	return token, nil
}

// ProfileByToken returns the profile embedded in a token.
// Verification errors are returned unchanged.
func (s *Service) ProfileByToken(_ context.Context, token string) (PublicProfile, error) {
	return s.tokens.Verify(token) //nolint:wrapcheck // InvalidToken propagates as issued by the codec
}

// ProfileByLogin returns the public profile of the user with the given login.
func (s *Service) ProfileByLogin(ctx context.Context, login string) (PublicProfile, error) {
	user, err := s.findByLogin(ctx, login)
	if err != nil {
		return PublicProfile{}, err
	}
	return user.Profile(), nil
}

// ListProfiles returns the public profiles of all users in store order.
// An empty store yields an empty, non-nil slice.
func (s *Service) ListProfiles(ctx context.Context) ([]PublicProfile, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, oops.Code(string(KindServerError)).
			With("operation", "list users").
			Wrap(err)
	}

	profiles := make([]PublicProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile())
	}
	return profiles, nil
}

func (s *Service) findByLogin(ctx context.Context, login string) (*User, error) {
	user, err := s.users.FindOne(ctx, Filter{Login: login})
	if errors.Is(err, ErrNotFound) {
		return nil, oops.Code(string(KindUserNotFound)).With("login", login).Wrap(ErrUserNotFound)
	}
	if err != nil {
		return nil, oops.Code(string(KindServerError)).
			With("operation", "find user by login").
			With("login", login).
			Wrap(err)
	}
	return user, nil
}
