// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/holoauth/internal/auth"
	"github.com/holomush/holoauth/internal/auth/memstore"
)

func newUser(login, name string) *auth.User {
	return &auth.User{
		ID:           ulid.Make(),
		Login:        login,
		Name:         name,
		PasswordHash: "digest-" + login,
		Role:         auth.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestStore_FindOne(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.Insert(ctx, newUser("alice", "Alice")))
	require.NoError(t, s.Insert(ctx, newUser("bob", "Bob")))

	tests := []struct {
		name      string
		filter    auth.Filter
		wantLogin string
	}{
		{"by login", auth.Filter{Login: "alice"}, "alice"},
		{"by name", auth.Filter{Name: "Bob"}, "bob"},
		{"login match preferred over name match", auth.Filter{Login: "alice", Name: "Bob"}, "alice"},
		{"falls back to name", auth.Filter{Login: "carol", Name: "Bob"}, "bob"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := s.FindOne(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLogin, u.Login)
		})
	}

	t.Run("no match", func(t *testing.T) {
		_, err := s.FindOne(ctx, auth.Filter{Login: "carol", Name: "Carol"})
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})

	t.Run("empty filter matches nothing", func(t *testing.T) {
		_, err := s.FindOne(ctx, auth.Filter{})
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})
}

func TestStore_FindOne_EmptyLoginIsExact(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.Insert(ctx, newUser("", "Nameless")))

	u, err := s.FindOne(ctx, auth.Filter{Login: ""})
	require.NoError(t, err)
	assert.Equal(t, "Nameless", u.Name)

	_, err = s.FindOne(ctx, auth.Filter{Login: "other"})
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestStore_Insert_Uniqueness(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.Insert(ctx, newUser("alice", "Alice")))

	err := s.Insert(ctx, newUser("alice", "Other"))
	assert.ErrorIs(t, err, auth.ErrLoginTaken)

	err = s.Insert(ctx, newUser("other", "Alice"))
	assert.ErrorIs(t, err, auth.ErrNameTaken)

	assert.Equal(t, 1, s.Len())
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	u := newUser("alice", "Alice")
	require.NoError(t, s.Insert(ctx, u))

	u.Name = "Mallory"
	got, err := s.FindOne(ctx, auth.Filter{Login: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	got.PasswordHash = "changed"
	again, err := s.FindOne(ctx, auth.Filter{Login: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "digest-alice", again.PasswordHash)
}

func TestStore_FindAll(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	for _, login := range []string{"carol", "alice", "bob"} {
		require.NoError(t, s.Insert(ctx, newUser(login, login+"-name")))
	}
	all, err = s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "carol", all[0].Login)
	assert.Equal(t, "alice", all[1].Login)
	assert.Equal(t, "bob", all[2].Login)
}
