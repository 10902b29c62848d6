// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/holomush/holoauth/internal/auth"
	"github.com/holomush/holoauth/internal/auth/authtest"
	"github.com/holomush/holoauth/internal/auth/memstore"
	"github.com/holomush/holoauth/pkg/errutil"
)

var notFound = oops.Code("USER_NOT_FOUND").Wrap(auth.ErrNotFound)

func newMemService(t *testing.T) (*auth.Service, *memstore.Store, *auth.JWTCodec) {
	t.Helper()
	store := memstore.New()
	codec, err := auth.NewJWTCodec(auth.TokenConfig{Secret: []byte("test-secret"), TTL: time.Hour})
	require.NoError(t, err)
	svc, err := auth.NewService(store, auth.NewArgon2idHasherWithParams(fastParams), codec)
	require.NoError(t, err)
	return svc, store, codec
}

type mockDeps struct {
	users  *authtest.MockUserStore
	hasher *authtest.MockPasswordHasher
	tokens *authtest.MockTokenCodec
	svc    *auth.Service
}

func newMockService(t *testing.T) *mockDeps {
	t.Helper()
	d := &mockDeps{
		users:  authtest.NewMockUserStore(t),
		hasher: authtest.NewMockPasswordHasher(t),
		tokens: authtest.NewMockTokenCodec(t),
	}
	svc, err := auth.NewService(d.users, d.hasher, d.tokens)
	require.NoError(t, err)
	d.svc = svc
	return d
}

func TestNewService_RequiresDependencies(t *testing.T) {
	store := memstore.New()
	hasher := auth.NewArgon2idHasherWithParams(fastParams)
	codec, err := auth.NewJWTCodec(auth.TokenConfig{Secret: []byte("s")})
	require.NoError(t, err)

	tests := []struct {
		name    string
		users   auth.UserStore
		hasher  auth.PasswordHasher
		tokens  auth.TokenCodec
		message string
	}{
		{"nil store", nil, hasher, codec, "user store is required"},
		{"nil hasher", store, nil, codec, "password hasher is required"},
		{"nil codec", store, hasher, nil, "token codec is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := auth.NewService(tt.users, tt.hasher, tt.tokens)
			require.Error(t, err)
			assert.Nil(t, svc)
			assert.Contains(t, err.Error(), tt.message)
			errutil.AssertErrorCode(t, err, "AUTH_INVALID_SERVICE")
		})
	}
}

func TestService_RegisterThenVerify(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newMemService(t)

	token, err := svc.Register(ctx, auth.RegistrationRequest{Login: "alice", Name: "Alice", Password: "p@ss1"})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, 1, store.Len())

	profile, err := svc.ProfileByToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, auth.PublicProfile{Login: "alice", Name: "Alice", Role: auth.RoleUser}, profile)

	stored, err := store.FindOne(ctx, auth.Filter{Login: "alice"})
	require.NoError(t, err)
	assert.NotEqual(t, "p@ss1", stored.PasswordHash)
	assert.Equal(t, auth.RoleUser, stored.Role)

	loginToken, err := svc.Login(ctx, "alice", "p@ss1")
	require.NoError(t, err)
	loginProfile, err := svc.ProfileByToken(ctx, loginToken)
	require.NoError(t, err)
	assert.Equal(t, profile, loginProfile)
}

func TestService_RegisterConflicts(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newMemService(t)

	_, err := svc.Register(ctx, auth.RegistrationRequest{Login: "alice", Name: "Alice", Password: "p@ss1"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  auth.RegistrationRequest
		want auth.Kind
	}{
		{"same login", auth.RegistrationRequest{Login: "alice", Name: "Other", Password: "x"}, auth.KindLoginTaken},
		{"same name", auth.RegistrationRequest{Login: "bob", Name: "Alice", Password: "x"}, auth.KindNameTaken},
		{"both taken reports login", auth.RegistrationRequest{Login: "alice", Name: "Alice", Password: "x"}, auth.KindLoginTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.Register(ctx, tt.req)
			require.Error(t, err)
			assert.Empty(t, token)
			assert.Equal(t, tt.want, auth.KindOf(err))
			errutil.AssertErrorCode(t, err, string(tt.want))
			errutil.AssertErrorContext(t, err, "operation", "register")
		})
	}
	assert.Equal(t, 1, store.Len(), "failed registrations must not create users")
}

func TestService_Register_RequiresIdentity(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newMemService(t)

	tests := []struct {
		name string
		req  auth.RegistrationRequest
	}{
		{"empty login", auth.RegistrationRequest{Name: "Bob", Password: "pw"}},
		{"empty name", auth.RegistrationRequest{Login: "bob", Password: "pw"}},
		{"both empty", auth.RegistrationRequest{Password: "pw"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.Register(ctx, tt.req)
			require.Error(t, err)
			assert.Empty(t, token)
			assert.ErrorIs(t, err, auth.ErrInvalidRequest)
			assert.Equal(t, auth.KindInvalidRequest, auth.KindOf(err))
			errutil.AssertErrorCode(t, err, string(auth.KindInvalidRequest))
			assert.Equal(t, 0, store.Len(), "rejected registrations must not create users")
		})
	}

	profiles, err := svc.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, profiles)

	_, err = svc.Login(ctx, "", "pw")
	assert.Equal(t, auth.KindUserNotFound, auth.KindOf(err))
}

func TestService_LoginFailures(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newMemService(t)

	_, err := svc.Register(ctx, auth.RegistrationRequest{Login: "alice", Name: "Alice", Password: "p@ss1"})
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		token, err := svc.Login(ctx, "alice", "hunter2")
		require.Error(t, err)
		assert.Empty(t, token)
		assert.ErrorIs(t, err, auth.ErrWrongPassword)
		errutil.AssertNoSecret(t, err, "hunter2", "p@ss1", "$argon2id$")
	})

	t.Run("unknown login", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody", "p@ss1")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
		assert.NotErrorIs(t, err, auth.ErrNotFound)
	})

	t.Run("name is not a login", func(t *testing.T) {
		_, err := svc.Login(ctx, "Alice", "p@ss1")
		require.Error(t, err)
		assert.Equal(t, auth.KindUserNotFound, auth.KindOf(err))
	})
}

func TestService_ConcurrentRegistration(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newMemService(t)

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		kinds   []auth.Kind
	)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, auth.RegistrationRequest{
				Login:    "alice",
				Name:     "Alice" + string(rune('A'+i)),
				Password: "p@ss1",
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				success++
				return
			}
			kinds = append(kinds, auth.KindOf(err))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	assert.Equal(t, 1, store.Len())
	for _, k := range kinds {
		assert.Equal(t, auth.KindLoginTaken, k)
	}
}

func TestService_Register_StoreCollision(t *testing.T) {
	ctx := context.Background()
	req := auth.RegistrationRequest{Login: "alice", Name: "Alice", Password: "p@ss1"}

	tests := []struct {
		name      string
		insertErr error
		want      auth.Kind
	}{
		{"login race", oops.Code(string(auth.KindLoginTaken)).Wrap(auth.ErrLoginTaken), auth.KindLoginTaken},
		{"name race", oops.Code(string(auth.KindNameTaken)).Wrap(auth.ErrNameTaken), auth.KindNameTaken},
		{"storage failure", errors.New("disk full"), auth.KindServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newMockService(t)
			d.users.EXPECT().FindOne(mock.Anything, auth.Filter{Login: "alice", Name: "Alice"}).Return(nil, notFound).Once()
			d.hasher.EXPECT().Hash("p@ss1").Return("$argon2id$digest", nil).Once()
			d.users.EXPECT().Insert(mock.Anything, mock.MatchedBy(func(u *auth.User) bool {
				return u.Login == "alice" && u.Name == "Alice" &&
					u.PasswordHash == "$argon2id$digest" && u.Role == auth.RoleUser &&
					u.ID != (ulid.ULID{}) && !u.CreatedAt.IsZero()
			})).Return(tt.insertErr).Once()

			_, err := d.svc.Register(ctx, req)
			require.Error(t, err)
			assert.Equal(t, tt.want, auth.KindOf(err))
		})
	}
}

func TestService_Register_DependencyFailures(t *testing.T) {
	ctx := context.Background()
	req := auth.RegistrationRequest{Login: "alice", Name: "Alice", Password: "p@ss1"}

	t.Run("store lookup failure", func(t *testing.T) {
		d := newMockService(t)
		d.users.EXPECT().FindOne(mock.Anything, mock.Anything).Return(nil, errors.New("connection reset")).Once()

		_, err := d.svc.Register(ctx, req)
		require.Error(t, err)
		assert.Equal(t, auth.KindServerError, auth.KindOf(err))
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("store returns an unrelated user", func(t *testing.T) {
		d := newMockService(t)
		d.users.EXPECT().FindOne(mock.Anything, mock.Anything).
			Return(&auth.User{Login: "carol", Name: "Carol"}, nil).Once()

		_, err := d.svc.Register(ctx, req)
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrServerError)
	})

	t.Run("hash failure keeps crypto kind", func(t *testing.T) {
		d := newMockService(t)
		d.users.EXPECT().FindOne(mock.Anything, mock.Anything).Return(nil, notFound).Once()
		d.hasher.EXPECT().Hash("p@ss1").
			Return("", oops.Code(string(auth.KindCryptoFailure)).Wrap(auth.ErrCryptoFailure)).Once()

		_, err := d.svc.Register(ctx, req)
		require.Error(t, err)
		assert.Equal(t, auth.KindCryptoFailure, auth.KindOf(err))
	})
}

func TestService_Login_DependencyFailures(t *testing.T) {
	ctx := context.Background()
	user := &auth.User{ID: ulid.Make(), Login: "alice", Name: "Alice", PasswordHash: "digest", Role: auth.RoleUser}
	profile := user.Profile()

	t.Run("corrupt digest", func(t *testing.T) {
		d := newMockService(t)
		d.users.EXPECT().FindOne(mock.Anything, auth.Filter{Login: "alice"}).Return(user, nil).Once()
		d.hasher.EXPECT().Verify("p@ss1", "digest").
			Return(false, oops.Code(string(auth.KindCryptoFailure)).Wrap(auth.ErrCryptoFailure)).Once()

		_, err := d.svc.Login(ctx, "alice", "p@ss1")
		require.Error(t, err)
		assert.Equal(t, auth.KindCryptoFailure, auth.KindOf(err))
	})

	t.Run("issue failure", func(t *testing.T) {
		d := newMockService(t)
		d.users.EXPECT().FindOne(mock.Anything, auth.Filter{Login: "alice"}).Return(user, nil).Once()
		d.hasher.EXPECT().Verify("p@ss1", "digest").Return(true, nil).Once()
		d.tokens.EXPECT().Issue(profile).Return("", errors.New("signer offline")).Once()

		_, err := d.svc.Login(ctx, "alice", "p@ss1")
		require.Error(t, err)
		assert.Equal(t, auth.KindServerError, auth.KindOf(err))
	})

	t.Run("empty token is a server error", func(t *testing.T) {
		d := newMockService(t)
		d.users.EXPECT().FindOne(mock.Anything, auth.Filter{Login: "alice"}).Return(user, nil).Once()
		d.hasher.EXPECT().Verify("p@ss1", "digest").Return(true, nil).Once()
		d.tokens.EXPECT().Issue(profile).Return("", nil).Once()

		token, err := d.svc.Login(ctx, "alice", "p@ss1")
		require.Error(t, err)
		assert.Empty(t, token)
		assert.ErrorIs(t, err, auth.ErrServerError)
	})

	t.Run("store failure", func(t *testing.T) {
		d := newMockService(t)
		d.users.EXPECT().FindOne(mock.Anything, auth.Filter{Login: "alice"}).Return(nil, errors.New("timeout")).Once()

		_, err := d.svc.Login(ctx, "alice", "p@ss1")
		require.Error(t, err)
		assert.Equal(t, auth.KindServerError, auth.KindOf(err))
	})
}

func TestService_ProfileByToken(t *testing.T) {
	ctx := context.Background()

	t.Run("verification error passes through", func(t *testing.T) {
		d := newMockService(t)
		verifyErr := oops.Code(string(auth.KindInvalidToken)).Wrap(auth.ErrInvalidToken)
		d.tokens.EXPECT().Verify("bad").Return(auth.PublicProfile{}, verifyErr).Once()

		_, err := d.svc.ProfileByToken(ctx, "bad")
		assert.Equal(t, verifyErr, err)
	})

	t.Run("tampered token from the real codec", func(t *testing.T) {
		svc, _, _ := newMemService(t)
		token, err := svc.Register(ctx, auth.RegistrationRequest{Login: "alice", Name: "Alice", Password: "p@ss1"})
		require.NoError(t, err)

		_, err = svc.ProfileByToken(ctx, token+"x")
		require.Error(t, err)
		assert.Equal(t, auth.KindInvalidToken, auth.KindOf(err))
	})
}

func TestService_ProfileByLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newMemService(t)
	_, err := svc.Register(ctx, auth.RegistrationRequest{Login: "alice", Name: "Alice", Password: "p@ss1"})
	require.NoError(t, err)

	profile, err := svc.ProfileByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, auth.PublicProfile{Login: "alice", Name: "Alice", Role: auth.RoleUser}, profile)

	_, err = svc.ProfileByLogin(ctx, "bob")
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestService_ListProfiles(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store yields empty slice", func(t *testing.T) {
		svc, _, _ := newMemService(t)
		profiles, err := svc.ListProfiles(ctx)
		require.NoError(t, err)
		assert.NotNil(t, profiles)
		assert.Empty(t, profiles)
	})

	t.Run("profiles in registration order", func(t *testing.T) {
		svc, _, _ := newMemService(t)
		for _, req := range []auth.RegistrationRequest{
			{Login: "alice", Name: "Alice", Password: "a"},
			{Login: "bob", Name: "Bob", Password: "b"},
		} {
			_, err := svc.Register(ctx, req)
			require.NoError(t, err)
		}

		profiles, err := svc.ListProfiles(ctx)
		require.NoError(t, err)
		assert.Equal(t, []auth.PublicProfile{
			{Login: "alice", Name: "Alice", Role: auth.RoleUser},
			{Login: "bob", Name: "Bob", Role: auth.RoleUser},
		}, profiles)
	})

	t.Run("store failure", func(t *testing.T) {
		d := newMockService(t)
		d.users.EXPECT().FindAll(mock.Anything).Return(nil, errors.New("gone")).Once()

		_, err := d.svc.ListProfiles(ctx)
		require.Error(t, err)
		assert.Equal(t, auth.KindServerError, auth.KindOf(err))
	})
}
