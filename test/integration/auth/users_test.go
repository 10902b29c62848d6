// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/holoauth/internal/auth"
	"github.com/holomush/holoauth/internal/store"
)

func newUser(login, name string, createdAt time.Time) *auth.User {
	return &auth.User{
		ID:           ulid.Make(),
		Login:        login,
		Name:         name,
		PasswordHash: "$argon2id$v=19$m=64,t=1,p=1$c2FsdA$aGFzaA",
		Role:         auth.RoleUser,
		CreatedAt:    createdAt.UTC().Truncate(time.Microsecond),
	}
}

var _ = Describe("UserRepository", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		truncateUsers(ctx)
	})

	Describe("Insert and FindOne", func() {
		It("round-trips every field", func() {
			u := newUser("alice", "Alice", time.Now())
			Expect(env.Users.Insert(ctx, u)).To(Succeed())

			got, err := env.Users.FindOne(ctx, auth.Filter{Login: "alice"})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(u.ID))
			Expect(got.Login).To(Equal("alice"))
			Expect(got.Name).To(Equal("Alice"))
			Expect(got.PasswordHash).To(Equal(u.PasswordHash))
			Expect(got.Role).To(Equal(auth.RoleUser))
			Expect(got.CreatedAt.Equal(u.CreatedAt)).To(BeTrue())
		})

		It("prefers a login match over a name match", func() {
			Expect(env.Users.Insert(ctx, newUser("bob", "alice", time.Now()))).To(Succeed())
			Expect(env.Users.Insert(ctx, newUser("alice", "Alice", time.Now()))).To(Succeed())

			got, err := env.Users.FindOne(ctx, auth.Filter{Login: "alice", Name: "alice"})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Login).To(Equal("alice"))
		})

		It("matches on name alone", func() {
			Expect(env.Users.Insert(ctx, newUser("alice", "Alice", time.Now()))).To(Succeed())

			got, err := env.Users.FindOne(ctx, auth.Filter{Login: "nobody", Name: "Alice"})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Login).To(Equal("alice"))
		})

		It("reports ErrNotFound for no match", func() {
			_, err := env.Users.FindOne(ctx, auth.Filter{Login: "ghost"})
			Expect(err).To(MatchError(auth.ErrNotFound))
		})

		It("maps the login unique constraint to LoginTaken", func() {
			Expect(env.Users.Insert(ctx, newUser("alice", "Alice", time.Now()))).To(Succeed())

			err := env.Users.Insert(ctx, newUser("alice", "Other", time.Now()))
			Expect(err).To(MatchError(auth.ErrLoginTaken))
			Expect(auth.KindOf(err)).To(Equal(auth.KindLoginTaken))
		})

		It("maps the name unique constraint to NameTaken", func() {
			Expect(env.Users.Insert(ctx, newUser("alice", "Alice", time.Now()))).To(Succeed())

			err := env.Users.Insert(ctx, newUser("other", "Alice", time.Now()))
			Expect(err).To(MatchError(auth.ErrNameTaken))
		})

		It("rejects unknown roles at the database", func() {
			u := newUser("alice", "Alice", time.Now())
			u.Role = "superuser"

			err := env.Users.Insert(ctx, u)
			Expect(err).To(HaveOccurred())
			Expect(auth.KindOf(err)).To(Equal(auth.KindServerError))
		})
	})

	Describe("FindAll", func() {
		It("returns an empty slice for an empty table", func() {
			users, err := env.Users.FindAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).NotTo(BeNil())
			Expect(users).To(BeEmpty())
		})

		It("orders by creation time", func() {
			base := time.Now()
			Expect(env.Users.Insert(ctx, newUser("second", "Second", base.Add(time.Second)))).To(Succeed())
			Expect(env.Users.Insert(ctx, newUser("first", "First", base))).To(Succeed())

			users, err := env.Users.FindAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(2))
			Expect(users[0].Login).To(Equal("first"))
			Expect(users[1].Login).To(Equal("second"))
		})
	})
})

var _ = Describe("Service on PostgreSQL", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		truncateUsers(ctx)
	})

	It("registers, logs in and resolves tokens", func() {
		token, err := env.Service.Register(ctx, auth.RegistrationRequest{Login: "alice", Name: "Alice", Password: "p@ss1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(token).NotTo(BeEmpty())

		profile, err := env.Service.ProfileByToken(ctx, token)
		Expect(err).NotTo(HaveOccurred())
		Expect(profile).To(Equal(auth.PublicProfile{Login: "alice", Name: "Alice", Role: auth.RoleUser}))

		_, err = env.Service.Login(ctx, "alice", "wrong")
		Expect(err).To(MatchError(auth.ErrWrongPassword))

		_, err = env.Service.Register(ctx, auth.RegistrationRequest{Login: "bob", Name: "Alice", Password: "x"})
		Expect(err).To(MatchError(auth.ErrNameTaken))

		profiles, err := env.Service.ListProfiles(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(profiles).To(ConsistOf(auth.PublicProfile{Login: "alice", Name: "Alice", Role: auth.RoleUser}))
	})

	It("lets exactly one of many concurrent registrations win", func() {
		const workers = 8
		errs := make([]error, workers)
		var wg sync.WaitGroup
		for i := range workers {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				_, errs[i] = env.Service.Register(ctx, auth.RegistrationRequest{
					Login:    "race",
					Name:     "Racer" + string(rune('A'+i)),
					Password: "pw",
				})
			}()
		}
		wg.Wait()

		var wins int
		for _, err := range errs {
			if err == nil {
				wins++
				continue
			}
			Expect(auth.KindOf(err)).To(Equal(auth.KindLoginTaken))
		}
		Expect(wins).To(Equal(1))
	})
})

var _ = Describe("Migrator", func() {
	It("reports no pending migrations after setup", func() {
		m, err := store.NewMigrator(env.connStr)
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = m.Close() }()

		st, err := m.Status()
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Dirty).To(BeFalse())
		Expect(st.Pending).To(BeEmpty())

		versions, err := store.MigrationVersions()
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Version).To(Equal(versions[len(versions)-1]))
	})

	It("treats a repeated Up as a no-op", func() {
		m, err := store.NewMigrator(env.connStr)
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = m.Close() }()

		Expect(m.Up()).To(Succeed())
	})
})
