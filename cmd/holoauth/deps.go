// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"

	"github.com/holomush/holoauth/internal/auth/postgres"
	"github.com/holomush/holoauth/internal/events"
	"github.com/holomush/holoauth/internal/observability"
	"github.com/holomush/holoauth/internal/store"
)

// DatabasePool is the subset of *pgxpool.Pool the commands use.
type DatabasePool interface {
	postgres.Pool
	Close()
}

// AutoMigrator applies pending migrations on startup.
type AutoMigrator interface {
	Up() error
	Close() error
}

// SchemaMigrator backs the migrate subcommands.
type SchemaMigrator interface {
	AutoMigrator
	Down() error
	Force(version int) error
	Status() (store.Status, error)
}

// ObservabilityServer serves metrics and health probes.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// PoolFactory opens the PostgreSQL pool.
	// Default: store.Connect with the default retry policy
	PoolFactory func(ctx context.Context, url string) (DatabasePool, error)

	// MigratorFactory creates the startup migrator.
	// Default: store.NewMigrator
	MigratorFactory func(url string) (AutoMigrator, error)

	// PublisherFactory connects the registration event publisher.
	// Default: events.DialRabbit on events.DefaultExchange
	PublisherFactory func(url string) (events.Publisher, error)

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer

	// OnReady is called with the gateway address once the service accepts
	// connections. Optional.
	OnReady func(gatewayAddr string)
}

func (d *ServeDeps) withDefaults() *ServeDeps {
	out := ServeDeps{}
	if d != nil {
		out = *d
	}
	if out.PoolFactory == nil {
		out.PoolFactory = defaultPoolFactory
	}
	if out.MigratorFactory == nil {
		out.MigratorFactory = func(url string) (AutoMigrator, error) {
			m, err := store.NewMigrator(url)
			if err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	if out.PublisherFactory == nil {
		out.PublisherFactory = func(url string) (events.Publisher, error) {
			p, err := events.DialRabbit(url, events.DefaultExchange)
			if err != nil {
				return nil, err
			}
			return p, nil
		}
	}
	if out.ObservabilityServerFactory == nil {
		out.ObservabilityServerFactory = func(addr string, ready observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, ready)
		}
	}
	return &out
}

func defaultPoolFactory(ctx context.Context, url string) (DatabasePool, error) {
	pool, err := store.Connect(ctx, url, store.DefaultConnectOptions())
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// newSchemaMigrator is replaced in tests.
var newSchemaMigrator = func(url string) (SchemaMigrator, error) {
	m, err := store.NewMigrator(url)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// openPool is replaced in tests.
var openPool = defaultPoolFactory
