// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/holoauth/internal/auth"
	"github.com/holomush/holoauth/internal/auth/memstore"
	"github.com/holomush/holoauth/internal/auth/postgres"
	"github.com/holomush/holoauth/internal/config"
	"github.com/holomush/holoauth/internal/events"
	"github.com/holomush/holoauth/internal/gateway"
	"github.com/holomush/holoauth/internal/logging"
	"github.com/holomush/holoauth/internal/observability"
)

const (
	serviceName     = "holoauth"
	shutdownTimeout = 5 * time.Second
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the WebSocket gateway",
		Long: `Start the credential service: connect the user store, apply
migrations when auto-migrate is set, and serve the WebSocket gateway
together with the metrics and health endpoints.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServeWithDeps(cmd.Context(), cfg, cmd, nil)
		},
	}
}

// runServeWithDeps starts the service with injectable dependencies and blocks
// until a signal arrives, ctx is cancelled or a server fails.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cfg *config.Config, cmd *cobra.Command, deps *ServeDeps) error {
	deps = deps.withDefaults()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := cfg.Validate(); err != nil {
		return oops.With("operation", "validate configuration").Wrap(err)
	}

	logger := logging.SetDefault(logging.Options{
		Service: serviceName,
		Version: version,
		Format:  cfg.LogFormat,
		Level:   cfg.LogLevel,
	})

	logger.Info("starting holoauth",
		"listen_addr", cfg.ListenAddr,
		"store", cfg.Store,
		"events", cfg.AMQPURL != "",
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var ready atomic.Bool
	var obsServer ObservabilityServer
	var metrics *observability.Metrics
	if cfg.MetricsAddr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.MetricsAddr, ready.Load)
		metrics = obsServer.Metrics()
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return oops.With("operation", "start observability server").Wrap(err)
		}
		defer stopServer(logger, "observability", obsServer.Stop)
		go monitorServerErrors(ctx, logger, cancel, obsErrChan, "observability")
	}

	users, closeStore, err := openUserStore(ctx, logger, cfg, deps)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, err := openPublisher(logger, cfg, deps)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := publisher.Close(); closeErr != nil {
			logger.Warn("error closing event publisher", "error", closeErr)
		}
	}()

	notifying := events.NewNotifyingStore(users, publisher,
		events.WithLogger(logger),
		events.WithFailureCounter(metrics),
	)

	codec, err := auth.NewJWTCodec(auth.TokenConfig{
		Secret: []byte(cfg.TokenSecret),
		TTL:    cfg.TokenTTL,
		Issuer: cfg.TokenIssuer,
	})
	if err != nil {
		return oops.With("operation", "create token codec").Wrap(err)
	}

	svc, err := auth.NewService(notifying, auth.NewArgon2idHasher(), codec)
	if err != nil {
		return oops.With("operation", "create auth service").Wrap(err)
	}

	gw := gateway.NewServer(cfg.ListenAddr, svc,
		gateway.WithLogger(logger),
		gateway.WithMetrics(metrics),
	)
	gwErrChan, err := gw.Start()
	if err != nil {
		return oops.With("operation", "start gateway").Wrap(err)
	}
	defer stopServer(logger, "gateway", gw.Stop)
	go monitorServerErrors(ctx, logger, cancel, gwErrChan, "gateway")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ready.Store(true)
	cmd.Printf("holoauth listening on %s\n", gw.Addr())
	logger.Info("holoauth ready", "gateway_addr", gw.Addr())
	if deps.OnReady != nil {
		deps.OnReady(gw.Addr())
	}

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	ready.Store(false)
	logger.Info("shutting down...")
	return nil
}

// openUserStore returns the configured user store and a function releasing it.
func openUserStore(ctx context.Context, logger *slog.Logger, cfg *config.Config, deps *ServeDeps) (auth.UserStore, func(), error) {
	if cfg.Store == config.StoreMemory {
		logger.Warn("using in-memory user store; accounts are lost on restart")
		return memstore.New(), func() {}, nil
	}

	if cfg.AutoMigrate {
		if err := autoMigrate(logger, cfg.DatabaseURL, deps); err != nil {
			return nil, nil, err
		}
	}

	pool, err := deps.PoolFactory(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, oops.With("operation", "connect to database").Wrap(err)
	}
	logger.Info("connected to database")

	return postgres.NewUserRepository(pool), pool.Close, nil
}

// autoMigrate applies pending migrations. The migrator is always closed.
func autoMigrate(logger *slog.Logger, databaseURL string, deps *ServeDeps) error {
	migrator, err := deps.MigratorFactory(databaseURL)
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "create migrator").Wrap(err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Warn("error closing migrator", "error", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "apply migrations").Wrap(err)
	}
	logger.Info("database migrations applied")
	return nil
}

func openPublisher(logger *slog.Logger, cfg *config.Config, deps *ServeDeps) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		return events.NopPublisher{}, nil
	}
	publisher, err := deps.PublisherFactory(cfg.AMQPURL)
	if err != nil {
		return nil, oops.With("operation", "connect event broker").Wrap(err)
	}
	logger.Info("publishing registration events", "exchange", events.DefaultExchange)
	return publisher, nil
}

func stopServer(logger *slog.Logger, name string, stop func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := stop(ctx); err != nil {
		logger.Warn("error stopping server", "server", name, "error", err)
	}
}

// monitorServerErrors cancels the context when a server reports an error.
// It returns once errCh yields or closes, or when ctx is done.
func monitorServerErrors(ctx context.Context, logger *slog.Logger, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			logger.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
