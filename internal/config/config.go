// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads holoauth configuration from flags, a YAML file and
// the environment.
package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/holomush/holoauth/internal/logging"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Defaults.
const (
	DefaultListenAddr  = "127.0.0.1:8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultTokenTTL    = 24 * time.Hour
	DefaultTokenIssuer = "holoauth"
	DefaultLogFormat   = "json"
	DefaultLogLevel    = "info"
)

// MinSecretLength is the shortest accepted HMAC secret, in bytes.
const MinSecretLength = 32

// Config is the full service configuration. Keys are shared by flags,
// the YAML file and the generated schema.
type Config struct {
	ListenAddr  string        `koanf:"listen-addr" json:"listen-addr,omitempty" jsonschema:"description=WebSocket gateway listen address"`
	MetricsAddr string        `koanf:"metrics-addr" json:"metrics-addr,omitempty" jsonschema:"description=Metrics and health listen address; empty disables it"`
	Store       string        `koanf:"store" json:"store,omitempty" jsonschema:"enum=postgres,enum=memory,description=User store backend"`
	DatabaseURL string        `koanf:"database-url" json:"database-url,omitempty" env:"DATABASE_URL" jsonschema:"description=PostgreSQL connection URL"`
	AutoMigrate bool          `koanf:"auto-migrate" json:"auto-migrate,omitempty" jsonschema:"description=Apply pending migrations on startup"`
	TokenSecret string        `koanf:"token-secret" json:"token-secret,omitempty" env:"HOLOAUTH_TOKEN_SECRET" jsonschema:"description=HMAC secret used to sign tokens"`
	TokenTTL    time.Duration `koanf:"token-ttl" json:"token-ttl,omitempty" jsonschema:"description=Token lifetime such as 24h; 0 disables expiry"`
	TokenIssuer string        `koanf:"token-issuer" json:"token-issuer,omitempty" jsonschema:"description=Issuer written to and required in tokens"`
	AMQPURL     string        `koanf:"amqp-url" json:"amqp-url,omitempty" env:"HOLOAUTH_AMQP_URL" jsonschema:"description=RabbitMQ URL for registration events; empty disables publishing"`
	LogFormat   string        `koanf:"log-format" json:"log-format,omitempty" jsonschema:"enum=json,enum=text"`
	LogLevel    string        `koanf:"log-level" json:"log-level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr:  DefaultListenAddr,
		MetricsAddr: DefaultMetricsAddr,
		Store:       StorePostgres,
		TokenTTL:    DefaultTokenTTL,
		TokenIssuer: DefaultTokenIssuer,
		LogFormat:   DefaultLogFormat,
		LogLevel:    DefaultLogLevel,
	}
}

// Validate checks that the configuration can start the server.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return invalid("listen-addr", "listen-addr is required")
	}

	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return invalid("database-url", "database-url (or DATABASE_URL) is required for the postgres store")
		}
	case StoreMemory:
	default:
		return invalid("store", "store must be %q or %q, got %q", StorePostgres, StoreMemory, c.Store)
	}

	if err := c.ValidateToken(); err != nil {
		return err
	}

	if c.AMQPURL != "" {
		u, err := url.Parse(c.AMQPURL)
		if err != nil || (u.Scheme != "amqp" && u.Scheme != "amqps") {
			return invalid("amqp-url", "amqp-url must be an amqp:// or amqps:// URL")
		}
	}

	if c.LogFormat != "json" && c.LogFormat != "text" {
		return invalid("log-format", "log-format must be 'json' or 'text', got %q", c.LogFormat)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return invalid("log-level", "log-level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

// ValidateToken checks only the token settings.
func (c *Config) ValidateToken() error {
	if strings.TrimSpace(c.TokenSecret) == "" {
		return invalid("token-secret", "token-secret (or HOLOAUTH_TOKEN_SECRET) is required")
	}
	if len(c.TokenSecret) < MinSecretLength {
		return invalid("token-secret", "token-secret must be at least %d bytes", MinSecretLength)
	}
	if c.TokenTTL < 0 {
		return invalid("token-ttl", "token-ttl must not be negative")
	}
	return nil
}

func invalid(key, format string, args ...any) error {
	return oops.Code("CONFIG_INVALID").With("key", key).Errorf(format, args...)
}
