// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// RegisterFlags adds the configuration flags to fs with the built-in defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("listen-addr", d.ListenAddr, "gateway listen address")
	fs.String("metrics-addr", d.MetricsAddr, "metrics/health HTTP address (empty = disabled)")
	fs.String("store", d.Store, "user store backend (postgres or memory)")
	fs.String("database-url", d.DatabaseURL, "PostgreSQL connection URL")
	fs.Bool("auto-migrate", d.AutoMigrate, "apply pending migrations on startup")
	fs.String("token-secret", d.TokenSecret, "HMAC secret used to sign tokens")
	fs.Duration("token-ttl", d.TokenTTL, "token lifetime (0 = no expiry)")
	fs.String("token-issuer", d.TokenIssuer, "token issuer claim")
	fs.String("amqp-url", d.AMQPURL, "RabbitMQ URL for registration events (empty = disabled)")
	fs.String("log-format", d.LogFormat, "log format (json or text)")
	fs.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
}

// Load builds the configuration. Later sources win: built-in defaults, the
// YAML file at path (if not empty), flags explicitly set in fs (if not nil),
// then environment variables. The result is not validated.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	return load(path, fs, nil)
}

// load is Load with an injectable environment for tests.
func load(path string, fs *pflag.FlagSet, environ map[string]string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
		if err != nil {
			return nil, oops.Code("CONFIG_READ_FAILED").With("path", path).Wrap(err)
		}
		if err := ValidateYAML(data); err != nil {
			return nil, oops.With("path", path).Wrap(err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_PARSE_FAILED").With("path", path).Wrap(err)
		}
	}

	if fs != nil {
		if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_PARSE_FAILED").With("source", "flags").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, oops.Code("CONFIG_PARSE_FAILED").With("operation", "unmarshal").Wrap(err)
	}

	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, oops.Code("CONFIG_PARSE_FAILED").With("source", "environment").Wrap(err)
	}

	return &cfg, nil
}
