// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"encoding/json"
	"io"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/holomush/holoauth/internal/auth"
	"github.com/holomush/holoauth/internal/auth/postgres"
)

// Output formats for users list.
const (
	outputJSON = "json"
	outputYAML = "yaml"
)

// NewUsersCmd creates the users subcommand tree.
func NewUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect user accounts",
	}

	var output string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the public profiles of all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output != outputJSON && output != outputYAML {
				return oops.Code("INVALID_OUTPUT").
					With("output", output).
					Errorf("output must be %q or %q", outputJSON, outputYAML)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return oops.Code("CONFIG_INVALID").
					With("key", "database-url").
					Errorf("database-url (or DATABASE_URL) is required")
			}

			pool, err := openPool(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return oops.With("operation", "connect to database").Wrap(err)
			}
			defer pool.Close()

			profiles, err := listProfiles(cmd, postgres.NewUserRepository(pool))
			if err != nil {
				return err
			}
			return writeProfiles(cmd.OutOrStdout(), profiles, output)
		},
	}
	list.Flags().StringVarP(&output, "output", "o", outputJSON, "output format (json or yaml)")

	cmd.AddCommand(list)
	return cmd
}

func listProfiles(cmd *cobra.Command, users auth.UserStore) ([]auth.PublicProfile, error) {
	all, err := users.FindAll(cmd.Context())
	if err != nil {
		return nil, oops.With("operation", "list users").Wrap(err)
	}
	profiles := make([]auth.PublicProfile, 0, len(all))
	for _, u := range all {
		profiles = append(profiles, u.Profile())
	}
	return profiles, nil
}

// profileDoc is the YAML shape of a profile.
type profileDoc struct {
	Login string `yaml:"login"`
	Name  string `yaml:"name"`
	Role  string `yaml:"role"`
}

func writeProfiles(w io.Writer, profiles []auth.PublicProfile, format string) error {
	switch format {
	case outputYAML:
		docs := make([]profileDoc, 0, len(profiles))
		for _, p := range profiles {
			docs = append(docs, profileDoc{Login: p.Login, Name: p.Name, Role: p.Role.String()})
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(docs); err != nil {
			return oops.Code("OUTPUT_FAILED").With("format", format).Wrap(err)
		}
		if err := enc.Close(); err != nil {
			return oops.Code("OUTPUT_FAILED").With("format", format).Wrap(err)
		}
		return nil
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(profiles); err != nil {
			return oops.Code("OUTPUT_FAILED").With("format", format).Wrap(err)
		}
		return nil
	}
}
