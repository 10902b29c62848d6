// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorCode fails t unless err carries the oops code want.
func AssertErrorCode(t testing.TB, err error, want string) {
	t.Helper()
	assert.Equal(t, want, mustOops(t, err).Code(), "error: %v", err)
}

// AssertErrorContext fails t unless the oops context of err maps key to want.
func AssertErrorContext(t testing.TB, err error, key string, want any) {
	t.Helper()
	got, ok := mustOops(t, err).Context()[key]
	require.True(t, ok, "context key %q missing from %v", key, err)
	assert.Equal(t, want, got)
}

// AssertNoSecret fails t if any secret appears in the message or the oops
// context of err.
func AssertNoSecret(t testing.TB, err error, secrets ...string) {
	t.Helper()
	require.Error(t, err)

	rendered := err.Error()
	if oopsErr, ok := oops.AsOops(err); ok {
		rendered += fmt.Sprint(oopsErr.Context())
	}
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		assert.False(t, strings.Contains(rendered, secret), "error leaks %q: %s", secret, rendered)
	}
}

func mustOops(t testing.TB, err error) oops.OopsError {
	t.Helper()
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	return oopsErr
}
