// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestArgon2idHasher_SaltFailure(t *testing.T) {
	h := NewArgon2idHasherWithParams(Argon2Params{Time: 1, Memory: 64, Threads: 1, SaltLen: 16, KeyLen: 32})
	h.entropy = failingReader{}

	hash, err := h.Hash("password")
	require.Error(t, err)
	assert.Empty(t, hash)
	assert.ErrorIs(t, err, ErrCryptoFailure)
	assert.Contains(t, err.Error(), "entropy exhausted")
}
