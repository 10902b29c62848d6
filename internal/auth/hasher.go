// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
)

// OWASP-recommended argon2id parameters.
const (
	argon2Time    = 1         // iterations
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4         // parallelism
	argon2SaltLen = 16        // salt length in bytes
	argon2KeyLen  = 32        // output length in bytes
)

// Upper bounds on the cost parameters accepted from a stored digest.
const (
	maxArgon2Memory = 1 << 22 // KiB, 4 GiB
	maxArgon2Time   = 64
	maxArgon2KeyLen = 1024
)

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	// Hash produces a salted, encoded digest of the password.
	Hash(password string) (string, error)

	// Verify checks if the password matches the digest.
	// Returns (true, nil) on match, (false, nil) on mismatch, or an error
	// wrapping ErrCryptoFailure when the digest is corrupt.
	Verify(password, hash string) (bool, error)
}

// Argon2Params are the cost parameters used for new hashes.
type Argon2Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	SaltLen int
	KeyLen  uint32
}

// DefaultArgon2Params returns the production cost parameters.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Time:    argon2Time,
		Memory:  argon2Memory,
		Threads: argon2Threads,
		SaltLen: argon2SaltLen,
		KeyLen:  argon2KeyLen,
	}
}

// Argon2idHasher implements PasswordHasher using argon2id.
type Argon2idHasher struct {
	params  Argon2Params
	entropy io.Reader
}

// NewArgon2idHasher creates an Argon2idHasher with the default parameters.
func NewArgon2idHasher() *Argon2idHasher {
	return NewArgon2idHasherWithParams(DefaultArgon2Params())
}

// NewArgon2idHasherWithParams creates an Argon2idHasher with custom cost parameters.
// Verification always uses the parameters encoded in the digest.
func NewArgon2idHasherWithParams(params Argon2Params) *Argon2idHasher {
	return &Argon2idHasher{params: params, entropy: rand.Reader}
}

// Hash produces an argon2id hash of the password in PHC string format.
func (h *Argon2idHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := io.ReadFull(h.entropy, salt); err != nil {
		return "", oops.Code(string(KindCryptoFailure)).
			With("operation", "generate salt").
			Wrapf(ErrCryptoFailure, "read salt: %v", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

// Verify checks if the password matches the hash.
func (h *Argon2idHasher) Verify(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false, invalidHash("invalid hash format")
	}

	if parts[1] != "argon2id" {
		return false, invalidHash("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, invalidHash("invalid version: %v", err)
	}
	if version != argon2.Version {
		return false, invalidHash("unsupported argon2 version: %d", version)
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, invalidHash("invalid parameters: %v", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, invalidHash("invalid salt encoding: %v", err)
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, invalidHash("invalid key encoding: %v", err)
	}

	// argon2 takes threads as uint8; reject instead of truncating.
	if threads == 0 || threads > 255 {
		return false, invalidHash("threads value %d out of range", threads)
	}
	if time == 0 || time > maxArgon2Time {
		return false, invalidHash("time cost %d out of range", time)
	}
	if memory < 8*threads || memory > maxArgon2Memory {
		return false, invalidHash("memory cost %d out of range", memory)
	}

	keyLen := len(expected)
	if keyLen == 0 || keyLen > maxArgon2KeyLen {
		return false, invalidHash("invalid hash key length: %d", keyLen)
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, uint8(threads), uint32(keyLen))

	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

func invalidHash(format string, args ...any) error {
	return oops.Code(string(KindCryptoFailure)).
		With("operation", "parse password hash").
		Wrapf(ErrCryptoFailure, format, args...)
}

// Compile-time interface check.
var _ PasswordHasher = (*Argon2idHasher)(nil)
