// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package auth registers users, checks their passwords and issues signed
// tokens carrying their public profile.
//
// # Components
//
//   - PasswordHasher - salted argon2id digests (Argon2idHasher)
//   - TokenCodec - HS256 JWTs embedding a PublicProfile (JWTCodec)
//   - UserStore - persistence contract, see the memstore and postgres packages
//   - Service - register, login and profile lookups built on the three above
//
// # Errors
//
// Every failure wraps exactly one of the Err* sentinels. KindOf maps an error
// to its Kind, and the Kind value is also the error's oops code, so callers
// can classify failures either way. Kinds survive any amount of wrapping.
package auth
