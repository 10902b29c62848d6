// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import "errors"

// ErrNotFound is returned by a UserStore when no record matches.
var ErrNotFound = errors.New("not found")

// Kind classifies every failure the service can report.
type Kind string

// Error kinds. The value doubles as the oops error code.
const (
	KindLoginTaken    Kind = "AUTH_LOGIN_TAKEN"
	KindNameTaken     Kind = "AUTH_NAME_TAKEN"
	KindUserNotFound  Kind = "AUTH_USER_NOT_FOUND"
	KindWrongPassword Kind = "AUTH_WRONG_PASSWORD"
	KindInvalidToken  Kind = "AUTH_INVALID_TOKEN"
	KindCryptoFailure Kind = "AUTH_CRYPTO_FAILURE"
	KindServerError   Kind = "AUTH_SERVER_ERROR"

	KindInvalidRequest Kind = "AUTH_INVALID_REQUEST"
)

// Sentinel errors, one per Kind. Returned errors wrap these, so use errors.Is.
var (
	ErrLoginTaken    = errors.New("login is already taken")
	ErrNameTaken     = errors.New("name is already taken")
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("wrong password")
	ErrInvalidToken  = errors.New("invalid token")
	ErrCryptoFailure = errors.New("crypto failure")
	ErrServerError   = errors.New("server error")

	ErrInvalidRequest = errors.New("invalid request")
)

var kindSentinels = []struct {
	kind Kind
	err  error
}{
	{KindLoginTaken, ErrLoginTaken},
	{KindNameTaken, ErrNameTaken},
	{KindUserNotFound, ErrUserNotFound},
	{KindWrongPassword, ErrWrongPassword},
	{KindInvalidToken, ErrInvalidToken},
	{KindCryptoFailure, ErrCryptoFailure},
	{KindServerError, ErrServerError},
	{KindInvalidRequest, ErrInvalidRequest},
}

// String returns the kind's code.
func (k Kind) String() string {
	return string(k)
}

// KindOf reports the Kind of err. Errors that wrap none of the sentinels are
// server errors. Returns "" for a nil error.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, ks := range kindSentinels {
		if errors.Is(err, ks.err) {
			return ks.kind
		}
	}
	return KindServerError
}

// IsClientError reports whether err was caused by caller input rather than
// by a fault inside the service.
func IsClientError(err error) bool {
	switch KindOf(err) {
	case KindLoginTaken, KindNameTaken, KindUserNotFound, KindWrongPassword, KindInvalidToken, KindInvalidRequest:
		return true
	default:
		return false
	}
}
