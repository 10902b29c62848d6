// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package authtest holds mockery mocks of the auth interfaces.
package authtest

//go:generate mockery
