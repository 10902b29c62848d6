// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package gateway

import (
	"encoding/json"
	"errors"

	"github.com/samber/oops"

	"github.com/holomush/holoauth/internal/auth"
)

// Event names accepted in Request.Event.
const (
	EventRegister = "register"
	EventLogin    = "login"
	EventProfile  = "profile"
	EventUser     = "user"
	EventUsers    = "users"
)

// Wire error kinds. They mirror auth.Kind plus BadRequest for frames the
// gateway could not route.
const (
	KindLoginTaken    = "LoginTaken"
	KindNameTaken     = "NameTaken"
	KindUserNotFound  = "UserNotFound"
	KindWrongPassword = "WrongPassword"
	KindInvalidToken  = "InvalidToken"
	KindCryptoFailure = "CryptoFailure"
	KindServerError   = "ServerError"
	KindBadRequest    = "BadRequest"
)

// internalMessage replaces the message of server-side failures on the wire.
const internalMessage = "internal server error"

// Request is a client frame.
type Request struct {
	ID    string          `json:"id"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Response answers exactly one Request and echoes its id and event.
type Response struct {
	ID    string     `json:"id"`
	Event string     `json:"event"`
	OK    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// RegisterData is the payload of a register request.
type RegisterData struct {
	Login    string `json:"login"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginData is the payload of a login request.
type LoginData struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// ProfileData is the payload of a profile request.
type ProfileData struct {
	Token string `json:"token"`
}

// UserData is the payload of a user request.
type UserData struct {
	Login string `json:"login"`
}

// TokenReply is returned by register and login.
type TokenReply struct {
	Token string `json:"token"`
}

var wireKinds = map[auth.Kind]string{
	auth.KindLoginTaken:    KindLoginTaken,
	auth.KindNameTaken:     KindNameTaken,
	auth.KindUserNotFound:  KindUserNotFound,
	auth.KindWrongPassword: KindWrongPassword,
	auth.KindInvalidToken:  KindInvalidToken,
	auth.KindCryptoFailure: KindCryptoFailure,
	auth.KindServerError:   KindServerError,

	auth.KindInvalidRequest: KindBadRequest,
}

// errorBody converts a service error into its wire form. Client errors carry
// the sentinel message; server-side failures carry a generic one.
func errorBody(err error) *ErrorBody {
	if errors.Is(err, errBadRequest) || errors.Is(err, auth.ErrInvalidRequest) {
		return &ErrorBody{Kind: KindBadRequest, Message: publicMessage(err)}
	}

	kind := auth.KindOf(err)
	wire, ok := wireKinds[kind]
	if !ok {
		wire = KindServerError
	}
	if !auth.IsClientError(err) {
		return &ErrorBody{Kind: wire, Message: internalMessage}
	}
	return &ErrorBody{Kind: wire, Message: clientMessage(kind)}
}

func clientMessage(kind auth.Kind) string {
	switch kind {
	case auth.KindLoginTaken:
		return auth.ErrLoginTaken.Error()
	case auth.KindNameTaken:
		return auth.ErrNameTaken.Error()
	case auth.KindUserNotFound:
		return auth.ErrUserNotFound.Error()
	case auth.KindWrongPassword:
		return auth.ErrWrongPassword.Error()
	case auth.KindInvalidToken:
		return auth.ErrInvalidToken.Error()
	default:
		return internalMessage
	}
}

// publicMessage returns the client-safe message attached to err.
func publicMessage(err error) string {
	if oopsErr, ok := oops.AsOops(err); ok && oopsErr.Public() != "" {
		return oopsErr.Public()
	}
	return errBadRequest.Error()
}
