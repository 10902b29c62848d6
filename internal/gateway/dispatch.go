// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/holomush/holoauth/internal/auth"
	"github.com/holomush/holoauth/internal/observability"
	"github.com/holomush/holoauth/pkg/errutil"
)

// AuthService is the service surface exposed by the gateway.
type AuthService interface {
	Register(ctx context.Context, req auth.RegistrationRequest) (string, error)
	Login(ctx context.Context, login, password string) (string, error)
	ProfileByToken(ctx context.Context, token string) (auth.PublicProfile, error)
	ProfileByLogin(ctx context.Context, login string) (auth.PublicProfile, error)
	ListProfiles(ctx context.Context) ([]auth.PublicProfile, error)
}

// errBadRequest marks frames that could not be routed to the service.
var errBadRequest = errors.New("bad request")

// badRequest returns an errBadRequest whose public message is sent to the client.
func badRequest(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return oops.Code("GATEWAY_BAD_REQUEST").Public(msg).Wrapf(errBadRequest, "%s", msg)
}

// Dispatcher routes requests to an AuthService.
type Dispatcher struct {
	svc     AuthService
	logger  *slog.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer
}

// NewDispatcher creates a Dispatcher. A nil logger uses slog.Default and a nil
// metrics disables recording.
func NewDispatcher(svc AuthService, logger *slog.Logger, metrics *observability.Metrics, tracer trace.Tracer) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = otel.Tracer("holoauth/gateway")
	}
	return &Dispatcher{svc: svc, logger: logger, metrics: metrics, tracer: tracer}
}

// Dispatch handles one request and always returns a response for it.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Response {
	start := time.Now()

	ctx, span := d.tracer.Start(ctx, "gateway.request",
		trace.WithAttributes(
			attribute.String("request.event", req.Event),
			attribute.String("request.id", req.ID),
		),
	)
	defer span.End()

	data, err := d.route(ctx, req)

	resp := Response{ID: req.ID, Event: req.Event}
	outcome := observability.OutcomeOK
	if err != nil {
		body := errorBody(err)
		resp.Error = body
		outcome = body.Kind

		span.RecordError(err)
		span.SetStatus(codes.Error, body.Kind)
		d.logFailure(ctx, req, body, err)
	} else {
		resp.OK = true
		resp.Data = data
	}

	span.SetAttributes(attribute.String("request.outcome", outcome))
	d.metrics.ObserveRequest(metricOperation(req.Event), outcome, time.Since(start))
	return resp
}

func (d *Dispatcher) route(ctx context.Context, req Request) (any, error) {
	switch req.Event {
	case EventRegister:
		var in RegisterData
		if err := decode(req.Data, &in); err != nil {
			return nil, err
		}
		token, err := d.svc.Register(ctx, auth.RegistrationRequest{
			Login:    in.Login,
			Name:     in.Name,
			Password: in.Password,
		})
		if err != nil {
			return nil, err //nolint:wrapcheck // classified by errorBody
		}
		return TokenReply{Token: token}, nil

	case EventLogin:
		var in LoginData
		if err := decode(req.Data, &in); err != nil {
			return nil, err
		}
		if in.Login == "" {
			return nil, badRequest("login is required")
		}
		token, err := d.svc.Login(ctx, in.Login, in.Password)
		if err != nil {
			return nil, err //nolint:wrapcheck // classified by errorBody
		}
		return TokenReply{Token: token}, nil

	case EventProfile:
		var in ProfileData
		if err := decode(req.Data, &in); err != nil {
			return nil, err
		}
		profile, err := d.svc.ProfileByToken(ctx, in.Token)
		if err != nil {
			return nil, err //nolint:wrapcheck // classified by errorBody
		}
		return profile, nil

	case EventUser:
		var in UserData
		if err := decode(req.Data, &in); err != nil {
			return nil, err
		}
		if in.Login == "" {
			return nil, badRequest("login is required")
		}
		profile, err := d.svc.ProfileByLogin(ctx, in.Login)
		if err != nil {
			return nil, err //nolint:wrapcheck // classified by errorBody
		}
		return profile, nil

	case EventUsers:
		profiles, err := d.svc.ListProfiles(ctx)
		if err != nil {
			return nil, err //nolint:wrapcheck // classified by errorBody
		}
		return profiles, nil

	default:
		return nil, badRequest("unknown event %q", req.Event)
	}
}

// decode strictly unmarshals a request payload. A missing payload decodes
// as the zero value.
func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("malformed data: %v", err)
	}
	return nil
}

func (d *Dispatcher) logFailure(ctx context.Context, req Request, body *ErrorBody, err error) {
	switch body.Kind {
	case KindServerError, KindCryptoFailure:
		errutil.LogErrorContext(ctx, d.logger, "request failed", err)
	default:
		d.logger.DebugContext(ctx, "request rejected",
			"event", req.Event,
			"id", req.ID,
			"kind", body.Kind,
		)
	}
}

// metricOperation bounds label cardinality to the known events.
func metricOperation(event string) string {
	switch event {
	case EventRegister, EventLogin, EventProfile, EventUser, EventUsers:
		return event
	default:
		return "unknown"
	}
}
