// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package gateway exposes the auth service over WebSocket.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel/trace"

	"github.com/holomush/holoauth/internal/observability"
)

// Connection tuning.
const (
	// MaxFrameSize is the largest client frame accepted, in bytes.
	MaxFrameSize = 64 << 10

	defaultPongWait = 60 * time.Second
	writeWait       = 10 * time.Second
)

// Path is the WebSocket endpoint.
const Path = "/ws"

// Server accepts WebSocket connections and dispatches their requests.
type Server struct {
	addr       string
	listener   net.Listener
	httpServer *http.Server
	upgrader   websocket.Upgrader

	svc        AuthService
	dispatcher *Dispatcher
	logger     *slog.Logger
	metrics    *observability.Metrics
	tracer     trace.Tracer
	pingPeriod time.Duration
	pongWait   time.Duration

	// baseCtx outlives individual HTTP requests; hijacked connections use it.
	baseCtx context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	conns   map[*conn]struct{}
	closing bool
	wg      sync.WaitGroup
	running atomic.Bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics records connection and request metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithTracer sets the tracer for request spans. Defaults to the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(s *Server) {
		s.tracer = t
	}
}

// WithPingPeriod sets how often idle connections are pinged. A peer that
// stays silent for longer than the ping period plus a tenth is dropped.
func WithPingPeriod(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.pingPeriod = d
			s.pongWait = d * 10 / 9
		}
	}
}

// NewServer creates a gateway for svc listening on addr.
func NewServer(addr string, svc AuthService, opts ...Option) *Server {
	baseCtx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr:       addr,
		svc:        svc,
		logger:     slog.Default(),
		pongWait:   defaultPongWait,
		pingPeriod: defaultPongWait * 9 / 10,
		baseCtx:    baseCtx,
		cancel:     cancel,
		conns:      make(map[*conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.dispatcher = NewDispatcher(svc, s.logger, s.metrics, s.tracer)
	return s
}

// Handler returns the HTTP handler serving the WebSocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, s.handleUpgrade)
	return mux
}

// Start begins accepting connections.
// The returned channel receives a serve error, if any, and is closed when the
// server stops.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Code("GATEWAY_RUNNING").Errorf("gateway already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.Code("GATEWAY_LISTEN_FAILED").With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.logger.Error("gateway server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("gateway started", "addr", listener.Addr().String(), "path", Path)
	return errCh, nil
}

// Stop stops accepting connections, closes open ones and waits for their
// handlers to return or ctx to expire. Stopping a server that is not running
// only closes connections served through Handler.
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	if s.running.CompareAndSwap(true, false) && s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			shutdownErr = oops.With("operation", "shutdown_gateway").Wrap(err)
		}
	}

	s.mu.Lock()
	s.closing = true
	open := make([]*conn, 0, len(s.conns))
	for c := range s.conns {
		open = append(open, c)
	}
	s.mu.Unlock()

	s.cancel()
	for _, c := range open {
		c.shutdown()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return oops.Code("GATEWAY_SHUTDOWN_TIMEOUT").
			With("open_connections", len(open)).
			Wrap(errors.Join(shutdownErr, ctx.Err()))
	}

	if shutdownErr != nil {
		return shutdownErr
	}
	s.logger.Info("gateway stopped")
	return nil
}

// Addr returns the listening address, or "" if the server never started.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		s.logger.Debug("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := newConn(ws, s)
	if !s.track(c) {
		c.shutdown()
		return
	}
	defer s.untrack(c)

	s.metrics.ConnectionOpened("websocket")
	c.serve(s.baseCtx)
}

// track registers c unless the server is closing.
func (s *Server) track(c *conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.conns[c] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(c *conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	s.wg.Done()
}
