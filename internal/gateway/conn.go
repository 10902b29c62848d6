// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// conn serves one WebSocket client. Requests are handled in arrival order.
type conn struct {
	ws         *websocket.Conn
	dispatcher *Dispatcher
	logger     *slog.Logger
	pingPeriod time.Duration
	pongWait   time.Duration

	writeMu   sync.Mutex
	closeOnce sync.Once
}

func newConn(ws *websocket.Conn, s *Server) *conn {
	return &conn{
		ws:         ws,
		dispatcher: s.dispatcher,
		logger:     s.logger.With("remote", ws.RemoteAddr().String()),
		pingPeriod: s.pingPeriod,
		pongWait:   s.pongWait,
	}
}

// serve runs the read loop until the peer goes away or the connection is shut down.
func (c *conn) serve(ctx context.Context) {
	defer c.close()

	c.ws.SetReadLimit(MaxFrameSize)
	//nolint:errcheck // a failed deadline surfaces on the next read
	c.ws.SetReadDeadline(time.Now().Add(c.pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.pongWait))
	})

	stopPing := make(chan struct{})
	pingDone := make(chan struct{})
	go c.pingLoop(stopPing, pingDone)
	defer func() {
		close(stopPing)
		<-pingDone
	}()

	c.logger.Debug("connection opened")
	for {
		msgType, payload, err := c.ws.ReadMessage()
		if err != nil {
			c.logReadError(err)
			return
		}
		//nolint:errcheck // any message from the peer proves liveness
		c.ws.SetReadDeadline(time.Now().Add(c.pongWait))

		if msgType != websocket.TextMessage {
			c.reply(Response{Error: &ErrorBody{Kind: KindBadRequest, Message: "frames must be text"}})
			continue
		}

		var req Request
		if err := json.Unmarshal(payload, &req); err != nil {
			c.reply(Response{Error: &ErrorBody{Kind: KindBadRequest, Message: "malformed frame"}})
			continue
		}

		if !c.reply(c.dispatcher.Dispatch(ctx, req)) {
			return
		}
	}
}

// reply writes one response frame. Returns false when the connection is unusable.
func (c *conn) reply(resp Response) bool {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	//nolint:errcheck // a failed deadline surfaces on the write
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteJSON(resp); err != nil {
		c.logger.Debug("write failed", "error", err)
		return false
	}
	return true
}

func (c *conn) pingLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.logger.Debug("ping failed", "error", err)
				return
			}
		}
	}
}

// shutdown tells the peer the server is going away and closes the socket,
// unblocking the read loop.
func (c *conn) shutdown() {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	//nolint:errcheck // best effort, the socket is closed regardless
	c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	c.close()
}

func (c *conn) close() {
	c.closeOnce.Do(func() {
		if err := c.ws.Close(); err != nil {
			c.logger.Debug("close failed", "error", err)
		}
		c.logger.Debug("connection closed")
	})
}

func (c *conn) logReadError(err error) {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		c.logger.Warn("frame too large", "limit", MaxFrameSize)
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived):
		c.logger.Debug("peer closed connection")
	case websocket.IsUnexpectedCloseError(err):
		c.logger.Debug("connection dropped", "error", err)
	default:
		c.logger.Debug("read failed", "error", err)
	}
}
