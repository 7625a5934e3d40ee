package http

import (
	"io"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/websocket"

	"autoloan-agent/service"
)

// StreamHandler pushes session snapshots over a websocket until the session
// reaches a terminal state or the client goes away.
type StreamHandler struct {
	sessions QuoteSessions
	hub      *service.ProgressHub
	logger   *slog.Logger
}

func NewStreamHandler(sessions QuoteSessions, hub *service.ProgressHub, logger *slog.Logger) *StreamHandler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &StreamHandler{sessions: sessions, hub: hub, logger: logger}
}

func (h *StreamHandler) StreamSession(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Param("sessionId"))

	// Subscribe before reading the current state so no update is missed.
	updates, cancel := h.hub.Subscribe(sessionID)
	// ServeHTTP blocks until the stream ends, and returns at once when the
	// handshake fails.
	defer cancel()

	current, err := h.sessions.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	websocket.Handler(func(conn *websocket.Conn) {
		defer func() { _ = conn.Close() }()

		closed := make(chan struct{})
		go func() {
			defer close(closed)
			var discard string
			for {
				if err := websocket.Message.Receive(conn, &discard); err != nil {
					return
				}
			}
		}()

		if err := websocket.JSON.Send(conn, newSessionView(current)); err != nil {
			return
		}
		if current.Status.Terminal() {
			return
		}

		last := current.UpdatedAt
		for {
			select {
			case <-closed:
				return
			case snapshot, ok := <-updates:
				if !ok {
					return
				}
				if snapshot.UpdatedAt.Before(last) {
					continue
				}
				last = snapshot.UpdatedAt
				if err := websocket.JSON.Send(conn, newSessionView(snapshot)); err != nil {
					h.logger.Debug("progress stream closed", "session_id", sessionID, "err", err)
					return
				}
				if snapshot.Status.Terminal() {
					return
				}
			}
		}
	}).ServeHTTP(c.Writer, c.Request)
}
