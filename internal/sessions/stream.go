package sessions

import (
	"net/http"

	"golang.org/x/net/websocket"

	"github.com/wolfman30/material-scheduler/internal/booking"
	"github.com/wolfman30/material-scheduler/pkg/logging"
)

// StreamMessage is sent to summary stream clients.
type StreamMessage struct {
	Type    string       `json:"type"` // "summary", "pong", "error", "closed"
	Summary *SummaryView `json:"summary,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// StreamInbound is what a stream client may send.
type StreamInbound struct {
	Type string `json:"type"` // "ping"
}

// StreamSummary upgrades to WebSocket and pushes the summary after every
// change to the session.
func (h *Handler) StreamSummary(w http.ResponseWriter, r *http.Request) {
	id, _ := SessionIDFromContext(r.Context())
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveStream(conn, r, id)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveStream(conn *websocket.Conn, r *http.Request, sessionID string) {
	updates, cancel, err := h.service.Subscribe(sessionID)
	if err != nil {
		_ = websocket.JSON.Send(conn, StreamMessage{Type: "error", Error: "session_not_found"})
		return
	}
	defer cancel()

	sum, err := h.service.Summary(r.Context(), sessionID)
	if err != nil {
		_ = websocket.JSON.Send(conn, StreamMessage{Type: "error", Error: "session_not_found"})
		return
	}
	if err := h.sendSummary(conn, sessionID, sum); err != nil {
		return
	}

	logger := logging.FromContext(r.Context(), h.logger).With("session_id", sessionID)
	logger.Debug("summary stream opened")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg StreamInbound
			if err := websocket.JSON.Receive(conn, &msg); err != nil {
				return
			}
			if msg.Type == "ping" {
				_ = websocket.JSON.Send(conn, StreamMessage{Type: "pong"})
			}
		}
	}()

	for {
		select {
		case <-done:
			logger.Debug("summary stream closed")
			return
		case sum, ok := <-updates:
			if !ok {
				_ = websocket.JSON.Send(conn, StreamMessage{Type: "closed"})
				return
			}
			if err := h.sendSummary(conn, sessionID, sum); err != nil {
				return
			}
		}
	}
}

func (h *Handler) sendSummary(conn *websocket.Conn, sessionID string, sum booking.Summary) error {
	view := h.presenter.Summary(sessionID, sum)
	return websocket.JSON.Send(conn, StreamMessage{Type: "summary", Summary: &view})
}
