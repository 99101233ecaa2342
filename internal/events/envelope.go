package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event is an appointment lifecycle fact. EventType names it with a version
// suffix, e.g. "appointment.created.v1".
type Event interface {
	EventType() string
}

// Envelope is the wire form shared by every publisher:
// {"id", "type", "session_id", "occurred_at", "payload"}.
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	SessionID  string          `json:"session_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

var (
	errNoSession = errors.New("events: session id required")
	errNoEvent   = errors.New("events: event required")
)

// Wrap encodes evt for the session it happened in. A zero occurredAt means now.
func Wrap(sessionID string, evt Event, occurredAt time.Time) (Envelope, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Envelope{}, errNoSession
	}
	if evt == nil {
		return Envelope{}, errNoEvent
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return Envelope{}, fmt.Errorf("events: encode %s: %w", evt.EventType(), err)
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	return Envelope{
		ID:         uuid.NewString(),
		Type:       evt.EventType(),
		SessionID:  sessionID,
		OccurredAt: occurredAt.UTC(),
		Payload:    payload,
	}, nil
}

// Decode unmarshals the payload into dst.
func (e Envelope) Decode(dst any) error {
	if err := json.Unmarshal(e.Payload, dst); err != nil {
		return fmt.Errorf("events: decode %s: %w", e.Type, err)
	}
	return nil
}
