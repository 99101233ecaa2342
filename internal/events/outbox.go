package events

import (
	"context"
	"errors"
	"time"

	"github.com/wolfman30/material-scheduler/pkg/logging"
)

// ErrOutboxFull is returned by Enqueue when the buffer has no room.
var ErrOutboxFull = errors.New("events: outbox full")

// Outbox buffers envelopes so booking commands never wait on a transport.
type Outbox struct {
	entries chan Envelope
}

// NewOutbox creates an outbox holding up to size pending envelopes.
func NewOutbox(size int) *Outbox {
	if size <= 0 {
		size = 256
	}
	return &Outbox{entries: make(chan Envelope, size)}
}

// Enqueue adds env without blocking.
func (o *Outbox) Enqueue(env Envelope) error {
	select {
	case o.entries <- env:
		return nil
	default:
		return ErrOutboxFull
	}
}

// Pending returns the number of buffered envelopes.
func (o *Outbox) Pending() int {
	return len(o.entries)
}

// Deliverer drains the outbox into a Publisher.
type Deliverer struct {
	outbox    *Outbox
	publisher Publisher
	logger    *logging.Logger
	timeout   time.Duration
	attempts  int
	backoff   time.Duration
}

func NewDeliverer(outbox *Outbox, publisher Publisher, logger *logging.Logger) *Deliverer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Deliverer{
		outbox:    outbox,
		publisher: publisher,
		logger:    logger,
		timeout:   5 * time.Second,
		attempts:  3,
		backoff:   200 * time.Millisecond,
	}
}

func (d *Deliverer) WithTimeout(timeout time.Duration) *Deliverer {
	if timeout > 0 {
		d.timeout = timeout
	}
	return d
}

func (d *Deliverer) WithRetry(attempts int, backoff time.Duration) *Deliverer {
	if attempts > 0 {
		d.attempts = attempts
	}
	if backoff >= 0 {
		d.backoff = backoff
	}
	return d
}

// Start delivers envelopes until ctx is cancelled, then flushes what is left.
func (d *Deliverer) Start(ctx context.Context) {
	if d.outbox == nil || d.publisher == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			d.flush()
			return
		case env := <-d.outbox.entries:
			d.deliver(ctx, env)
		}
	}
}

func (d *Deliverer) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	for {
		select {
		case env := <-d.outbox.entries:
			d.deliver(ctx, env)
		default:
			return
		}
	}
}

func (d *Deliverer) deliver(ctx context.Context, env Envelope) {
	var err error
	for attempt := 1; attempt <= d.attempts; attempt++ {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		err = d.publisher.Publish(pubCtx, env)
		cancel()
		if err == nil {
			d.logger.Debug("event delivered", "event_id", env.ID, "type", env.Type, "attempt", attempt)
			return
		}
		if attempt == d.attempts || d.backoff <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			d.logger.Error("event delivery abandoned", "error", err, "event_id", env.ID, "type", env.Type, "attempt", attempt)
			return
		case <-time.After(d.backoff * time.Duration(attempt)):
		}
	}
	d.logger.Error("event delivery failed", "error", err, "event_id", env.ID, "type", env.Type)
}
