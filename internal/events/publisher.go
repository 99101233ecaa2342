package events

import "context"

// Publisher delivers envelopes to a downstream transport.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
}

// NopPublisher discards every envelope.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Envelope) error { return nil }

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, env Envelope) error

func (f PublisherFunc) Publish(ctx context.Context, env Envelope) error { return f(ctx, env) }
