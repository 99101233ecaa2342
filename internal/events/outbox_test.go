package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/material-scheduler/pkg/logging"
)

type recordingPublisher struct {
	mu       sync.Mutex
	failures int
	got      []Envelope
}

func (p *recordingPublisher) Publish(_ context.Context, env Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		p.failures--
		return errors.New("transport down")
	}
	p.got = append(p.got, env)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.got)
}

func TestOutboxEnqueueFull(t *testing.T) {
	o := NewOutbox(1)
	require.NoError(t, o.Enqueue(Envelope{Type: "a"}))
	assert.ErrorIs(t, o.Enqueue(Envelope{Type: "b"}), ErrOutboxFull)
	assert.Equal(t, 1, o.Pending())
}

func TestDelivererRetriesAndDelivers(t *testing.T) {
	o := NewOutbox(4)
	pub := &recordingPublisher{failures: 1}
	d := NewDeliverer(o, pub, logging.New("error")).WithRetry(3, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Start(ctx)
		close(done)
	}()

	require.NoError(t, o.Enqueue(Envelope{Type: TypeAppointmentCreated}))
	require.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestDelivererFlushesOnShutdown(t *testing.T) {
	o := NewOutbox(4)
	pub := &recordingPublisher{}
	require.NoError(t, o.Enqueue(Envelope{Type: "a"}))
	require.NoError(t, o.Enqueue(Envelope{Type: "b"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	NewDeliverer(o, pub, logging.New("error")).Start(ctx)

	assert.Equal(t, 2, pub.count())
	assert.Equal(t, 0, o.Pending())
}

func TestDelivererGivesUp(t *testing.T) {
	o := NewOutbox(1)
	pub := &recordingPublisher{failures: 10}
	d := NewDeliverer(o, pub, logging.New("error")).WithRetry(2, 0)

	d.deliver(context.Background(), Envelope{Type: "a"})
	assert.Equal(t, 0, pub.count())
	assert.Equal(t, 8, pub.failures)
}

func TestDelivererBackoffStopsOnCancel(t *testing.T) {
	pub := &recordingPublisher{failures: 10}
	d := NewDeliverer(NewOutbox(1), pub, logging.New("error")).WithRetry(3, 10*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	d.deliver(ctx, Envelope{Type: "a"})
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, 9, pub.failures, "only the first attempt should run")
}

func TestDelivererShutdownDuringBackoff(t *testing.T) {
	o := NewOutbox(4)
	pub := &recordingPublisher{failures: 10}
	d := NewDeliverer(o, pub, logging.New("error")).WithRetry(3, 10*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Start(ctx)
		close(done)
	}()

	require.NoError(t, o.Enqueue(Envelope{Type: "a"}))
	require.Eventually(t, func() bool {
		pub.mu.Lock()
		defer pub.mu.Unlock()
		return pub.failures == 9
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("deliverer did not stop while backing off")
	}
}
