// Package sessions exposes booking engines behind a service boundary. Each
// session owns one engine and serialises every command on it.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/material-scheduler/internal/booking"
	"github.com/wolfman30/material-scheduler/internal/catalog"
	"github.com/wolfman30/material-scheduler/pkg/logging"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("sessions: session not found")

// SeedFunc prepares a freshly created engine, e.g. with example appointments.
type SeedFunc func(e *booking.Engine) error

// Session is one customer's booking engine plus its summary subscribers.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	engine   *booking.Engine
	lastSeen time.Time
	subs     map[int]chan booking.Summary
	nextSub  int
	closed   bool
}

// do runs fn with exclusive access to the engine. When fn reports a summary
// change, subscribers receive the fresh summary.
func (s *Session) do(now time.Time, fn func(e *booking.Engine) (changed bool, err error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, s.ID)
	}
	s.lastSeen = now
	changed, err := fn(s.engine)
	if changed {
		s.broadcastLocked()
	}
	return err
}

func (s *Session) broadcastLocked() {
	if len(s.subs) == 0 {
		return
	}
	sum, err := s.engine.Summary()
	if err != nil {
		return
	}
	for _, ch := range s.subs {
		// Keep only the newest summary for slow readers.
		select {
		case <-ch:
		default:
		}
		ch <- sum
	}
}

func (s *Session) subscribe() (<-chan booking.Summary, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, nil, fmt.Errorf("%w: %s", ErrSessionNotFound, s.ID)
	}
	id := s.nextSub
	s.nextSub++
	ch := make(chan booking.Summary, 1)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel, nil
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Manager creates, finds and expires sessions.
type Manager struct {
	catalog    *catalog.Catalog
	ttl        time.Duration
	seed       SeedFunc
	engineOpts []booking.Option
	now        func() time.Time
	logger     *logging.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	Catalog       *catalog.Catalog
	TTL           time.Duration
	Seed          SeedFunc
	EngineOptions []booking.Option
	Now           func() time.Time
	Logger        *logging.Logger
}

func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Catalog == nil {
		panic("sessions: catalog required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Manager{
		catalog:    cfg.Catalog,
		ttl:        cfg.TTL,
		seed:       cfg.Seed,
		engineOpts: cfg.EngineOptions,
		now:        cfg.Now,
		logger:     cfg.Logger,
		sessions:   make(map[string]*Session),
	}
}

// Create starts a new session with an empty booking.
func (m *Manager) Create() (*Session, error) {
	engine := booking.NewEngine(m.catalog, m.engineOpts...)
	if m.seed != nil {
		if err := m.seed(engine); err != nil {
			return nil, fmt.Errorf("sessions: seed engine: %w", err)
		}
	}
	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now.UTC(),
		engine:    engine,
		lastSeen:  now,
		subs:      make(map[int]chan booking.Summary),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns the session with id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Delete ends a session and closes its subscriptions.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.close()
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed. A zero TTL keeps sessions forever.
func (m *Manager) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	var expired []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if now.Sub(s.idleSince()) > m.ttl {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	if len(expired) > 0 {
		m.logger.Info("sessions expired", "count", len(expired))
	}
	return len(expired)
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration, onSweep func(remaining int)) {
	if interval <= 0 || m.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(m.now())
			if onSweep != nil {
				onSweep(m.Len())
			}
		}
	}
}
