package session

import (
	"container/list"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/house-price-estimator/internal/estimator"
)

// DefaultMaxSessions bounds a store built without WithMaxSessions.
const DefaultMaxSessions = 10000

// Factory creates the orchestrator for a new session.
type Factory func() *estimator.Orchestrator

type entry struct {
	id           string
	orchestrator *estimator.Orchestrator
	lastSeen     time.Time
}

// Store maps browser sessions to their own orchestrator, so each open page
// has an independent request state machine. Entries are kept in recency
// order: the front of lru is the most recently seen session.
type Store struct {
	ttl           time.Duration
	factory       Factory
	now           func() time.Time
	maxSessions   int
	sweepInterval time.Duration

	mu        sync.Mutex
	sessions  map[string]*list.Element
	lru       *list.List
	lastSweep time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithMaxSessions caps the number of live sessions. When a new session would
// exceed the cap the least recently seen idle session is evicted.
func WithMaxSessions(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithSweepInterval sets how often expired sessions are purged.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.sweepInterval = d
		}
	}
}

// NewStore builds a store. Sessions idle for longer than ttl are evicted;
// ttl <= 0 keeps them until the size cap pushes them out.
func NewStore(ttl time.Duration, factory Factory, opts ...Option) *Store {
	s := &Store{
		ttl:           ttl,
		factory:       factory,
		now:           time.Now,
		maxSessions:   DefaultMaxSessions,
		sweepInterval: time.Minute,
		sessions:      make(map[string]*list.Element),
		lru:           list.New(),
	}
	if ttl > 0 && ttl/4 < s.sweepInterval {
		s.sweepInterval = ttl / 4
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve returns the orchestrator for id, creating a new session when id is
// empty, unknown or expired. The returned id is the one to hand back to the
// client.
func (s *Store) Resolve(id string) (string, *estimator.Orchestrator) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= s.sweepInterval {
		s.sweep(now)
		s.lastSweep = now
	}

	if el, ok := s.sessions[id]; ok && id != "" {
		e := el.Value.(*entry)
		if !s.expired(e, now) {
			e.lastSeen = now
			s.lru.MoveToFront(el)
			return id, e.orchestrator
		}
		s.remove(el)
	}

	for s.lru.Len() >= s.maxSessions {
		if !s.evictOldestIdle() {
			break
		}
	}

	e := &entry{id: uuid.NewString(), orchestrator: s.factory(), lastSeen: now}
	s.sessions[e.id] = s.lru.PushFront(e)
	return e.id, e.orchestrator
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.lastSeen) > s.ttl && !e.orchestrator.Status().Busy
}

// sweep drops expired sessions that have no request in flight. It walks from
// the least recently seen end and stops at the first live session.
func (s *Store) sweep(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for el := s.lru.Back(); el != nil; {
		e := el.Value.(*entry)
		if now.Sub(e.lastSeen) <= s.ttl {
			return
		}
		prev := el.Prev()
		if !e.orchestrator.Status().Busy {
			s.remove(el)
		}
		el = prev
	}
}

// evictOldestIdle removes the least recently seen session without a request
// in flight. It reports false when every session is busy.
func (s *Store) evictOldestIdle() bool {
	for el := s.lru.Back(); el != nil; el = el.Prev() {
		if e := el.Value.(*entry); !e.orchestrator.Status().Busy {
			s.remove(el)
			return true
		}
	}
	return false
}

func (s *Store) remove(el *list.Element) {
	delete(s.sessions, el.Value.(*entry).id)
	s.lru.Remove(el)
}
