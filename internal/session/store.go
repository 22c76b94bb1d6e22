// Package session holds the per-session invoice state. A session owns
// exactly one invoice aggregate, seeded with the sample document, replaced
// wholesale on every edit and destroyed when the session is closed or goes
// idle past its TTL.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/makeupcoders/invoicegenius-api/internal/domain"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Action identifies a gated long-running operation on a session.
type Action string

// Gated actions. While one invocation is outstanding, a second trigger of
// the same action on the same session is refused.
const (
	ActionExport   Action = "export"
	ActionGenerate Action = "generate"
)

// BusyError is returned when an action is triggered while a prior
// invocation of the same action is still in flight.
type BusyError struct {
	Action Action
}

// Error implements the error interface
func (e *BusyError) Error() string {
	return fmt.Sprintf("%s already in progress", e.Action)
}

// Session is one editing session: a current invoice snapshot plus the
// in-flight flags for its gated actions.
type Session struct {
	ID        string
	invoice   domain.Invoice
	busy      map[Action]bool
	touchedAt time.Time
	mu        sync.Mutex
}

// Store keeps all live sessions in memory.
type Store struct {
	sessions  map[string]*Session
	ttl       time.Duration
	mu        sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
}

// NewStore creates a session store. Sessions idle longer than ttl are
// removed by a background sweep.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Create opens a new session seeded with the sample draft invoice.
func (s *Store) Create(now time.Time) *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		invoice:   domain.NewDraftInvoice(now),
		busy:      make(map[Action]bool),
		touchedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get returns the session with the given id.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("get session %s: %w", id, ErrNotFound)
	}

	sess.mu.Lock()
	sess.touchedAt = time.Now()
	sess.mu.Unlock()

	return sess, nil
}

// Delete destroys a session. Deleting an unknown id is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the background sweep.
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// sweep periodically drops sessions idle past the TTL.
func (s *Store) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for id, sess := range s.sessions {
				sess.mu.Lock()
				idle := now.Sub(sess.touchedAt)
				sess.mu.Unlock()
				if idle > s.ttl {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		}
	}
}

// Invoice returns the current snapshot.
func (sess *Session) Invoice() domain.Invoice {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.invoice
}

// Replace swaps in a new snapshot atomically. The renderer never observes a
// partially updated aggregate. The in-memory logo survives wholesale
// document replacement; it is managed through the logo operations only.
func (sess *Session) Replace(inv domain.Invoice) {
	sess.mu.Lock()
	if inv.Logo == nil {
		inv.Logo = sess.invoice.Logo
	}
	sess.invoice = inv
	sess.touchedAt = time.Now()
	sess.mu.Unlock()
}

// SetLogo stores the uploaded logo bytes on the current snapshot. A nil
// value clears the logo.
func (sess *Session) SetLogo(logo []byte) {
	sess.mu.Lock()
	inv := sess.invoice.Clone()
	inv.Logo = logo
	sess.invoice = inv
	sess.touchedAt = time.Now()
	sess.mu.Unlock()
}

// Begin marks an action as in flight. It returns a BusyError if a prior
// invocation of the same action is still outstanding.
func (sess *Session) Begin(action Action) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.busy[action] {
		return &BusyError{Action: action}
	}
	sess.busy[action] = true
	return nil
}

// End clears the in-flight flag for an action. Always called from a defer
// so the flag is released on both success and failure.
func (sess *Session) End(action Action) {
	sess.mu.Lock()
	sess.busy[action] = false
	sess.mu.Unlock()
}
