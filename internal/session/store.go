// Package session holds the ephemeral, owner-bound state of one interaction
// sequence (profile wizard, photo browser). Sessions live in memory only;
// abandoning or timing one out never persists partial state.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lensfolio/lensfolio-backend/internal/models"
)

// Entry is one live session. State is the workflow's working copy; it is
// mutated only through the owning user's actions.
type Entry[T any] struct {
	ID      string
	OwnerID uint
	State   T

	expiresAt time.Time
}

// Store is an in-memory registry of sessions with an idle timeout. Every
// access re-checks the acting user against the session owner and refreshes
// the timeout.
type Store[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*Entry[T]
	now     func() time.Time
}

func NewStore[T any](ttl time.Duration) *Store[T] {
	return &Store[T]{
		ttl:     ttl,
		entries: make(map[string]*Entry[T]),
		now:     time.Now,
	}
}

func (s *Store[T]) Create(ownerID uint, state T) *Entry[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeLocked()

	e := &Entry[T]{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		State:     state,
		expiresAt: s.now().Add(s.ttl),
	}
	s.entries[e.ID] = e
	return e
}

// Get returns the session if it is alive and owned by actorID. A session
// acted on by anyone but its owner fails with ErrPermissionDenied without
// mutation; a missing or idle-expired session fails with ErrSessionExpired.
func (s *Store[T]) Get(id string, actorID uint) (*Entry[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, models.ErrSessionExpired
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, id)
		return nil, models.ErrSessionExpired
	}
	if e.OwnerID != actorID {
		return nil, models.ErrPermissionDenied
	}

	e.expiresAt = s.now().Add(s.ttl)
	return e, nil
}

func (s *Store[T]) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

func (s *Store[T]) purgeLocked() {
	now := s.now()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}
