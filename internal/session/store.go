package session

import (
	"sync"

	"github.com/google/uuid"
)

// Store holds recent sessions in memory so follow-up requests can reuse
// fetched results instead of refetching. Bounded; the oldest session is
// dropped when the store is full.
type Store struct {
	mu       sync.Mutex
	capacity int
	sessions map[uuid.UUID]*Session
	order    []uuid.UUID // insertion order, oldest first
}

// NewStore creates a store holding at most capacity sessions.
func NewStore(capacity int) *Store {
	return &Store{
		capacity: capacity,
		sessions: make(map[uuid.UUID]*Session, capacity),
	}
}

// Save stores a session, evicting the oldest when the store is full.
func (s *Store) Save(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sess.ID]; !exists {
		if len(s.order) >= s.capacity {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.sessions, oldest)
		}
		s.order = append(s.order, sess.ID)
	}
	s.sessions[sess.ID] = sess
}

// Get returns the session with the given ID.
func (s *Store) Get(id uuid.UUID) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
