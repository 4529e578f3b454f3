package session

import (
	"sync"
)

// Store is the concurrency-safe map of user states.
//
// Two locking levels: the store mutex guards the map itself, each entry
// mutex serializes events for one user. With handles both, so events for
// different users run concurrently while a single user's events are
// strictly ordered.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	user *User
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// With runs fn with exclusive access to the user's state, creating an idle
// entry on first contact. fn must not retain the *User past its return.
func (s *Store) With(userID string, fn func(*User) error) error {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.user)
}

func (s *Store) entry(userID string) *entry {
	s.mu.RLock()
	e, ok := s.entries[userID]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.entries[userID]; ok {
		return e
	}
	e = &entry{user: &User{ID: userID, State: StateIdle}}
	s.entries[userID] = e
	return e
}

// ActiveSessions counts users with an operation in progress.
func (s *Store) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.entries {
		e.mu.Lock()
		if e.user.Session != nil {
			n++
		}
		e.mu.Unlock()
	}
	return n
}

// Users counts known users, active or idle.
func (s *Store) Users() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
