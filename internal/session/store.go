package session

import (
	"fmt"
	"sort"
	"sync"

	"github.com/parley-ai/parley/internal/types"
)

// Store is the in-memory session store, passed by reference into the
// orchestrator. It is safe for concurrent use across sessions; callers
// serialize turns on a single session through Lock/Unlock, which the
// orchestrator acquires for the whole turn. Nothing else in the design
// prevents two concurrent turns from corrupting the merge sequence.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	locks    map[string]*sync.Mutex
}

// NewStore creates an empty session store
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Put stores a session under its customer id, replacing any previous one
func (st *Store) Put(s *Session) error {
	if s == nil {
		return types.NewError(types.SESSION_INVALID, "session cannot be nil")
	}
	if s.CustomerID == "" {
		return types.NewError(types.SESSION_INVALID, "session customer_id cannot be empty")
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	st.sessions[s.CustomerID] = s
	if _, ok := st.locks[s.CustomerID]; !ok {
		st.locks[s.CustomerID] = &sync.Mutex{}
	}
	return nil
}

// Get retrieves a session by customer id
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, types.NewError(types.SESSION_NOT_FOUND, fmt.Sprintf("session %q not found", id))
	}
	return s, nil
}

// Delete removes a session and its turn lock. Deletion is a whole-session
// operation; it never happens mid-turn.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return types.NewError(types.SESSION_NOT_FOUND, fmt.Sprintf("session %q not found", id))
	}
	delete(st.sessions, id)
	delete(st.locks, id)
	return nil
}

// List returns all session ids, sorted for stable output
func (st *Store) List() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()

	ids := make([]string, 0, len(st.sessions))
	for id := range st.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of stored sessions
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Lock acquires the per-session turn lock, creating it on first use.
// Holding it guarantees single-writer access for one full turn while
// other sessions proceed independently.
func (st *Store) Lock(id string) {
	st.mu.Lock()
	l, ok := st.locks[id]
	if !ok {
		l = &sync.Mutex{}
		st.locks[id] = l
	}
	st.mu.Unlock()

	l.Lock()
}

// Unlock releases the per-session turn lock
func (st *Store) Unlock(id string) {
	st.mu.RLock()
	l, ok := st.locks[id]
	st.mu.RUnlock()

	if ok {
		l.Unlock()
	}
}
