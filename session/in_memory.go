// Package session provides a volatile store for per-conversation sessions,
// typically one per client connection. Sessions returned are shared handles:
// the owning orchestrator mutates them in place, so the store never clones.
package session

import (
	"sync"

	"github.com/moleculab/agentloop/core"
)

// InMemoryStore keeps sessions in a process-local map guarded by an RWMutex.
// Safe for concurrent access; best suited for single-process servers where
// session state is explicitly ephemeral.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.Session)}
}

// GetOrCreate returns the session registered under id, creating it lazily.
func (s *InMemoryStore) GetOrCreate(id string) *core.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	sess := core.NewSession(id)
	s.sessions[sess.ID] = sess
	return sess
}

// Get returns an existing session.
func (s *InMemoryStore) Get(id string) (*core.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Delete removes the session on connection teardown. Safe to call for
// unknown ids.
func (s *InMemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len reports the number of live sessions.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
