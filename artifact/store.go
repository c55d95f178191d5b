// Package artifact provides a volatile per-session store for the binary
// artifacts extracted from tool results, so a consumer can refetch an image
// or audio clip after the originating stream event has passed.
package artifact

import (
	"errors"
	"sync"

	"github.com/moleculab/agentloop/core"
)

// ErrNotFound is returned when no artifact exists for the session / id pair.
var ErrNotFound = errors.New("artifact not found")

// Store keeps artifacts in a process-local map guarded by an RWMutex. It is
// safe for concurrent access and intentionally minimal: no retention limits,
// no eviction. Artifacts live exactly as long as their session does.
//
// Layout: sessionID -> artifactID -> artifact
type Store struct {
	mu    sync.RWMutex
	items map[string]map[string]core.Artifact
	order map[string][]string
}

// NewStore returns an empty in-memory artifact store.
func NewStore() *Store {
	return &Store{
		items: make(map[string]map[string]core.Artifact),
		order: make(map[string][]string),
	}
}

// Save stores an artifact under a fresh id and returns the id.
func (s *Store) Save(sessionID string, a core.Artifact) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[sessionID]; !ok {
		s.items[sessionID] = make(map[string]core.Artifact)
	}
	id := core.NewID()
	s.items[sessionID][id] = a
	s.order[sessionID] = append(s.order[sessionID], id)
	return id
}

// Get returns the stored artifact or ErrNotFound.
func (s *Store) Get(sessionID, artifactID string) (core.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.items[sessionID]
	if !ok {
		return core.Artifact{}, ErrNotFound
	}
	a, ok := m[artifactID]
	if !ok {
		return core.Artifact{}, ErrNotFound
	}
	return a, nil
}

// List returns the artifact ids for a session in save order. The slice is a
// snapshot safe for caller mutation.
func (s *Store) List(sessionID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.order[sessionID]))
	copy(ids, s.order[sessionID])
	return ids
}

// Purge removes every artifact belonging to the session. Called on session
// reset and teardown.
func (s *Store) Purge(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sessionID)
	delete(s.order, sessionID)
}
