package core

import (
	"errors"
	"sync"
	"time"
)

// ErrTurnInFlight is returned by BeginTurn while another round loop owns the
// session.
var ErrTurnInFlight = errors.New("session: turn already in flight")

// Session is the durable conversation state for one logical user
// interaction. It owns an append-only message history plus turn accounting.
//
// Contract:
//   - History mutations update the Updated timestamp
//   - Messages returns a defensive copy so callers can build a working
//     history without racing the session
//   - At most one chat turn advances a session at a time (BeginTurn/EndTurn)
//   - Reset discards stored history but never touches the private working
//     copy of a round already in flight.
type Session struct {
	ID      string
	Created time.Time
	Updated time.Time

	mu       sync.Mutex
	messages []Message
	inTurn   bool
}

// NewSession creates an empty session. An empty id is replaced by a fresh
// unique one.
func NewSession(id string) *Session {
	if id == "" {
		id = NewID()
	}
	now := time.Now().UTC()
	return &Session{ID: id, Created: now, Updated: now}
}

// Append adds messages to the history.
func (s *Session) Append(msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msgs...)
	s.Updated = time.Now().UTC()
}

// Messages returns a copy of the history safe for caller mutation.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len reports the number of stored messages.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Reset discards the stored history. Idempotent.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.Updated = time.Now().UTC()
}

// BeginTurn claims exclusive round-loop ownership of the session. It fails
// with ErrTurnInFlight instead of blocking so concurrent turns on one
// session are rejected rather than interleaved.
func (s *Session) BeginTurn() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inTurn {
		return ErrTurnInFlight
	}
	s.inTurn = true
	return nil
}

// EndTurn releases round-loop ownership.
func (s *Session) EndTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inTurn = false
}
