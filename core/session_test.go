package core

import (
	"errors"
	"testing"
)

func TestSession_AppendAndCopyOnRead(t *testing.T) {
	s := NewSession("s1")
	s.Append(NewUserMessage("hi"), NewAssistantMessage("hello"))

	if s.Len() != 2 {
		t.Fatalf("expected 2 messages, got %d", s.Len())
	}

	msgs := s.Messages()
	msgs[0] = NewUserMessage("mutated")
	if s.Messages()[0].Text() != "hi" {
		t.Error("messages slice should be copied on read")
	}
}

func TestSession_ResetIsIdempotent(t *testing.T) {
	s := NewSession("s2")
	s.Append(NewUserMessage("hi"))

	s.Reset()
	if s.Len() != 0 {
		t.Fatalf("expected empty history after reset, got %d", s.Len())
	}
	s.Reset()
	if s.Len() != 0 {
		t.Error("second reset should be a no-op")
	}
}

func TestSession_TurnGuard(t *testing.T) {
	s := NewSession("s3")

	if err := s.BeginTurn(); err != nil {
		t.Fatalf("first BeginTurn failed: %v", err)
	}
	if err := s.BeginTurn(); !errors.Is(err, ErrTurnInFlight) {
		t.Fatalf("expected ErrTurnInFlight, got %v", err)
	}
	s.EndTurn()
	if err := s.BeginTurn(); err != nil {
		t.Fatalf("BeginTurn after EndTurn failed: %v", err)
	}
}

func TestSession_GeneratesIDWhenEmpty(t *testing.T) {
	s := NewSession("")
	if s.ID == "" {
		t.Error("expected a generated session ID")
	}
}
