package session

import (
	"testing"

	"github.com/moleculab/agentloop/core"
)

func TestInMemoryStore_GetOrCreate(t *testing.T) {
	s := NewInMemoryStore()

	a := s.GetOrCreate("s1")
	b := s.GetOrCreate("s1")
	if a != b {
		t.Fatal("expected the same session handle for the same id")
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", s.Len())
	}

	a.Append(core.NewUserMessage("hi"))
	if b.Len() != 1 {
		t.Fatal("handles must share state")
	}
}

func TestInMemoryStore_GetAndDelete(t *testing.T) {
	s := NewInMemoryStore()
	s.GetOrCreate("s1")

	if _, ok := s.Get("s1"); !ok {
		t.Fatal("expected existing session")
	}
	if _, ok := s.Get("missing"); ok {
		t.Fatal("expected miss for unknown id")
	}

	s.Delete("s1")
	if _, ok := s.Get("s1"); ok {
		t.Fatal("expected session gone after delete")
	}
	s.Delete("s1") // idempotent
}
