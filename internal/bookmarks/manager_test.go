package bookmarks

import (
	"context"
	"testing"
	"time"

	"showshelf/internal/credentials"
	"showshelf/internal/logger"
)

func newTestManager() *Manager {
	return NewManager(func(_ string, creds credentials.Source) *Coordinator {
		return NewCoordinator(creds, &fakeStore{}, &fakeCatalog{}, logger.Nop(), 2)
	})
}

func TestManagerReusesCoordinatorPerOwner(t *testing.T) {
	m := newTestManager()

	a1 := m.Coordinator("alice", "tok-1")
	a2 := m.Coordinator("alice", "tok-2")
	b := m.Coordinator("bob", "tok-3")

	if a1 != a2 {
		t.Error("same owner should get the same coordinator")
	}
	if a1 == b {
		t.Error("different owners must get different coordinators")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestManagerRotatesToken(t *testing.T) {
	var captured credentials.Source
	m := NewManager(func(_ string, creds credentials.Source) *Coordinator {
		captured = creds
		return NewCoordinator(creds, &fakeStore{}, &fakeCatalog{}, logger.Nop(), 2)
	})

	m.Coordinator("alice", "tok-1")
	m.Coordinator("alice", "tok-2")

	token, err := captured.Token(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if token != "tok-2" {
		t.Errorf("session token = %q, want the latest presented tok-2", token)
	}
}

func TestManagerEvictResetsCoordinator(t *testing.T) {
	m := newTestManager()
	c := m.Coordinator("alice", "tok")
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	m.Evict("alice")

	if m.Len() != 0 {
		t.Errorf("Len() = %d after evict, want 0", m.Len())
	}
	if c.State() != StateUnloaded {
		t.Errorf("evicted coordinator state = %v, want StateUnloaded", c.State())
	}
}

func TestManagerSweepEvictsIdleSessions(t *testing.T) {
	m := newTestManager()
	m.Coordinator("alice", "tok-a")
	time.Sleep(30 * time.Millisecond)
	m.Coordinator("bob", "tok-b")

	evicted := m.Sweep(20 * time.Millisecond)

	if evicted != 1 {
		t.Errorf("Sweep() evicted %d sessions, want 1", evicted)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d after sweep, want 1 (bob stays)", m.Len())
	}
}

func TestManagerEach(t *testing.T) {
	m := newTestManager()
	m.Coordinator("alice", "tok-a")
	m.Coordinator("bob", "tok-b")

	seen := make(map[string]bool)
	m.Each(func(owner string, _ *Coordinator) { seen[owner] = true })

	if !seen["alice"] || !seen["bob"] {
		t.Errorf("Each() visited %v, want alice and bob", seen)
	}
}
