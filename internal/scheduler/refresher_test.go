package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"showshelf/internal/bookmarks"
	"showshelf/internal/credentials"
	"showshelf/internal/domain"
	"showshelf/internal/logger"
)

type countingStore struct {
	mu        sync.Mutex
	listCalls int
}

func (s *countingStore) List(ctx context.Context, token string) ([]domain.RemoteEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	return []domain.RemoteEntry{{Kind: domain.KindMovie, ID: 7, CreatedAt: time.Now()}}, nil
}

func (s *countingStore) Create(ctx context.Context, token string, kind domain.MediaKind, id int64) error {
	return nil
}

func (s *countingStore) Delete(ctx context.Context, token string, kind domain.MediaKind, id int64) error {
	return nil
}

func (s *countingStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

type staticCatalog struct{}

func (staticCatalog) FetchDetails(ctx context.Context, kind domain.MediaKind, id int64) (*domain.MediaRecord, error) {
	return &domain.MediaRecord{ID: id, Title: "Hydrated"}, nil
}

func newTestManager(store *countingStore) *bookmarks.Manager {
	return bookmarks.NewManager(func(owner string, creds credentials.Source) *bookmarks.Coordinator {
		return bookmarks.NewCoordinator(creds, store, staticCatalog{}, logger.Nop(), 2)
	})
}

func TestRefreshReloadsLoadedSessions(t *testing.T) {
	store := &countingStore{}
	sessions := newTestManager(store)
	ctx := context.Background()

	coord := sessions.Coordinator("alice", "token-a")
	if err := coord.Load(ctx); err != nil {
		t.Fatalf("initial load failed: %v", err)
	}
	before := store.calls()

	rf := NewRefresher(sessions, logger.Nop(), time.Hour, time.Hour, make(chan struct{}))
	rf.Refresh(ctx)

	if got := store.calls(); got != before+1 {
		t.Errorf("expected one extra list call after refresh, got %d (was %d)", got, before)
	}
	if !coord.Loaded() {
		t.Error("coordinator should stay loaded after refresh")
	}
}

func TestRefreshSkipsUnloadedSessions(t *testing.T) {
	store := &countingStore{}
	sessions := newTestManager(store)

	// Session exists but never completed a load.
	sessions.Coordinator("bob", "token-b")

	rf := NewRefresher(sessions, logger.Nop(), time.Hour, time.Hour, make(chan struct{}))
	rf.Refresh(context.Background())

	if got := store.calls(); got != 0 {
		t.Errorf("unloaded session should not be refreshed, got %d list calls", got)
	}
}

func TestManualTrigger(t *testing.T) {
	store := &countingStore{}
	sessions := newTestManager(store)
	ctx := context.Background()

	coord := sessions.Coordinator("carol", "token-c")
	if err := coord.Load(ctx); err != nil {
		t.Fatalf("initial load failed: %v", err)
	}
	before := store.calls()

	trigger := make(chan struct{}, 1)
	rf := NewRefresher(sessions, logger.Nop(), time.Hour, time.Hour, trigger)
	rf.Start(ctx)
	defer rf.Stop()

	trigger <- struct{}{}

	deadline := time.After(2 * time.Second)
	for store.calls() == before {
		select {
		case <-deadline:
			t.Fatal("manual trigger did not cause a refresh in time")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
