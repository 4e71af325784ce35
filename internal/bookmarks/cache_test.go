package bookmarks

import (
	"sync"
	"testing"

	"showshelf/internal/domain"
)

func TestNewCacheIsEmpty(t *testing.T) {
	c := NewCache()
	if c.Len() != 0 {
		t.Errorf("NewCache() Len = %d, want 0", c.Len())
	}
	if got := c.All(); len(got) != 0 {
		t.Errorf("NewCache() All() = %d entries, want 0", len(got))
	}
}

func TestReplaceAllPreservesOrder(t *testing.T) {
	c := NewCache()
	c.ReplaceAll([]domain.Bookmark{
		record(domain.KindMovie, 3),
		record(domain.KindSeries, 1),
		record(domain.KindMovie, 2),
	})

	got := c.All()
	if len(got) != 3 {
		t.Fatalf("All() = %d entries, want 3", len(got))
	}
	if got[0].ID != 3 || got[1].ID != 1 || got[2].ID != 2 {
		t.Errorf("All() order = %v, want [3 1 2]", keys(got))
	}
}

func TestReplaceAllOverwrites(t *testing.T) {
	c := NewCache()
	c.ReplaceAll([]domain.Bookmark{record(domain.KindMovie, 1)})
	c.ReplaceAll([]domain.Bookmark{record(domain.KindMovie, 2), record(domain.KindMovie, 3)})

	if c.Len() != 2 {
		t.Errorf("Len() = %d after replace, want 2", c.Len())
	}
	if c.Contains(domain.BookmarkKey{Kind: domain.KindMovie, ID: 1}) {
		t.Error("old entry should be gone after ReplaceAll")
	}
}

func TestAppendRejectsDuplicateKey(t *testing.T) {
	c := NewCache()
	if !c.Append(record(domain.KindMovie, 1)) {
		t.Fatal("first Append() = false, want true")
	}
	if c.Append(record(domain.KindMovie, 1)) {
		t.Error("duplicate Append() = true, want false")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestRemoveKeepsIndexConsistent(t *testing.T) {
	c := NewCache()
	c.ReplaceAll([]domain.Bookmark{
		record(domain.KindMovie, 1),
		record(domain.KindMovie, 2),
		record(domain.KindMovie, 3),
	})

	if !c.Remove(domain.BookmarkKey{Kind: domain.KindMovie, ID: 2}) {
		t.Fatal("Remove() = false, want true")
	}

	// Entries after the removed one must still be findable through the index.
	if !c.Contains(domain.BookmarkKey{Kind: domain.KindMovie, ID: 3}) {
		t.Error("Contains(movie:3) = false after removing movie:2")
	}
	got := c.All()
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("All() = %v, want [movie:1 movie:3]", keys(got))
	}

	if c.Remove(domain.BookmarkKey{Kind: domain.KindMovie, ID: 2}) {
		t.Error("second Remove() of same key = true, want false")
	}
}

func TestAllReturnsSnapshot(t *testing.T) {
	c := NewCache()
	c.ReplaceAll([]domain.Bookmark{record(domain.KindMovie, 1)})

	snap := c.All()
	snap[0].Media.Title = "mutated"

	if c.All()[0].Media.Title == "mutated" {
		t.Error("mutating a snapshot must not affect the cache")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache()
	c.ReplaceAll([]domain.Bookmark{record(domain.KindMovie, 1)})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.All()
			_ = c.Contains(domain.BookmarkKey{Kind: domain.KindMovie, ID: 1})
		}()
	}
	for i := int64(2); i < 52; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Append(record(domain.KindSeries, i))
		}()
	}
	wg.Wait()

	if c.Len() != 51 {
		t.Errorf("Len() = %d after concurrent appends, want 51", c.Len())
	}
}
