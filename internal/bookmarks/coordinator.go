package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"showshelf/internal/credentials"
	"showshelf/internal/domain"
	"showshelf/internal/logger"
)

// PersistenceClient is the remote bookmark store contract. Implementations
// must return the domain error taxonomy: ErrConflict on duplicate create,
// ErrNotFound on absent delete, ErrUnavailable on transport failure,
// ErrUnauthenticated on a rejected token.
type PersistenceClient interface {
	List(ctx context.Context, token string) ([]domain.RemoteEntry, error)
	Create(ctx context.Context, token string, kind domain.MediaKind, id int64) error
	Delete(ctx context.Context, token string, kind domain.MediaKind, id int64) error
}

// CatalogClient hydrates a bare identifier into full catalog metadata.
type CatalogClient interface {
	FetchDetails(ctx context.Context, kind domain.MediaKind, id int64) (*domain.MediaRecord, error)
}

// State tracks the coordinator lifecycle.
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return "unloaded"
	}
}

// AddStatus distinguishes a fresh insert from a benign duplicate.
type AddStatus int

const (
	StatusAdded AddStatus = iota + 1
	StatusDuplicate
)

// Coordinator reconciles one owner's saved items: it loads the remote list,
// hydrates it against the catalog, and applies add/remove mutations while
// keeping the cache a strict projection of the remote store. It is the only
// writer of its Cache.
type Coordinator struct {
	creds       credentials.Source
	store       PersistenceClient
	catalog     CatalogClient
	logger      logger.Logger
	concurrency int

	cache *Cache
	group singleflight.Group

	mu      sync.Mutex
	state   State
	loadSeq uint64
	mutSeq  uint64
}

// NewCoordinator builds a coordinator from its three collaborators.
// concurrency bounds the hydration fan-out; values < 1 mean 1.
func NewCoordinator(
	creds credentials.Source,
	store PersistenceClient,
	catalog CatalogClient,
	log logger.Logger,
	concurrency int,
) *Coordinator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Coordinator{
		creds:       creds,
		store:       store,
		catalog:     catalog,
		logger:      log,
		concurrency: concurrency,
		cache:       NewCache(),
	}
}

// Load rebuilds the cache from the remote store. Safe to call repeatedly;
// concurrent calls coalesce into the in-flight load and share its result.
//
// An unauthenticated session is not a failure: the cache is simply empty.
// A failed list empties the cache and returns a retryable error. A failed
// hydration of an individual item drops that item only.
func (c *Coordinator) Load(ctx context.Context) error {
	_, err, _ := c.group.Do("load", func() (interface{}, error) {
		return nil, c.load(ctx)
	})
	return err
}

func (c *Coordinator) load(ctx context.Context) error {
	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	mut := c.mutSeq
	c.state = StateLoading
	c.mu.Unlock()

	token := ""
	if c.creds.IsAuthenticated() {
		t, err := c.creds.Token(ctx)
		if err != nil {
			// A failing credential source is the same as no token.
			c.logger.Warn("credential source failed, treating as signed out", logger.Error(err))
		} else {
			token = t
		}
	}
	if token == "" {
		c.commit(seq, mut, nil, StateLoaded)
		return nil
	}

	entries, err := c.store.List(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			// Token expired out from under us; same as signed out.
			c.commit(seq, mut, nil, StateLoaded)
			return nil
		}
		c.commit(seq, mut, nil, StateUnloaded)
		c.logger.Error("failed to list saved items", logger.Error(err))
		return classify(err)
	}

	records := c.hydrate(ctx, entries)

	if !c.commit(seq, mut, records, StateLoaded) {
		c.logger.Debug("discarding stale load result",
			logger.Int("count", len(records)))
	}
	return nil
}

// hydrate fans out catalog lookups for all entries, bounded by the
// configured concurrency, and buffers the results back into list order.
// Items that fail to hydrate are logged and dropped; they never produce a
// partial record and never fail the load.
func (c *Coordinator) hydrate(ctx context.Context, entries []domain.RemoteEntry) []domain.Bookmark {
	results := make([]*domain.Bookmark, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			rec, err := c.catalog.FetchDetails(gctx, entry.Kind, entry.ID)
			if err != nil {
				c.logger.Warn("dropping saved item, hydration failed",
					logger.String("kind", string(entry.Kind)),
					logger.Int64("id", entry.ID),
					logger.Error(err))
				return nil
			}
			results[i] = &domain.Bookmark{
				Kind:    entry.Kind,
				ID:      entry.ID,
				Media:   *rec,
				SavedAt: entry.CreatedAt,
			}
			return nil
		})
	}
	_ = g.Wait()

	records := make([]domain.Bookmark, 0, len(entries))
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}
	return records
}

// commit installs a load result. It is discarded when a newer load has been
// issued since, or when a snapshot predates a mutation that confirmed while
// it was in flight: overwriting would resurrect a removed entry (or drop an
// added one) until the next reload. A discarded snapshot still settles the
// state; the mutated cache stays as the current view.
func (c *Coordinator) commit(seq, mut uint64, records []domain.Bookmark, next State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.loadSeq {
		return false
	}
	c.state = next
	if records != nil && mut != c.mutSeq {
		return false
	}
	c.cache.ReplaceAll(records)
	return true
}

// Add saves a fully-hydrated bookmark. The cache is only touched after the
// remote create confirms, so a failed write never diverges the local view.
// A duplicate, whether caught locally or by the store's uniqueness
// constraint, is reported as StatusDuplicate and is not an error.
func (c *Coordinator) Add(ctx context.Context, b domain.Bookmark) (AddStatus, error) {
	if err := c.gate(); err != nil {
		return 0, err
	}
	if b.ID == 0 || b.Media.Title == "" {
		return 0, fmt.Errorf("%w: bookmark record not fully populated", domain.ErrBadInput)
	}
	if _, err := domain.ParseKind(string(b.Kind)); err != nil {
		return 0, err
	}

	if c.cache.Contains(b.Key()) {
		return StatusDuplicate, nil
	}

	token, err := c.token(ctx)
	if err != nil {
		return 0, err
	}

	if err := c.store.Create(ctx, token, b.Kind, b.ID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Raced by another session; the entry is already remote. Leave
			// the cache alone, the next load reconciles it.
			c.logger.Debug("remote store reported duplicate",
				logger.String("key", b.Key().String()))
			return StatusDuplicate, nil
		}
		return 0, classify(err)
	}

	if b.SavedAt.IsZero() {
		b.SavedAt = time.Now()
	}

	// Bumping mutSeq invalidates any list snapshot taken before this
	// confirm; applying the append even mid-load keeps the view correct
	// when that snapshot is discarded.
	c.mu.Lock()
	if c.state != StateUnloaded {
		c.mutSeq++
		c.cache.Append(b)
	}
	c.mu.Unlock()

	return StatusAdded, nil
}

// Remove deletes a saved item remotely, then locally. Removal is never
// speculative: the cache keeps the entry until the store confirms. A
// remote "not found" counts as success so the operation is idempotent.
func (c *Coordinator) Remove(ctx context.Context, kind domain.MediaKind, id int64) error {
	if err := c.gate(); err != nil {
		return err
	}

	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	if err := c.store.Delete(ctx, token, kind, id); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return classify(err)
		}
	}

	c.mu.Lock()
	if c.state != StateUnloaded {
		c.mutSeq++
		c.cache.Remove(domain.BookmarkKey{Kind: kind, ID: id})
	}
	c.mu.Unlock()

	return nil
}

// IsBookmarked reports whether (kind, id) is in the current view.
func (c *Coordinator) IsBookmarked(kind domain.MediaKind, id int64) bool {
	return c.cache.Contains(domain.BookmarkKey{Kind: kind, ID: id})
}

// Bookmarks returns a snapshot of the current view in insertion order.
func (c *Coordinator) Bookmarks() []domain.Bookmark {
	return c.cache.All()
}

// State returns the lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Loaded reports whether a load has completed since the last reset.
func (c *Coordinator) Loaded() bool {
	return c.State() == StateLoaded
}

// LastLoad returns when the view was last rebuilt.
func (c *Coordinator) LastLoad() time.Time {
	return c.cache.LastLoad()
}

// Reset clears the view and returns to Unloaded, discarding the result of
// any load still in flight. Used on sign-out and session change.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loadSeq++
	c.cache.Clear()
	c.state = StateUnloaded
}

// gate rejects mutations unless a load has completed. Rejecting is simpler
// than queueing and the HTTP layer loads on demand before mutating.
func (c *Coordinator) gate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateLoaded:
		return nil
	case StateLoading:
		return domain.ErrLoadInProgress
	default:
		return domain.ErrNotLoaded
	}
}

func (c *Coordinator) token(ctx context.Context) (string, error) {
	if !c.creds.IsAuthenticated() {
		return "", domain.ErrUnauthenticated
	}
	token, err := c.creds.Token(ctx)
	if err != nil || token == "" {
		return "", domain.ErrUnauthenticated
	}
	return token, nil
}

// classify makes sure no raw collaborator error crosses the coordinator
// boundary: anything outside the domain taxonomy becomes ErrUnavailable.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrUnavailable),
		errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrBadInput):
		return err
	default:
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
}
