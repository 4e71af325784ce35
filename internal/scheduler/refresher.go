package scheduler

import (
	"context"
	"time"

	"showshelf/internal/bookmarks"
	"showshelf/internal/logger"
)

// Refresher periodically rebuilds the bookmark view of every live session
// so cached catalog metadata does not grow stale, and evicts sessions
// nobody has touched for a while.
type Refresher struct {
	sessions      *bookmarks.Manager
	logger        logger.Logger
	interval      time.Duration
	idleTTL       time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewRefresher creates a session refresher.
func NewRefresher(
	sessions *bookmarks.Manager,
	log logger.Logger,
	interval time.Duration,
	idleTTL time.Duration,
	manualTrigger chan struct{},
) *Refresher {
	return &Refresher{
		sessions:      sessions,
		logger:        log,
		interval:      interval,
		idleTTL:       idleTTL,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic refresh loop.
func (rf *Refresher) Start(ctx context.Context) {
	ticker := time.NewTicker(rf.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rf.sweep()
				rf.Refresh(ctx)
			case <-rf.manualTrigger:
				rf.logger.Info("manual session refresh triggered")
				rf.Refresh(ctx)
			case <-rf.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the refresher.
func (rf *Refresher) Stop() {
	close(rf.stopCh)
}

// Refresh reloads every session that has a loaded view. Sessions that
// never finished a load are left alone; their next request loads them.
func (rf *Refresher) Refresh(ctx context.Context) {
	refreshed := 0
	rf.sessions.Each(func(owner string, c *bookmarks.Coordinator) {
		if !c.Loaded() {
			return
		}
		if err := c.Load(ctx); err != nil {
			rf.logger.Warn("session refresh failed",
				logger.String("owner", owner),
				logger.Error(err))
			return
		}
		refreshed++
	})
	if refreshed > 0 {
		rf.logger.Info("refreshed bookmark sessions", logger.Int("count", refreshed))
	}
}

func (rf *Refresher) sweep() {
	if evicted := rf.sessions.Sweep(rf.idleTTL); evicted > 0 {
		rf.logger.Info("evicted idle bookmark sessions", logger.Int("count", evicted))
	}
}
