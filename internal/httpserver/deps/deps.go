package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"showshelf/internal/bookmarks"
	"showshelf/internal/credentials"
	"showshelf/internal/logger"
)

// Deps carries the shared dependencies handed to every route.
type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	RedisClient *redis.Client           // backing store, pinged by readyz
	Verifier    *credentials.Verifier   // bearer token verification
	Catalog     bookmarks.CatalogClient // metadata lookups for add requests
	Sessions    *bookmarks.Manager      // per-owner bookmark coordinators

	RefreshTrigger chan struct{} // manual refresh of live sessions
}
