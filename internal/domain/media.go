package domain

import (
	"fmt"
	"time"
)

// MediaKind identifies which side of the catalog an item belongs to.
// Catalog ids are only unique within a kind, so the pair (Kind, ID)
// is the real identity of a saved item.
type MediaKind string

const (
	KindMovie  MediaKind = "movie"
	KindSeries MediaKind = "series"
)

// ParseKind validates a kind coming from the outside (API path, store member).
func ParseKind(s string) (MediaKind, error) {
	switch MediaKind(s) {
	case KindMovie:
		return KindMovie, nil
	case KindSeries:
		return KindSeries, nil
	default:
		return "", fmt.Errorf("%w: unknown media kind %q", ErrBadInput, s)
	}
}

// MediaRecord is the catalog metadata for a movie or series, captured at
// hydration time. It is a snapshot: a record is either fully populated by
// a successful catalog lookup or it does not exist at all.
type MediaRecord struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Overview     string    `json:"overview,omitempty"`
	PosterPath   string    `json:"posterPath,omitempty"`
	BackdropPath string    `json:"backdropPath,omitempty"`
	Rating       float64   `json:"rating,omitempty"`
	ReleaseDate  time.Time `json:"releaseDate,omitempty"`
}

// BookmarkKey is the identity of a saved item. Comparable, usable as a map key.
type BookmarkKey struct {
	Kind MediaKind
	ID   int64
}

func (k BookmarkKey) String() string {
	return fmt.Sprintf("%s:%d", k.Kind, k.ID)
}

// Bookmark is the materialized, consumer-ready representation of a saved item:
// its identity plus the hydrated catalog snapshot.
type Bookmark struct {
	Kind    MediaKind   `json:"kind"`
	ID      int64       `json:"id"`
	Media   MediaRecord `json:"media"`
	SavedAt time.Time   `json:"savedAt"`
}

// Key returns the identity pair of the bookmark.
func (b Bookmark) Key() BookmarkKey {
	return BookmarkKey{Kind: b.Kind, ID: b.ID}
}

// RemoteEntry is one row of the remote bookmark store: a bare identifier
// plus its creation time. The coordinator reads these as hydration input
// and never mutates them directly.
type RemoteEntry struct {
	Kind      MediaKind
	ID        int64
	CreatedAt time.Time
}

// Key returns the identity pair of the remote entry.
func (e RemoteEntry) Key() BookmarkKey {
	return BookmarkKey{Kind: e.Kind, ID: e.ID}
}
