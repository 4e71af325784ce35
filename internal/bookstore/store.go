package bookstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"showshelf/internal/credentials"
	"showshelf/internal/domain"
	"showshelf/internal/logger"
)

// Store is the persistence client for saved items. Every operation takes
// the caller's bearer token; the owning identity is derived from the token
// subject, never from caller-supplied fields.
//
// Layout: one sorted set per owner, member "<kind>:<id>", score = creation
// time in unix nanoseconds. The score gives List a stable arrival order and
// ZAddNX gives Create its uniqueness guarantee.
type Store struct {
	client   *redis.Client
	verifier *credentials.Verifier
	logger   logger.Logger
	now      func() time.Time
}

// NewStore creates a bookmark store over the given Redis client.
func NewStore(client *redis.Client, verifier *credentials.Verifier, log logger.Logger) *Store {
	return &Store{
		client:   client,
		verifier: verifier,
		logger:   log,
		now:      time.Now,
	}
}

// List returns the owner's saved entries in creation order. Malformed
// members are logged and skipped.
func (s *Store) List(ctx context.Context, token string) ([]domain.RemoteEntry, error) {
	owner, err := s.verifier.Owner(token)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.ZRangeWithScores(ctx, SavedKey(owner), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: list saved items: %v", domain.ErrUnavailable, err)
	}

	entries := make([]domain.RemoteEntry, 0, len(raw))
	for _, z := range raw {
		m, ok := z.Member.(string)
		if !ok {
			continue
		}
		kind, id, err := parseMember(m)
		if err != nil {
			s.logger.Warn("skipping malformed saved entry",
				logger.String("owner", owner),
				logger.String("member", m))
			continue
		}
		entries = append(entries, domain.RemoteEntry{
			Kind:      kind,
			ID:        id,
			CreatedAt: time.Unix(0, int64(z.Score)),
		})
	}
	return entries, nil
}

// Create saves a (kind, id) pair for the token's owner. An entry that
// already exists yields domain.ErrConflict.
func (s *Store) Create(ctx context.Context, token string, kind domain.MediaKind, id int64) error {
	owner, err := s.verifier.Owner(token)
	if err != nil {
		return err
	}

	added, err := s.client.ZAddNX(ctx, SavedKey(owner), redis.Z{
		Score:  float64(s.now().UnixNano()),
		Member: member(kind, id),
	}).Result()
	if err != nil {
		return fmt.Errorf("%w: create saved item: %v", domain.ErrUnavailable, err)
	}
	if added == 0 {
		return fmt.Errorf("%w: %s:%d", domain.ErrConflict, kind, id)
	}
	return nil
}

// Delete removes a (kind, id) pair for the token's owner. A missing entry
// yields domain.ErrNotFound.
func (s *Store) Delete(ctx context.Context, token string, kind domain.MediaKind, id int64) error {
	owner, err := s.verifier.Owner(token)
	if err != nil {
		return err
	}

	removed, err := s.client.ZRem(ctx, SavedKey(owner), member(kind, id)).Result()
	if err != nil {
		return fmt.Errorf("%w: delete saved item: %v", domain.ErrUnavailable, err)
	}
	if removed == 0 {
		return fmt.Errorf("%w: %s:%d", domain.ErrNotFound, kind, id)
	}
	return nil
}
