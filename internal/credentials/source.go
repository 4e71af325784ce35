package credentials

import (
	"context"
	"net/http"
	"strings"
	"sync"
)

// Source supplies the bearer token of the current session. It is the
// credential contract the bookmark coordinator depends on: a possibly-absent
// token plus a synchronous authenticated flag. A failing Token call is
// treated by callers the same as "no token".
type Source interface {
	Token(ctx context.Context) (string, error)
	IsAuthenticated() bool
}

// TokenSource is a Source bound to one already-issued bearer token,
// typically the Authorization header of the request being served.
type TokenSource struct {
	token string
}

// NewTokenSource wraps a raw bearer token. An empty token yields an
// unauthenticated source.
func NewTokenSource(token string) *TokenSource {
	return &TokenSource{token: token}
}

func (s *TokenSource) Token(_ context.Context) (string, error) {
	return s.token, nil
}

func (s *TokenSource) IsAuthenticated() bool {
	return s.token != ""
}

// RotatingSource is a Source whose token follows the latest request of a
// live session. Refreshing the token mid-session does not invalidate the
// coordinator bound to it.
type RotatingSource struct {
	mu    sync.RWMutex
	token string
}

// NewRotatingSource starts with the given token; Set replaces it later.
func NewRotatingSource(token string) *RotatingSource {
	return &RotatingSource{token: token}
}

// Set replaces the current token. An empty token signs the source out.
func (s *RotatingSource) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *RotatingSource) Token(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *RotatingSource) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// BearerFromRequest extracts the bearer token from an Authorization header.
// Returns "" when the header is missing or not a Bearer scheme.
func BearerFromRequest(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}
