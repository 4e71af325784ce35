package domain

import "errors"

// Failure taxonomy shared by the catalog client, the bookmark store and the
// coordinator. Collaborator errors are translated into these at the
// coordinator boundary so raw transport errors never leak to consumers.
var (
	// ErrUnauthenticated means no usable bearer token. During a load this is
	// a normal state (empty bookmarks), on a mutation it is a 401.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrUnavailable covers network and transport failures. Retryable.
	ErrUnavailable = errors.New("upstream unavailable")

	// ErrConflict means the remote store already holds the entry. Benign:
	// never surfaced to the user as a failure.
	ErrConflict = errors.New("already exists")

	// ErrNotFound is a typed miss from the catalog or the store.
	ErrNotFound = errors.New("not found")

	// ErrBadInput marks malformed caller input (unknown kind, empty record).
	ErrBadInput = errors.New("bad input")

	// ErrNotLoaded is a precondition violation: mutating a coordinator that
	// never completed a load. Fail-fast, not retryable.
	ErrNotLoaded = errors.New("bookmarks not loaded")

	// ErrLoadInProgress rejects mutations while a load is in flight. The
	// caller should retry once the load settles.
	ErrLoadInProgress = errors.New("load in progress, retry")
)

// Retryable reports whether the error is a transient upstream failure the
// caller may reasonably retry.
func Retryable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrLoadInProgress)
}
