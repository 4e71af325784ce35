package bookstore

import (
	"fmt"
	"strconv"
	"strings"

	"showshelf/internal/domain"
)

const keyPrefixSaved = "shelf:saved:"

// SavedKey returns the Redis key of an owner's saved-items sorted set.
func SavedKey(owner string) string {
	return keyPrefixSaved + owner
}

// member encodes the (kind, id) identity as a set member.
func member(kind domain.MediaKind, id int64) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

// parseMember decodes a set member back into its identity pair.
func parseMember(m string) (domain.MediaKind, int64, error) {
	raw, idStr, ok := strings.Cut(m, ":")
	if !ok {
		return "", 0, fmt.Errorf("malformed member %q", m)
	}
	kind, err := domain.ParseKind(raw)
	if err != nil {
		return "", 0, err
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("malformed member id %q", m)
	}
	return kind, id, nil
}
