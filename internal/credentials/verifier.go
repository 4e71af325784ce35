package credentials

import (
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"showshelf/internal/domain"
)

const issuer = "showshelf"

// Verifier validates HMAC-SHA256 session tokens and extracts the owning
// user. The store trusts only the token subject as owner identity, never
// caller-supplied fields.
type Verifier struct {
	secret []byte
	leeway time.Duration
}

// NewVerifier builds a verifier for tokens signed with the given secret.
func NewVerifier(secret string, leeway time.Duration) *Verifier {
	if leeway <= 0 {
		leeway = 30 * time.Second
	}
	return &Verifier{secret: []byte(secret), leeway: leeway}
}

// Owner verifies the token and returns its subject. Any verification
// failure (bad signature, expiry, wrong algorithm) maps to
// domain.ErrUnauthenticated.
func (v *Verifier) Owner(token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthenticated
	}

	parsed, err := jwt.Parse(token,
		func(t *jwt.Token) (interface{}, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%w: token has no subject", domain.ErrUnauthenticated)
	}
	return sub, nil
}

// Mint issues a signed session token for the owner. Used by tests and dev
// tooling; credential issuance proper lives outside this service.
func Mint(secret, owner string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   owner,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
