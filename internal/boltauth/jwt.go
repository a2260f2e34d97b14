// Package boltauth builds Bolt auth token maps (HELLO's pre-5.1 inline
// fields, or a Bolt >= 5.1 LOGON message's auth map). It is grounded
// on the teacher's internal/auth/jwt.go, which signs/verifies its own
// session JWTs with golang-jwt; here the same library issues the
// bearer token a Bolt server's SSO plugin expects under scheme:"bearer".
package boltauth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nexusgraph/bolt-go/pkg/packstream"
)

// BearerTokenBuilder signs short-lived bearer tokens for Bolt's
// scheme:"bearer" auth (an SSO-backed server plugin validates them).
type BearerTokenBuilder struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewBearerTokenBuilder(signingKey []byte, issuer string, ttl time.Duration) *BearerTokenBuilder {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &BearerTokenBuilder{signingKey: signingKey, issuer: issuer, ttl: ttl}
}

// Build signs a token for subject and returns a ready-to-send Bolt
// auth map: {scheme: "bearer", credentials: <jwt>}.
func (b *BearerTokenBuilder) Build(subject string) (map[string]packstream.Value, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    b.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(b.ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(b.signingKey)
	if err != nil {
		return nil, fmt.Errorf("boltauth: sign bearer token: %w", err)
	}
	return map[string]packstream.Value{
		"scheme":      packstream.NewString("bearer"),
		"credentials": packstream.NewString(signed),
	}, nil
}

// BasicAuth builds the {scheme:"basic", principal, credentials} map
// used both inline in pre-5.1 HELLO and in a >= 5.1 LOGON message.
func BasicAuth(principal, credentials string) map[string]packstream.Value {
	return map[string]packstream.Value{
		"scheme":      packstream.NewString("basic"),
		"principal":   packstream.NewString(principal),
		"credentials": packstream.NewString(credentials),
	}
}
