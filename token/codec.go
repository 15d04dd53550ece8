// Package token decodes bearer credentials structurally: segment layout,
// payload JSON, and the expiry claim. Signatures are intentionally not
// verified; the holder of the token is a client of the issuing backend and
// only needs to know whether the credential is still worth presenting.
package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultRefreshThreshold is the remaining lifetime below which a live
// token is reported as expiring soon.
const DefaultRefreshThreshold = 2 * time.Hour

// Claims is the decoded payload of a bearer credential. Only the claims
// the session client acts on are modeled; unknown claims are ignored.
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Codec validates credentials against wall-clock time. All methods are
// pure functions of their input and the clock; a Codec has no state and is
// safe for concurrent use.
type Codec struct {
	refreshThreshold time.Duration
	now              func() time.Time
}

// NewCodec creates a Codec. A non-positive threshold selects
// [DefaultRefreshThreshold].
func NewCodec(refreshThreshold time.Duration) *Codec {
	if refreshThreshold <= 0 {
		refreshThreshold = DefaultRefreshThreshold
	}
	return &Codec{
		refreshThreshold: refreshThreshold,
		now:              time.Now,
	}
}

// Decode parses the payload segment of a credential. It returns nil on any
// malformed input: wrong segment count, empty segments, an undecodable
// payload, or a payload that is not a JSON object. Decode never panics and
// never performs signature verification.
func (c *Codec) Decode(tok string) *Claims {
	if tok == "" {
		return nil
	}
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return nil
	}
	for _, p := range parts {
		if p == "" {
			return nil
		}
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return nil
	}
	return claims
}

// IsLive reports whether the credential is structurally valid and its
// expiry is strictly in the future. A missing or non-numeric exp claim
// makes the token not live.
func (c *Codec) IsLive(tok string) bool {
	claims := c.Decode(tok)
	if claims == nil || claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.After(c.now())
}

// ExpiresSoon reports whether the credential is live but its remaining
// lifetime is below the refresh threshold. Not-live tokens are never
// expiring soon; they are already dead.
func (c *Codec) ExpiresSoon(tok string) bool {
	claims := c.Decode(tok)
	if claims == nil || claims.ExpiresAt == nil {
		return false
	}
	now := c.now()
	exp := claims.ExpiresAt.Time
	if !exp.After(now) {
		return false
	}
	return exp.Sub(now) < c.refreshThreshold
}

// ExpiresAt returns the expiry instant of the credential and whether one
// could be decoded.
func (c *Codec) ExpiresAt(tok string) (time.Time, bool) {
	claims := c.Decode(tok)
	if claims == nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
