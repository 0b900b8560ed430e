// Package identity defines the session verification port.
package identity

import (
	"context"
	"net/http"
)

// Session describes a verified identity session.
type Session struct {
	UserID string
	Email  string

	// SetCookies carries refreshed session cookies issued by the
	// identity provider; the HTTP layer relays them to the client.
	SetCookies []*http.Cookie
}

// Verifier checks whether a request carries a valid session credential.
type Verifier interface {
	// Verify resolves the session from the request's cookies. It
	// returns domain.ErrUnauthorized when no valid session exists.
	Verify(ctx context.Context, r *http.Request) (*Session, error)
}

// Cache stores verified sessions keyed by access token so repeated
// requests skip the identity provider round trip.
type Cache interface {
	Get(token string) (*Session, bool)
	Set(token string, s Session)
}
