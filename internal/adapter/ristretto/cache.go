// Package ristretto implements the identity session cache using
// dgraph-io/ristretto as an in-process cache.
package ristretto

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/agentdeskhq/agentdesk/internal/port/identity"
)

// SessionCache caches verified sessions keyed by access token. Entries
// expire after a fixed TTL so revoked sessions age out quickly.
type SessionCache struct {
	c   *ristretto.Cache[string, identity.Session]
	ttl time.Duration
}

// NewSessionCache creates a session cache holding at most maxEntries
// sessions, each cached for ttl.
func NewSessionCache(maxEntries int64, ttl time.Duration) (*SessionCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, identity.Session]{
		NumCounters: maxEntries * 10, // ~10x expected items
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &SessionCache{c: c, ttl: ttl}, nil
}

// Get retrieves a cached session by access token.
func (s *SessionCache) Get(token string) (*identity.Session, bool) {
	sess, found := s.c.Get(token)
	if !found {
		return nil, false
	}
	return &sess, true
}

// Set stores a verified session. Each entry costs 1 against MaxCost.
func (s *SessionCache) Set(token string, sess identity.Session) {
	s.c.SetWithTTL(token, sess, 1, s.ttl)
}

// Close shuts down the cache and releases resources.
func (s *SessionCache) Close() {
	s.c.Close()
}
