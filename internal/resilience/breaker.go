// Package resilience provides reliability patterns for identity provider calls.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned when the breaker is open and rejecting calls.
var ErrOpen = errors.New("circuit breaker is open")

// Breaker is a circuit breaker guarding calls to the identity provider.
// Consecutive failures past the threshold open the circuit; after the
// cooldown a single probe call is allowed through.
type Breaker struct {
	mu        sync.Mutex
	failures  int
	threshold int
	cooldown  time.Duration
	openUntil time.Time
	clock     func() time.Time // for testing
}

// New creates a Breaker that opens after threshold consecutive failures
// and stays open for the given cooldown.
func New(threshold int, cooldown time.Duration) *Breaker {
	return &Breaker{
		threshold: threshold,
		cooldown:  cooldown,
		clock:     time.Now,
	}
}

// Do runs fn unless the circuit is open. A success closes the circuit,
// a failure while probing reopens it immediately.
func (b *Breaker) Do(fn func() error) error {
	b.mu.Lock()
	if b.failures >= b.threshold && b.clock().Before(b.openUntil) {
		b.mu.Unlock()
		return ErrOpen
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failures++
		if b.failures >= b.threshold {
			b.openUntil = b.clock().Add(b.cooldown)
		}
		return err
	}

	b.failures = 0
	return nil
}

// SetClock replaces the time source. Test helper.
func (b *Breaker) SetClock(clock func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clock = clock
}
