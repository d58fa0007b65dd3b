// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package budget enforces the per-run API spending rules: a minimum
// delay between calls to any one provider and a hard global ceiling
// on calls across all providers.
package budget

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultCeiling caps the derived call budget regardless of workload
// size.
const DefaultCeiling = 1000

// Tracker accounts for every external API call of one engine run.
// The zero value is not usable; construct with New. Tracker is safe
// for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	used     int
	ceiling  int
	limiters map[string]*rate.Limiter
}

// New builds a Tracker with the given global ceiling and one limiter
// per provider, each allowing at most one call per minDelay interval.
// Providers absent from minDelays are not rate limited beyond the
// global ceiling.
func New(ceiling int, minDelays map[string]time.Duration) *Tracker {
	t := &Tracker{
		ceiling:  ceiling,
		limiters: make(map[string]*rate.Limiter, len(minDelays)),
	}
	for name, d := range minDelays {
		if d <= 0 {
			continue
		}
		t.limiters[name] = rate.NewLimiter(rate.Every(d), 1)
	}
	return t
}

// DeriveCeiling returns the call ceiling for a run: the explicit max
// when positive, otherwise min(sentences x providers, DefaultCeiling).
func DeriveCeiling(explicitMax, sentences, providers int) int {
	if explicitMax > 0 {
		return explicitMax
	}
	c := sentences * providers
	if c > DefaultCeiling {
		c = DefaultCeiling
	}
	return c
}

// Reserve claims one call slot for the named provider. When the global
// ceiling is already reached it returns false immediately, without
// blocking and without consuming anything. Otherwise it increments the
// counter, waits out the provider's minimum delay, and returns true.
// A context cancellation during the wait releases the claimed slot.
func (t *Tracker) Reserve(ctx context.Context, provider string) bool {
	t.mu.Lock()
	if t.used >= t.ceiling {
		t.mu.Unlock()
		return false
	}
	t.used++
	lim := t.limiters[provider]
	t.mu.Unlock()

	if lim != nil {
		if err := lim.Wait(ctx); err != nil {
			t.mu.Lock()
			t.used--
			t.mu.Unlock()
			return false
		}
	}
	return true
}

// Used returns how many calls have been reserved so far.
func (t *Tracker) Used() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.used
}

// Remaining returns how many calls are still available.
func (t *Tracker) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.used >= t.ceiling {
		return 0
	}
	return t.ceiling - t.used
}

// Ceiling returns the global call ceiling.
func (t *Tracker) Ceiling() int { return t.ceiling }
