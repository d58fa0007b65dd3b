// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fanout orchestrates one search across every configured
// provider: cache lookups first, then budget reservation, then a
// bounded concurrent fan-out, and finally a deterministic merge in
// provider priority order.
package fanout

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tweakr/citation-engine/internal/budget"
	"github.com/tweakr/citation-engine/internal/cache"
	"github.com/tweakr/citation-engine/internal/provider"
	"github.com/tweakr/citation-engine/internal/query"
	"github.com/tweakr/citation-engine/pkg/types"
)

// Orchestrator fans a query out to its providers. Providers are held
// in merge priority order, highest first.
type Orchestrator struct {
	Providers []provider.Provider
	Budget    *budget.Tracker
	Cache     *cache.SearchCache

	// MaxResults is the per-search result target. The merge stops
	// accumulating at twice this count.
	MaxResults int

	Log zerolog.Logger
}

// SearchAll returns the merged, deduplicated results for one query.
//
// Failure is always partial: a provider that errors, misses its budget
// reservation, or gets skipped simply contributes nothing. SearchAll
// never returns an error; an empty slice means "no citation for this
// sentence".
func (o *Orchestrator) SearchAll(ctx context.Context, raw string) []types.PaperRecord {
	q := query.Normalize(raw)
	if q == "" {
		return nil
	}

	n := len(o.Providers)
	lists := make([][]types.PaperRecord, n)
	cached := make([]bool, n)

	// Cache pass, in priority order. Unique titles seen so far decide
	// whether lower-priority providers are worth reserving at all.
	seen := make(map[string]struct{})
	for i, p := range o.Providers {
		recs, ok := o.Cache.Get(q, p.Name())
		if !ok {
			continue
		}
		lists[i] = recs
		cached[i] = true
		for _, r := range recs {
			seen[r.DedupKey()] = struct{}{}
		}
	}

	// Reserve and launch the remaining providers concurrently. Once
	// enough unique results are already in hand, providers that have
	// not yet been reserved are skipped; anything reserved is issued
	// and awaited.
	var wg sync.WaitGroup
	for i, p := range o.Providers {
		if cached[i] {
			continue
		}
		if len(seen) >= o.earlyExitAt() {
			o.Log.Debug().Str("provider", p.Name()).Str("query", q).
				Msg("skipping provider, enough results cached")
			continue
		}
		if !o.Budget.Reserve(ctx, p.Name()) {
			o.Log.Debug().Str("provider", p.Name()).Str("query", q).
				Msg("skipping provider, budget exhausted")
			continue
		}

		wg.Add(1)
		go func(i int, p provider.Provider) {
			defer wg.Done()
			recs, err := p.Search(ctx, q, o.MaxResults)
			if err != nil {
				o.Log.Warn().Err(err).Str("provider", p.Name()).Str("query", q).
					Msg("provider search failed")
				return
			}
			lists[i] = recs
			o.Cache.Put(q, p.Name(), recs)
		}(i, p)
	}
	wg.Wait()

	return o.merge(lists)
}

// merge walks provider result lists in priority order, keeping the
// first occurrence of each title. Accumulation stops at twice
// MaxResults; earlier-priority copies always win.
func (o *Orchestrator) merge(lists [][]types.PaperRecord) []types.PaperRecord {
	limit := o.earlyExitAt()
	seen := make(map[string]struct{})
	var merged []types.PaperRecord

	for _, list := range lists {
		for _, r := range list {
			key := r.DedupKey()
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, r)
			if len(merged) >= limit {
				return merged
			}
		}
	}
	return merged
}

func (o *Orchestrator) earlyExitAt() int {
	if o.MaxResults <= 0 {
		return 10
	}
	return 2 * o.MaxResults
}
