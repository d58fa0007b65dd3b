// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fanout

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/tweakr/citation-engine/internal/budget"
	"github.com/tweakr/citation-engine/internal/cache"
	"github.com/tweakr/citation-engine/internal/provider"
	"github.com/tweakr/citation-engine/pkg/types"
)

// mockProvider returns canned results and counts invocations.
type mockProvider struct {
	name    string
	results []types.PaperRecord
	err     error
	calls   int32
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Search(_ context.Context, _ string, _ int) ([]types.PaperRecord, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func paper(title, author string) types.PaperRecord {
	return types.PaperRecord{Title: title, Authors: []string{author}}
}

func newOrchestrator(maxResults, ceiling int, providers ...provider.Provider) *Orchestrator {
	return &Orchestrator{
		Providers:  providers,
		Budget:     budget.New(ceiling, nil),
		Cache:      cache.New(),
		MaxResults: maxResults,
	}
}

func TestSearchAllMergesInPriorityOrder(t *testing.T) {
	a := &mockProvider{name: "a", results: []types.PaperRecord{
		paper("Alpha Paper", "A"),
		paper("Shared Title", "From A"),
	}}
	b := &mockProvider{name: "b", results: []types.PaperRecord{
		paper("  shared title ", "From B"), // dup differing in case/whitespace
		paper("Beta Paper", "B"),
	}}

	o := newOrchestrator(5, 100, a, b)
	got := o.SearchAll(context.Background(), "some query text")

	if len(got) != 3 {
		t.Fatalf("len(got) = %d, want 3 (dup removed)", len(got))
	}
	// Priority order: provider a's results first, and a's copy of the
	// shared title wins.
	if got[0].Title != "Alpha Paper" || got[1].Title != "Shared Title" || got[2].Title != "Beta Paper" {
		t.Errorf("merge order wrong: %v", titles(got))
	}
	if got[1].Authors[0] != "From A" {
		t.Errorf("dup winner = %q, want provider a's copy", got[1].Authors[0])
	}
}

func TestSearchAllEmptyQuerySpendsNoBudget(t *testing.T) {
	a := &mockProvider{name: "a"}
	o := newOrchestrator(5, 100, a)

	if got := o.SearchAll(context.Background(), "   -  "); len(got) != 0 {
		t.Errorf("got %d results for empty query", len(got))
	}
	if o.Budget.Used() != 0 {
		t.Errorf("budget used = %d, want 0", o.Budget.Used())
	}
	if atomic.LoadInt32(&a.calls) != 0 {
		t.Error("provider called for empty query")
	}
}

func TestSearchAllProviderErrorIsPartial(t *testing.T) {
	bad := &mockProvider{name: "bad", err: errors.New("boom")}
	good := &mockProvider{name: "good", results: []types.PaperRecord{paper("Survivor", "A")}}

	o := newOrchestrator(5, 100, bad, good)
	got := o.SearchAll(context.Background(), "resilience in systems")

	if len(got) != 1 || got[0].Title != "Survivor" {
		t.Errorf("got %v, want the healthy provider's result", titles(got))
	}
}

func TestSearchAllBudgetExhausted(t *testing.T) {
	a := &mockProvider{name: "a", results: []types.PaperRecord{paper("P", "A")}}
	o := newOrchestrator(5, 0, a)

	if got := o.SearchAll(context.Background(), "anything at all"); len(got) != 0 {
		t.Errorf("got %d results with zero budget", len(got))
	}
	if atomic.LoadInt32(&a.calls) != 0 {
		t.Error("provider called despite exhausted budget")
	}
}

func TestSearchAllCachesPerProvider(t *testing.T) {
	a := &mockProvider{name: "a", results: []types.PaperRecord{paper("Cached Paper", "A")}}
	o := newOrchestrator(5, 100, a)
	ctx := context.Background()

	first := o.SearchAll(ctx, "repeated query")
	second := o.SearchAll(ctx, "Repeated QUERY") // case-insensitive cache key

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("results = %d/%d, want 1/1", len(first), len(second))
	}
	if calls := atomic.LoadInt32(&a.calls); calls != 1 {
		t.Errorf("provider called %d times, want 1 (second hit cached)", calls)
	}
	if o.Budget.Used() != 1 {
		t.Errorf("budget used = %d, want 1", o.Budget.Used())
	}
	if o.Cache.Hits() != 1 {
		t.Errorf("cache hits = %d, want 1", o.Cache.Hits())
	}
}

func TestSearchAllEarlyExitSkipsLowerPriority(t *testing.T) {
	// Enough cached results from the high-priority provider: the
	// lower-priority provider must not even be reserved.
	var cachedRecs []types.PaperRecord
	for i := 0; i < 4; i++ {
		cachedRecs = append(cachedRecs, paper(fmt.Sprintf("Cached %d", i), "A"))
	}
	low := &mockProvider{name: "low", results: []types.PaperRecord{paper("Low Paper", "L")}}

	o := newOrchestrator(2, 100, &mockProvider{name: "high"}, low)
	o.Cache.Put("busy query", "high", cachedRecs)

	got := o.SearchAll(context.Background(), "busy query")

	if atomic.LoadInt32(&low.calls) != 0 {
		t.Error("lower-priority provider called despite early exit")
	}
	if o.Budget.Used() != 0 {
		t.Errorf("budget used = %d, want 0", o.Budget.Used())
	}
	// Merge still caps at 2 x MaxResults.
	if len(got) != 4 {
		t.Errorf("len(got) = %d, want 4", len(got))
	}
}

func TestSearchAllMergeCapsAtTwiceMax(t *testing.T) {
	var many []types.PaperRecord
	for i := 0; i < 20; i++ {
		many = append(many, paper(fmt.Sprintf("Paper %d", i), "A"))
	}
	a := &mockProvider{name: "a", results: many}

	o := newOrchestrator(3, 100, a)
	got := o.SearchAll(context.Background(), "prolific topic")

	if len(got) != 6 {
		t.Errorf("len(got) = %d, want 6 (2 x max_results)", len(got))
	}
}

func titles(recs []types.PaperRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Title
	}
	return out
}
