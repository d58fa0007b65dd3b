// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package budget

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestDeriveCeiling(t *testing.T) {
	tests := []struct {
		name                      string
		max, sentences, providers int
		want                      int
	}{
		{"explicit max wins", 50, 100, 4, 50},
		{"derived from workload", 0, 30, 4, 120},
		{"derived capped at default", 0, 400, 4, DefaultCeiling},
		{"single sentence", 0, 1, 4, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveCeiling(tt.max, tt.sentences, tt.providers); got != tt.want {
				t.Errorf("DeriveCeiling(%d, %d, %d) = %d, want %d",
					tt.max, tt.sentences, tt.providers, got, tt.want)
			}
		})
	}
}

func TestReserveStopsAtCeiling(t *testing.T) {
	tr := New(3, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !tr.Reserve(ctx, "openalex") {
			t.Fatalf("Reserve %d under ceiling returned false", i)
		}
	}
	if tr.Reserve(ctx, "openalex") {
		t.Error("Reserve above ceiling returned true")
	}
	if got := tr.Used(); got != 3 {
		t.Errorf("Used() = %d, want 3", got)
	}
	if got := tr.Remaining(); got != 0 {
		t.Errorf("Remaining() = %d, want 0", got)
	}
}

func TestReserveFailsFastAtCeiling(t *testing.T) {
	// A provider with a long min-delay must not make the over-ceiling
	// call block: the ceiling check comes first.
	tr := New(1, map[string]time.Duration{"crossref": time.Hour})
	ctx := context.Background()

	if !tr.Reserve(ctx, "crossref") {
		t.Fatal("first Reserve returned false")
	}
	start := time.Now()
	if tr.Reserve(ctx, "crossref") {
		t.Error("Reserve above ceiling returned true")
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("over-ceiling Reserve blocked for %v", elapsed)
	}
}

func TestReserveEnforcesMinDelay(t *testing.T) {
	delay := 50 * time.Millisecond
	tr := New(10, map[string]time.Duration{"arxiv": delay})
	ctx := context.Background()

	tr.Reserve(ctx, "arxiv")
	start := time.Now()
	tr.Reserve(ctx, "arxiv")
	if elapsed := time.Since(start); elapsed < delay/2 {
		t.Errorf("second Reserve waited only %v, min delay is %v", elapsed, delay)
	}
}

func TestReserveReleasesSlotOnCancel(t *testing.T) {
	tr := New(10, map[string]time.Duration{"arxiv": time.Hour})
	ctx := context.Background()

	tr.Reserve(ctx, "arxiv")

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if tr.Reserve(cctx, "arxiv") {
		t.Error("Reserve with canceled context returned true")
	}
	if got := tr.Used(); got != 1 {
		t.Errorf("Used() after canceled Reserve = %d, want 1", got)
	}
}

func TestReserveConcurrent(t *testing.T) {
	const ceiling = 20
	tr := New(ceiling, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0
	for i := 0; i < 3*ceiling; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tr.Reserve(ctx, "openalex") {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if granted != ceiling {
		t.Errorf("granted %d reservations, want exactly %d", granted, ceiling)
	}
	if got := tr.Used(); got != ceiling {
		t.Errorf("Used() = %d, want %d", got, ceiling)
	}
}
