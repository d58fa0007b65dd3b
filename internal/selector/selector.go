// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selector picks which sentences of a document are worth
// spending search budget on. Selection happens once per run, upfront:
// short sentences are filtered out, and when the candidate pool
// exceeds the budget-implied capacity the pool is ranked by a priority
// heuristic with a small seeded jitter.
package selector

import (
	"math/rand"
	"sort"
	"strings"
	"unicode"

	"github.com/tweakr/citation-engine/internal/score"
	"github.com/tweakr/citation-engine/pkg/types"
)

// MinSentenceChars is the minimum length for a citable sentence.
const MinSentenceChars = 15

// jitterAmplitude bounds the random perturbation added to each
// priority. Large enough to reorder near-ties, small enough to never
// outweigh a clear priority gap.
const jitterAmplitude = 2.0

// Selector ranks and samples sentences. The rand source is seeded, so
// two selectors built with the same seed select identically.
type Selector struct {
	rng *rand.Rand
}

// New returns a Selector driven by the given seed.
func New(seed int64) *Selector {
	return &Selector{rng: rand.New(rand.NewSource(seed))}
}

// Select returns at most capacity sentences, in document order. All
// sentences shorter than MinSentenceChars are dropped first; if the
// remainder fits the capacity it is returned whole. A non-positive
// capacity selects nothing.
func (s *Selector) Select(sentences []types.SentenceUnit, capacity int) []types.SentenceUnit {
	if capacity <= 0 {
		return nil
	}

	candidates := make([]types.SentenceUnit, 0, len(sentences))
	for _, u := range sentences {
		if len(strings.TrimSpace(u.Text)) < MinSentenceChars {
			continue
		}
		candidates = append(candidates, u)
	}

	if len(candidates) <= capacity {
		return candidates
	}

	type ranked struct {
		unit     types.SentenceUnit
		priority float64
	}
	pool := make([]ranked, len(candidates))
	for i, u := range candidates {
		pool[i] = ranked{u, priority(u.Text) + s.rng.Float64()*jitterAmplitude}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].priority > pool[j].priority
	})

	selected := make([]types.SentenceUnit, capacity)
	for i := 0; i < capacity; i++ {
		selected[i] = pool[i].unit
	}
	sort.Slice(selected, func(i, j int) bool {
		if selected[i].Paragraph != selected[j].Paragraph {
			return selected[i].Paragraph < selected[j].Paragraph
		}
		return selected[i].Index < selected[j].Index
	})
	return selected
}

// priority scores a sentence's citation-worthiness: longer sentences,
// sentences using academic vocabulary, and sentences carrying numbers
// (statistics, results) rank higher.
func priority(text string) float64 {
	p := float64(len(strings.Fields(text)))
	if score.HasDomainTerm(text) {
		p += 5
	}
	if strings.ContainsFunc(text, unicode.IsDigit) {
		p += 3
	}
	return p
}
