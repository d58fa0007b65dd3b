// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"math"
	"testing"

	"github.com/tweakr/citation-engine/pkg/types"
)

const eps = 1e-9

func TestScoreDisqualifications(t *testing.T) {
	paper := types.PaperRecord{Title: "Deep Learning", Authors: []string{"Jane Smith"}}

	tests := []struct {
		name     string
		sentence string
		paper    types.PaperRecord
	}{
		{"no authors", "deep learning works", types.PaperRecord{Title: "Deep Learning"}},
		{"blank authors", "deep learning works", types.PaperRecord{Title: "Deep Learning", Authors: []string{" ", ""}}},
		{"empty sentence", "", paper},
		{"all stop words", "the and of is", paper},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.sentence, tt.paper); got != 0 {
				t.Errorf("Score = %v, want 0", got)
			}
		})
	}
}

func TestScoreTitleOverlapWithBoosts(t *testing.T) {
	paper := types.PaperRecord{
		Title:     "Deep Learning in Healthcare",
		Authors:   []string{"Jane Smith"},
		Year:      2022,
		Citations: 120,
	}
	sentence := "Deep learning improves healthcare outcomes"

	// 5 sentence words, 3 overlap with {deep, learning, healthcare}
	// ("in" is a stop word): base 0.8*(3/5) = 0.48, then x1.2 (year)
	// and x1.1 (citations).
	want := 0.48 * 1.2 * 1.1
	if got := Score(sentence, paper); math.Abs(got-want) > eps {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestScoreAbstractOverlap(t *testing.T) {
	paper := types.PaperRecord{
		Title:    "Gamma Delta",
		Authors:  []string{"Solo Author"},
		Abstract: "alpha beta",
	}
	// No title overlap, full abstract overlap: 0.2*1.0.
	if got := Score("alpha beta", paper); math.Abs(got-0.2) > eps {
		t.Errorf("Score = %v, want 0.2", got)
	}
}

func TestScoreNoAbstractMeansZeroAbstractTerm(t *testing.T) {
	with := types.PaperRecord{Title: "alpha beta", Authors: []string{"A"}, Abstract: "alpha beta"}
	without := types.PaperRecord{Title: "alpha beta", Authors: []string{"A"}}

	if Score("alpha beta", with) <= Score("alpha beta", without) {
		t.Error("matching abstract did not increase score")
	}
	if got, want := Score("alpha beta", without), 0.8; math.Abs(got-want) > eps {
		t.Errorf("Score without abstract = %v, want %v", got, want)
	}
}

func TestScoreDomainBoostCapped(t *testing.T) {
	paper := types.PaperRecord{Title: "unrelated title", Authors: []string{"A"}}

	one := Score("the data holds", paper)
	if math.Abs(one-0.1) > eps {
		t.Errorf("one domain term: Score = %v, want 0.1", one)
	}

	// Three vocabulary terms, boost capped at +0.2.
	three := Score("research study data", paper)
	if math.Abs(three-0.2) > eps {
		t.Errorf("three domain terms: Score = %v, want capped 0.2", three)
	}
}

func TestScoreAuthorAndVenueBoosts(t *testing.T) {
	sentence := "alpha beta"
	base := types.PaperRecord{Title: "alpha beta", Authors: []string{"A"}}

	multi := base
	multi.Authors = []string{"A", "B"}
	if got, want := Score(sentence, multi), 0.8*1.05; math.Abs(got-want) > eps {
		t.Errorf("multi-author Score = %v, want %v", got, want)
	}

	venued := base
	venued.Venue = "IEEE Transactions on Widgets"
	if got, want := Score(sentence, venued), 0.8*1.05; math.Abs(got-want) > eps {
		t.Errorf("venue Score = %v, want %v", got, want)
	}

	plain := base
	plain.Venue = "Widget Letters"
	if got, want := Score(sentence, plain), 0.8; math.Abs(got-want) > eps {
		t.Errorf("plain venue Score = %v, want %v", got, want)
	}
}

func TestScoreYearTiers(t *testing.T) {
	sentence := "alpha beta"
	mk := func(year int) types.PaperRecord {
		return types.PaperRecord{Title: "alpha beta", Authors: []string{"A"}, Year: year}
	}

	tests := []struct {
		year int
		want float64
	}{
		{2023, 0.8 * 1.2},
		{2017, 0.8 * 1.1},
		{2012, 0.8 * 1.05},
		{2005, 0.8},
		{0, 0.8},
	}
	for _, tt := range tests {
		if got := Score(sentence, mk(tt.year)); math.Abs(got-tt.want) > eps {
			t.Errorf("year %d: Score = %v, want %v", tt.year, got, tt.want)
		}
	}
}

func TestScoreCitationMonotonicity(t *testing.T) {
	sentence := "alpha beta"
	mk := func(citations int) types.PaperRecord {
		return types.PaperRecord{Title: "alpha beta", Authors: []string{"A"}, Citations: citations}
	}

	prev := -1.0
	for _, c := range []int{0, 10, 11, 50, 51, 100, 101, 5000} {
		got := Score(sentence, mk(c))
		if got < prev {
			t.Errorf("score decreased at %d citations: %v < %v", c, got, prev)
		}
		prev = got
	}
}

func TestScoreDeterministic(t *testing.T) {
	paper := types.PaperRecord{
		Title:     "Deep Learning in Healthcare",
		Authors:   []string{"Jane Smith", "Wei Chen"},
		Year:      2022,
		Citations: 120,
		Venue:     "Nature Medicine",
		Abstract:  "A survey of clinical research applications.",
	}
	sentence := "Recent research shows deep learning improves healthcare"

	first := Score(sentence, paper)
	for i := 0; i < 10; i++ {
		if got := Score(sentence, paper); got != first {
			t.Fatalf("Score not deterministic: %v != %v", got, first)
		}
	}
}

func TestScoreClampedToOne(t *testing.T) {
	paper := types.PaperRecord{
		Title:     "research study data analysis",
		Authors:   []string{"A", "B"},
		Year:      2022,
		Citations: 500,
		Venue:     "Nature",
		Abstract:  "research study data analysis",
	}
	got := Score("research study data analysis", paper)
	if got > 1.0 {
		t.Errorf("Score = %v, exceeds 1.0", got)
	}
	if math.Abs(got-1.0) > eps {
		t.Errorf("Score = %v, want clamped 1.0", got)
	}
}

func TestHasDomainTerm(t *testing.T) {
	if !HasDomainTerm("The study shows") {
		t.Error("HasDomainTerm missed 'study'")
	}
	if HasDomainTerm("plain words only") {
		t.Error("HasDomainTerm false positive")
	}
}
