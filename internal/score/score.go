// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score computes the deterministic relevance of a paper to a
// sentence. Scoring is pure lexical and metadata heuristics: word
// overlap against title and abstract, with fixed boosts for recency,
// citation count, authorship, and venue.
package score

import (
	"strings"

	"github.com/tweakr/citation-engine/pkg/types"
)

// stopWords are excluded from all overlap computations.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "in": {}, "on": {},
	"to": {}, "for": {}, "of": {}, "is": {}, "are": {}, "was": {}, "were": {},
}

// DomainVocabulary lists terms that signal an academic claim. The
// scorer grants a small boost per matched term; the sentence selector
// uses the same list to prioritize citable sentences.
var DomainVocabulary = []string{
	"study", "research", "analysis", "data", "results", "findings",
	"evidence", "method", "approach", "theory", "model", "framework",
	"hypothesis", "significant", "correlation", "impact", "effect",
	"relationship", "according", "reported", "demonstrated", "showed",
	"indicated",
}

// venueTokens mark high-impact publication venues.
var venueTokens = []string{
	"journal", "proceedings", "conference", "review",
	"nature", "science", "ieee", "acm",
}

const (
	titleWeight    = 0.8
	abstractWeight = 0.2

	domainTermBoost = 0.1
	domainBoostCap  = 0.2
)

// Score rates how well paper supports sentence, in [0, 1]. It is pure
// and deterministic: identical inputs always produce the identical
// float. Papers without at least one non-empty author score 0, as do
// sentences that are all stop words.
func Score(sentence string, paper types.PaperRecord) float64 {
	if !paper.HasAuthors() {
		return 0
	}

	sentenceWords := wordSet(sentence)
	if len(sentenceWords) == 0 {
		return 0
	}

	s := titleWeight*overlap(sentenceWords, wordSet(paper.Title)) +
		abstractWeight*overlap(sentenceWords, wordSet(paper.Abstract))

	s += domainBoost(sentence)

	switch {
	case paper.Year >= 2020:
		s *= 1.2
	case paper.Year >= 2015:
		s *= 1.1
	case paper.Year >= 2010:
		s *= 1.05
	}

	switch {
	case paper.Citations > 100:
		s *= 1.1
	case paper.Citations > 50:
		s *= 1.05
	case paper.Citations > 10:
		s *= 1.02
	}

	if countAuthors(paper.Authors) > 1 {
		s *= 1.05
	}

	if venueBoosted(paper.Venue) {
		s *= 1.05
	}

	if s > 1.0 {
		s = 1.0
	}
	return s
}

// wordSet lower-cases and splits text into a set with stop words
// removed.
func wordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, stop := stopWords[w]; stop {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// overlap returns |sentence ∩ other| / |sentence|, or 0 when other is
// empty.
func overlap(sentence, other map[string]struct{}) float64 {
	if len(other) == 0 {
		return 0
	}
	n := 0
	for w := range sentence {
		if _, ok := other[w]; ok {
			n++
		}
	}
	return float64(n) / float64(len(sentence))
}

// domainBoost grants domainTermBoost per vocabulary term found in the
// sentence, capped at domainBoostCap.
func domainBoost(sentence string) float64 {
	lower := strings.ToLower(sentence)
	boost := 0.0
	for _, term := range DomainVocabulary {
		if strings.Contains(lower, term) {
			boost += domainTermBoost
			if boost >= domainBoostCap {
				return domainBoostCap
			}
		}
	}
	return boost
}

func countAuthors(authors []string) int {
	n := 0
	for _, a := range authors {
		if strings.TrimSpace(a) != "" {
			n++
		}
	}
	return n
}

func venueBoosted(venue string) bool {
	lower := strings.ToLower(venue)
	for _, tok := range venueTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// HasDomainTerm reports whether the text mentions any vocabulary term.
func HasDomainTerm(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range DomainVocabulary {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
