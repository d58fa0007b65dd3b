// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query turns raw document sentences into provider-ready
// search strings.
package query

import (
	"strings"

	"github.com/tweakr/citation-engine/pkg/types"
)

// MaxQueryTokens is the hard cap on tokens in a normalized query.
// Longer queries degrade provider recall without adding precision.
const MaxQueryTokens = 15

// maxContextKeywords bounds how many oracle keywords enrich a query.
const maxContextKeywords = 3

// Normalize strips list markers from a sentence and caps it at
// MaxQueryTokens whitespace-delimited tokens. An empty or
// marker-only input yields "".
func Normalize(raw string) string {
	return capTokens(stripListMarker(strings.TrimSpace(raw)))
}

// Enrich appends the oracle's category and up to three field keywords
// to an already-normalized query, then re-applies the token cap so the
// enriched query never exceeds MaxQueryTokens. Context terms that
// would push the query past the cap are silently truncated with it.
func Enrich(q string, ctx types.ContextTerms) string {
	if q == "" {
		return ""
	}
	parts := []string{q}
	if ctx.Category != "" {
		parts = append(parts, ctx.Category)
	}
	if len(ctx.Keywords) > 0 {
		kw := ctx.Keywords
		if len(kw) > maxContextKeywords {
			kw = kw[:maxContextKeywords]
		}
		parts = append(parts, strings.Join(kw, " "))
	}
	return capTokens(stripListMarker(strings.Join(parts, " ")))
}

// stripListMarker removes a leading bullet ("-", "•") or a numbered
// list prefix like "3." when the digit appears in the first five runes.
func stripListMarker(q string) string {
	if strings.HasPrefix(q, "-") || strings.HasPrefix(q, "•") {
		q = strings.TrimSpace(strings.TrimLeft(q, "-•"))
	}
	if q != "" && q[0] >= '0' && q[0] <= '9' {
		head := q
		if len(head) > 5 {
			head = head[:5]
		}
		if strings.Contains(head, ".") {
			_, rest, _ := strings.Cut(q, ".")
			q = strings.TrimSpace(rest)
		}
	}
	return q
}

func capTokens(q string) string {
	words := strings.Fields(q)
	if len(words) > MaxQueryTokens {
		words = words[:MaxQueryTokens]
	}
	return strings.Join(words, " ")
}
