// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the citation engine.
// See docs/ARCHITECTURE § Data Structures.
package types

import "strings"

// PaperRecord is a candidate paper returned by a bibliographic provider,
// normalized into a common shape regardless of which provider found it.
type PaperRecord struct {
	// Title is the paper title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// Authors lists author names in provider order. Records without at
	// least one non-empty author name are dropped by the adapters and
	// never reach the orchestrator's merge step.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year, or 0 when the provider omits it.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Venue is the journal or conference name, when known.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// URL points at the paper's landing page.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// DOI is the bare DOI without a resolver prefix, when known.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Citations is the provider-reported citation count.
	Citations int `json:"citations" yaml:"citations"`

	// Provider identifies which adapter found this record
	// (e.g. "semantic_scholar", "crossref").
	Provider string `json:"provider" yaml:"provider"`

	// Abstract is the paper abstract when the provider supplies one.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
}

// DedupKey returns the identity used for cross-provider deduplication:
// the lower-cased, whitespace-trimmed title.
func (p PaperRecord) DedupKey() string {
	return strings.ToLower(strings.TrimSpace(p.Title))
}

// HasAuthors reports whether the record carries at least one non-empty
// author name.
func (p PaperRecord) HasAuthors() bool {
	for _, a := range p.Authors {
		if strings.TrimSpace(a) != "" {
			return true
		}
	}
	return false
}

// ScoredPaper pairs a PaperRecord with its relevance to one specific
// sentence. It exists only for the duration of a scoring pass.
type ScoredPaper struct {
	Paper PaperRecord `json:"paper"`

	// Score is the deterministic relevance score in [0, 1].
	Score float64 `json:"relevance_score"`
}
