// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SentenceUnit is one sentence extracted from a source document,
// addressed by its paragraph and in-paragraph sentence position.
// Units are created once during extraction and never mutated.
type SentenceUnit struct {
	// Text is the trimmed sentence text.
	Text string `json:"text" yaml:"text"`

	// Paragraph is the 1-based index of the source paragraph.
	Paragraph int `json:"paragraph" yaml:"paragraph"`

	// Index is the 1-based sentence position within the paragraph.
	Index int `json:"index" yaml:"index"`
}

// ContextTerms is the topical context supplied by the document-context
// oracle. A zero value means "no context"; the engine falls back to
// unenriched queries.
type ContextTerms struct {
	// ResearchContext is a one-sentence summary of the document's topic.
	ResearchContext string `json:"research_context" yaml:"research_context"`

	// Category is the detected academic field, snake_cased
	// (e.g. "corporate_governance").
	Category string `json:"document_category" yaml:"document_category"`

	// Keywords are essential field terms, most important first.
	Keywords []string `json:"field_keywords" yaml:"field_keywords"`
}

// IsZero reports whether no context was obtained.
func (c ContextTerms) IsZero() bool {
	return c.ResearchContext == "" && c.Category == "" && len(c.Keywords) == 0
}
