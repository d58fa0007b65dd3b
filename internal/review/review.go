// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package review tracks the human pass over generated citation
// proposals. Every proposal starts pending and moves to exactly one of
// accepted, edited, or rejected; finalize renders whatever was not
// rejected, in document order.
package review

import (
	"fmt"
	"sort"

	"github.com/tweakr/citation-engine/internal/citeformat"
	"github.com/tweakr/citation-engine/pkg/types"
)

// Session owns the proposals of one engine run during review. It is
// not safe for concurrent use; review is a single-reviewer activity.
type Session struct {
	documentID string
	proposals  []types.CitationProposal
	byID       map[string]int
}

// NewSession builds a review session over the run's proposals, kept in
// paragraph/sentence order.
func NewSession(documentID string, proposals []types.CitationProposal) *Session {
	s := &Session{
		documentID: documentID,
		proposals:  make([]types.CitationProposal, len(proposals)),
		byID:       make(map[string]int, len(proposals)),
	}
	copy(s.proposals, proposals)
	sort.SliceStable(s.proposals, func(i, j int) bool {
		a, b := s.proposals[i].Sentence, s.proposals[j].Sentence
		if a.Paragraph != b.Paragraph {
			return a.Paragraph < b.Paragraph
		}
		return a.Index < b.Index
	})
	for i, p := range s.proposals {
		s.byID[p.ID] = i
	}
	return s
}

// DocumentID returns the run's document identifier.
func (s *Session) DocumentID() string { return s.documentID }

// Proposals returns the session's proposals in document order.
func (s *Session) Proposals() []types.CitationProposal {
	out := make([]types.CitationProposal, len(s.proposals))
	copy(out, s.proposals)
	return out
}

// Get returns the proposal with the given ID.
func (s *Session) Get(id string) (types.CitationProposal, error) {
	i, ok := s.byID[id]
	if !ok {
		return types.CitationProposal{}, fmt.Errorf("unknown proposal %q", id)
	}
	return s.proposals[i], nil
}

// Accept marks a pending proposal accepted as generated.
func (s *Session) Accept(id string) error {
	i, err := s.pendingIndex(id)
	if err != nil {
		return err
	}
	s.proposals[i].Status = types.StatusAccepted
	return nil
}

// Edit replaces a pending proposal's paper and/or style and reformats
// its citation. A nil paper keeps the current paper; an empty style
// keeps the current style. An unsupported style leaves the proposal
// untouched.
func (s *Session) Edit(id string, paper *types.PaperRecord, style string) error {
	i, err := s.pendingIndex(id)
	if err != nil {
		return err
	}

	p := s.proposals[i]
	if paper != nil {
		p.Paper = *paper
	}
	if style != "" {
		p.Style = style
	}

	formatted, err := citeformat.InText(p.Paper, p.Style)
	if err != nil {
		return fmt.Errorf("reformatting proposal %q: %w", id, err)
	}
	p.Formatted = formatted
	p.Status = types.StatusEdited
	s.proposals[i] = p
	return nil
}

// Reject excludes a proposal from the final output. Rejecting an
// already-rejected proposal is a no-op.
func (s *Session) Reject(id string) error {
	i, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("unknown proposal %q", id)
	}
	if s.proposals[i].Status == types.StatusRejected {
		return nil
	}
	if s.proposals[i].Status.Terminal() {
		return fmt.Errorf("proposal %q already %s", id, s.proposals[i].Status)
	}
	s.proposals[i].Status = types.StatusRejected
	return nil
}

func (s *Session) pendingIndex(id string) (int, error) {
	i, ok := s.byID[id]
	if !ok {
		return 0, fmt.Errorf("unknown proposal %q", id)
	}
	if s.proposals[i].Status.Terminal() {
		return 0, fmt.Errorf("proposal %q already %s", id, s.proposals[i].Status)
	}
	return i, nil
}

// FinalCitation pairs a formatted citation with the sentence it
// supports, plus the full reference-list entry for the paper.
type FinalCitation struct {
	Sentence  types.SentenceUnit   `json:"sentence" yaml:"sentence"`
	Citation  string               `json:"citation" yaml:"citation"`
	Reference citeformat.Reference `json:"reference" yaml:"reference"`
}

// Finalize renders every non-rejected proposal, preserving document
// order. Pending proposals are included as generated.
func (s *Session) Finalize() ([]FinalCitation, error) {
	var out []FinalCitation
	for _, p := range s.proposals {
		if p.Status == types.StatusRejected {
			continue
		}
		ref, err := citeformat.FormatReference(p.Paper, p.Style)
		if err != nil {
			return nil, fmt.Errorf("formatting reference for proposal %q: %w", p.ID, err)
		}
		out = append(out, FinalCitation{
			Sentence:  p.Sentence,
			Citation:  p.Formatted,
			Reference: ref,
		})
	}
	return out, nil
}
