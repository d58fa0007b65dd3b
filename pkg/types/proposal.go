// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ProposalStatus is the review state of a citation proposal.
type ProposalStatus string

const (
	// StatusPending marks a freshly generated proposal awaiting review.
	StatusPending ProposalStatus = "pending_review"

	// StatusAccepted marks a proposal approved as generated.
	StatusAccepted ProposalStatus = "accepted"

	// StatusEdited marks a proposal whose paper or style was replaced
	// by the reviewer.
	StatusEdited ProposalStatus = "edited"

	// StatusRejected marks a proposal excluded from the final output.
	StatusRejected ProposalStatus = "rejected"
)

// Terminal reports whether the status admits no further transitions.
func (s ProposalStatus) Terminal() bool {
	switch s {
	case StatusAccepted, StatusEdited, StatusRejected:
		return true
	}
	return false
}

// CitationProposal binds one sentence to its best-matching paper,
// carrying everything a reviewer needs to accept, edit, or reject it.
type CitationProposal struct {
	// ID is a UUID assigned at creation.
	ID string `json:"id" yaml:"id"`

	// Sentence is the sentence the citation supports.
	Sentence SentenceUnit `json:"sentence" yaml:"sentence"`

	// Paper is the currently selected paper. Replaced on edit.
	Paper PaperRecord `json:"paper" yaml:"paper"`

	// Candidates holds the ranked runner-up papers when the engine runs
	// in multi-candidate mode. Empty in single-best mode.
	Candidates []ScoredPaper `json:"candidates,omitempty" yaml:"candidates,omitempty"`

	// Score is the relevance score of Paper for Sentence.
	Score float64 `json:"relevance_score" yaml:"relevance_score"`

	// Style is the citation style the formatted text uses.
	Style string `json:"style" yaml:"style"`

	// Formatted is the rendered in-text citation, e.g. "(Jane, 2023)".
	Formatted string `json:"formatted_citation" yaml:"formatted_citation"`

	// Status is the review state. New proposals start pending.
	Status ProposalStatus `json:"status" yaml:"status"`
}
