// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"strings"
	"testing"

	"github.com/tweakr/citation-engine/internal/citeformat"
	"github.com/tweakr/citation-engine/pkg/types"
)

func testProposals() []types.CitationProposal {
	mk := func(id string, paragraph, index int, author string) types.CitationProposal {
		paper := types.PaperRecord{
			Title:   "Paper " + id,
			Authors: []string{author},
			Year:    2022,
		}
		formatted, _ := citeformat.InText(paper, citeformat.StyleAPA)
		return types.CitationProposal{
			ID:        id,
			Sentence:  types.SentenceUnit{Text: "Sentence " + id, Paragraph: paragraph, Index: index},
			Paper:     paper,
			Score:     0.5,
			Style:     citeformat.StyleAPA,
			Formatted: formatted,
			Status:    types.StatusPending,
		}
	}
	// Deliberately out of document order; NewSession must sort.
	return []types.CitationProposal{
		mk("p3", 2, 1, "Carol Chen"),
		mk("p1", 1, 1, "Alice Adams"),
		mk("p2", 1, 3, "Bob Brown"),
	}
}

func TestNewSessionSortsByDocumentOrder(t *testing.T) {
	s := NewSession("doc", testProposals())

	got := s.Proposals()
	want := []string{"p1", "p2", "p3"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("proposals[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestAccept(t *testing.T) {
	s := NewSession("doc", testProposals())

	if err := s.Accept("p1"); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	p, err := s.Get("p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Status != types.StatusAccepted {
		t.Errorf("status = %q, want %q", p.Status, types.StatusAccepted)
	}

	// Accepted is terminal.
	if err := s.Accept("p1"); err == nil {
		t.Error("second Accept succeeded on a terminal proposal")
	}
	if err := s.Edit("p1", nil, citeformat.StyleMLA); err == nil {
		t.Error("Edit succeeded on a terminal proposal")
	}
}

func TestEditReplacesPaperAndReformats(t *testing.T) {
	s := NewSession("doc", testProposals())

	replacement := types.PaperRecord{
		Title:   "Better Paper",
		Authors: []string{"Dana Diaz", "Evan Evans"},
		Year:    2024,
	}
	if err := s.Edit("p2", &replacement, ""); err != nil {
		t.Fatalf("Edit: %v", err)
	}

	p, _ := s.Get("p2")
	if p.Status != types.StatusEdited {
		t.Errorf("status = %q, want %q", p.Status, types.StatusEdited)
	}
	if p.Paper.Title != "Better Paper" {
		t.Errorf("paper not replaced: %q", p.Paper.Title)
	}
	if p.Formatted != "(Dana et al., 2024)" {
		t.Errorf("formatted = %q, want reformatted citation", p.Formatted)
	}
}

func TestEditChangesStyleOnly(t *testing.T) {
	s := NewSession("doc", testProposals())

	if err := s.Edit("p1", nil, citeformat.StyleMLA); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	p, _ := s.Get("p1")
	if p.Style != citeformat.StyleMLA {
		t.Errorf("style = %q, want %q", p.Style, citeformat.StyleMLA)
	}
	if p.Formatted != "(Alice 2022)" {
		t.Errorf("formatted = %q, want MLA form", p.Formatted)
	}
}

func TestEditUnsupportedStyleLeavesProposalUntouched(t *testing.T) {
	s := NewSession("doc", testProposals())

	before, _ := s.Get("p1")
	if err := s.Edit("p1", nil, "harvard"); err == nil {
		t.Fatal("Edit accepted an unsupported style")
	}
	after, _ := s.Get("p1")
	if after.Status != types.StatusPending || after.Formatted != before.Formatted {
		t.Errorf("proposal changed on failed edit: %+v", after)
	}
}

func TestRejectIsIdempotent(t *testing.T) {
	s := NewSession("doc", testProposals())

	if err := s.Reject("p3"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if err := s.Reject("p3"); err != nil {
		t.Errorf("second Reject errored: %v", err)
	}
	p, _ := s.Get("p3")
	if p.Status != types.StatusRejected {
		t.Errorf("status = %q, want %q", p.Status, types.StatusRejected)
	}

	// But rejecting an accepted proposal is still an error.
	if err := s.Accept("p1"); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if err := s.Reject("p1"); err == nil {
		t.Error("Reject succeeded on an accepted proposal")
	}
}

func TestUnknownProposal(t *testing.T) {
	s := NewSession("doc", testProposals())

	for name, err := range map[string]error{
		"Accept": s.Accept("nope"),
		"Edit":   s.Edit("nope", nil, ""),
		"Reject": s.Reject("nope"),
	} {
		if err == nil {
			t.Errorf("%s on unknown ID succeeded", name)
		} else if !strings.Contains(err.Error(), "nope") {
			t.Errorf("%s error %q does not name the ID", name, err)
		}
	}
}

func TestFinalizeSkipsRejectedKeepsOrder(t *testing.T) {
	s := NewSession("doc", testProposals())

	if err := s.Accept("p1"); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if err := s.Reject("p2"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	// p3 stays pending and is still included.

	got, err := s.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0].Sentence.Text != "Sentence p1" || got[1].Sentence.Text != "Sentence p3" {
		t.Errorf("order wrong: %q, %q", got[0].Sentence.Text, got[1].Sentence.Text)
	}
	if got[0].Citation != "(Alice, 2022)" {
		t.Errorf("citation = %q", got[0].Citation)
	}
	if !strings.Contains(got[0].Reference.Text, "Adams, A.") {
		t.Errorf("reference = %q, want APA author list", got[0].Reference.Text)
	}
}
