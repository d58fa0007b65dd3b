// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/tweakr/citation-engine/internal/engine"
	"github.com/tweakr/citation-engine/internal/review"
	"github.com/tweakr/citation-engine/pkg/types"
)

var finalizeCmd = &cobra.Command{
	Use:   "finalize [payload]",
	Short: "Apply review decisions and render the final citations",
	Long: `Finalize reads a review payload produced by propose and a decisions
file, applies each accept/edit/reject decision, and writes the surviving
citations with their reference-list entries in document order.

A decisions file lists one entry per proposal ID:

    decisions:
      - id: 4f6c...
        action: accept
      - id: 9a1d...
        action: edit
        style: mla
      - id: c3e8...
        action: reject

Proposals without a decision stay pending and are still rendered.`,
	Args: cobra.ExactArgs(1),
	RunE: runFinalize,
}

// decision is one reviewer action against a proposal.
type decision struct {
	ID     string             `json:"id" yaml:"id"`
	Action string             `json:"action" yaml:"action"`
	Style  string             `json:"style,omitempty" yaml:"style,omitempty"`
	Paper  *types.PaperRecord `json:"paper,omitempty" yaml:"paper,omitempty"`
}

type decisionFile struct {
	Decisions []decision `json:"decisions" yaml:"decisions"`
}

// finalOutput is what finalize writes: the surviving citations plus a
// deduplicated reference list.
type finalOutput struct {
	DocumentID string                 `json:"document_id" yaml:"document_id"`
	Citations  []review.FinalCitation `json:"citations" yaml:"citations"`
	References []string               `json:"references" yaml:"references"`
}

func runFinalize(cmd *cobra.Command, args []string) error {
	payloadData, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading payload %s: %w", args[0], err)
	}
	var payload engine.ReviewPayload
	if err := yaml.Unmarshal(payloadData, &payload); err != nil {
		return fmt.Errorf("parsing payload %s: %w", args[0], err)
	}

	decisionsPath, _ := cmd.Flags().GetString("decisions")
	var df decisionFile
	if decisionsPath != "" {
		data, err := os.ReadFile(decisionsPath)
		if err != nil {
			return fmt.Errorf("reading decisions %s: %w", decisionsPath, err)
		}
		if err := yaml.Unmarshal(data, &df); err != nil {
			return fmt.Errorf("parsing decisions %s: %w", decisionsPath, err)
		}
	}

	session := review.NewSession(payload.DocumentID, payload.Citations)
	for _, d := range df.Decisions {
		switch d.Action {
		case "accept":
			err = session.Accept(d.ID)
		case "edit":
			err = session.Edit(d.ID, d.Paper, d.Style)
		case "reject":
			err = session.Reject(d.ID)
		default:
			err = fmt.Errorf("unknown action %q for proposal %q", d.Action, d.ID)
		}
		if err != nil {
			return err
		}
	}

	citations, err := session.Finalize()
	if err != nil {
		return err
	}

	out := finalOutput{
		DocumentID: payload.DocumentID,
		Citations:  citations,
		References: referenceList(citations),
	}

	log.Info().
		Int("citations", len(citations)).
		Int("references", len(out.References)).
		Msg("finalized")

	jsonOutput, _ := cmd.Flags().GetBool("json")
	outPath, _ := cmd.Flags().GetString("out")
	return writePayload(out, outPath, jsonOutput)
}

// referenceList deduplicates reference entries, keeping first-seen
// (document) order.
func referenceList(citations []review.FinalCitation) []string {
	seen := make(map[string]struct{}, len(citations))
	var refs []string
	for _, c := range citations {
		if _, dup := seen[c.Reference.Text]; dup {
			continue
		}
		seen[c.Reference.Text] = struct{}{}
		refs = append(refs, c.Reference.Text)
	}
	return refs
}

func init() {
	finalizeCmd.Flags().String("decisions", "", "YAML file of accept/edit/reject decisions")
	finalizeCmd.Flags().String("out", "", "write the result to a file instead of stdout")
	finalizeCmd.Flags().Bool("json", false, "output the result as JSON")

	rootCmd.AddCommand(finalizeCmd)
}
