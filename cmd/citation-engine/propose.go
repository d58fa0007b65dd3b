// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/tweakr/citation-engine/internal/document"
	"github.com/tweakr/citation-engine/internal/engine"
)

var proposeCmd = &cobra.Command{
	Use:   "propose [document]",
	Short: "Generate citation proposals for a document",
	Long: `Propose parses a plain-text or Markdown document, selects its most
citation-worthy sentences, searches the configured bibliographic providers,
and writes a review payload with one proposal per matched sentence.

The payload is YAML by default; pass --json for JSON. Review the proposals,
record decisions, then run finalize.`,
	Args: cobra.ExactArgs(1),
	RunE: runPropose,
}

func runPropose(cmd *cobra.Command, args []string) error {
	cfg, err := loadEngineConfig()
	if err != nil {
		return err
	}

	// Flags override the config file.
	if cmd.Flags().Changed("style") {
		cfg.Style, _ = cmd.Flags().GetString("style")
	}
	if cmd.Flags().Changed("max-results") {
		cfg.MaxResults, _ = cmd.Flags().GetInt("max-results")
	}
	if cmd.Flags().Changed("min-score") {
		cfg.MinScore, _ = cmd.Flags().GetFloat64("min-score")
	}
	if cmd.Flags().Changed("max-calls") {
		cfg.Budget.MaxCalls, _ = cmd.Flags().GetInt("max-calls")
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed, _ = cmd.Flags().GetInt64("seed")
	}
	if cmd.Flags().Changed("return-all") {
		cfg.ReturnAll, _ = cmd.Flags().GetBool("return-all")
	}
	if cmd.Flags().Changed("corpus") {
		cfg.Corpus.Path, _ = cmd.Flags().GetString("corpus")
	}
	if cmd.Flags().Changed("context-file") {
		cfg.Oracle.ContextFile, _ = cmd.Flags().GetString("context-file")
	}

	doc, err := document.Load(args[0], cfg.MaxParagraphs)
	if err != nil {
		return err
	}

	providers, closeProviders, err := buildProviders(cfg)
	if err != nil {
		return err
	}
	defer closeProviders()

	orc, err := buildOracle(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	payload, err := engine.New(cfg, providers, orc, log).Run(ctx, doc)
	if err != nil {
		return err
	}

	log.Info().
		Int("citations", payload.TotalCitations).
		Int("api_calls", payload.Diagnostics.APICallsMade).
		Int("cache_hits", payload.Diagnostics.CacheHits).
		Msg("run complete")

	jsonOutput, _ := cmd.Flags().GetBool("json")
	outPath, _ := cmd.Flags().GetString("out")
	return writePayload(payload, outPath, jsonOutput)
}

// writePayload renders v as YAML or JSON to path, or stdout when path
// is empty.
func writePayload(v any, path string, jsonOutput bool) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func init() {
	proposeCmd.Flags().String("style", "apa", "citation style: apa, mla, or chicago")
	proposeCmd.Flags().Int("max-results", 5, "per-sentence result target after merging")
	proposeCmd.Flags().Float64("min-score", 0.3, "relevance threshold for proposals")
	proposeCmd.Flags().Int("max-calls", 0, "global API call ceiling (0 = derive from workload)")
	proposeCmd.Flags().Int64("seed", 0, "sentence selection seed (0 = seed from the clock)")
	proposeCmd.Flags().Bool("return-all", false, "include ranked runner-up candidates per proposal")
	proposeCmd.Flags().String("corpus", "", "local corpus database to search first")
	proposeCmd.Flags().String("context-file", "", "static YAML context file (skips the HTTP oracle)")
	proposeCmd.Flags().Duration("timeout", 0, "overall run timeout (0 = none); partial results on expiry")
	proposeCmd.Flags().String("out", "", "write the payload to a file instead of stdout")
	proposeCmd.Flags().Bool("json", false, "output the payload as JSON")

	rootCmd.AddCommand(proposeCmd)
}
