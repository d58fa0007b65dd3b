// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tweakr/citation-engine/internal/corpus"
	"github.com/tweakr/citation-engine/pkg/types"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the local paper corpus (import, search, stats)",
	Long: `Corpus manages a local SQLite database of papers with FTS5 full-text
indexing. Imported papers participate in propose runs as the highest-priority
provider, ahead of the external APIs.`,
}

var corpusImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import papers from a YAML file into the corpus",
	Long: `Import reads a YAML list of paper records and upserts them into the
corpus database. Papers are keyed by normalized title: re-importing an
existing paper updates it in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runCorpusImport,
}

func runCorpusImport(cmd *cobra.Command, args []string) error {
	store, err := openCorpus(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.ImportFile(context.Background(), args[0], os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("\nImport summary: %d imported, %d updated, %d skipped (total: %d)\n",
		summary.Imported, summary.Updated, summary.Skipped, summary.Total())
	return nil
}

var corpusSearchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Full-text search over the corpus",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCorpusSearch,
}

func runCorpusSearch(cmd *cobra.Command, args []string) error {
	store, err := openCorpus(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	maxResults, _ := cmd.Flags().GetInt("max-results")
	results, err := store.Search(context.Background(), strings.Join(args, " "), maxResults)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-50s  %-30s  %-6s\n", "Rank", "Title", "Authors", "Year")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 96))
	for i, r := range results {
		title := r.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		authors := strings.Join(r.Authors, ", ")
		if len(authors) > 30 {
			authors = authors[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-50s  %-30s  %-6d\n", i+1, title, authors, r.Year)
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

var corpusStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCorpus(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		count, err := store.Count(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("%d papers in corpus\n", count)
		return nil
	},
}

func openCorpus(cmd *cobra.Command) (*corpus.Store, error) {
	path, _ := cmd.Flags().GetString("db")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	return corpus.Open(types.CorpusConfig{Path: path, MaxResults: maxResults})
}

func init() {
	corpusCmd.PersistentFlags().String("db", "corpus/papers.db", "corpus database file")
	corpusCmd.PersistentFlags().Int("max-results", 20, "maximum search results")

	corpusCmd.AddCommand(corpusImportCmd)
	corpusCmd.AddCommand(corpusSearchCmd)
	corpusCmd.AddCommand(corpusStatsCmd)

	rootCmd.AddCommand(corpusCmd)
}
