// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine runs the full citation pipeline for one document:
// context lookup, sentence selection, provider fan-out, relevance
// scoring, and proposal generation for review.
package engine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tweakr/citation-engine/internal/budget"
	"github.com/tweakr/citation-engine/internal/cache"
	"github.com/tweakr/citation-engine/internal/citeformat"
	"github.com/tweakr/citation-engine/internal/document"
	"github.com/tweakr/citation-engine/internal/fanout"
	"github.com/tweakr/citation-engine/internal/oracle"
	"github.com/tweakr/citation-engine/internal/provider"
	"github.com/tweakr/citation-engine/internal/query"
	"github.com/tweakr/citation-engine/internal/score"
	"github.com/tweakr/citation-engine/internal/selector"
	"github.com/tweakr/citation-engine/pkg/types"
)

// etaSecondsPerCall is the assumed wall-clock cost of one provider
// call, pacing delay included. Used only for the review payload's ETA
// estimate.
const etaSecondsPerCall = 1.2

// Engine holds the long-lived pieces of the pipeline. Per-run state
// (budget, cache) is created fresh inside Run.
type Engine struct {
	cfg       types.EngineConfig
	providers []provider.Provider
	oracle    oracle.ContextOracle
	log       zerolog.Logger
}

// New builds an Engine. Providers are given in merge priority order,
// highest first; orc may be nil to run without document context.
func New(cfg types.EngineConfig, providers []provider.Provider, orc oracle.ContextOracle, log zerolog.Logger) *Engine {
	return &Engine{cfg: cfg, providers: providers, oracle: orc, log: log}
}

// ContextInfo is the document context echoed back in the review
// payload so a reviewer can see what enriched the queries.
type ContextInfo struct {
	ResearchContext string   `json:"research_context" yaml:"research_context"`
	Category        string   `json:"document_category" yaml:"document_category"`
	Keywords        []string `json:"field_keywords" yaml:"field_keywords"`
	DetectedDomain  string   `json:"detected_domain" yaml:"detected_domain"`
}

// Diagnostics summarizes what the run actually did.
type Diagnostics struct {
	ProcessedParagraphs int   `json:"processed_paragraphs" yaml:"processed_paragraphs"`
	SkippedParagraphs   []int `json:"skipped_paragraphs,omitempty" yaml:"skipped_paragraphs,omitempty"`
	ProcessedSentences  int   `json:"processed_sentences" yaml:"processed_sentences"`
	APICallsMade        int   `json:"api_calls_made" yaml:"api_calls_made"`
	MaxAPICalls         int   `json:"max_api_calls" yaml:"max_api_calls"`
	CacheHits           int   `json:"cache_hits" yaml:"cache_hits"`
	EstimatedETASeconds int   `json:"estimated_eta_seconds" yaml:"estimated_eta_seconds"`
}

// ReviewPayload is everything the review surface needs for one run.
type ReviewPayload struct {
	DocumentID     string                   `json:"document_id" yaml:"document_id"`
	TotalCitations int                      `json:"total_citations" yaml:"total_citations"`
	Citations      []types.CitationProposal `json:"citations" yaml:"citations"`
	ContextInfo    ContextInfo              `json:"context_info" yaml:"context_info"`
	Diagnostics    Diagnostics              `json:"diagnostics" yaml:"diagnostics"`
}

// Run executes the pipeline over a parsed document. A context
// cancellation mid-run stops issuing new searches and returns the
// proposals generated so far; the payload is never nil on a nil error.
func (e *Engine) Run(ctx context.Context, doc *document.Document) (*ReviewPayload, error) {
	if !citeformat.ValidStyle(e.cfg.Style) {
		return nil, fmt.Errorf("unsupported citation style %q", e.cfg.Style)
	}

	terms := e.documentContext(ctx, doc)

	var sentences []types.SentenceUnit
	var skipped []int
	paragraphs := 0
	for i, p := range doc.Paragraphs {
		if document.IsHeading(p) {
			skipped = append(skipped, i+1)
			continue
		}
		paragraphs++
		sentences = append(sentences, document.Sentences(p, i+1)...)
	}

	n := len(e.providers)
	ceiling := budget.DeriveCeiling(e.cfg.Budget.MaxCalls, len(sentences), n)

	capacity := e.cfg.MaxSentences
	if n > 0 && ceiling/n < capacity {
		capacity = ceiling / n
	}

	seed := e.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	selected := selector.New(seed).Select(sentences, capacity)

	tracker := budget.New(ceiling, e.minDelays())
	searchCache := cache.New()
	orch := &fanout.Orchestrator{
		Providers:  e.providers,
		Budget:     tracker,
		Cache:      searchCache,
		MaxResults: e.cfg.MaxResults,
		Log:        e.log,
	}

	planned := len(selected) * n
	if planned > ceiling {
		planned = ceiling
	}

	var proposals []types.CitationProposal
	for _, s := range selected {
		if ctx.Err() != nil {
			e.log.Warn().Int("generated", len(proposals)).
				Msg("run cancelled, returning partial results")
			break
		}

		q := query.Enrich(query.Normalize(s.Text), terms)
		scored := rank(s.Text, orch.SearchAll(ctx, q))
		if len(scored) == 0 || scored[0].Score < e.cfg.MinScore {
			continue
		}

		best := scored[0]
		formatted, err := citeformat.InText(best.Paper, e.cfg.Style)
		if err != nil {
			return nil, fmt.Errorf("formatting citation: %w", err)
		}

		p := types.CitationProposal{
			ID:        uuid.NewString(),
			Sentence:  s,
			Paper:     best.Paper,
			Score:     best.Score,
			Style:     e.cfg.Style,
			Formatted: formatted,
			Status:    types.StatusPending,
		}
		if e.cfg.ReturnAll {
			p.Candidates = scored
		}
		proposals = append(proposals, p)
	}

	return &ReviewPayload{
		DocumentID:     doc.ID,
		TotalCitations: len(proposals),
		Citations:      proposals,
		ContextInfo: ContextInfo{
			ResearchContext: terms.ResearchContext,
			Category:        terms.Category,
			Keywords:        terms.Keywords,
			DetectedDomain:  detectedDomain(terms),
		},
		Diagnostics: Diagnostics{
			ProcessedParagraphs: paragraphs,
			SkippedParagraphs:   skipped,
			ProcessedSentences:  len(selected),
			APICallsMade:        tracker.Used(),
			MaxAPICalls:         ceiling,
			CacheHits:           searchCache.Hits(),
			EstimatedETASeconds: int(math.Ceil(float64(planned) * etaSecondsPerCall)),
		},
	}, nil
}

// documentContext asks the oracle for context terms. Any failure is
// logged and degrades the run to unenriched queries.
func (e *Engine) documentContext(ctx context.Context, doc *document.Document) types.ContextTerms {
	if e.oracle == nil {
		return types.ContextTerms{}
	}
	terms, err := e.oracle.Context(ctx, strings.Join(doc.Paragraphs, "\n\n"))
	if err != nil {
		e.log.Warn().Err(err).Str("document", doc.ID).
			Msg("context lookup failed, queries will not be enriched")
		return types.ContextTerms{}
	}
	return terms
}

// minDelays collects per-provider pacing intervals from config.
func (e *Engine) minDelays() map[string]time.Duration {
	delays := make(map[string]time.Duration, len(e.cfg.Providers))
	for name, pc := range e.cfg.Providers {
		if pc.Enabled && pc.MinDelay > 0 {
			delays[name] = pc.MinDelay
		}
	}
	return delays
}

// rank scores every record against the sentence and orders them best
// first. Zero-score records are dropped. Ties keep merge order, so the
// higher-priority provider's record wins.
func rank(sentence string, recs []types.PaperRecord) []types.ScoredPaper {
	scored := make([]types.ScoredPaper, 0, len(recs))
	for _, r := range recs {
		if s := score.Score(sentence, r); s > 0 {
			scored = append(scored, types.ScoredPaper{Paper: r, Score: s})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// detectedDomain names the document's field for the review surface.
func detectedDomain(terms types.ContextTerms) string {
	if terms.Category != "" {
		return terms.Category
	}
	return "general"
}
