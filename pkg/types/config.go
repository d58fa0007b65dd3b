package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citation-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ProviderConfig holds per-provider settings keyed by provider name.
type ProviderConfig struct {
	// Enabled controls whether the provider participates in fan-out.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// MinDelay is the minimum interval between two calls to this
	// provider (default 100ms).
	MinDelay time.Duration `json:"min_delay" yaml:"min_delay"`

	// APIKey is an optional API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// BudgetConfig bounds the total external API usage of one run.
type BudgetConfig struct {
	// MaxCalls is the global API-call ceiling. Zero means derive it
	// from the workload: min(sentences x providers, 1000).
	MaxCalls int `json:"max_calls" yaml:"max_calls"`
}

// OracleConfig holds settings for the document-context oracle.
type OracleConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the oracle endpoint. Empty disables the HTTP oracle.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// ContextFile points at a static YAML context file used instead of
	// (or as a fallback for) the HTTP oracle.
	ContextFile string `json:"context_file,omitempty" yaml:"context_file,omitempty"`
}

// CorpusConfig holds settings for the local SQLite paper corpus.
type CorpusConfig struct {
	// Path is the corpus database file (e.g. "corpus/papers.db").
	Path string `json:"path" yaml:"path"`

	// MaxResults caps results returned per corpus search (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// EngineConfig groups every setting of a citation run.
type EngineConfig struct {
	HTTPConfig `yaml:",inline"`

	// Style is the citation style: apa, mla, or chicago.
	Style string `json:"style" yaml:"style"`

	// MaxResults is the per-sentence result target after merging
	// (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// MinScore is the relevance threshold below which no proposal is
	// generated for a sentence (default 0.3).
	MinScore float64 `json:"min_score" yaml:"min_score"`

	// MaxParagraphs caps how many paragraphs are processed (default 100).
	MaxParagraphs int `json:"max_paragraphs" yaml:"max_paragraphs"`

	// MaxSentences caps how many sentences the selector may pick
	// (default 150).
	MaxSentences int `json:"max_sentences" yaml:"max_sentences"`

	// ReturnAll surfaces ranked runner-up candidates on each proposal
	// instead of the single best paper only.
	ReturnAll bool `json:"return_all" yaml:"return_all"`

	// Seed drives the selector's jitter. Zero means seed from the clock.
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	// Providers configures each provider by name, in priority order of
	// the ProviderOrder list.
	Providers map[string]ProviderConfig `json:"providers" yaml:"providers"`

	// ProviderOrder is the merge priority, highest first.
	ProviderOrder []string `json:"provider_order" yaml:"provider_order"`

	Budget BudgetConfig `json:"budget" yaml:"budget"`
	Oracle OracleConfig `json:"oracle" yaml:"oracle"`
	Corpus CorpusConfig `json:"corpus" yaml:"corpus"`
}

// DefaultEngineConfig returns the configuration used when no config
// file overrides are present.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		HTTPConfig: HTTPConfig{
			Timeout:   15 * time.Second,
			UserAgent: "citation-engine/0.1",
		},
		Style:         "apa",
		MaxResults:    5,
		MinScore:      0.3,
		MaxParagraphs: 100,
		MaxSentences:  150,
		Providers: map[string]ProviderConfig{
			"semantic_scholar": {Enabled: true, MinDelay: 100 * time.Millisecond},
			"crossref":         {Enabled: true, MinDelay: 100 * time.Millisecond},
			"openalex":         {Enabled: true, MinDelay: 100 * time.Millisecond},
			"arxiv":            {Enabled: true, MinDelay: 100 * time.Millisecond},
		},
		ProviderOrder: []string{"semantic_scholar", "crossref", "openalex", "arxiv"},
		Corpus:        CorpusConfig{MaxResults: 20},
	}
}
