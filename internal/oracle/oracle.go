// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package oracle obtains topical context for a document: a research
// summary, a field category, and keywords that enrich search queries.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"go.yaml.in/yaml/v3"

	"github.com/tweakr/citation-engine/internal/httputil"
	"github.com/tweakr/citation-engine/pkg/types"
)

// maxSampleChars caps how much document text is sent to the HTTP
// oracle. The opening of a document carries its topic.
const maxSampleChars = 4000

// ContextOracle derives context terms from document content. A failed
// lookup degrades the run to unenriched queries, never aborts it.
type ContextOracle interface {
	Context(ctx context.Context, content string) (types.ContextTerms, error)
}

// HTTP asks a remote analysis service for context terms. The service
// accepts a JSON document sample and returns the terms directly.
type HTTP struct {
	Client    *http.Client
	BaseURL   string
	UserAgent string
	Log       zerolog.Logger
}

// NewHTTP builds an HTTP oracle from config.
func NewHTTP(cfg types.OracleConfig, log zerolog.Logger) *HTTP {
	return &HTTP{
		Client:    &http.Client{Timeout: cfg.Timeout},
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
		Log:       log,
	}
}

// Context posts a content sample and decodes the returned terms.
func (o *HTTP) Context(ctx context.Context, content string) (types.ContextTerms, error) {
	payload, err := json.Marshal(map[string]string{"content": sample(content)})
	if err != nil {
		return types.ContextTerms{}, fmt.Errorf("encoding oracle request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return types.ContextTerms{}, fmt.Errorf("building oracle request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if o.UserAgent != "" {
		req.Header.Set("User-Agent", o.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, o.Client, req, 0, o.Log)
	if err != nil {
		return types.ContextTerms{}, fmt.Errorf("context oracle request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return types.ContextTerms{}, fmt.Errorf("context oracle: unexpected status %d", resp.StatusCode)
	}

	var terms types.ContextTerms
	if err := json.NewDecoder(resp.Body).Decode(&terms); err != nil {
		return types.ContextTerms{}, fmt.Errorf("decoding oracle response: %w", err)
	}
	if terms.IsZero() {
		return types.ContextTerms{}, fmt.Errorf("context oracle returned no terms")
	}
	return terms, nil
}

// Static serves fixed context terms loaded from a YAML file. It backs
// offline runs and tests.
type Static struct {
	Terms types.ContextTerms
}

// LoadStatic reads context terms from a YAML file.
func LoadStatic(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading context file %s: %w", path, err)
	}
	var terms types.ContextTerms
	if err := yaml.Unmarshal(data, &terms); err != nil {
		return nil, fmt.Errorf("parsing context file %s: %w", path, err)
	}
	return &Static{Terms: terms}, nil
}

// Context returns the loaded terms regardless of content.
func (s *Static) Context(_ context.Context, _ string) (types.ContextTerms, error) {
	return s.Terms, nil
}

// sample truncates content to the oracle's sample window, respecting
// rune boundaries.
func sample(content string) string {
	runes := []rune(content)
	if len(runes) <= maxSampleChars {
		return content
	}
	return string(runes[:maxSampleChars])
}
