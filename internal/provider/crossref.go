// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tweakr/citation-engine/internal/httputil"
	"github.com/tweakr/citation-engine/pkg/types"
)

// crossrefAPIBase is the Crossref works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// Crossref queries the Crossref REST API.
type Crossref struct {
	Client    *http.Client
	UserAgent string
	// Email is appended as the mailto parameter for polite pool access.
	Email string
	Log   zerolog.Logger
}

func (p *Crossref) Name() string { return "crossref" }

// Search queries the works endpoint sorted by relevance.
func (p *Crossref) Search(ctx context.Context, query string, maxResults int) ([]types.PaperRecord, error) {
	if query == "" {
		return nil, fmt.Errorf("empty Crossref query")
	}
	if maxResults <= 0 {
		maxResults = 20
	}

	params := url.Values{
		"query": {query},
		"rows":  {fmt.Sprintf("%d", maxResults)},
		"sort":  {"relevance"},
	}
	if p.Email != "" {
		params.Set("mailto", p.Email)
	}
	reqURL := crossrefAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, 0, p.Log)
	if err != nil {
		return nil, fmt.Errorf("Crossref API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Crossref API returned HTTP %d", resp.StatusCode)
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing Crossref response: %w", err)
	}

	recs := make([]types.PaperRecord, 0, len(cr.Message.Items))
	for _, item := range cr.Message.Items {
		r := types.PaperRecord{
			Title:     strings.Join(item.Title, " "),
			Venue:     strings.Join(item.ContainerTitle, " "),
			URL:       item.URL,
			DOI:       item.DOI,
			Citations: item.IsReferencedByCount,
			Abstract:  item.Abstract,
			Provider:  p.Name(),
		}
		for _, a := range item.Author {
			name := strings.TrimSpace(a.Given + " " + a.Family)
			if name != "" {
				r.Authors = append(r.Authors, name)
			}
		}
		// Crossref nests the year inside issued date-parts.
		if len(item.Issued.DateParts) > 0 && len(item.Issued.DateParts[0]) > 0 {
			r.Year = item.Issued.DateParts[0][0]
		}
		recs = append(recs, r)
	}
	return keepValid(recs), nil
}

// Crossref API JSON structures.
type crossrefResponse struct {
	Message crossrefMessage `json:"message"`
}

type crossrefMessage struct {
	Items []crossrefItem `json:"items"`
}

type crossrefItem struct {
	Title               []string        `json:"title"`
	Author              []crossrefName  `json:"author"`
	ContainerTitle      []string        `json:"container-title"`
	Issued              crossrefDate    `json:"issued"`
	URL                 string          `json:"URL"`
	DOI                 string          `json:"DOI"`
	Abstract            string          `json:"abstract"`
	IsReferencedByCount int             `json:"is-referenced-by-count"`
}

type crossrefName struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}
