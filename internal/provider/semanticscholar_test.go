// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSemanticScholarRequestParams(t *testing.T) {
	var capturedReq *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"total":0,"data":[]}`)
	}))
	defer ts.Close()
	swapBase(t, &semanticAPIBase, ts.URL)

	p := &SemanticScholar{Client: ts.Client(), UserAgent: "citation-engine/test", APIKey: "key-123"}
	if _, err := p.Search(context.Background(), "attention is all you need", 7); err != nil {
		t.Fatalf("Search: %v", err)
	}

	q := capturedReq.URL.Query()
	if got := q.Get("query"); got != "attention is all you need" {
		t.Errorf("query param = %q", got)
	}
	if got := q.Get("limit"); got != "7" {
		t.Errorf("limit param = %q, want 7", got)
	}
	for _, f := range []string{"title", "abstract", "authors", "year", "venue", "citationCount", "url"} {
		if !strings.Contains(q.Get("fields"), f) {
			t.Errorf("fields param %q missing %q", q.Get("fields"), f)
		}
	}
	if got := capturedReq.Header.Get("x-api-key"); got != "key-123" {
		t.Errorf("x-api-key header = %q", got)
	}
	if got := capturedReq.Header.Get("User-Agent"); got != "citation-engine/test" {
		t.Errorf("User-Agent header = %q", got)
	}
}

func TestSemanticScholarParsesRecords(t *testing.T) {
	resp := `{"total":2,"data":[
		{"paperId":"a","title":"Deep Learning in Healthcare","abstract":"A survey.",
		 "year":2022,"venue":"Nature Medicine","url":"https://example.org/p1",
		 "citationCount":120,
		 "authors":[{"authorId":"1","name":"Jane Smith"}],
		 "externalIds":{"DOI":"10.1000/xyz"}},
		{"paperId":"b","title":"Untitled Draft","authors":[],"externalIds":{}}
	]}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, resp)
	}))
	defer ts.Close()
	swapBase(t, &semanticAPIBase, ts.URL)

	p := &SemanticScholar{Client: ts.Client()}
	recs, err := p.Search(context.Background(), "deep learning healthcare", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	// The authorless record is dropped.
	if len(recs) != 1 {
		t.Fatalf("len(recs) = %d, want 1", len(recs))
	}
	r := recs[0]
	if r.Title != "Deep Learning in Healthcare" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.Year != 2022 || r.Citations != 120 {
		t.Errorf("Year/Citations = %d/%d, want 2022/120", r.Year, r.Citations)
	}
	if r.Venue != "Nature Medicine" || r.DOI != "10.1000/xyz" {
		t.Errorf("Venue/DOI = %q/%q", r.Venue, r.DOI)
	}
	if r.Provider != "semantic_scholar" {
		t.Errorf("Provider = %q, want semantic_scholar", r.Provider)
	}
	if len(r.Authors) != 1 || r.Authors[0] != "Jane Smith" {
		t.Errorf("Authors = %v", r.Authors)
	}
}

func TestSemanticScholarHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()
	swapBase(t, &semanticAPIBase, ts.URL)

	p := &SemanticScholar{Client: ts.Client()}
	_, err := p.Search(context.Background(), "test", 5)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "HTTP 403") {
		t.Errorf("error = %q, want substring 'HTTP 403'", err.Error())
	}
}

func TestSemanticScholarMalformedJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{invalid json`)
	}))
	defer ts.Close()
	swapBase(t, &semanticAPIBase, ts.URL)

	p := &SemanticScholar{Client: ts.Client()}
	if _, err := p.Search(context.Background(), "test", 5); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestSemanticScholarEmptyQuery(t *testing.T) {
	p := &SemanticScholar{Client: http.DefaultClient}
	if _, err := p.Search(context.Background(), "", 5); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestSemanticScholarName(t *testing.T) {
	p := &SemanticScholar{}
	if got := p.Name(); got != "semantic_scholar" {
		t.Errorf("Name() = %q", got)
	}
}
