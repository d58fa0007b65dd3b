// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider implements the bibliographic search adapters. Each
// adapter translates one external source's request and response shape
// into the shared PaperRecord form, dropping records that lack a title
// or at least one non-empty author name.
package provider

import (
	"context"

	"github.com/tweakr/citation-engine/pkg/types"
)

// Provider is a keyword-searchable bibliographic source.
//
// Search returns up to maxResults records for the query. Adapters
// return an error for network, decode, or status failures; the
// orchestrator converts any error into an empty result list, so a
// broken provider never fails a run.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]types.PaperRecord, error)
}

// keepValid filters out records missing a title or missing every
// author name. Invalid records never cross into the merge step.
func keepValid(recs []types.PaperRecord) []types.PaperRecord {
	out := recs[:0]
	for _, r := range recs {
		if r.Title == "" || !r.HasAuthors() {
			continue
		}
		out = append(out, r)
	}
	return out
}
