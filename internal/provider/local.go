// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"

	"github.com/tweakr/citation-engine/internal/corpus"
	"github.com/tweakr/citation-engine/pkg/types"
)

// Local serves searches from the on-disk paper corpus. It makes no
// network calls, so it participates in fan-out without consuming any
// meaningful budget headroom beyond its reservation.
type Local struct {
	Store *corpus.Store
}

func (p *Local) Name() string { return "corpus" }

// Search runs a full-text query against the corpus.
func (p *Local) Search(ctx context.Context, query string, maxResults int) ([]types.PaperRecord, error) {
	recs, err := p.Store.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	return keepValid(recs), nil
}
