package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"
)

// Fixed fuzzy parameters, applied identically for every content type so
// ranking behavior stays predictable. Not caller-configurable.
const (
	fuzziness    = 1
	prefixLength = 2
)

// maxCandidates bounds how many ranked matches a source feeds into the
// relational stage of its plan.
const maxCandidates = 500

// buildTextQuery returns the fuzzy match directive for the given free text
// over the named fields, or nil when the text holds no searchable terms.
// The adapter then falls back to an unranked, filter-only scan.
func buildTextQuery(text string, fields []string) query.Query {
	terms := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	if len(terms) == 0 {
		return nil
	}

	parts := make([]query.Query, 0, len(terms)*len(fields))
	for _, term := range terms {
		for _, field := range fields {
			fq := bleve.NewFuzzyQuery(term)
			fq.SetField(field)
			fq.SetFuzziness(fuzziness)
			fq.SetPrefix(prefixLength)
			parts = append(parts, fq)
		}
	}

	if len(parts) == 1 {
		return parts[0]
	}
	return bleve.NewDisjunctionQuery(parts...)
}

// searchCandidates runs the fuzzy stage against an index and returns the
// matched document IDs in ranked order.
func searchCandidates(ctx context.Context, idx bleve.Index, q query.Query) ([]uuid.UUID, error) {
	req := bleve.NewSearchRequestOptions(q, maxCandidates, 0, false)
	res, err := idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("full-text search: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, parseErr := uuid.Parse(hit.ID)
		if parseErr != nil {
			return nil, fmt.Errorf("full-text search: malformed document id %q", hit.ID)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
