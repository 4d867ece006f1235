// Package searchidx manages the full-text indexes backing fuzzy content
// search. This is part of the platform layer and contains no business logic.
//
// The indexes are consumed read-only by the search module; they are kept up
// to date by the content-management pipeline, which is outside this service.
// Opening a missing index creates an empty one so a fresh deployment serves
// filter-only queries instead of failing at startup.
package searchidx

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Indexes holds one bleve index per content type.
type Indexes struct {
	facts  bleve.Index
	topics bleve.Index
	games  bleve.Index
}

// Open opens (or creates) the three content indexes under dir.
func Open(dir string) (*Indexes, error) {
	facts, err := openOrCreate(filepath.Join(dir, "facts.bleve"), textMapping("title", "shortDesc", "explanation"))
	if err != nil {
		return nil, fmt.Errorf("open facts index: %w", err)
	}

	topics, err := openOrCreate(filepath.Join(dir, "topics.bleve"), textMapping("title", "summary", "tags"))
	if err != nil {
		facts.Close()
		return nil, fmt.Errorf("open topics index: %w", err)
	}

	games, err := openOrCreate(filepath.Join(dir, "games.bleve"), textMapping("title"))
	if err != nil {
		facts.Close()
		topics.Close()
		return nil, fmt.Errorf("open games index: %w", err)
	}

	return &Indexes{facts: facts, topics: topics, games: games}, nil
}

// Facts returns the short-fact index.
func (x *Indexes) Facts() bleve.Index { return x.facts }

// Topics returns the daily-topic index.
func (x *Indexes) Topics() bleve.Index { return x.topics }

// Games returns the puzzle-game index.
func (x *Indexes) Games() bleve.Index { return x.games }

// Close closes all indexes, returning the first error encountered.
func (x *Indexes) Close() error {
	var firstErr error
	for _, idx := range []bleve.Index{x.facts, x.topics, x.games} {
		if idx == nil {
			continue
		}
		if err := idx.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func openOrCreate(path string, m mapping.IndexMapping) (bleve.Index, error) {
	index, err := bleve.Open(path)
	if err == nil {
		return index, nil
	}

	if err != bleve.ErrorIndexPathDoesNotExist {
		return nil, err
	}

	if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
		return nil, mkErr
	}
	return bleve.New(path, m)
}

// textMapping builds an index mapping with standard-analyzed text fields.
func textMapping(fields ...string) mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()
	for _, field := range fields {
		fieldMapping := bleve.NewTextFieldMapping()
		fieldMapping.Analyzer = standard.Name
		fieldMapping.Store = false
		fieldMapping.IncludeInAll = false
		docMapping.AddFieldMappingsAt(field, fieldMapping)
	}

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = standard.Name
	return indexMapping
}
