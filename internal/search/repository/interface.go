// Package repository contains the content source adapters backing unified
// search. Each adapter owns its content type's retrieval plan: the optional
// fuzzy full-text stage, the published and category filters, the category
// join, and the per-user completion join.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ContentType identifies one of the three searchable content stores.
type ContentType string

const (
	ContentTypeFact  ContentType = "fact"
	ContentTypeTopic ContentType = "topic"
	ContentTypeGame  ContentType = "game"
)

// SortMode is the ordering applied both at the source level (as a cost
// optimization) and at the global merge step (for correctness).
type SortMode string

const (
	SortNameAsc  SortMode = "nameAsc"
	SortNameDesc SortMode = "nameDesc"
	SortDateAsc  SortMode = "dateAsc"
	SortDateDesc SortMode = "dateDesc"
)

// Query is the per-request retrieval plan shared by all source adapters.
// UserID is nil for anonymous requests; adapters then skip completion
// enrichment entirely.
type Query struct {
	Text        string
	CategoryIDs []uuid.UUID
	UserID      *uuid.UUID
	Sort        SortMode
}

// CategoryRow is a resolved category reference.
type CategoryRow struct {
	ID    uuid.UUID
	Name  string
	Color *string
}

// FactRow is the raw shape of a short fact as stored.
type FactRow struct {
	ID          uuid.UUID
	Title       string
	ShortDesc   string
	Explanation *string
	ImageURL    string
	ViewCount   int
	CreatedAt   time.Time
	Category    *CategoryRow
	Beamed      *bool
}

// TopicRow is the raw shape of a daily topic as stored.
type TopicRow struct {
	ID           uuid.UUID
	Title        string
	Summary      string
	Tags         []string
	ThumbnailURL string
	ViewCount    int
	PublishDate  time.Time
	Category     *CategoryRow
	Beamed       *bool
}

// GameRow is the raw shape of a connection puzzle game as stored.
type GameRow struct {
	ID           uuid.UUID
	Title        string
	ThumbnailURL string
	SolveCount   int
	CreatedAt    time.Time
	Category     *CategoryRow
	Beamed       *bool
}

// Document is a tagged union of the three raw row shapes. Exactly one
// variant is non-nil, matching the adapter that produced it.
type Document struct {
	Fact  *FactRow
	Topic *TopicRow
	Game  *GameRow
}

// Source is a content source adapter. Search executes the full retrieval
// plan for one content type and returns raw, source-shaped documents.
// Any failure in the plan surfaces as an error; adapters never return
// partial results.
type Source interface {
	Type() ContentType
	Search(ctx context.Context, q Query) ([]Document, error)
}

// CategoryReader lists the categories available across all content types.
type CategoryReader interface {
	ListCategories(ctx context.Context) ([]CategoryRow, error)
}

func categoryFromJoin(id *uuid.UUID, name *string, color *string) *CategoryRow {
	if id == nil || name == nil {
		return nil
	}
	return &CategoryRow{ID: *id, Name: *name, Color: color}
}

// orderClause translates the requested sort into a source-level ORDER BY.
// Final ordering is re-established at the global merge step; this only
// keeps the store's output roughly in shape.
func orderClause(sort SortMode, titleCol, dateCol string) string {
	switch sort {
	case SortNameAsc:
		return " ORDER BY lower(" + titleCol + ") ASC"
	case SortNameDesc:
		return " ORDER BY lower(" + titleCol + ") DESC"
	case SortDateAsc:
		return " ORDER BY " + dateCol + " ASC"
	default:
		return " ORDER BY " + dateCol + " DESC"
	}
}
