package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"starlore_backend/internal/search/repository"
	"starlore_backend/internal/search/transport"
)

var (
	errMissingID    = errors.New("missing identifier")
	errMissingTitle = errors.New("missing title")
	errMissingDate  = errors.New("missing date")
)

// normalizeDocument maps a raw source document into the canonical result
// record. Optional fields default rather than propagate as nulls; the
// mandatory identifier, title, and date fields are required for sorting and
// identity, so their absence is a data-integrity error.
func normalizeDocument(doc repository.Document) (transport.SearchResult, error) {
	switch {
	case doc.Fact != nil:
		return normalizeFact(doc.Fact)
	case doc.Topic != nil:
		return normalizeTopic(doc.Topic)
	case doc.Game != nil:
		return normalizeGame(doc.Game)
	default:
		return transport.SearchResult{}, errors.New("document carries no content variant")
	}
}

func normalizeFact(row *repository.FactRow) (transport.SearchResult, error) {
	if err := requireIdentity(row.ID, row.Title, row.CreatedAt); err != nil {
		return transport.SearchResult{}, fmt.Errorf("fact %s: %w", row.ID, err)
	}

	viewCount := row.ViewCount
	return transport.SearchResult{
		ID:          row.ID,
		Type:        string(repository.ContentTypeFact),
		Title:       strings.TrimSpace(row.Title),
		Thumbnail:   row.ImageURL,
		Date:        row.CreatedAt,
		Category:    categoryRef(row.Category),
		Beamed:      row.Beamed,
		Snippet:     row.ShortDesc,
		Explanation: row.Explanation,
		Tags:        []string{},
		ViewCount:   &viewCount,
	}, nil
}

func normalizeTopic(row *repository.TopicRow) (transport.SearchResult, error) {
	if err := requireIdentity(row.ID, row.Title, row.PublishDate); err != nil {
		return transport.SearchResult{}, fmt.Errorf("topic %s: %w", row.ID, err)
	}

	tags := row.Tags
	if tags == nil {
		tags = []string{}
	}
	viewCount := row.ViewCount
	return transport.SearchResult{
		ID:        row.ID,
		Type:      string(repository.ContentTypeTopic),
		Title:     strings.TrimSpace(row.Title),
		Thumbnail: row.ThumbnailURL,
		Date:      row.PublishDate,
		Category:  categoryRef(row.Category),
		Beamed:    row.Beamed,
		Snippet:   row.Summary,
		Tags:      tags,
		ViewCount: &viewCount,
	}, nil
}

func normalizeGame(row *repository.GameRow) (transport.SearchResult, error) {
	if err := requireIdentity(row.ID, row.Title, row.CreatedAt); err != nil {
		return transport.SearchResult{}, fmt.Errorf("game %s: %w", row.ID, err)
	}

	solveCount := row.SolveCount
	return transport.SearchResult{
		ID:         row.ID,
		Type:       string(repository.ContentTypeGame),
		Title:      strings.TrimSpace(row.Title),
		Thumbnail:  row.ThumbnailURL,
		Date:       row.CreatedAt,
		Category:   categoryRef(row.Category),
		Beamed:     row.Beamed,
		Tags:       []string{},
		SolveCount: &solveCount,
	}, nil
}

func requireIdentity(id uuid.UUID, title string, date time.Time) error {
	if id == uuid.Nil {
		return errMissingID
	}
	if strings.TrimSpace(title) == "" {
		return errMissingTitle
	}
	if date.IsZero() {
		return errMissingDate
	}
	return nil
}

func categoryRef(row *repository.CategoryRow) *transport.CategoryRef {
	if row == nil {
		return nil
	}
	return &transport.CategoryRef{ID: row.ID, Name: row.Name, Color: row.Color}
}
