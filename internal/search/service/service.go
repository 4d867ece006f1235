// Package service orchestrates the unified search pipeline: request
// validation, concurrent source fan-out, normalization, global merge-sort,
// post-merge filtering, and pagination.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"starlore_backend/internal/search/repository"
	"starlore_backend/internal/search/transport"
	"starlore_backend/platform/apperr"
	"starlore_backend/platform/logger"
)

const defaultPerPage = 9

// Content-type filter accepting every source.
const typeAll = "all"

// Beamed-status filter values.
const (
	beamedAll  = "all"
	beamedOnly = "beamed"
	unbeamed   = "unbeamed"
)

// Service runs the search pipeline over a fixed set of content sources.
type Service struct {
	sources       []repository.Source
	categories    repository.CategoryReader
	log           *logger.Logger
	sourceTimeout time.Duration
}

// New creates the search service. The sources slice fixes the concatenation
// order of the merged result list; pass adapters in stable content-type
// order (fact, topic, game) so attribution is deterministic.
func New(sources []repository.Source, categories repository.CategoryReader, log *logger.Logger, sourceTimeout time.Duration) *Service {
	return &Service{
		sources:       sources,
		categories:    categories,
		log:           log,
		sourceTimeout: sourceTimeout,
	}
}

// Search executes one unified search request. userID, when non-nil, scopes
// completion enrichment; results then carry a beamed flag.
func (s *Service) Search(ctx context.Context, req transport.SearchRequest, userID *uuid.UUID) (transport.SearchResponse, error) {
	page := req.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return transport.SearchResponse{}, apperr.Validation("page must be at least 1")
	}

	perPage := req.PerPage
	if perPage == 0 {
		perPage = defaultPerPage
	}
	if perPage < 1 {
		return transport.SearchResponse{}, apperr.Validation("perPage must be at least 1")
	}

	sortMode, err := parseSortMode(req.Sort)
	if err != nil {
		return transport.SearchResponse{}, err
	}
	typeFilter, err := parseTypeFilter(req.Type)
	if err != nil {
		return transport.SearchResponse{}, err
	}
	beamedStatus, err := parseBeamedStatus(req.BeamedStatus)
	if err != nil {
		return transport.SearchResponse{}, err
	}
	categoryIDs, err := parseCategoryIDs(req.Categories)
	if err != nil {
		return transport.SearchResponse{}, err
	}

	query := repository.Query{
		Text:        strings.TrimSpace(req.Query),
		CategoryIDs: categoryIDs,
		UserID:      userID,
		Sort:        sortMode,
	}

	perSource, err := s.fanOut(ctx, query, typeFilter)
	if err != nil {
		return transport.SearchResponse{}, s.opaque("search.Search", err)
	}

	merged := make([]transport.SearchResult, 0, countDocuments(perSource))
	for _, docs := range perSource {
		for _, doc := range docs {
			record, normErr := normalizeDocument(doc)
			if normErr != nil {
				s.log.Error("malformed source document", "error", normErr)
				return transport.SearchResponse{}, s.opaque("search.Search", normErr)
			}
			merged = append(merged, record)
		}
	}

	sortResults(merged, sortMode)
	filtered := filterBeamed(merged, beamedStatus)
	items, pagination := paginate(filtered, page, perPage)

	return transport.SearchResponse{Items: items, Pagination: pagination}, nil
}

// ListCategories returns the categories available for filtering,
// deduplicated by name across content types.
func (s *Service) ListCategories(ctx context.Context) (transport.CategoryListResponse, error) {
	rows, err := s.categories.ListCategories(ctx)
	if err != nil {
		s.log.DatabaseError("list categories", err)
		return transport.CategoryListResponse{}, s.opaque("search.ListCategories", err)
	}

	items := make([]transport.CategoryResponse, len(rows))
	for i, row := range rows {
		items[i] = transport.CategoryResponse{ID: row.ID, Name: row.Name, Color: row.Color}
	}
	return transport.CategoryListResponse{Items: items}, nil
}

// fanOut dispatches the applicable source adapters concurrently and collects
// their raw outputs indexed by dispatch position, so the merged list's
// concatenation order never depends on which adapter finished first.
// One failing adapter fails the whole request; partial results are discarded.
func (s *Service) fanOut(ctx context.Context, query repository.Query, typeFilter string) ([][]repository.Document, error) {
	active := make([]repository.Source, 0, len(s.sources))
	for _, src := range s.sources {
		if typeFilter == typeAll || string(src.Type()) == typeFilter {
			active = append(active, src)
		}
	}

	out := make([][]repository.Document, len(active))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range active {
		i, src := i, src
		g.Go(func() error {
			srcCtx, cancel := context.WithTimeout(gctx, s.sourceTimeout)
			defer cancel()

			docs, err := src.Search(srcCtx, query)
			if err != nil {
				s.log.SourceError(string(src.Type()), err)
				return fmt.Errorf("%s source: %w", src.Type(), err)
			}
			out[i] = docs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// opaque hides internal store errors from callers while keeping the cause
// attached for logging and errors.Is/As.
func (s *Service) opaque(op string, err error) error {
	return apperr.Wrap(apperr.KindInternal, "search failed", err).WithOp(op)
}

func countDocuments(perSource [][]repository.Document) int {
	total := 0
	for _, docs := range perSource {
		total += len(docs)
	}
	return total
}

func parseSortMode(value string) (repository.SortMode, error) {
	switch value {
	case "":
		return repository.SortDateDesc, nil
	case string(repository.SortNameAsc), string(repository.SortNameDesc),
		string(repository.SortDateAsc), string(repository.SortDateDesc):
		return repository.SortMode(value), nil
	default:
		return "", apperr.Validation("unknown sort mode: " + value)
	}
}

func parseTypeFilter(value string) (string, error) {
	switch value {
	case "", typeAll:
		return typeAll, nil
	case string(repository.ContentTypeFact), string(repository.ContentTypeTopic), string(repository.ContentTypeGame):
		return value, nil
	default:
		return "", apperr.Validation("unknown content type: " + value)
	}
}

func parseBeamedStatus(value string) (string, error) {
	switch value {
	case "":
		return beamedAll, nil
	case beamedAll, beamedOnly, unbeamed:
		return value, nil
	default:
		return "", apperr.Validation("unknown beamed status: " + value)
	}
}

func parseCategoryIDs(values []string) ([]uuid.UUID, error) {
	if len(values) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(values))
	for _, value := range values {
		id, err := uuid.Parse(strings.TrimSpace(value))
		if err != nil {
			return nil, apperr.Validation("invalid category id: " + value)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
