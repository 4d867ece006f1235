package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"starlore_backend/internal/search/repository"
	"starlore_backend/internal/search/transport"
	"starlore_backend/platform/apperr"
	"starlore_backend/platform/logger"
)

type fakeSource struct {
	typ      repository.ContentType
	docs     []repository.Document
	err      error
	delay    time.Duration
	calls    int
	lastRead repository.Query
}

func (f *fakeSource) Type() repository.ContentType { return f.typ }

func (f *fakeSource) Search(ctx context.Context, q repository.Query) ([]repository.Document, error) {
	f.calls++
	f.lastRead = q
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

type fakeCategories struct {
	rows []repository.CategoryRow
	err  error
}

func (f *fakeCategories) ListCategories(ctx context.Context) ([]repository.CategoryRow, error) {
	return f.rows, f.err
}

func factDoc(title string, date time.Time, beamed *bool) repository.Document {
	return repository.Document{Fact: &repository.FactRow{
		ID:        uuid.New(),
		Title:     title,
		CreatedAt: date,
		Beamed:    beamed,
	}}
}

func topicDoc(title string, date time.Time, beamed *bool) repository.Document {
	return repository.Document{Topic: &repository.TopicRow{
		ID:          uuid.New(),
		Title:       title,
		PublishDate: date,
		Beamed:      beamed,
	}}
}

func gameDoc(title string, date time.Time, beamed *bool) repository.Document {
	return repository.Document{Game: &repository.GameRow{
		ID:        uuid.New(),
		Title:     title,
		CreatedAt: date,
		Beamed:    beamed,
	}}
}

func newTestService(fact, topic, game *fakeSource, cats repository.CategoryReader) *Service {
	if cats == nil {
		cats = &fakeCategories{}
	}
	sources := []repository.Source{fact, topic, game}
	return New(sources, cats, logger.New("test"), time.Second)
}

func boolPtr(v bool) *bool { return &v }

func TestSearchNoQueryReturnsUnionSortedByDateDesc(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	fact := &fakeSource{typ: repository.ContentTypeFact, docs: []repository.Document{
		factDoc("old fact", base, nil),
	}}
	topic := &fakeSource{typ: repository.ContentTypeTopic, docs: []repository.Document{
		topicDoc("newest topic", base.AddDate(0, 0, 2), nil),
	}}
	game := &fakeSource{typ: repository.ContentTypeGame, docs: []repository.Document{
		gameDoc("middle game", base.AddDate(0, 0, 1), nil),
	}}
	svc := newTestService(fact, topic, game, nil)

	resp, err := svc.Search(context.Background(), transport.SearchRequest{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Pagination.TotalItems != 3 {
		t.Fatalf("TotalItems = %d, want 3", resp.Pagination.TotalItems)
	}
	want := []string{"newest topic", "middle game", "old fact"}
	for i, item := range resp.Items {
		if item.Title != want[i] {
			t.Fatalf("position %d: got %q, want %q", i, item.Title, want[i])
		}
	}
}

func TestSearchTypeIsolationSkipsOtherAdapters(t *testing.T) {
	now := time.Now()
	fact := &fakeSource{typ: repository.ContentTypeFact, docs: []repository.Document{
		factDoc("fact one", now, nil),
		factDoc("fact two", now, nil),
	}}
	topic := &fakeSource{typ: repository.ContentTypeTopic, docs: []repository.Document{
		topicDoc("should not appear", now, nil),
	}}
	game := &fakeSource{typ: repository.ContentTypeGame}
	svc := newTestService(fact, topic, game, nil)

	resp, err := svc.Search(context.Background(), transport.SearchRequest{Type: "fact"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Pagination.TotalItems != 2 {
		t.Fatalf("TotalItems = %d, want 2", resp.Pagination.TotalItems)
	}
	if topic.calls != 0 || game.calls != 0 {
		t.Fatal("filtered-out adapters must not be dispatched")
	}
	for _, item := range resp.Items {
		if item.Type != "fact" {
			t.Fatalf("unexpected content type %q in results", item.Type)
		}
	}
}

func TestSearchBeamedFilterCounts(t *testing.T) {
	now := time.Now()
	docs := make([]repository.Document, 0, 10)
	for i := 0; i < 3; i++ {
		docs = append(docs, factDoc("beamed", now, boolPtr(true)))
	}
	for i := 0; i < 7; i++ {
		docs = append(docs, factDoc("unbeamed", now, boolPtr(false)))
	}
	fact := &fakeSource{typ: repository.ContentTypeFact, docs: docs}
	topic := &fakeSource{typ: repository.ContentTypeTopic}
	game := &fakeSource{typ: repository.ContentTypeGame}
	svc := newTestService(fact, topic, game, nil)

	userID := uuid.New()
	for status, want := range map[string]int{"beamed": 3, "unbeamed": 7, "all": 10} {
		resp, err := svc.Search(context.Background(), transport.SearchRequest{
			PerPage:      50,
			BeamedStatus: status,
		}, &userID)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", status, err)
		}
		if resp.Pagination.TotalItems != want {
			t.Errorf("%s: TotalItems = %d, want %d", status, resp.Pagination.TotalItems, want)
		}
	}
}

func TestSearchFailsWholeRequestWhenOneSourceFails(t *testing.T) {
	now := time.Now()
	fact := &fakeSource{typ: repository.ContentTypeFact, docs: []repository.Document{
		factDoc("fine", now, nil),
	}}
	topic := &fakeSource{typ: repository.ContentTypeTopic, err: errors.New("store unreachable")}
	game := &fakeSource{typ: repository.ContentTypeGame}
	svc := newTestService(fact, topic, game, nil)

	_, err := svc.Search(context.Background(), transport.SearchRequest{}, nil)
	if err == nil {
		t.Fatal("expected error when a source fails")
	}
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	appErr := err.(*apperr.Error)
	if appErr.Message != "search failed" {
		t.Fatalf("caller-facing message = %q, want opaque \"search failed\"", appErr.Message)
	}
}

func TestSearchRejectsInvalidRequestValues(t *testing.T) {
	fact := &fakeSource{typ: repository.ContentTypeFact}
	topic := &fakeSource{typ: repository.ContentTypeTopic}
	game := &fakeSource{typ: repository.ContentTypeGame}
	svc := newTestService(fact, topic, game, nil)

	tests := map[string]transport.SearchRequest{
		"negative page":      {Page: -1},
		"unknown sort":       {Sort: "relevance"},
		"unknown type":       {Type: "quiz"},
		"unknown beamed":     {BeamedStatus: "done"},
		"bad category id":    {Categories: []string{"not-a-uuid"}},
		"negative page size": {PerPage: -3},
	}

	for name, req := range tests {
		_, err := svc.Search(context.Background(), req, nil)
		if err == nil {
			t.Errorf("%s: expected validation error", name)
			continue
		}
		if !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("%s: expected validation kind, got %v", name, err)
		}
	}
	if fact.calls != 0 {
		t.Fatal("invalid requests must be rejected before fan-out")
	}
}

func TestSearchOrderIndependentOfAdapterCompletionOrder(t *testing.T) {
	// All dates equal: the stable sort must preserve the fixed fact → topic
	// concatenation order even though the fact adapter finishes last.
	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	fact := &fakeSource{
		typ:   repository.ContentTypeFact,
		docs:  []repository.Document{factDoc("from facts", date, nil)},
		delay: 20 * time.Millisecond,
	}
	topic := &fakeSource{typ: repository.ContentTypeTopic, docs: []repository.Document{
		topicDoc("from topics", date, nil),
	}}
	game := &fakeSource{typ: repository.ContentTypeGame}
	svc := newTestService(fact, topic, game, nil)

	resp, err := svc.Search(context.Background(), transport.SearchRequest{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Items[0].Title != "from facts" || resp.Items[1].Title != "from topics" {
		t.Fatalf("completion order leaked into result order: %v",
			[]string{resp.Items[0].Title, resp.Items[1].Title})
	}
}

func TestSearchForwardsTrimmedQueryAndUser(t *testing.T) {
	fact := &fakeSource{typ: repository.ContentTypeFact}
	topic := &fakeSource{typ: repository.ContentTypeTopic}
	game := &fakeSource{typ: repository.ContentTypeGame}
	svc := newTestService(fact, topic, game, nil)

	userID := uuid.New()
	catID := uuid.New()
	_, err := svc.Search(context.Background(), transport.SearchRequest{
		Query:      "  pulsar  ",
		Sort:       "nameAsc",
		Categories: []string{catID.String()},
	}, &userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q := fact.lastRead
	if q.Text != "pulsar" {
		t.Errorf("Text = %q, want trimmed %q", q.Text, "pulsar")
	}
	if q.UserID == nil || *q.UserID != userID {
		t.Error("user id not forwarded to adapters")
	}
	if len(q.CategoryIDs) != 1 || q.CategoryIDs[0] != catID {
		t.Error("category ids not forwarded to adapters")
	}
	if q.Sort != repository.SortNameAsc {
		t.Errorf("Sort = %q, want nameAsc", q.Sort)
	}
}

func TestSearchIsIdempotent(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	fact := &fakeSource{typ: repository.ContentTypeFact, docs: []repository.Document{
		factDoc("alpha", base, nil),
		factDoc("beta", base.AddDate(0, 0, 1), nil),
	}}
	topic := &fakeSource{typ: repository.ContentTypeTopic, docs: []repository.Document{
		topicDoc("gamma", base.AddDate(0, 0, 2), nil),
	}}
	game := &fakeSource{typ: repository.ContentTypeGame}
	svc := newTestService(fact, topic, game, nil)

	req := transport.SearchRequest{Sort: "nameDesc", PerPage: 2}
	first, err := svc.Search(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Search(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical requests over unchanged data must yield identical responses")
	}
}

func TestSearchRejectsMalformedSourceDocument(t *testing.T) {
	fact := &fakeSource{typ: repository.ContentTypeFact, docs: []repository.Document{
		{Fact: &repository.FactRow{ID: uuid.Nil, Title: "no id", CreatedAt: time.Now()}},
	}}
	topic := &fakeSource{typ: repository.ContentTypeTopic}
	game := &fakeSource{typ: repository.ContentTypeGame}
	svc := newTestService(fact, topic, game, nil)

	_, err := svc.Search(context.Background(), transport.SearchRequest{}, nil)
	if err == nil {
		t.Fatal("expected data-integrity failure")
	}
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal kind, got %v", err)
	}
}

func TestListCategories(t *testing.T) {
	color := "#3355ff"
	cats := &fakeCategories{rows: []repository.CategoryRow{
		{ID: uuid.New(), Name: "Galaxies", Color: &color},
		{ID: uuid.New(), Name: "Planets"},
	}}
	fact := &fakeSource{typ: repository.ContentTypeFact}
	topic := &fakeSource{typ: repository.ContentTypeTopic}
	game := &fakeSource{typ: repository.ContentTypeGame}
	svc := newTestService(fact, topic, game, cats)

	resp, err := svc.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("got %d categories, want 2", len(resp.Items))
	}
	if resp.Items[0].Name != "Galaxies" || resp.Items[0].Color == nil {
		t.Error("category fields not mapped")
	}
}

func TestListCategoriesHidesStoreErrors(t *testing.T) {
	cats := &fakeCategories{err: errors.New("connection refused")}
	fact := &fakeSource{typ: repository.ContentTypeFact}
	topic := &fakeSource{typ: repository.ContentTypeTopic}
	game := &fakeSource{typ: repository.ContentTypeGame}
	svc := newTestService(fact, topic, game, cats)

	_, err := svc.ListCategories(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal kind, got %v", err)
	}
}
