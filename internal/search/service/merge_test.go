package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"starlore_backend/internal/search/repository"
	"starlore_backend/internal/search/transport"
)

func result(title string, date time.Time) transport.SearchResult {
	return transport.SearchResult{
		ID:    uuid.New(),
		Type:  string(repository.ContentTypeFact),
		Title: title,
		Date:  date,
		Tags:  []string{},
	}
}

func titles(items []transport.SearchResult) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Title
	}
	return out
}

func TestSortResultsNameAscIsCaseInsensitive(t *testing.T) {
	now := time.Now()
	items := []transport.SearchResult{
		result("beta", now),
		result("Alpha", now),
		result("gamma", now),
	}

	sortResults(items, repository.SortNameAsc)

	want := []string{"Alpha", "beta", "gamma"}
	for i, title := range titles(items) {
		if title != want[i] {
			t.Fatalf("position %d: got %q, want %q", i, title, want[i])
		}
	}
}

func TestSortResultsNameDescReversesOrder(t *testing.T) {
	now := time.Now()
	items := []transport.SearchResult{
		result("Alpha", now),
		result("gamma", now),
		result("beta", now),
	}

	sortResults(items, repository.SortNameDesc)

	want := []string{"gamma", "beta", "Alpha"}
	for i, title := range titles(items) {
		if title != want[i] {
			t.Fatalf("position %d: got %q, want %q", i, title, want[i])
		}
	}
}

func TestSortResultsByDate(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	oldest := result("oldest", base)
	middle := result("middle", base.AddDate(0, 0, 1))
	newest := result("newest", base.AddDate(0, 0, 2))

	items := []transport.SearchResult{middle, newest, oldest}
	sortResults(items, repository.SortDateAsc)
	if items[0].Title != "oldest" || items[2].Title != "newest" {
		t.Fatalf("dateAsc order wrong: %v", titles(items))
	}

	items = []transport.SearchResult{middle, oldest, newest}
	sortResults(items, repository.SortDateDesc)
	if items[0].Title != "newest" || items[2].Title != "oldest" {
		t.Fatalf("dateDesc order wrong: %v", titles(items))
	}
}

func TestSortResultsTiesKeepPreSortOrder(t *testing.T) {
	now := time.Now()
	first := result("same title", now)
	second := result("same title", now)
	items := []transport.SearchResult{first, second}

	sortResults(items, repository.SortNameAsc)
	if items[0].ID != first.ID || items[1].ID != second.ID {
		t.Fatal("nameAsc reordered tied titles")
	}

	sortResults(items, repository.SortNameDesc)
	if items[0].ID != first.ID || items[1].ID != second.ID {
		t.Fatal("nameDesc reordered tied titles")
	}
}

func TestSortResultsToleratesEmptyKeys(t *testing.T) {
	items := []transport.SearchResult{
		result("", time.Time{}),
		result("named", time.Now()),
	}

	sortResults(items, repository.SortNameAsc)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "" {
		t.Fatal("empty title should sort first under nameAsc")
	}
}

func TestFilterBeamed(t *testing.T) {
	beamedTrue := true
	beamedFalse := false

	beamed := result("beamed", time.Now())
	beamed.Beamed = &beamedTrue
	explicitlyNot := result("not beamed", time.Now())
	explicitlyNot.Beamed = &beamedFalse
	anonymous := result("no flag", time.Now())

	items := []transport.SearchResult{beamed, explicitlyNot, anonymous}

	if got := filterBeamed(items, beamedAll); len(got) != 3 {
		t.Fatalf("all: got %d items, want 3", len(got))
	}

	got := filterBeamed(items, beamedOnly)
	if len(got) != 1 || got[0].Title != "beamed" {
		t.Fatalf("beamed: got %v", titles(got))
	}

	got = filterBeamed(items, unbeamed)
	if len(got) != 2 {
		t.Fatalf("unbeamed: got %d items, want 2", len(got))
	}
	for _, item := range got {
		if item.Beamed != nil && *item.Beamed {
			t.Fatalf("unbeamed kept a beamed item: %q", item.Title)
		}
	}
}
