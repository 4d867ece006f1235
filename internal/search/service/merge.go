package service

import (
	"sort"
	"strings"

	"starlore_backend/internal/search/repository"
	"starlore_backend/internal/search/transport"
)

// sortResults applies one global ordering across all content types.
// The sort is stable: ties keep their pre-sort relative order, which is the
// fixed fact → topic → game concatenation order. Comparisons cannot fail on
// malformed values; empty titles and zero dates simply compare as ordinary
// keys.
func sortResults(items []transport.SearchResult, mode repository.SortMode) {
	switch mode {
	case repository.SortNameAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return titleLess(items[i], items[j])
		})
	case repository.SortNameDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return titleLess(items[j], items[i])
		})
	case repository.SortDateAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Date.Before(items[j].Date)
		})
	case repository.SortDateDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[j].Date.Before(items[i].Date)
		})
	}
}

func titleLess(a, b transport.SearchResult) bool {
	return strings.ToLower(a.Title) < strings.ToLower(b.Title)
}

// filterBeamed applies the completion-status filter after the merge, where
// completion is already a single derived boolean. "unbeamed" keeps both
// explicitly-unbeamed records and records without a beamed flag.
func filterBeamed(items []transport.SearchResult, status string) []transport.SearchResult {
	if status == beamedAll {
		return items
	}

	kept := make([]transport.SearchResult, 0, len(items))
	for _, item := range items {
		isBeamed := item.Beamed != nil && *item.Beamed
		if (status == beamedOnly) == isBeamed {
			kept = append(kept, item)
		}
	}
	return kept
}
