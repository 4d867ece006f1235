package service

import "starlore_backend/internal/search/transport"

// paginate slices the ordered, filtered list and computes pagination
// metadata. Page is 1-based and already validated to be >= 1; paging past
// the end yields an empty slice, not an error.
func paginate(items []transport.SearchResult, page, perPage int) ([]transport.SearchResult, transport.Pagination) {
	totalItems := len(items)
	totalPages := (totalItems + perPage - 1) / perPage

	start := (page - 1) * perPage
	end := start + perPage

	pageItems := []transport.SearchResult{}
	if start < totalItems {
		if end > totalItems {
			end = totalItems
		}
		pageItems = items[start:end]
	}

	return pageItems, transport.Pagination{
		Page:            page,
		TotalPages:      totalPages,
		TotalItems:      totalItems,
		HasNextPage:     start+perPage < totalItems,
		HasPreviousPage: page > 1,
	}
}
