package transport

import (
	"time"

	"github.com/google/uuid"
)

// SearchRequest is the query surface of the unified search endpoint.
// Zero values mean "not supplied" and are defaulted by the service;
// explicitly invalid values (negative page, unknown enums) are rejected.
type SearchRequest struct {
	Query        string   `form:"query" validate:"max=200"`
	Page         int      `form:"page" validate:"omitempty,min=1"`
	PerPage      int      `form:"perPage" validate:"omitempty,min=1,max=50"`
	Sort         string   `form:"sort" validate:"omitempty,oneof=nameAsc nameDesc dateAsc dateDesc"`
	Type         string   `form:"type" validate:"omitempty,oneof=all fact topic game"`
	Categories   []string `form:"categories" validate:"omitempty,max=20,dive,uuid"`
	BeamedStatus string   `form:"beamedStatus" validate:"omitempty,oneof=all beamed unbeamed"`
}

// CategoryRef is a resolved category reference on a result.
type CategoryRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color *string   `json:"color,omitempty"`
}

// SearchResult is the canonical record every content type is normalized
// into before merging. Beamed is present only when the request carried a
// user identity; anonymous requests omit it rather than defaulting to false.
type SearchResult struct {
	ID          uuid.UUID    `json:"id"`
	Type        string       `json:"type"` // "fact", "topic", "game"
	Title       string       `json:"title"`
	Thumbnail   string       `json:"thumbnail"`
	Date        time.Time    `json:"date"`
	Category    *CategoryRef `json:"category,omitempty"`
	Beamed      *bool        `json:"beamed,omitempty"`
	Snippet     string       `json:"snippet,omitempty"`
	Explanation *string      `json:"explanation,omitempty"`
	Tags        []string     `json:"tags"`
	ViewCount   *int         `json:"viewCount,omitempty"`
	SolveCount  *int         `json:"solveCount,omitempty"`
}

// Pagination describes the slice of the merged result list being returned.
// TotalPages is 0 when there are no results; consumers treat that as
// "no results", not an error.
type Pagination struct {
	Page            int  `json:"page"`
	TotalPages      int  `json:"totalPages"`
	TotalItems      int  `json:"totalItems"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

type SearchResponse struct {
	Items      []SearchResult `json:"items"`
	Pagination Pagination     `json:"pagination"`
}

type CategoryResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color *string   `json:"color,omitempty"`
}

type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
}
