package repository

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Searchable index fields for short facts.
var factSearchFields = []string{"title", "shortDesc", "explanation"}

// FactSource retrieves short facts. Completion is tracked as membership in
// the user's beamed-facts list.
type FactSource struct {
	pool  *pgxpool.Pool
	index bleve.Index
}

// NewFactSource creates the fact source adapter.
func NewFactSource(pool *pgxpool.Pool, index bleve.Index) *FactSource {
	return &FactSource{pool: pool, index: index}
}

// Compile-time check that FactSource implements Source.
var _ Source = (*FactSource)(nil)

// Type returns the content type this adapter serves.
func (s *FactSource) Type() ContentType {
	return ContentTypeFact
}

// Search executes the fact retrieval plan.
func (s *FactSource) Search(ctx context.Context, q Query) ([]Document, error) {
	var ids []uuid.UUID
	if tq := buildTextQuery(q.Text, factSearchFields); tq != nil {
		matched, err := searchCandidates(ctx, s.index, tq)
		if err != nil {
			return nil, err
		}
		if len(matched) == 0 {
			return nil, nil
		}
		ids = matched
	}

	query := `
		SELECT f.id, f.title, f.short_desc, f.explanation, f.image_url,
			f.view_count, f.created_at,
			c.id, c.name, c.color,
			CASE WHEN $1::uuid IS NULL THEN NULL
				ELSE EXISTS (
					SELECT 1 FROM user_beamed_facts b
					WHERE b.fact_id = f.id AND b.user_id = $1
				)
			END
		FROM facts f
		LEFT JOIN fact_categories c ON c.id = f.category_id
		WHERE f.published`

	args := []any{q.UserID}
	if len(ids) > 0 {
		args = append(args, ids)
		query += fmt.Sprintf(" AND f.id = ANY($%d)", len(args))
	}
	if len(q.CategoryIDs) > 0 {
		args = append(args, q.CategoryIDs)
		query += fmt.Sprintf(" AND f.category_id = ANY($%d)", len(args))
	}
	query += orderClause(q.Sort, "f.title", "f.created_at")

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query facts: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var row FactRow
		var catID *uuid.UUID
		var catName, catColor *string
		if err := rows.Scan(
			&row.ID, &row.Title, &row.ShortDesc, &row.Explanation, &row.ImageURL,
			&row.ViewCount, &row.CreatedAt,
			&catID, &catName, &catColor,
			&row.Beamed,
		); err != nil {
			return nil, fmt.Errorf("scan fact: %w", err)
		}
		row.Category = categoryFromJoin(catID, catName, catColor)
		docs = append(docs, Document{Fact: &row})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read facts: %w", err)
	}
	return docs, nil
}
