package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepo lists categories across the three per-type category stores.
type CategoryRepo struct {
	pool *pgxpool.Pool
}

// NewCategoryRepo creates the category repository.
func NewCategoryRepo(pool *pgxpool.Pool) *CategoryRepo {
	return &CategoryRepo{pool: pool}
}

// Compile-time check that CategoryRepo implements CategoryReader.
var _ CategoryReader = (*CategoryRepo)(nil)

// ListCategories returns all categories, deduplicated by name across
// content types. When the same name exists for several types, the row with
// the lowest id wins so repeated calls return the same representative.
func (r *CategoryRepo) ListCategories(ctx context.Context) ([]CategoryRow, error) {
	query := `
		SELECT DISTINCT ON (name) id, name, color
		FROM (
			SELECT id, name, color FROM fact_categories
			UNION ALL
			SELECT id, name, color FROM topic_categories
			UNION ALL
			SELECT id, name, color FROM game_categories
		) AS all_categories
		ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []CategoryRow
	for rows.Next() {
		var row CategoryRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}
	return categories, nil
}
