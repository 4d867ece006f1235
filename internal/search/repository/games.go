package repository

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Searchable index fields for puzzle games.
var gameSearchFields = []string{"title"}

// GameSource retrieves connection puzzle games. Completion is tracked as a
// game_completions row with completed = true; an in-progress row does not
// count.
type GameSource struct {
	pool  *pgxpool.Pool
	index bleve.Index
}

// NewGameSource creates the game source adapter.
func NewGameSource(pool *pgxpool.Pool, index bleve.Index) *GameSource {
	return &GameSource{pool: pool, index: index}
}

// Compile-time check that GameSource implements Source.
var _ Source = (*GameSource)(nil)

// Type returns the content type this adapter serves.
func (s *GameSource) Type() ContentType {
	return ContentTypeGame
}

// Search executes the game retrieval plan.
func (s *GameSource) Search(ctx context.Context, q Query) ([]Document, error) {
	var ids []uuid.UUID
	if tq := buildTextQuery(q.Text, gameSearchFields); tq != nil {
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
		SELECT g.id, g.title, g.thumbnail_url, g.solve_count, g.created_at,
			c.id, c.name, c.color,
			CASE WHEN $1::uuid IS NULL THEN NULL
				ELSE EXISTS (
					SELECT 1 FROM game_completions gc
					WHERE gc.game_id = g.id AND gc.user_id = $1 AND gc.completed
				)
			END
		FROM games g
		LEFT JOIN game_categories c ON c.id = g.category_id
		WHERE g.published`

	args := []any{q.UserID}
	if len(ids) > 0 {
		args = append(args, ids)
		query += fmt.Sprintf(" AND g.id = ANY($%d)", len(args))
	}
	if len(q.CategoryIDs) > 0 {
		args = append(args, q.CategoryIDs)
		query += fmt.Sprintf(" AND g.category_id = ANY($%d)", len(args))
	}
	query += orderClause(q.Sort, "g.title", "g.created_at")

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var row GameRow
		var catID *uuid.UUID
		var catName, catColor *string
		if err := rows.Scan(
			&row.ID, &row.Title, &row.ThumbnailURL, &row.SolveCount, &row.CreatedAt,
			&catID, &catName, &catColor,
			&row.Beamed,
		); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		row.Category = categoryFromJoin(catID, catName, catColor)
		docs = append(docs, Document{Game: &row})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read games: %w", err)
	}
	return docs, nil
}
