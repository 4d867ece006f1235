package repository

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Searchable index fields for daily topics.
var topicSearchFields = []string{"title", "summary", "tags"}

// TopicSource retrieves daily long-form topics. Completion is tracked as a
// topic_completions row for the user.
type TopicSource struct {
	pool  *pgxpool.Pool
	index bleve.Index
}

// NewTopicSource creates the topic source adapter.
func NewTopicSource(pool *pgxpool.Pool, index bleve.Index) *TopicSource {
	return &TopicSource{pool: pool, index: index}
}

// Compile-time check that TopicSource implements Source.
var _ Source = (*TopicSource)(nil)

// Type returns the content type this adapter serves.
func (s *TopicSource) Type() ContentType {
	return ContentTypeTopic
}

// Search executes the topic retrieval plan.
func (s *TopicSource) Search(ctx context.Context, q Query) ([]Document, error) {
	var ids []uuid.UUID
	if tq := buildTextQuery(q.Text, topicSearchFields); tq != nil {
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
		SELECT t.id, t.title, t.summary, t.tags, t.thumbnail_url,
			t.view_count, t.publish_date,
			c.id, c.name, c.color,
			CASE WHEN $1::uuid IS NULL THEN NULL
				ELSE EXISTS (
					SELECT 1 FROM topic_completions tc
					WHERE tc.topic_id = t.id AND tc.user_id = $1
				)
			END
		FROM topics t
		LEFT JOIN topic_categories c ON c.id = t.category_id
		WHERE t.published`

	args := []any{q.UserID}
	if len(ids) > 0 {
		args = append(args, ids)
		query += fmt.Sprintf(" AND t.id = ANY($%d)", len(args))
	}
	if len(q.CategoryIDs) > 0 {
		args = append(args, q.CategoryIDs)
		query += fmt.Sprintf(" AND t.category_id = ANY($%d)", len(args))
	}
	query += orderClause(q.Sort, "t.title", "t.publish_date")

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var row TopicRow
		var catID *uuid.UUID
		var catName, catColor *string
		if err := rows.Scan(
			&row.ID, &row.Title, &row.Summary, &row.Tags, &row.ThumbnailURL,
			&row.ViewCount, &row.PublishDate,
			&catID, &catName, &catColor,
			&row.Beamed,
		); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		row.Category = categoryFromJoin(catID, catName, catColor)
		docs = append(docs, Document{Topic: &row})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read topics: %w", err)
	}
	return docs, nil
}
