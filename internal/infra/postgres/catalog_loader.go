package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"probability-quiz-service/internal/domain"
)

// CatalogLoader loads a catalog and its ordered questions from Postgres.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context, catalogID string) (domain.Catalog, error) {
	catalog := domain.Catalog{ID: catalogID}
	err := l.pool.QueryRow(ctx, `SELECT title FROM catalogs WHERE id=$1`, catalogID).Scan(&catalog.Title)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Catalog{}, domain.ErrCatalogNotFound
	}
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}

	rows, err := l.pool.Query(ctx, `
		SELECT id, category, prompt, options, correct_answer, explanation
		FROM questions
		WHERE catalog_id=$1
		ORDER BY position`, catalogID)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Category, &q.Prompt, &q.Options, &q.CorrectAnswer, &q.Explanation); err != nil {
			return domain.Catalog{}, fmt.Errorf("scan question: %w", err)
		}
		catalog.Questions = append(catalog.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return domain.Catalog{}, fmt.Errorf("load questions: %w", err)
	}
	if err := catalog.Validate(); err != nil {
		return domain.Catalog{}, err
	}
	return catalog, nil
}
