package category

import (
	"context"

	"foodtruck-ordering/internal/domain"
	"foodtruck-ordering/internal/logging"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger)}
}

// List returns every category flat, ordered for display.
func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT id, name, COALESCE(description, ''), display_order, parent_category_id
FROM menu_categories
ORDER BY display_order ASC, name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("category repo: list", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.DisplayOrder, &c.ParentID); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Debug("category repo: list", zap.Int("count", len(result)))
	return result, nil
}

// Upsert inserts a category or updates the one with the same name.
func (r *postgresRepo) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO menu_categories (name, description, display_order, parent_category_id)
VALUES ($1, NULLIF($2, ''), $3, $4)
ON CONFLICT (name) DO UPDATE
SET description = COALESCE(NULLIF(EXCLUDED.description, ''), menu_categories.description),
    display_order = EXCLUDED.display_order,
    parent_category_id = COALESCE(EXCLUDED.parent_category_id, menu_categories.parent_category_id)
RETURNING id, COALESCE(description, ''), parent_category_id
`
	out := c
	err := r.pool.QueryRow(ctx, q, c.Name, c.Description, c.DisplayOrder, c.ParentID).
		Scan(&out.ID, &out.Description, &out.ParentID)
	if err != nil {
		r.logger.Error("category repo: upsert", zap.String("name", c.Name), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("category repo: upserted", zap.String("name", out.Name), zap.Int64("id", out.ID))
	return &out, nil
}
