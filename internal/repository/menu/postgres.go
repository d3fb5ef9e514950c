package menu

import (
	"context"
	"errors"

	"foodtruck-ordering/internal/domain"
	"foodtruck-ordering/internal/logging"
	"github.com/jackc/pgx/v5"
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

func (r *postgresRepo) GetItem(ctx context.Context, id int64) (*domain.MenuItem, error) {
	const q = `
SELECT id, menu_category_id, name, COALESCE(description, ''), price, is_available
FROM menu_items
WHERE id = $1
`
	var item domain.MenuItem
	err := r.pool.QueryRow(ctx, q, id).Scan(&item.ID, &item.CategoryID, &item.Name, &item.Description, &item.Price, &item.IsAvailable)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("menu repo: get item not found", zap.Int64("id", id))
			return nil, domain.ErrNotFound
		}
		r.logger.Error("menu repo: get item", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	mods, err := r.modifiersFor(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	item.Modifiers = mods[id]
	r.logger.Debug("menu repo: get item", zap.Int64("id", id), zap.Int("modifiers", len(item.Modifiers)))
	return &item, nil
}

func (r *postgresRepo) ListAvailable(ctx context.Context) ([]domain.MenuItem, error) {
	const q = `
SELECT id, menu_category_id, name, COALESCE(description, ''), price, is_available
FROM menu_items
WHERE is_available
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("menu repo: list available", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var (
		result []domain.MenuItem
		ids    []int64
	)
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.CategoryID, &item.Name, &item.Description, &item.Price, &item.IsAvailable); err != nil {
			return nil, err
		}
		result = append(result, item)
		ids = append(ids, item.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	mods, err := r.modifiersFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Modifiers = mods[result[i].ID]
	}
	r.logger.Debug("menu repo: list available", zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) modifiersFor(ctx context.Context, itemIDs []int64) (map[int64][]domain.Modifier, error) {
	out := make(map[int64][]domain.Modifier, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	const q = `
SELECT mim.menu_item_id, m.id, m.name, COALESCE(m.type, ''), m.price_delta, mim.min_selections, mim.max_selections
FROM menu_item_modifiers mim
JOIN modifiers m ON m.id = mim.modifier_id
WHERE mim.menu_item_id = ANY($1)
ORDER BY m.name ASC
`
	rows, err := r.pool.Query(ctx, q, itemIDs)
	if err != nil {
		r.logger.Error("menu repo: modifiers", zap.Int("items", len(itemIDs)), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			itemID int64
			m      domain.Modifier
		)
		if err := rows.Scan(&itemID, &m.ID, &m.Name, &m.Type, &m.PriceDelta, &m.MinSelections, &m.MaxSelections); err != nil {
			return nil, err
		}
		out[itemID] = append(out[itemID], m)
	}
	return out, rows.Err()
}

// UpsertItem inserts or updates an item keyed by (category, name).
func (r *postgresRepo) UpsertItem(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	const q = `
INSERT INTO menu_items (menu_category_id, name, description, price, is_available)
VALUES ($1, $2, NULLIF($3, ''), $4, $5)
ON CONFLICT (menu_category_id, name) DO UPDATE
SET description = EXCLUDED.description,
    price = EXCLUDED.price,
    is_available = EXCLUDED.is_available
RETURNING id
`
	res := item
	err := r.pool.QueryRow(ctx, q, item.CategoryID, item.Name, item.Description, item.Price, item.IsAvailable).Scan(&res.ID)
	if err != nil {
		r.logger.Error("menu repo: upsert item", zap.String("name", item.Name), zap.Int64("category_id", item.CategoryID), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("menu repo: upserted item", zap.String("name", res.Name), zap.Int64("id", res.ID))
	return &res, nil
}

func (r *postgresRepo) UpsertModifier(ctx context.Context, m domain.Modifier) (*domain.Modifier, error) {
	const q = `
INSERT INTO modifiers (name, type, price_delta)
VALUES ($1, NULLIF($2, ''), $3)
ON CONFLICT (name) DO UPDATE
SET type = EXCLUDED.type,
    price_delta = EXCLUDED.price_delta
RETURNING id
`
	res := m
	if err := r.pool.QueryRow(ctx, q, m.Name, m.Type, m.PriceDelta).Scan(&res.ID); err != nil {
		r.logger.Error("menu repo: upsert modifier", zap.String("name", m.Name), zap.Error(err))
		return nil, err
	}
	return &res, nil
}

func (r *postgresRepo) AttachModifier(ctx context.Context, itemID int64, m domain.Modifier) error {
	const q = `
INSERT INTO menu_item_modifiers (menu_item_id, modifier_id, min_selections, max_selections)
VALUES ($1, $2, $3, $4)
ON CONFLICT (menu_item_id, modifier_id) DO UPDATE
SET min_selections = EXCLUDED.min_selections,
    max_selections = EXCLUDED.max_selections
`
	if _, err := r.pool.Exec(ctx, q, itemID, m.ID, m.MinSelections, m.MaxSelections); err != nil {
		r.logger.Error("menu repo: attach modifier", zap.Int64("item_id", itemID), zap.Int64("modifier_id", m.ID), zap.Error(err))
		return err
	}
	return nil
}
