package order

import (
	"context"
	"errors"
	"fmt"

	"foodtruck-ordering/internal/domain"
	"foodtruck-ordering/internal/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const orderColumns = `id, customer_id, contact_name, contact_phone, contact_email, payment_method, created_at, pickup_eta, status, total, cancel_reason, version`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger)}
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	out := o
	err = tx.QueryRow(ctx, `
INSERT INTO orders (customer_id, contact_name, contact_phone, contact_email, payment_method, created_at, pickup_eta, status, total, version)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1)
RETURNING id, version
`, o.CustomerID, o.ContactName, o.ContactPhone, o.ContactEmail, o.PaymentMethod, o.CreatedAt, o.PickupETA, string(o.Status), o.Total).
		Scan(&out.ID, &out.Version)
	if err != nil {
		r.logger.Error("order repo: insert order", zap.String("contact", o.ContactName), zap.Error(err))
		return nil, err
	}

	out.Items = make([]domain.OrderItem, len(o.Items))
	for i, item := range o.Items {
		item.OrderID = out.ID
		err := tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, menu_item_id, name, quantity, unit_price, notes)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
RETURNING id
`, out.ID, item.MenuItemID, item.Name, item.Quantity, item.UnitPrice, item.Notes).Scan(&item.ID)
		if err != nil {
			r.logger.Error("order repo: insert item", zap.Int64("order_id", out.ID), zap.Int64("menu_item_id", item.MenuItemID), zap.Error(err))
			return nil, err
		}
		for _, modID := range item.ModifierIDs {
			if _, err := tx.Exec(ctx, `
INSERT INTO order_item_modifiers (order_item_id, modifier_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`, item.ID, modID); err != nil {
				r.logger.Error("order repo: insert item modifier", zap.Int64("order_item_id", item.ID), zap.Int64("modifier_id", modID), zap.Error(err))
				return nil, err
			}
		}
		out.Items[i] = item
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Info("order repo: created", zap.Int64("id", out.ID), zap.Int("items", len(out.Items)), zap.String("total", out.Total.StringFixed(2)))
	return &out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("order repo: get not found", zap.Int64("id", id))
			return nil, domain.ErrNotFound
		}
		r.logger.Error("order repo: get", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	items, err := r.itemsFor(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *postgresRepo) itemsFor(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	const q = `
SELECT oi.id, oi.order_id, oi.menu_item_id, oi.name, oi.quantity, oi.unit_price, COALESCE(oi.notes, ''),
       COALESCE(array_agg(oim.modifier_id ORDER BY oim.modifier_id) FILTER (WHERE oim.modifier_id IS NOT NULL), '{}')
FROM order_items oi
LEFT JOIN order_item_modifiers oim ON oim.order_item_id = oi.id
WHERE oi.order_id = $1
GROUP BY oi.id
ORDER BY oi.id ASC
`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		r.logger.Error("order repo: items", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Name, &it.Quantity, &it.UnitPrice, &it.Notes, &it.ModifierIDs); err != nil {
			return nil, err
		}
		if len(it.ModifierIDs) == 0 {
			it.ModifierIDs = nil
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, in StatusUpdate) (*domain.Order, error) {
	const q = `
UPDATE orders
SET status = $1,
    cancel_reason = COALESCE($2, cancel_reason),
    version = version + 1
WHERE id = $3 AND version = $4
RETURNING ` + orderColumns
	o, err := scanOrder(r.pool.QueryRow(ctx, q, string(in.Status), in.CancelReason, in.ID, in.ExpectedVersion))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.logger.Error("order repo: update status", zap.Int64("id", in.ID), zap.Error(err))
			return nil, err
		}
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, in.ID).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.ErrNotFound
		}
		r.logger.Warn("order repo: version conflict", zap.Int64("id", in.ID), zap.Int("expected_version", in.ExpectedVersion))
		return nil, fmt.Errorf("%w: order %d was modified concurrently", domain.ErrConflict, in.ID)
	}
	r.logger.Info("order repo: status updated", zap.Int64("id", o.ID), zap.String("status", string(o.Status)), zap.Int("version", o.Version))
	return o, nil
}

func (r *postgresRepo) ListByStatuses(ctx context.Context, statuses []domain.OrderStatus, limit int) ([]domain.Order, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return r.list(ctx, "by_statuses", `
SELECT `+orderColumns+`
FROM orders
WHERE status = ANY($1)
ORDER BY created_at ASC, id ASC
LIMIT $2
`, names, limit)
}

func (r *postgresRepo) ListRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	return r.list(ctx, "recent", `
SELECT `+orderColumns+`
FROM orders
ORDER BY created_at DESC, id DESC
LIMIT $1
`, limit)
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error) {
	return r.list(ctx, "by_customer", `
SELECT `+orderColumns+`
FROM orders
WHERE customer_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`, customerID, limit)
}

func (r *postgresRepo) FindByContact(ctx context.Context, name, phone string, limit int) ([]domain.Order, error) {
	return r.list(ctx, "by_contact", `
SELECT `+orderColumns+`
FROM orders
WHERE LOWER(contact_name) = LOWER($1) AND contact_phone = $2
ORDER BY created_at DESC, id DESC
LIMIT $3
`, name, phone, limit)
}

func (r *postgresRepo) list(ctx context.Context, op, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error("order repo: list", zap.String("op", op), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Debug("order repo: list", zap.String("op", op), zap.Int("count", len(result)))
	return result, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	if err := row.Scan(
		&o.ID,
		&o.CustomerID,
		&o.ContactName,
		&o.ContactPhone,
		&o.ContactEmail,
		&o.PaymentMethod,
		&o.CreatedAt,
		&o.PickupETA,
		&status,
		&o.Total,
		&o.CancelReason,
		&o.Version,
	); err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	o.CreatedAt = o.CreatedAt.UTC()
	o.PickupETA = o.PickupETA.UTC()
	return &o, nil
}
