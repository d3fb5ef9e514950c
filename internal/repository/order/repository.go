package order

import (
	"context"

	"foodtruck-ordering/internal/domain"
)

// StatusUpdate is a conditional write guarded by the order version.
type StatusUpdate struct {
	ID              int64
	ExpectedVersion int
	Status          domain.OrderStatus
	CancelReason    *string
}

type Repository interface {
	// Create persists the order with its items in one transaction and
	// returns it with ids assigned.
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// UpdateStatus returns domain.ErrConflict when the version moved on.
	UpdateStatus(ctx context.Context, in StatusUpdate) (*domain.Order, error)
	ListByStatuses(ctx context.Context, statuses []domain.OrderStatus, limit int) ([]domain.Order, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error)
	FindByContact(ctx context.Context, name, phone string, limit int) ([]domain.Order, error)
}
