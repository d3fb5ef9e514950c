package menu

import (
	"context"

	"foodtruck-ordering/internal/domain"
)

type Repository interface {
	// GetItem returns the item with its attached modifiers regardless of availability.
	GetItem(ctx context.Context, id int64) (*domain.MenuItem, error)
	ListAvailable(ctx context.Context) ([]domain.MenuItem, error)
	UpsertItem(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error)
	UpsertModifier(ctx context.Context, m domain.Modifier) (*domain.Modifier, error)
	AttachModifier(ctx context.Context, itemID int64, m domain.Modifier) error
}
