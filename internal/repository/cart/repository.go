package cart

import (
	"context"

	"foodtruck-ordering/internal/domain"
)

// Store keeps one cart per session token. Saves replace the whole cart.
type Store interface {
	// Load returns an empty cart when nothing is stored for the token.
	Load(ctx context.Context, token string) (*domain.Cart, error)
	Save(ctx context.Context, token string, cart *domain.Cart) error
	Delete(ctx context.Context, token string) error
}
