package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodtruck-ordering/internal/domain"
	cartrepo "foodtruck-ordering/internal/repository/cart"
)

type Service struct {
	store   cartrepo.Store
	catalog catalog
}

type catalog interface {
	GetItem(ctx context.Context, id int64) (*domain.MenuItem, error)
}

func New(store cartrepo.Store, catalog catalog) *Service {
	return &Service{store: store, catalog: catalog}
}

type AddInput struct {
	MenuItemID  int64   `json:"menuItemId"`
	Quantity    int     `json:"quantity"`
	Notes       string  `json:"notes,omitempty"`
	ModifierIDs []int64 `json:"modifierIds,omitempty"`
}

func (s *Service) Get(ctx context.Context, token string) (*domain.Cart, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("session token required")
	}
	return s.store.Load(ctx, token)
}

// Add prices the item with its modifiers and merges it into an equivalent
// line when one exists. An existing line keeps its original unit price.
func (s *Service) Add(ctx context.Context, token string, in AddInput) (*domain.Cart, error) {
	cart, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	qty := in.Quantity
	if qty <= 0 {
		qty = 1
	}
	if qty > domain.MaxLineQuantity {
		return nil, quantityError()
	}

	item, err := s.catalog.GetItem(ctx, in.MenuItemID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if item == nil || !item.IsAvailable {
		return nil, fmt.Errorf("%w: menu item %d", domain.ErrItemUnavailable, in.MenuItemID)
	}

	modIDs := domain.NormalizeModifierIDs(in.ModifierIDs)
	unitPrice := item.Price
	summary := make([]string, 0, len(modIDs))
	for _, id := range modIDs {
		mod, ok := item.Modifier(id)
		if !ok {
			return nil, fmt.Errorf("%w: modifier %d is not offered for %s", domain.ErrInvalidModifiers, id, item.Name)
		}
		unitPrice = unitPrice.Add(mod.PriceDelta)
		summary = append(summary, fmt.Sprintf("%s (%s)", mod.Name, domain.FormatDelta(mod.PriceDelta)))
	}

	notes := domain.NormalizeNotes(in.Notes)
	merged := false
	for i := range cart.Lines {
		if cart.Lines[i].Matches(item.ID, notes, modIDs) {
			if cart.Lines[i].Quantity > domain.MaxLineQuantity-qty {
				return nil, quantityError()
			}
			cart.Lines[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		cart.Lines = append(cart.Lines, domain.CartLine{
			MenuItemID:      item.ID,
			Name:            item.Name,
			UnitPrice:       unitPrice.Round(2),
			Quantity:        qty,
			Notes:           notes,
			ModifierIDs:     modIDs,
			ModifierSummary: strings.Join(summary, ", "),
		})
	}

	if err := s.store.Save(ctx, token, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets the line quantity; zero or less removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, token string, index, quantity int) (*domain.Cart, error) {
	cart, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := checkIndex(cart, index); err != nil {
		return nil, err
	}
	if quantity > domain.MaxLineQuantity {
		return nil, quantityError()
	}
	if quantity <= 0 {
		cart.Lines = append(cart.Lines[:index], cart.Lines[index+1:]...)
	} else {
		cart.Lines[index].Quantity = quantity
	}
	if err := s.store.Save(ctx, token, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Service) Remove(ctx context.Context, token string, index int) (*domain.Cart, error) {
	return s.UpdateQuantity(ctx, token, index, 0)
}

func (s *Service) Clear(ctx context.Context, token string) (*domain.Cart, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("session token required")
	}
	if err := s.store.Delete(ctx, token); err != nil {
		return nil, err
	}
	return &domain.Cart{}, nil
}

func quantityError() error {
	return domain.NewValidationError("quantity", fmt.Sprintf("must be at most %d per line", domain.MaxLineQuantity))
}

func checkIndex(cart *domain.Cart, index int) error {
	if index < 0 || index >= len(cart.Lines) {
		return fmt.Errorf("%w: index %d, cart has %d lines", domain.ErrIndexOutOfRange, index, len(cart.Lines))
	}
	return nil
}
