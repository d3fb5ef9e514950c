package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodtruck-ordering/internal/domain"
	"foodtruck-ordering/internal/feed"
	"foodtruck-ordering/internal/logging"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// PickupLead is how long after placement an order is expected ready.
const PickupLead = 15 * time.Minute

// Input is the checkout form. Card fields are checked for shape only and
// never stored.
type Input struct {
	ContactName   string `json:"contactName" validate:"required,max=100"`
	ContactPhone  string `json:"contactPhone" validate:"required,max=20"`
	ContactEmail  string `json:"contactEmail" validate:"required,max=100,email"`
	PaymentMethod string `json:"paymentMethod" validate:"oneof=Cash Card"`
	CardNumber    string `json:"cardNumber,omitempty" validate:"-"`
	Expiry        string `json:"expiry,omitempty" validate:"-"`
	CVV           string `json:"cvv,omitempty" validate:"-"`
}

type cartStore interface {
	Load(ctx context.Context, token string) (*domain.Cart, error)
	Delete(ctx context.Context, token string) error
}

type catalog interface {
	GetItem(ctx context.Context, id int64) (*domain.MenuItem, error)
}

type orderWriter interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
}

type publisher interface {
	Publish(ev feed.Event)
}

type Service struct {
	carts     cartStore
	catalog   catalog
	orders    orderWriter
	feed      publisher
	logger    *zap.Logger
	validator *validator.Validate
	now       func() time.Time
}

// New builds the service. feed and logger may be nil.
func New(carts cartStore, catalog catalog, orders orderWriter, feed publisher, logger *zap.Logger) *Service {
	return &Service{
		carts:     carts,
		catalog:   catalog,
		orders:    orders,
		feed:      feed,
		logger:    logging.OrNop(logger),
		validator: newValidator(),
		now:       time.Now,
	}
}

// Checkout turns the session cart into a Pending order and empties the
// cart. The order and its items are written together or not at all.
func (s *Service) Checkout(ctx context.Context, actor domain.Actor, token string, in Input) (*domain.Order, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	cart, err := s.carts.Load(ctx, token)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	items := make([]domain.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		if line.Quantity < 1 || line.Quantity > domain.MaxLineQuantity {
			return nil, domain.NewValidationError("quantity", fmt.Sprintf("%s quantity must be between 1 and %d", line.Name, domain.MaxLineQuantity))
		}
		item, err := s.catalog.GetItem(ctx, line.MenuItemID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if item == nil || !item.IsAvailable {
			return nil, fmt.Errorf("%w: %s is no longer available", domain.ErrItemUnavailable, line.Name)
		}
		items = append(items, domain.OrderItem{
			MenuItemID:  line.MenuItemID,
			Name:        line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Notes:       line.Notes,
			ModifierIDs: line.ModifierIDs,
		})
	}

	now := s.now().UTC()
	o := domain.Order{
		ContactName:   in.ContactName,
		ContactPhone:  in.ContactPhone,
		ContactEmail:  in.ContactEmail,
		PaymentMethod: in.PaymentMethod,
		CreatedAt:     now,
		PickupETA:     now.Add(PickupLead),
		Status:        domain.StatusPending,
		Total:         cart.Total(),
		Items:         items,
	}
	if actor.IsAuthenticated() {
		id := actor.ID
		o.CustomerID = &id
	}

	created, err := s.orders.Create(ctx, o)
	if err != nil {
		return nil, err
	}

	if err := s.carts.Delete(ctx, token); err != nil {
		s.logger.Error("checkout: clear cart after order", zap.Int64("order_id", created.ID), zap.Error(err))
	}
	if s.feed != nil {
		s.feed.Publish(feed.NewEvent(feed.EventOrderCreated, created, now))
	}
	s.logger.Info("checkout: order placed",
		zap.Int64("order_id", created.ID),
		zap.String("total", created.Total.StringFixed(2)),
		zap.String("payment", created.PaymentMethod),
		zap.Bool("authenticated", actor.IsAuthenticated()),
	)
	return created, nil
}
