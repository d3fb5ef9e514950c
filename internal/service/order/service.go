package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"foodtruck-ordering/internal/domain"
	"foodtruck-ordering/internal/feed"
	orderrepo "foodtruck-ordering/internal/repository/order"
)

const (
	queueLimit   = 50
	historyLimit = 100
	lookupLimit  = 20
	maxReasonLen = 250
)

var activeStatuses = []domain.OrderStatus{
	domain.StatusPending,
	domain.StatusAccepted,
	domain.StatusPreparing,
	domain.StatusReady,
}

type orderRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, in orderrepo.StatusUpdate) (*domain.Order, error)
	ListByStatuses(ctx context.Context, statuses []domain.OrderStatus, limit int) ([]domain.Order, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error)
	FindByContact(ctx context.Context, name, phone string, limit int) ([]domain.Order, error)
}

type publisher interface {
	Publish(ev feed.Event)
}

type Service struct {
	repo orderRepo
	feed publisher
	now  func() time.Time
}

// New builds the service. feed may be nil.
func New(repo orderRepo, feed publisher) *Service {
	return &Service{repo: repo, feed: feed, now: time.Now}
}

type TransitionInput struct {
	Status       string `json:"status"`
	CancelReason string `json:"cancelReason,omitempty"`
	// ContactPhone proves ownership for anonymous cancellations.
	ContactPhone string `json:"contactPhone,omitempty"`
}

type LookupInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Status(ctx context.Context, id int64) (domain.OrderStatusView, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.OrderStatusView{}, err
	}
	return o.StatusView(), nil
}

// Details returns the full order when actor may see it. Anonymous callers
// prove ownership with the contact phone used at checkout.
func (s *Service) Details(ctx context.Context, actor domain.Actor, id int64, contactPhone string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(actor, o, contactPhone); err != nil {
		return nil, err
	}
	return o, nil
}

// Transition moves an order to the requested status on behalf of actor.
// The write is conditional on the version read, so a concurrent change
// surfaces as domain.ErrConflict.
func (s *Service) Transition(ctx context.Context, actor domain.Actor, id int64, in TransitionInput) (*domain.Order, error) {
	next, err := domain.ParseOrderStatus(in.Status)
	if err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(in.CancelReason)
	if len(reason) > maxReasonLen {
		return nil, domain.NewValidationError("cancelReason", fmt.Sprintf("must be at most %d characters", maxReasonLen))
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(actor, current, in.ContactPhone); err != nil {
		return nil, err
	}
	if err := CheckTransition(actor, current.Status, next); err != nil {
		return nil, err
	}
	if current.Status == next {
		return current, nil
	}

	now := s.now()
	updated, err := s.repo.UpdateStatus(ctx, orderrepo.StatusUpdate{
		ID:              id,
		ExpectedVersion: current.Version,
		Status:          next,
		CancelReason:    stampReason(actor, next, reason, now),
	})
	if err != nil {
		return nil, err
	}
	updated.Items = current.Items
	if s.feed != nil {
		s.feed.Publish(feed.NewEvent(feed.EventOrderStatus, updated, now))
	}
	return updated, nil
}

// Cancel is Transition to Cancelled.
func (s *Service) Cancel(ctx context.Context, actor domain.Actor, id int64, reason, contactPhone string) (*domain.Order, error) {
	return s.Transition(ctx, actor, id, TransitionInput{
		Status:       string(domain.StatusCancelled),
		CancelReason: reason,
		ContactPhone: contactPhone,
	})
}

// Lookup finds orders by contact name (any case) and exact phone.
func (s *Service) Lookup(ctx context.Context, in LookupInput) ([]domain.Order, error) {
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	verr := &domain.ValidationError{}
	if name == "" {
		verr.Add("name", "name required")
	}
	if phone == "" {
		verr.Add("phone", "phone required")
	}
	if !verr.Empty() {
		return nil, verr
	}
	return s.repo.FindByContact(ctx, name, phone, lookupLimit)
}

func (s *Service) History(ctx context.Context, actor domain.Actor) ([]domain.Order, error) {
	if !actor.IsAuthenticated() {
		return nil, domain.ErrUnauthorized
	}
	return s.repo.ListByCustomer(ctx, actor.ID, historyLimit)
}

// Queue lists orders for the kitchen, oldest first. With no filter it
// shows every order still in progress.
func (s *Service) Queue(ctx context.Context, actor domain.Actor, status string) ([]domain.Order, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	statuses := activeStatuses
	if strings.TrimSpace(status) != "" {
		st, err := domain.ParseOrderStatus(status)
		if err != nil {
			return nil, err
		}
		statuses = []domain.OrderStatus{st}
	}
	return s.repo.ListByStatuses(ctx, statuses, queueLimit)
}

func (s *Service) Recent(ctx context.Context, actor domain.Actor) ([]domain.Order, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListRecent(ctx, historyLimit)
}

func checkOwnership(actor domain.Actor, o *domain.Order, contactPhone string) error {
	switch {
	case actor.IsStaff():
		return nil
	case actor.IsAuthenticated():
		if o.CustomerID != nil && *o.CustomerID == actor.ID {
			return nil
		}
		if o.CustomerID == nil && phoneMatches(o, contactPhone) {
			return nil
		}
	default:
		if phoneMatches(o, contactPhone) {
			return nil
		}
	}
	return fmt.Errorf("%w: order %d does not belong to the caller", domain.ErrForbidden, o.ID)
}

func phoneMatches(o *domain.Order, phone string) bool {
	phone = strings.TrimSpace(phone)
	return phone != "" && phone == o.ContactPhone
}
