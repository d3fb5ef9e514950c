package order

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"foodtruck-ordering/internal/domain"
	"foodtruck-ordering/internal/feed"
	orderrepo "foodtruck-ordering/internal/repository/order"
	"github.com/shopspring/decimal"
)

type stubRepo struct {
	order       *domain.Order
	getErr      error
	updateErr   error
	lastUpdate  *orderrepo.StatusUpdate
	lastLimit   int
	lastStatus  []domain.OrderStatus
	lastName    string
	lastPhone   string
	lastCust    string
	listResults []domain.Order
}

func (s *stubRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.order == nil || s.order.ID != id {
		return nil, domain.ErrNotFound
	}
	cp := *s.order
	return &cp, nil
}

func (s *stubRepo) UpdateStatus(_ context.Context, in orderrepo.StatusUpdate) (*domain.Order, error) {
	s.lastUpdate = &in
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	cp := *s.order
	cp.Status = in.Status
	if in.CancelReason != nil {
		cp.CancelReason = in.CancelReason
	}
	cp.Version = in.ExpectedVersion + 1
	s.order = &cp
	return &cp, nil
}

func (s *stubRepo) ListByStatuses(_ context.Context, statuses []domain.OrderStatus, limit int) ([]domain.Order, error) {
	s.lastStatus = statuses
	s.lastLimit = limit
	return s.listResults, nil
}

func (s *stubRepo) ListRecent(_ context.Context, limit int) ([]domain.Order, error) {
	s.lastLimit = limit
	return s.listResults, nil
}

func (s *stubRepo) ListByCustomer(_ context.Context, customerID string, limit int) ([]domain.Order, error) {
	s.lastCust = customerID
	s.lastLimit = limit
	return s.listResults, nil
}

func (s *stubRepo) FindByContact(_ context.Context, name, phone string, limit int) ([]domain.Order, error) {
	s.lastName = name
	s.lastPhone = phone
	s.lastLimit = limit
	return s.listResults, nil
}

type stubFeed struct {
	events []feed.Event
}

func (s *stubFeed) Publish(ev feed.Event) {
	s.events = append(s.events, ev)
}

func strPtr(v string) *string {
	return &v
}

func pendingOrder() *domain.Order {
	return &domain.Order{
		ID:           42,
		CustomerID:   strPtr("c1"),
		ContactName:  "Ana",
		ContactPhone: "555-0100",
		Status:       domain.StatusPending,
		Total:        decimal.RequireFromString("9.00"),
		Version:      3,
	}
}

func newService(repo *stubRepo) (*Service, *stubFeed) {
	f := &stubFeed{}
	svc := New(repo, f)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, f
}

func TestTransition_StaffAcceptUsesVersion(t *testing.T) {
	repo := &stubRepo{order: pendingOrder()}
	svc, f := newService(repo)

	got, err := svc.Transition(context.Background(), staff, 42, TransitionInput{Status: "accepted"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.StatusAccepted {
		t.Fatalf("expected Accepted, got %s", got.Status)
	}
	if repo.lastUpdate == nil || repo.lastUpdate.ExpectedVersion != 3 || repo.lastUpdate.CancelReason != nil {
		t.Fatalf("unexpected update %+v", repo.lastUpdate)
	}
	if len(f.events) != 1 || f.events[0].Type != feed.EventOrderStatus || f.events[0].Status != domain.StatusAccepted {
		t.Fatalf("unexpected feed events %+v", f.events)
	}
}

func TestTransition_UnknownStatus(t *testing.T) {
	repo := &stubRepo{order: pendingOrder()}
	svc, _ := newService(repo)
	_, err := svc.Transition(context.Background(), staff, 42, TransitionInput{Status: "Shipped"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if repo.lastUpdate != nil {
		t.Fatalf("expected no write")
	}
}

func TestTransition_NotFound(t *testing.T) {
	svc, _ := newService(&stubRepo{order: pendingOrder()})
	_, err := svc.Transition(context.Background(), staff, 7, TransitionInput{Status: "Accepted"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTransition_SameStatusIsNoop(t *testing.T) {
	o := pendingOrder()
	o.Status = domain.StatusCancelled
	o.CancelReason = strPtr("first")
	repo := &stubRepo{order: o}
	svc, f := newService(repo)

	got, err := svc.Cancel(context.Background(), customer, 42, "again", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastUpdate != nil || len(f.events) != 0 {
		t.Fatalf("expected no write or event on no-op")
	}
	if *got.CancelReason != "first" {
		t.Fatalf("expected reason unchanged, got %q", *got.CancelReason)
	}
}

func TestTransition_TerminalIsImmutable(t *testing.T) {
	o := pendingOrder()
	o.Status = domain.StatusCompleted
	repo := &stubRepo{order: o}
	svc, _ := newService(repo)

	_, err := svc.Transition(context.Background(), staff, 42, TransitionInput{Status: "Cancelled"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if repo.lastUpdate != nil {
		t.Fatalf("expected no write")
	}
}

func TestTransition_StaffCancelStampsReason(t *testing.T) {
	o := pendingOrder()
	o.Status = domain.StatusPreparing
	repo := &stubRepo{order: o}
	svc, _ := newService(repo)

	got, err := svc.Transition(context.Background(), staff, 42, TransitionInput{Status: "Cancelled"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CancelReason == nil || *got.CancelReason != "cancelled by staff s1 at 2024-06-01T12:00:00Z" {
		t.Fatalf("unexpected reason %v", got.CancelReason)
	}
}

func TestTransition_ReasonTooLong(t *testing.T) {
	svc, _ := newService(&stubRepo{order: pendingOrder()})
	_, err := svc.Cancel(context.Background(), staff, 42, strings.Repeat("x", 251), "")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestTransition_ConcurrentWriteConflict(t *testing.T) {
	repo := &stubRepo{order: pendingOrder(), updateErr: domain.ErrConflict}
	svc, f := newService(repo)
	_, err := svc.Transition(context.Background(), staff, 42, TransitionInput{Status: "Accepted"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if len(f.events) != 0 {
		t.Fatalf("expected no event after failed write")
	}
}

func TestCancel_Customer(t *testing.T) {
	cases := []struct {
		name    string
		actor   domain.Actor
		status  domain.OrderStatus
		phone   string
		wantErr error
	}{
		{name: "owner pending", actor: customer, status: domain.StatusPending},
		{name: "owner accepted", actor: customer, status: domain.StatusAccepted},
		{name: "owner preparing", actor: customer, status: domain.StatusPreparing, wantErr: domain.ErrForbidden},
		{name: "other customer", actor: domain.Actor{ID: "c2", Role: domain.RoleCustomer}, status: domain.StatusPending, wantErr: domain.ErrForbidden},
		{name: "anonymous with phone", actor: domain.Anonymous, status: domain.StatusPending, phone: "555-0100"},
		{name: "anonymous wrong phone", actor: domain.Anonymous, status: domain.StatusPending, phone: "555-9999", wantErr: domain.ErrForbidden},
		{name: "anonymous no phone", actor: domain.Anonymous, status: domain.StatusPending, wantErr: domain.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := pendingOrder()
			o.Status = tc.status
			repo := &stubRepo{order: o}
			svc, _ := newService(repo)

			got, err := svc.Cancel(context.Background(), tc.actor, 42, "", tc.phone)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				if repo.lastUpdate != nil {
					t.Fatalf("expected no write")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != domain.StatusCancelled || got.CancelReason == nil {
				t.Fatalf("unexpected order %+v", got)
			}
		})
	}
}

func TestCustomerCannotAdvance(t *testing.T) {
	repo := &stubRepo{order: pendingOrder()}
	svc, _ := newService(repo)
	_, err := svc.Transition(context.Background(), customer, 42, TransitionInput{Status: "Accepted"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestStatusView(t *testing.T) {
	svc, _ := newService(&stubRepo{order: pendingOrder()})
	view, err := svc.Status(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.ID != 42 || view.Status != domain.StatusPending || view.CancelReason != nil {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestLookup(t *testing.T) {
	repo := &stubRepo{listResults: []domain.Order{*pendingOrder()}}
	svc, _ := newService(repo)

	if _, err := svc.Lookup(context.Background(), LookupInput{Name: " ", Phone: ""}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	got, err := svc.Lookup(context.Background(), LookupInput{Name: " Ana ", Phone: "555-0100"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || repo.lastName != "Ana" || repo.lastPhone != "555-0100" || repo.lastLimit != lookupLimit {
		t.Fatalf("unexpected lookup call name=%q phone=%q limit=%d", repo.lastName, repo.lastPhone, repo.lastLimit)
	}
}

func TestQueue(t *testing.T) {
	repo := &stubRepo{}
	svc, _ := newService(repo)

	if _, err := svc.Queue(context.Background(), customer, ""); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Queue(context.Background(), staff, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.lastStatus) != 4 || repo.lastLimit != queueLimit {
		t.Fatalf("expected active statuses, got %v limit=%d", repo.lastStatus, repo.lastLimit)
	}
	if _, err := svc.Queue(context.Background(), staff, "ready"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.lastStatus) != 1 || repo.lastStatus[0] != domain.StatusReady {
		t.Fatalf("expected Ready filter, got %v", repo.lastStatus)
	}
	if _, err := svc.Queue(context.Background(), staff, "bogus"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestHistoryAndRecent(t *testing.T) {
	repo := &stubRepo{}
	svc, _ := newService(repo)

	if _, err := svc.History(context.Background(), domain.Anonymous); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.History(context.Background(), customer); err != nil || repo.lastCust != "c1" {
		t.Fatalf("unexpected history call err=%v cust=%q", err, repo.lastCust)
	}
	if _, err := svc.Recent(context.Background(), customer); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Recent(context.Background(), admin); err != nil || repo.lastLimit != historyLimit {
		t.Fatalf("unexpected recent call err=%v limit=%d", err, repo.lastLimit)
	}
}

func TestDetails(t *testing.T) {
	cases := []struct {
		name    string
		actor   domain.Actor
		phone   string
		wantErr error
	}{
		{name: "staff", actor: domain.Actor{ID: "s1", Role: domain.RoleStaff}},
		{name: "owner", actor: customer},
		{name: "other customer", actor: domain.Actor{ID: "c2", Role: domain.RoleCustomer}, phone: "555-0100", wantErr: domain.ErrForbidden},
		{name: "anonymous with phone", actor: domain.Anonymous, phone: " 555-0100 "},
		{name: "anonymous without phone", actor: domain.Anonymous, wantErr: domain.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newService(&stubRepo{order: pendingOrder()})
			got, err := svc.Details(context.Background(), tc.actor, 42, tc.phone)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != 42 {
				t.Fatalf("unexpected order %+v", got)
			}
		})
	}

	svc, _ := newService(&stubRepo{order: pendingOrder()})
	if _, err := svc.Details(context.Background(), customer, 7, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
