package order

import (
	"fmt"
	"slices"
	"time"

	"foodtruck-ordering/internal/domain"
)

// allowedTransitions lists the staff edges. Terminal states have none.
var allowedTransitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.StatusPending:   {domain.StatusAccepted, domain.StatusCancelled, domain.StatusRejected},
	domain.StatusAccepted:  {domain.StatusPreparing, domain.StatusCancelled},
	domain.StatusPreparing: {domain.StatusReady, domain.StatusCancelled},
	domain.StatusReady:     {domain.StatusCompleted, domain.StatusCancelled},
}

// customerCancellable are the states a customer may still cancel from.
var customerCancellable = []domain.OrderStatus{domain.StatusPending, domain.StatusAccepted}

// CheckTransition decides whether actor may move an order from current to
// next. Moving to the current state is always allowed and changes nothing.
func CheckTransition(actor domain.Actor, current, next domain.OrderStatus) error {
	if current == next {
		return nil
	}
	if !actor.IsStaff() {
		if next == domain.StatusCancelled && slices.Contains(customerCancellable, current) {
			return nil
		}
		return fmt.Errorf("%w: customers may only cancel pending or accepted orders", domain.ErrForbidden)
	}
	if slices.Contains(allowedTransitions[current], next) {
		return nil
	}
	return fmt.Errorf("%w: cannot move order from %s to %s", domain.ErrConflict, current, next)
}

// AllowedNext returns the statuses actor may move an order in current to.
func AllowedNext(actor domain.Actor, current domain.OrderStatus) []domain.OrderStatus {
	var out []domain.OrderStatus
	for _, next := range domain.OrderStatuses() {
		if next != current && CheckTransition(actor, current, next) == nil {
			out = append(out, next)
		}
	}
	return out
}

// stampReason fills in a reason when an order lands on a cancel-like state
// without one.
func stampReason(actor domain.Actor, next domain.OrderStatus, reason string, at time.Time) *string {
	if !next.NeedsReason() {
		return nil
	}
	if reason != "" {
		return &reason
	}
	who := string(actor.Role)
	if actor.ID != "" {
		who += " " + actor.ID
	}
	generated := fmt.Sprintf("%s by %s at %s", lowerStatus(next), who, at.UTC().Format(time.RFC3339))
	return &generated
}

func lowerStatus(s domain.OrderStatus) string {
	switch s {
	case domain.StatusCancelled:
		return "cancelled"
	case domain.StatusRejected:
		return "rejected"
	}
	return string(s)
}
