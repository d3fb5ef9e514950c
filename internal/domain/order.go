package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusAccepted  OrderStatus = "Accepted"
	StatusPreparing OrderStatus = "Preparing"
	StatusReady     OrderStatus = "Ready"
	StatusCompleted OrderStatus = "Completed"
	StatusCancelled OrderStatus = "Cancelled"
	StatusRejected  OrderStatus = "Rejected"
)

var orderStatuses = []OrderStatus{
	StatusPending,
	StatusAccepted,
	StatusPreparing,
	StatusReady,
	StatusCompleted,
	StatusCancelled,
	StatusRejected,
}

// OrderStatuses lists every status in lifecycle order.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

// ParseOrderStatus accepts any casing of a known status name.
func ParseOrderStatus(s string) (OrderStatus, error) {
	s = strings.TrimSpace(s)
	for _, st := range orderStatuses {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", NewValidationError("status", fmt.Sprintf("unknown order status %q", s))
}

func (s OrderStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// NeedsReason reports whether landing on s records a cancel reason.
func (s OrderStatus) NeedsReason() bool {
	return s == StatusCancelled || s == StatusRejected
}

const (
	PaymentCash = "Cash"
	PaymentCard = "Card"
)

type Order struct {
	ID            int64           `json:"id"`
	CustomerID    *string         `json:"customerId,omitempty"`
	ContactName   string          `json:"contactName"`
	ContactPhone  string          `json:"contactPhone"`
	ContactEmail  string          `json:"contactEmail"`
	PaymentMethod string          `json:"paymentMethod"`
	CreatedAt     time.Time       `json:"createdAt"`
	PickupETA     time.Time       `json:"pickupEta"`
	Status        OrderStatus     `json:"status"`
	Total         decimal.Decimal `json:"total"`
	CancelReason  *string         `json:"cancelReason,omitempty"`
	Version       int             `json:"version"`
	Items         []OrderItem     `json:"items,omitempty"`
}

type OrderItem struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"orderId"`
	MenuItemID  int64           `json:"menuItemId"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Notes       string          `json:"notes,omitempty"`
	ModifierIDs []int64         `json:"modifierIds,omitempty"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderStatusView is the polling projection of an order.
type OrderStatusView struct {
	ID           int64       `json:"id"`
	Status       OrderStatus `json:"status"`
	PickupETA    time.Time   `json:"pickupEta"`
	CancelReason *string     `json:"cancelReason"`
}

func (o *Order) StatusView() OrderStatusView {
	return OrderStatusView{
		ID:           o.ID,
		Status:       o.Status,
		PickupETA:    o.PickupETA,
		CancelReason: o.CancelReason,
	}
}
