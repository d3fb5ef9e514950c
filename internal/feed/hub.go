package feed

import (
	"encoding/json"
	"sync"
	"time"

	"foodtruck-ordering/internal/domain"
	"foodtruck-ordering/internal/logging"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	EventOrderCreated = "order.created"
	EventOrderStatus  = "order.status"
)

// Event is what staff screens receive when an order appears or moves.
type Event struct {
	Type         string             `json:"type"`
	OrderID      int64              `json:"orderId"`
	Status       domain.OrderStatus `json:"status"`
	ContactName  string             `json:"contactName,omitempty"`
	Total        decimal.Decimal    `json:"total"`
	PickupETA    time.Time          `json:"pickupEta"`
	CancelReason *string            `json:"cancelReason,omitempty"`
	At           time.Time          `json:"at"`
}

func NewEvent(kind string, o *domain.Order, at time.Time) Event {
	return Event{
		Type:         kind,
		OrderID:      o.ID,
		Status:       o.Status,
		ContactName:  o.ContactName,
		Total:        o.Total,
		PickupETA:    o.PickupETA,
		CancelReason: o.CancelReason,
		At:           at.UTC(),
	}
}

// Client is one connected subscriber. Send must not block indefinitely.
type Client interface {
	Send(payload []byte) error
	Close() error
}

// sendBuffer is how many events may queue for one client before it is
// treated as too slow and dropped.
const sendBuffer = 16

type subscriber struct {
	client Client
	send   chan []byte
}

type Hub struct {
	mu      sync.Mutex
	clients map[Client]*subscriber
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{clients: make(map[Client]*subscriber), logger: logging.OrNop(logger)}
}

// Subscribe registers c and returns a func that removes it. Each client gets
// its own writer goroutine so Publish never waits on a socket.
func (h *Hub) Subscribe(c Client) func() {
	sub := &subscriber{client: c, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		h.mu.Unlock()
		return func() { h.drop(c) }
	}
	h.clients[c] = sub
	n := len(h.clients)
	h.mu.Unlock()

	go h.writeLoop(sub)
	h.logger.Debug("feed: subscribed", zap.Int("clients", n))
	return func() { h.drop(c) }
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish queues the event for every client and returns without waiting for
// delivery. Clients whose queue is full are dropped.
func (h *Hub) Publish(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("feed: encode event", zap.String("type", ev.Type), zap.Error(err))
		return
	}

	var slow []Client
	h.mu.Lock()
	for c, sub := range h.clients {
		select {
		case sub.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()

	for _, c := range slow {
		h.logger.Warn("feed: dropping slow client", zap.String("type", ev.Type))
		h.drop(c)
	}
}

func (h *Hub) writeLoop(sub *subscriber) {
	for payload := range sub.send {
		if err := sub.client.Send(payload); err != nil {
			h.logger.Warn("feed: dropping client", zap.Error(err))
			h.drop(sub.client)
			return
		}
	}
}

func (h *Hub) drop(c Client) {
	h.mu.Lock()
	sub, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(sub.send)
	}
	h.mu.Unlock()
	if ok {
		_ = c.Close()
	}
}
