package feed

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"foodtruck-ordering/internal/domain"
	"github.com/shopspring/decimal"
)

type fakeClient struct {
	mu      sync.Mutex
	got     [][]byte
	sendErr error
	closed  bool
	block   chan struct{}
}

func (f *fakeClient) Send(p []byte) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.got = append(f.got, p)
	return nil
}

func (f *fakeClient) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeClient) received() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.got...)
}

func (f *fakeClient) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubPublish(t *testing.T) {
	hub := NewHub(nil)
	good := &fakeClient{}
	bad := &fakeClient{sendErr: errors.New("broken pipe")}
	hub.Subscribe(good)
	hub.Subscribe(bad)

	order := &domain.Order{ID: 7, Status: domain.StatusPending, Total: decimal.RequireFromString("12.00"), ContactName: "Ana"}
	hub.Publish(NewEvent(EventOrderCreated, order, time.Now()))

	waitFor(t, "delivery", func() bool { return len(good.received()) == 1 })
	var ev Event
	if err := json.Unmarshal(good.received()[0], &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Type != EventOrderCreated || ev.OrderID != 7 || ev.Status != domain.StatusPending {
		t.Fatalf("unexpected event %+v", ev)
	}
	waitFor(t, "failing client dropped", func() bool { return bad.isClosed() && hub.Len() == 1 })
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub(nil)
	c := &fakeClient{}
	unsubscribe := hub.Subscribe(c)
	unsubscribe()
	unsubscribe()
	if hub.Len() != 0 || !c.isClosed() {
		t.Fatalf("expected client removed and closed")
	}
	hub.Publish(Event{Type: EventOrderStatus})
	time.Sleep(20 * time.Millisecond)
	if len(c.received()) != 0 {
		t.Fatalf("expected no delivery after unsubscribe")
	}
}

func TestHubPublishDoesNotWaitOnSlowClient(t *testing.T) {
	hub := NewHub(nil)
	stuck := &fakeClient{block: make(chan struct{})}
	defer close(stuck.block)
	hub.Subscribe(stuck)

	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBuffer+2; i++ {
			hub.Publish(Event{Type: EventOrderStatus, OrderID: int64(i)})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked on a stuck client")
	}

	waitFor(t, "stuck client dropped", func() bool { return stuck.isClosed() && hub.Len() == 0 })

	fresh := &fakeClient{}
	hub.Subscribe(fresh)
	hub.Publish(Event{Type: EventOrderCreated})
	waitFor(t, "delivery after drop", func() bool { return len(fresh.received()) == 1 })
}
