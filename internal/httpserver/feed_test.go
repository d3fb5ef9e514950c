package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"foodtruck-ordering/internal/domain"
	"foodtruck-ordering/internal/feed"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

func feedURL(srv *httptest.Server, token string) string {
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/staff/orders/feed"
	if token != "" {
		u += "?access_token=" + url.QueryEscape(token)
	}
	return u
}

func TestOrderFeed_StreamsEvents(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	tok := strings.TrimPrefix(f.token(t, domain.Actor{ID: "s1", Role: domain.RoleStaff}), "Bearer ")
	conn, _, err := websocket.DefaultDialer.Dial(feedURL(srv, tok), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for f.hub.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client never subscribed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	order := &domain.Order{ID: 9, ContactName: "Ana", Status: domain.StatusPending, Total: decimal.RequireFromString("3.00")}
	f.hub.Publish(feed.NewEvent(feed.EventOrderCreated, order, time.Now()))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev feed.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Type != feed.EventOrderCreated || ev.OrderID != 9 {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestOrderFeed_RejectsNonStaff(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial(feedURL(srv, ""), nil)
	if err == nil {
		t.Fatalf("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %+v", resp)
	}

	tok := strings.TrimPrefix(f.token(t, domain.Actor{ID: "c1", Role: domain.RoleCustomer}), "Bearer ")
	_, resp, err = websocket.DefaultDialer.Dial(feedURL(srv, tok), nil)
	if err == nil || resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %v", err)
	}
}
