package cart

import (
	"context"
	"sync"
	"time"

	"foodtruck-ordering/internal/domain"
)

type memoryEntry struct {
	cart      domain.Cart
	expiresAt time.Time
}

type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory returns an in-process store. Entries idle longer than ttl are
// dropped on access and swept on save; ttl <= 0 keeps them forever.
func NewMemory(ttl time.Duration) Store {
	return &memoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *memoryStore) Load(_ context.Context, token string) (*domain.Cart, error) {
	s.mu.RLock()
	entry, ok := s.entries[token]
	s.mu.RUnlock()
	if !ok {
		return &domain.Cart{}, nil
	}
	if s.expired(entry, s.now()) {
		s.mu.Lock()
		// a Save may have refreshed it since the read lock was released
		if cur, ok := s.entries[token]; ok && s.expired(cur, s.now()) {
			delete(s.entries, token)
		} else if ok {
			s.mu.Unlock()
			return cloneCart(&cur.cart), nil
		}
		s.mu.Unlock()
		return &domain.Cart{}, nil
	}
	return cloneCart(&entry.cart), nil
}

func (s *memoryStore) Save(_ context.Context, token string, cart *domain.Cart) error {
	now := s.now()
	entry := memoryEntry{cart: *cloneCart(cart)}
	if s.ttl > 0 {
		entry.expiresAt = now.Add(s.ttl)
	}
	s.mu.Lock()
	s.sweepLocked(now)
	s.entries[token] = entry
	s.mu.Unlock()
	return nil
}

// sweepLocked drops every expired entry. Callers hold mu.
func (s *memoryStore) sweepLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for token, entry := range s.entries {
		if s.expired(entry, now) {
			delete(s.entries, token)
		}
	}
}

func (s *memoryStore) expired(entry memoryEntry, now time.Time) bool {
	return s.ttl > 0 && now.After(entry.expiresAt)
}

func (s *memoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
	return nil
}

func cloneCart(c *domain.Cart) *domain.Cart {
	out := &domain.Cart{}
	if c == nil || len(c.Lines) == 0 {
		return out
	}
	out.Lines = make([]domain.CartLine, len(c.Lines))
	for i, l := range c.Lines {
		l.ModifierIDs = append([]int64(nil), l.ModifierIDs...)
		out.Lines[i] = l
	}
	return out
}
