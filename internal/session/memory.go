package session

import (
	"context"
	"sync"

	"github.com/hankjoberg-netizen/voltstore/internal/domain"
)

// MemoryStore is the default cart store: a mutex-guarded map. Good enough
// for a single process; swap in the redis store to survive restarts.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]*domain.Cart),
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	s.mu.RLock()
	c, ok := s.carts[sessionID]
	s.mu.RUnlock()
	if !ok {
		return domain.NewCart(), nil
	}

	// Copy out so callers never share a cart across requests.
	copied := *c
	copied.Items = append([]domain.LineItem(nil), c.Items...)
	return &copied, nil
}

func (s *MemoryStore) Put(_ context.Context, sessionID string, cart *domain.Cart) error {
	copied := *cart
	copied.Items = append([]domain.LineItem(nil), cart.Items...)

	s.mu.Lock()
	s.carts[sessionID] = &copied
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.carts, sessionID)
	s.mu.Unlock()
	return nil
}
