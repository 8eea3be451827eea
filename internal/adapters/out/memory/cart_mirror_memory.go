// internal/adapters/out/memory/cart_mirror_memory.go
package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	cartdom "attire/internal/domain/cart"
)

// CartMirrorMemory implements cart.Mirror in process memory, for tests that
// do not want the sqlite driver in the loop.
type CartMirrorMemory struct {
	mu   sync.Mutex
	docs map[string]*cartdom.Cart
}

func NewCartMirrorMemory() *CartMirrorMemory {
	return &CartMirrorMemory{docs: map[string]*cartdom.Cart{}}
}

var _ cartdom.Mirror = (*CartMirrorMemory)(nil)

func (m *CartMirrorMemory) Get(_ context.Context, userID string) (*cartdom.Cart, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("cart_mirror_memory: userID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.docs[uid]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

func (m *CartMirrorMemory) Put(_ context.Context, c *cartdom.Cart) error {
	if c == nil || strings.TrimSpace(c.ID) == "" {
		return errors.New("cart_mirror_memory: cart is nil or has no id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[c.ID] = c.Clone()
	return nil
}

func (m *CartMirrorMemory) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, strings.TrimSpace(userID))
	return nil
}
