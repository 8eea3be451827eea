// internal/adapters/out/memory/cart_memory.go
package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	cartdom "attire/internal/domain/cart"
	"attire/internal/domain/common"
)

// CartRemoteMemory implements cart.Remote in process memory for local dev and
// tests. SetUnavailable simulates an unreachable store so the mirror fallback
// path can be exercised.
type CartRemoteMemory struct {
	mu          sync.Mutex
	docs        map[string]*cartdom.Cart
	unavailable bool
}

func NewCartRemoteMemory() *CartRemoteMemory {
	return &CartRemoteMemory{docs: map[string]*cartdom.Cart{}}
}

var _ cartdom.Remote = (*CartRemoteMemory)(nil)

// SetUnavailable makes every subsequent operation fail with
// *common.PersistenceUnavailableError until reset.
func (r *CartRemoteMemory) SetUnavailable(down bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unavailable = down
}

func (r *CartRemoteMemory) Get(_ context.Context, userID string) (*cartdom.Cart, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("cart_remote_memory: userID is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.unavailable {
		return nil, &common.PersistenceUnavailableError{Op: "cart get", Err: errors.New("remote store down")}
	}

	c, ok := r.docs[uid]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

func (r *CartRemoteMemory) Set(_ context.Context, c *cartdom.Cart) error {
	if c == nil {
		return errors.New("cart_remote_memory: cart is nil")
	}
	uid := strings.TrimSpace(c.ID)
	if uid == "" {
		return errors.New("cart_remote_memory: cart.ID is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.unavailable {
		return &common.PersistenceUnavailableError{Op: "cart set", Err: errors.New("remote store down")}
	}

	r.docs[uid] = c.Clone()
	return nil
}
