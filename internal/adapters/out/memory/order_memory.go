// internal/adapters/out/memory/order_memory.go
package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	orderdom "attire/internal/domain/order"
)

// OrderRepositoryMemory implements order.Repository in process memory.
// FailCreates forces Create to fail, for exercising the reconciliation-
// required path (stock consumed, order record missing).
type OrderRepositoryMemory struct {
	mu          sync.Mutex
	orders      map[string]orderdom.Order
	FailCreates bool
}

func NewOrderRepositoryMemory() *OrderRepositoryMemory {
	return &OrderRepositoryMemory{orders: map[string]orderdom.Order{}}
}

var _ orderdom.Repository = (*OrderRepositoryMemory)(nil)

func (r *OrderRepositoryMemory) Create(_ context.Context, o orderdom.Order) (orderdom.Order, error) {
	id := strings.TrimSpace(o.ID)
	if id == "" {
		return orderdom.Order{}, orderdom.ErrInvalidOrder
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailCreates {
		return orderdom.Order{}, errors.New("order_repository_memory: create failed (injected)")
	}
	if _, exists := r.orders[id]; exists {
		return orderdom.Order{}, errors.New("order_repository_memory: order id already exists: " + id)
	}

	r.orders[id] = o
	return o, nil
}

func (r *OrderRepositoryMemory) GetByID(_ context.Context, id string) (orderdom.Order, error) {
	id = strings.TrimSpace(id)

	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return o, nil
}
