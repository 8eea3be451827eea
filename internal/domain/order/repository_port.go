// internal/domain/order/repository_port.go
package order

import "context"

// Repository is the persistence port for orders.
// GetByID returns ErrNotFound when no document exists.
type Repository interface {
	Create(ctx context.Context, o Order) (Order, error)
	GetByID(ctx context.Context, id string) (Order, error)
}
