// internal/domain/cart/repository_port.go
package cart

import "context"

// Remote is the authoritative cart document store.
//
// Get returns (nil, nil) if no document exists (nil policy). An unreachable
// store surfaces *common.PersistenceUnavailableError so callers can fall
// through to the mirror.
type Remote interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	Set(ctx context.Context, c *Cart) error
}

// Mirror is the locally-persisted fallback copy of the last known-good cart.
// It is written unconditionally on every save, remote success or not, so it
// is always a correct shadow. Get returns (nil, nil) if no mirror row exists.
type Mirror interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	Put(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, userID string) error
}
