// internal/adapters/out/firestore/order_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	orderdom "attire/internal/domain/order"
)

// OrderRepositoryFS implements order.Repository with Firestore.
//
// Collection design:
// - collection: orders
// - docId: order id (uuid minted by the coordinator)
type OrderRepositoryFS struct {
	Client *firestore.Client
}

func NewOrderRepositoryFS(client *firestore.Client) *OrderRepositoryFS {
	return &OrderRepositoryFS{Client: client}
}

var _ orderdom.Repository = (*OrderRepositoryFS)(nil)

func (r *OrderRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("orders")
}

// Create writes the order document. Create (not Set) so an accidental id
// collision fails instead of overwriting an existing order.
func (r *OrderRepositoryFS) Create(ctx context.Context, o orderdom.Order) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errors.New("order_repository_fs: firestore client is nil")
	}

	id := strings.TrimSpace(o.ID)
	if id == "" {
		return orderdom.Order{}, orderdom.ErrInvalidOrder
	}

	_, err := r.col().Doc(id).Create(ctx, o)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return orderdom.Order{}, errors.New("order_repository_fs: order id already exists: " + id)
		}
		return orderdom.Order{}, mapPersistenceErr("order create", err)
	}
	return o, nil
}

func (r *OrderRepositoryFS) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errors.New("order_repository_fs: firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return orderdom.Order{}, orderdom.ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return orderdom.Order{}, orderdom.ErrNotFound
		}
		return orderdom.Order{}, mapPersistenceErr("order get", err)
	}

	var o orderdom.Order
	if err := snap.DataTo(&o); err != nil {
		return orderdom.Order{}, err
	}
	o.ID = snap.Ref.ID
	return o, nil
}
