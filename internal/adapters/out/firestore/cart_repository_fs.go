// internal/adapters/out/firestore/cart_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	cartdom "attire/internal/domain/cart"
)

const defaultCartOpTimeout = 3 * time.Second

// CartRemoteFS implements cart.Remote using Firestore.
//
// Collection design:
// - collection: carts
// - docId: userId (the source of truth for cart ownership)
// - fields: items(array), total, createdAt, updatedAt
//
// Every operation runs under a bounded timeout so an unreachable store fails
// fast and the caller can fall through to the local mirror instead of
// blocking the UI.
type CartRemoteFS struct {
	Client *firestore.Client

	// OpTimeout bounds each remote call. <= 0 means defaultCartOpTimeout.
	OpTimeout time.Duration
}

func NewCartRemoteFS(client *firestore.Client) *CartRemoteFS {
	return &CartRemoteFS{Client: client}
}

var _ cartdom.Remote = (*CartRemoteFS)(nil)

func (r *CartRemoteFS) col() *firestore.CollectionRef {
	return r.Client.Collection("carts")
}

func (r *CartRemoteFS) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	d := r.OpTimeout
	if d <= 0 {
		d = defaultCartOpTimeout
	}
	return context.WithTimeout(ctx, d)
}

// Get returns (nil, nil) if no cart document exists (nil policy).
func (r *CartRemoteFS) Get(ctx context.Context, userID string) (*cartdom.Cart, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_remote_fs: firestore client is nil")
	}

	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("cart_remote_fs: userID is empty")
	}

	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	snap, err := r.col().Doc(uid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, mapPersistenceErr("cart get", err)
	}

	c := decodeCartDoc(snap.Data())
	// docId is the source of truth even when the doc body lacks an id field.
	c.ID = uid
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Set overwrites the full cart document (simple and predictable).
func (r *CartRemoteFS) Set(ctx context.Context, c *cartdom.Cart) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_remote_fs: firestore client is nil")
	}
	if c == nil {
		return errors.New("cart_remote_fs: cart is nil")
	}

	uid := strings.TrimSpace(c.ID)
	if uid == "" {
		return errors.New("cart_remote_fs: Set requires cart.ID (= userId) as docId")
	}

	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	_, err := r.col().Doc(uid).Set(ctx, cartDocData(c))
	return mapPersistenceErr("cart set", err)
}

// -----------------------------------------
// Canonical encode
// -----------------------------------------

func cartDocData(c *cartdom.Cart) map[string]any {
	items := make([]map[string]any, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, map[string]any{
			"id": it.ID,
			"product": map[string]any{
				"productId": it.Product.ProductID,
				"name":      it.Product.Name,
				"image":     it.Product.Image,
				"sizes":     it.Product.Sizes,
				"colors":    it.Product.Colors,
				"price":     it.Product.Price,
			},
			"size":  it.Size,
			"color": it.Color,
			"qty":   it.Qty,
		})
	}
	return map[string]any{
		"items":     items,
		"total":     c.Total,
		"createdAt": c.CreatedAt,
		"updatedAt": c.UpdatedAt,
	}
}

// -----------------------------------------
// Decode with legacy normalization
// -----------------------------------------
//
// Carts written by the previous storefront come in more than one shape. All
// variants are normalized to the canonical Cart here, at the storage boundary
// only; nothing past this file ever sees a legacy field name.
//
// Supported shapes:
//  1. items: array of {id, product{...}, size, color, qty}   (canonical)
//  2. items: array with flat product fields
//     {id, productId, name, image, price, size, color, quantity}
//  3. items: map[lineKey] = either of the above (legacy map layout;
//     insertion order was lost, so lines are appended in key order as-is)

func decodeCartDoc(raw map[string]any) *cartdom.Cart {
	c := &cartdom.Cart{Items: []cartdom.Item{}}
	if raw == nil {
		return c
	}

	if t, ok := asTime(raw["createdAt"]); ok {
		c.CreatedAt = t
	}
	if t, ok := asTime(raw["updatedAt"]); ok {
		c.UpdatedAt = t
	}

	switch items := raw["items"].(type) {
	case []any:
		for _, v := range items {
			if m, ok := v.(map[string]any); ok {
				if it, ok := decodeCartItem(m); ok {
					c.Items = append(c.Items, it)
				}
			}
		}
	case map[string]any:
		for k, v := range items {
			m, ok := v.(map[string]any)
			if !ok {
				continue
			}
			it, ok := decodeCartItem(m)
			if !ok {
				continue
			}
			if it.ID == "" {
				it.ID = strings.TrimSpace(k)
			}
			c.Items = append(c.Items, it)
		}
	}

	// Total is derived state: recompute instead of trusting the stored value.
	var total int64
	for _, it := range c.Items {
		total += it.Product.Price * int64(it.Qty)
	}
	c.Total = total

	return c
}

func decodeCartItem(m map[string]any) (cartdom.Item, bool) {
	it := cartdom.Item{
		ID:    strings.TrimSpace(asString(m["id"])),
		Size:  strings.TrimSpace(asString(m["size"])),
		Color: strings.TrimSpace(asString(m["color"])),
		Qty:   asInt(m["qty"]),
	}

	// legacy: "quantity" instead of "qty"
	if it.Qty <= 0 {
		it.Qty = asInt(m["quantity"])
	}

	if p, ok := m["product"].(map[string]any); ok {
		it.Product = cartdom.ProductSnapshot{
			ProductID: strings.TrimSpace(asString(p["productId"])),
			Name:      strings.TrimSpace(asString(p["name"])),
			Image:     strings.TrimSpace(asString(p["image"])),
			Sizes:     asStrings(p["sizes"]),
			Colors:    asStrings(p["colors"]),
			Price:     asInt64(p["price"]),
		}
	} else {
		// legacy: product fields flattened onto the line
		it.Product = cartdom.ProductSnapshot{
			ProductID: strings.TrimSpace(asString(m["productId"])),
			Name:      strings.TrimSpace(asString(m["name"])),
			Image:     strings.TrimSpace(asString(m["image"])),
			Sizes:     asStrings(m["sizes"]),
			Colors:    asStrings(m["colors"]),
			Price:     asInt64(m["price"]),
		}
	}

	if it.Product.ProductID == "" || it.Qty <= 0 || it.Product.Price < 0 {
		return cartdom.Item{}, false
	}
	return it, true
}
