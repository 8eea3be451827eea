// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidCart = errors.New("cart: invalid")
	ErrInvalidItem = errors.New("cart: invalid item")
)

// ProductSnapshot is the denormalized product data captured when an item is
// added. Price is a snapshot too: it is never re-fetched from the catalog.
// Amounts are in minor units (cents).
type ProductSnapshot struct {
	ProductID string   `json:"productId" firestore:"productId"`
	Name      string   `json:"name" firestore:"name"`
	Image     string   `json:"image" firestore:"image"`
	Sizes     []string `json:"sizes" firestore:"sizes"`
	Colors    []string `json:"colors" firestore:"colors"`
	Price     int64    `json:"price" firestore:"price"`
}

// Item is one line in a cart. Identity within the cart is the derived ID;
// merge identity on add is (productId, size, color).
type Item struct {
	ID      string          `json:"id" firestore:"id"`
	Product ProductSnapshot `json:"product" firestore:"product"`
	Size    string          `json:"size" firestore:"size"`
	Color   string          `json:"color" firestore:"color"`
	Qty     int             `json:"qty" firestore:"qty"`
}

// NewItemID derives a stable line id from the variant plus a creation tick,
// so the same variant re-added after removal gets a fresh id.
func NewItemID(productID, size, color string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%s-%d", productID, size, color, now.UnixNano())
}

// Cart is the authoritative cart document.
//   - docId = userId (one cart per identity)
//   - Items keep insertion order (display order)
//   - Total is derived and recomputed on every mutation, never trusted from a
//     stale read
type Cart struct {
	ID        string    `json:"id" firestore:"id"`
	Items     []Item    `json:"items" firestore:"items"`
	Total     int64     `json:"total" firestore:"total"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// NewCart creates an empty cart for userID.
func NewCart(userID string, now time.Time) (*Cart, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, ErrInvalidCart
	}
	return &Cart{
		ID:        uid,
		Items:     []Item{},
		Total:     0,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Add puts qty units of (product, size, color) in the cart. If an item with
// the same (productId, size, color) already exists its quantity is
// incremented and the original snapshot is kept; otherwise a new line is
// appended with a fresh snapshot.
func (c *Cart) Add(p ProductSnapshot, size, color string, qty int, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}

	pid := strings.TrimSpace(p.ProductID)
	sz := strings.TrimSpace(size)
	col := strings.TrimSpace(color)
	if pid == "" || sz == "" || qty <= 0 || p.Price < 0 {
		return ErrInvalidItem
	}

	if idx := c.findVariant(pid, sz, col); idx >= 0 {
		c.Items[idx].Qty += qty
	} else {
		p.ProductID = pid
		c.Items = append(c.Items, Item{
			ID:      NewItemID(pid, sz, col, now),
			Product: p,
			Size:    sz,
			Color:   col,
			Qty:     qty,
		})
	}

	c.touch(now)
	return nil
}

// SetQty sets the quantity of the line identified by itemID.
// qty <= 0 removes the line. Unknown itemID is a no-op for removal and an
// error for a positive qty.
func (c *Cart) SetQty(itemID string, qty int, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}

	id := strings.TrimSpace(itemID)
	idx := c.findItem(id)

	if qty <= 0 {
		if idx >= 0 {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		}
		c.touch(now)
		return nil
	}

	if idx < 0 {
		return ErrInvalidItem
	}
	c.Items[idx].Qty = qty
	c.touch(now)
	return nil
}

// Remove removes the line identified by itemID.
func (c *Cart) Remove(itemID string, now time.Time) error {
	return c.SetQty(itemID, 0, now)
}

// Clear empties the cart. Idempotent.
func (c *Cart) Clear(now time.Time) {
	if c == nil {
		return
	}
	c.Items = []Item{}
	c.touch(now)
}

// Clone returns a deep copy, so mirror writes and order snapshots never alias
// the live cart.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Items = make([]Item, len(c.Items))
	copy(cp.Items, c.Items)
	for i := range cp.Items {
		cp.Items[i].Product.Sizes = append([]string(nil), c.Items[i].Product.Sizes...)
		cp.Items[i].Product.Colors = append([]string(nil), c.Items[i].Product.Colors...)
	}
	return &cp
}

func (c *Cart) touch(now time.Time) {
	c.UpdatedAt = now
	c.recomputeTotal()
}

// recomputeTotal rederives Total from the lines. Called on every mutation.
func (c *Cart) recomputeTotal() {
	var total int64
	for _, it := range c.Items {
		total += it.Product.Price * int64(it.Qty)
	}
	c.Total = total
}

func (c *Cart) findVariant(productID, size, color string) int {
	for i := range c.Items {
		if c.Items[i].Product.ProductID == productID &&
			c.Items[i].Size == size &&
			c.Items[i].Color == color {
			return i
		}
	}
	return -1
}

func (c *Cart) findItem(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// Validate checks document-level invariants after boundary decoding.
func (c *Cart) Validate() error {
	if c == nil || strings.TrimSpace(c.ID) == "" {
		return ErrInvalidCart
	}
	for _, it := range c.Items {
		if strings.TrimSpace(it.Product.ProductID) == "" || it.Qty <= 0 || it.Product.Price < 0 {
			return ErrInvalidItem
		}
	}
	return nil
}
