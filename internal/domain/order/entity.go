// internal/domain/order/entity.go
package order

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidOrder    = errors.New("order: invalid")
	ErrInvalidShipping = errors.New("order: shipping/contact fields incomplete")
	ErrNotFound        = errors.New("order: not found")
)

// Status values. An order is immutable once created except for status and
// tracking, which fulfillment mutates out of band.
const (
	StatusPlaced  = "placed"
	StatusShipped = "shipped"
)

// Line is an immutable copy of one cart line at placement time, never a live
// reference back into the cart.
type Line struct {
	ProductID string `json:"productId" firestore:"productId"`
	Name      string `json:"name" firestore:"name"`
	Size      string `json:"size" firestore:"size"`
	Color     string `json:"color" firestore:"color"`
	Price     int64  `json:"price" firestore:"price"`
	Qty       int    `json:"qty" firestore:"qty"`
}

// Shipping is the shipping/contact snapshot. The engine checks presence only;
// address verification is a collaborator concern.
type Shipping struct {
	Name    string `json:"name" firestore:"name"`
	Email   string `json:"email" firestore:"email"`
	ZipCode string `json:"zipCode" firestore:"zipCode"`
	State   string `json:"state" firestore:"state"`
	City    string `json:"city" firestore:"city"`
	Street  string `json:"street" firestore:"street"`
	Country string `json:"country" firestore:"country"`
}

// Complete reports whether the required contact/address fields are present.
func (s Shipping) Complete() bool {
	return strings.TrimSpace(s.Name) != "" &&
		strings.TrimSpace(s.Email) != "" &&
		strings.TrimSpace(s.ZipCode) != "" &&
		strings.TrimSpace(s.City) != "" &&
		strings.TrimSpace(s.Street) != ""
}

// Order snapshots the cart at placement. Created only after the stock
// decrement fully succeeds.
type Order struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"userId" firestore:"userId"`
	Lines     []Line    `json:"lines" firestore:"lines"`
	Shipping  Shipping  `json:"shipping" firestore:"shipping"`
	Total     int64     `json:"total" firestore:"total"`
	Status    string    `json:"status" firestore:"status"`
	Tracking  string    `json:"tracking" firestore:"tracking"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// New validates and builds a placed order.
func New(id, userID string, lines []Line, shipping Shipping, total int64, now time.Time) (Order, error) {
	oid := strings.TrimSpace(id)
	uid := strings.TrimSpace(userID)
	if oid == "" || uid == "" || len(lines) == 0 || total < 0 {
		return Order{}, ErrInvalidOrder
	}
	if !shipping.Complete() {
		return Order{}, ErrInvalidShipping
	}
	for _, ln := range lines {
		if strings.TrimSpace(ln.ProductID) == "" || ln.Qty <= 0 || ln.Price < 0 {
			return Order{}, ErrInvalidOrder
		}
	}

	return Order{
		ID:        oid,
		UserID:    uid,
		Lines:     append([]Line(nil), lines...),
		Shipping:  shipping,
		Total:     total,
		Status:    StatusPlaced,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
