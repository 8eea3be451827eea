// internal/application/usecase/checkout_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	cartdom "attire/internal/domain/cart"
	"attire/internal/domain/common"
	orderdom "attire/internal/domain/order"
	stockdom "attire/internal/domain/stock"
)

var (
	ErrCheckoutLedgerMissing = errors.New("checkout_uc: stock ledger is not configured")
	ErrCheckoutOrdersMissing = errors.New("checkout_uc: order repository is not configured")
	ErrCheckoutCartsMissing  = errors.New("checkout_uc: cart usecase is not configured")
)

// CheckoutState tracks order placement. Transitions:
// Idle -> Validating -> Decrementing -> OrderCreated | Failed
type CheckoutState string

const (
	StateIdle         CheckoutState = "idle"
	StateValidating   CheckoutState = "validating"
	StateDecrementing CheckoutState = "decrementing"
	StateOrderCreated CheckoutState = "order_created"
	StateFailed       CheckoutState = "failed"
)

// ReconciliationRequiredError is the internal signal for "stock was consumed
// but the order record could not be created". It is never retried
// automatically: a retry could double-create the order without re-decrementing
// correctly. The coordinator logs it for manual or automated follow-up.
type ReconciliationRequiredError struct {
	OrderID string
	UserID  string
	Err     error
}

func (e *ReconciliationRequiredError) Error() string {
	return fmt.Sprintf("checkout: stock decremented but order %s for user %s was not created: %v",
		e.OrderID, e.UserID, e.Err)
}

func (e *ReconciliationRequiredError) Unwrap() error {
	return e.Err
}

// CheckoutUsecase orchestrates order placement.
//
// Stock is only ever judged inside the ledger's transaction: neither the
// availability cache nor the mirror is consulted here.
type CheckoutUsecase struct {
	ledger stockdom.Ledger
	orders orderdom.Repository
	carts  *CartUsecase
	clock  Clock
	newID  func() string
}

func NewCheckoutUsecase(ledger stockdom.Ledger, orders orderdom.Repository, carts *CartUsecase) *CheckoutUsecase {
	return NewCheckoutUsecaseWithClock(ledger, orders, carts, nil)
}

// NewCheckoutUsecaseWithClock is useful for tests.
func NewCheckoutUsecaseWithClock(ledger stockdom.Ledger, orders orderdom.Repository, carts *CartUsecase, clock Clock) *CheckoutUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &CheckoutUsecase{
		ledger: ledger,
		orders: orders,
		carts:  carts,
		clock:  clock,
		newID:  uuid.NewString,
	}
}

// PlaceOrder validates the cart, atomically decrements stock for every line,
// creates the order record, and clears the cart.
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, userID string, shipping orderdom.Shipping) (orderdom.Order, error) {
	if u.ledger == nil {
		return orderdom.Order{}, ErrCheckoutLedgerMissing
	}
	if u.orders == nil {
		return orderdom.Order{}, ErrCheckoutOrdersMissing
	}
	if u.carts == nil {
		return orderdom.Order{}, ErrCheckoutCartsMissing
	}

	uid := strings.TrimSpace(userID)
	if uid == "" {
		return orderdom.Order{}, &common.ValidationError{Reason: "userId is required"}
	}

	state := StateIdle

	// ---- Validating ----
	state = u.transition(uid, state, StateValidating)

	if !shipping.Complete() {
		u.transition(uid, state, StateFailed)
		return orderdom.Order{}, &common.ValidationError{Reason: "shipping/contact fields are incomplete"}
	}

	res, err := u.carts.Load(ctx, uid)
	if err != nil {
		u.transition(uid, state, StateFailed)
		return orderdom.Order{}, err
	}
	if res.Degraded {
		// Checkout must never proceed against a stale/local view.
		u.transition(uid, state, StateFailed)
		return orderdom.Order{}, &common.PersistenceUnavailableError{
			Op:  "checkout",
			Err: errors.New("remote store unreachable"),
		}
	}

	c := res.Cart
	if len(c.Items) == 0 {
		u.transition(uid, state, StateFailed)
		return orderdom.Order{}, &common.ValidationError{Reason: "cart is empty"}
	}

	// ---- Decrementing ----
	state = u.transition(uid, state, StateDecrementing)

	// Same variant in multiple cart rows decrements once with the summed qty;
	// NormalizeLines does the grouping inside DecrementAll as well, but
	// building lines here keeps the request explicit.
	lines := make([]stockdom.Line, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, stockdom.Line{
			ProductID: it.Product.ProductID,
			Size:      it.Size,
			Qty:       it.Qty,
		})
	}

	if err := u.ledger.DecrementAll(ctx, lines); err != nil {
		u.transition(uid, state, StateFailed)
		return orderdom.Order{}, err
	}

	// ---- OrderCreated ----
	o, err := orderdom.New(u.newID(), uid, orderLines(c.Items), shipping, c.Total, u.clock.Now())
	if err != nil {
		// Stock is already consumed; this is the fatal inconsistency path.
		return orderdom.Order{}, u.reconciliationRequired(uid, "", err)
	}

	created, err := u.orders.Create(ctx, o)
	if err != nil {
		return orderdom.Order{}, u.reconciliationRequired(uid, o.ID, err)
	}

	u.transition(uid, state, StateOrderCreated)

	if _, err := u.carts.Clear(ctx, uid); err != nil {
		// The order exists and stock is correct; a lingering cart is
		// recoverable on the next session.
		log.Printf("[checkout_uc] WARN: cart clear failed after order userId=%s orderId=%s err=%v",
			uid, created.ID, err)
	}

	log.Printf("[checkout_uc] OK: order placed userId=%s orderId=%s lines=%d total=%d",
		uid, created.ID, len(created.Lines), created.Total)
	return created, nil
}

func (u *CheckoutUsecase) transition(userID string, from, to CheckoutState) CheckoutState {
	log.Printf("[checkout_uc] userId=%s state %s -> %s", userID, from, to)
	return to
}

// reconciliationRequired logs the operational event and wraps the cause.
// RECONCILIATION_REQUIRED is the marker operational alerting keys on.
func (u *CheckoutUsecase) reconciliationRequired(userID, orderID string, cause error) error {
	log.Printf("[checkout_uc] RECONCILIATION_REQUIRED userId=%s orderId=%s err=%v", userID, orderID, cause)
	u.transition(userID, StateDecrementing, StateFailed)
	return &ReconciliationRequiredError{OrderID: orderID, UserID: userID, Err: cause}
}

func orderLines(items []cartdom.Item) []orderdom.Line {
	out := make([]orderdom.Line, 0, len(items))
	for _, it := range items {
		out = append(out, orderdom.Line{
			ProductID: it.Product.ProductID,
			Name:      it.Product.Name,
			Size:      it.Size,
			Color:     it.Color,
			Price:     it.Product.Price,
			Qty:       it.Qty,
		})
	}
	return out
}
