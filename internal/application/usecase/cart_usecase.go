// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	cartdom "attire/internal/domain/cart"
)

var (
	ErrCartInvalidArgument = errors.New("cart_usecase: invalid argument")
)

// Clock provides current time (for testability).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// CartResult is a cart plus the session's degraded flag: true when the
// operation could not reach the remote store and worked against the local
// mirror only.
type CartResult struct {
	Cart     *cartdom.Cart
	Degraded bool
}

// CartUsecase owns the authoritative cart with its local fallback mirror.
//
// Write policy (write-through): every mutation writes the remote document AND
// the mirror, mirror unconditionally, so the mirror is always a shadow of the
// last known-good state. A failed remote write is deferred, never lost: the
// mirror still records the mutation and the next successful save brings the
// remote document back in lockstep.
//
// Mutations for one user are serialized by a per-cart mutex so concurrent
// HTTP calls cannot interleave the load-mutate-save cycle or the total
// recomputation.
type CartUsecase struct {
	remote     cartdom.Remote
	mirror     cartdom.Mirror
	reconciler *CartReconciler
	clock      Clock

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewCartUsecase(remote cartdom.Remote, mirror cartdom.Mirror) *CartUsecase {
	return NewCartUsecaseWithClock(remote, mirror, nil)
}

// NewCartUsecaseWithClock is useful for tests.
func NewCartUsecaseWithClock(remote cartdom.Remote, mirror cartdom.Mirror, clock Clock) *CartUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &CartUsecase{
		remote:     remote,
		mirror:     mirror,
		reconciler: NewCartReconciler(remote, mirror, clock),
		clock:      clock,
		locks:      map[string]*sync.Mutex{},
	}
}

func (uc *CartUsecase) lockFor(userID string) *sync.Mutex {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	m, ok := uc.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		uc.locks[userID] = m
	}
	return m
}

// Load resolves the session cart (remote preferred, mirror fallback).
func (uc *CartUsecase) Load(ctx context.Context, userID string) (CartResult, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return CartResult{}, ErrCartInvalidArgument
	}

	l := uc.lockFor(uid)
	l.Lock()
	defer l.Unlock()

	return uc.reconciler.Resolve(ctx, uid)
}

// Add puts qty units of (product, size, color) in the cart and saves.
func (uc *CartUsecase) Add(ctx context.Context, userID string, p cartdom.ProductSnapshot, size, color string, qty int) (CartResult, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" || qty <= 0 {
		return CartResult{}, ErrCartInvalidArgument
	}

	l := uc.lockFor(uid)
	l.Lock()
	defer l.Unlock()

	res, err := uc.reconciler.Resolve(ctx, uid)
	if err != nil {
		return CartResult{}, err
	}

	if err := res.Cart.Add(p, size, color, qty, uc.clock.Now()); err != nil {
		return CartResult{}, err
	}
	return uc.save(ctx, res)
}

// SetQty sets the quantity of a cart line; qty <= 0 removes it.
func (uc *CartUsecase) SetQty(ctx context.Context, userID, itemID string, qty int) (CartResult, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" || strings.TrimSpace(itemID) == "" {
		return CartResult{}, ErrCartInvalidArgument
	}

	l := uc.lockFor(uid)
	l.Lock()
	defer l.Unlock()

	res, err := uc.reconciler.Resolve(ctx, uid)
	if err != nil {
		return CartResult{}, err
	}

	if err := res.Cart.SetQty(itemID, qty, uc.clock.Now()); err != nil {
		return CartResult{}, err
	}
	return uc.save(ctx, res)
}

// Remove removes a cart line.
func (uc *CartUsecase) Remove(ctx context.Context, userID, itemID string) (CartResult, error) {
	return uc.SetQty(ctx, userID, itemID, 0)
}

// Clear empties the cart. Idempotent: clearing an already-empty cart saves an
// empty document again and succeeds.
func (uc *CartUsecase) Clear(ctx context.Context, userID string) (CartResult, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return CartResult{}, ErrCartInvalidArgument
	}

	l := uc.lockFor(uid)
	l.Lock()
	defer l.Unlock()

	res, err := uc.reconciler.Resolve(ctx, uid)
	if err != nil {
		return CartResult{}, err
	}

	res.Cart.Clear(uc.clock.Now())
	return uc.save(ctx, res)
}

// save writes remote then mirror. The mirror write is unconditional; a remote
// failure flips the degraded flag instead of failing the mutation.
func (uc *CartUsecase) save(ctx context.Context, res CartResult) (CartResult, error) {
	if err := uc.remote.Set(ctx, res.Cart); err != nil {
		if !isUnavailable(err) {
			return CartResult{}, err
		}
		log.Printf("[cart_uc] WARN: remote save deferred userId=%s err=%v", res.Cart.ID, err)
		res.Degraded = true
	}

	if err := uc.mirror.Put(ctx, res.Cart.Clone()); err != nil {
		// The mirror is best-effort shadow state; a failed mirror write must
		// not fail a mutation that already reached the remote store.
		log.Printf("[cart_uc] WARN: mirror save failed userId=%s err=%v", res.Cart.ID, err)
		if res.Degraded {
			// Neither copy took the write: now the user's action would be lost.
			return CartResult{}, errors.New("cart_usecase: remote unreachable and mirror write failed")
		}
	}

	return res, nil
}
