// internal/application/usecase/cart_reconciler.go
package usecase

import (
	"context"
	"errors"
	"log"

	cartdom "attire/internal/domain/cart"
	"attire/internal/domain/common"
)

// CartReconciler resolves the session cart when identity becomes available.
//
// Policy (first observed source wins, no field-level merge):
//  1. remote document exists            -> remote wins
//  2. remote absent, mirror present     -> seed remote from mirror; remote is
//     authoritative from then on
//  3. both absent                       -> fresh empty cart
//  4. remote unreachable                -> mirror (or empty cart), degraded
//
// After resolution every mutation flows through CartUsecase.save, which keeps
// both copies in lockstep for the rest of the session.
type CartReconciler struct {
	remote cartdom.Remote
	mirror cartdom.Mirror
	clock  Clock
}

func NewCartReconciler(remote cartdom.Remote, mirror cartdom.Mirror, clock Clock) *CartReconciler {
	if clock == nil {
		clock = systemClock{}
	}
	return &CartReconciler{remote: remote, mirror: mirror, clock: clock}
}

func (rc *CartReconciler) Resolve(ctx context.Context, userID string) (CartResult, error) {
	remote, err := rc.remote.Get(ctx, userID)
	if err == nil {
		if remote != nil {
			return CartResult{Cart: remote}, nil
		}
		return rc.seedFromMirror(ctx, userID)
	}

	if !isUnavailable(err) {
		return CartResult{}, err
	}

	// Remote provably unreachable: degrade to the mirror without alarming the
	// user. The degraded flag is the only signal surfaced.
	log.Printf("[cart_reconciler] remote unreachable, degrading userId=%s err=%v", userID, err)

	mirrored, merr := rc.mirror.Get(ctx, userID)
	if merr != nil {
		log.Printf("[cart_reconciler] WARN: mirror read failed userId=%s err=%v", userID, merr)
	}
	if mirrored != nil {
		return CartResult{Cart: mirrored, Degraded: true}, nil
	}

	c, nerr := cartdom.NewCart(userID, rc.clock.Now())
	if nerr != nil {
		return CartResult{}, nerr
	}
	return CartResult{Cart: c, Degraded: true}, nil
}

// seedFromMirror handles "remote reachable but no document yet".
func (rc *CartReconciler) seedFromMirror(ctx context.Context, userID string) (CartResult, error) {
	mirrored, err := rc.mirror.Get(ctx, userID)
	if err != nil {
		log.Printf("[cart_reconciler] WARN: mirror read failed userId=%s err=%v", userID, err)
	}

	c := mirrored
	if c == nil {
		c, err = cartdom.NewCart(userID, rc.clock.Now())
		if err != nil {
			return CartResult{}, err
		}
	}

	// Establish the remote document as authoritative immediately.
	if err := rc.remote.Set(ctx, c); err != nil {
		if !isUnavailable(err) {
			return CartResult{}, err
		}
		// Store dropped between Get and Set; carry on degraded.
		log.Printf("[cart_reconciler] WARN: seed write deferred userId=%s err=%v", userID, err)
		return CartResult{Cart: c, Degraded: true}, nil
	}
	return CartResult{Cart: c}, nil
}

func isUnavailable(err error) bool {
	var ue *common.PersistenceUnavailableError
	return errors.As(err, &ue)
}
