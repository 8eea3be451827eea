// internal/platform/di/container.go
package di

import (
	"context"
	"fmt"
	"log"
	"net/http"

	firebase "firebase.google.com/go/v4"

	httpin "attire/internal/adapters/in/http"
	"attire/internal/adapters/in/http/middleware"
	outfs "attire/internal/adapters/out/firestore"
	"attire/internal/adapters/out/memory"
	outsqlite "attire/internal/adapters/out/sqlite"
	"attire/internal/application/query"
	"attire/internal/application/usecase"
	cartdom "attire/internal/domain/cart"
	orderdom "attire/internal/domain/order"
	stockdom "attire/internal/domain/stock"
	"attire/internal/infra/config"
	firestoreinfra "attire/internal/infra/firestore"
)

// Container bundles everything main needs. The goal is to keep main thin:
// it loads config, builds the container, and serves Handler.
type Container struct {
	Handler http.Handler

	StockUC      *usecase.StockUsecase
	CartUC       *usecase.CartUsecase
	CheckoutUC   *usecase.CheckoutUsecase
	Availability *query.AvailabilityCache

	cleanupFns []func()
}

// Close releases the container's resources in reverse build order.
func (c *Container) Close() {
	for i := len(c.cleanupFns) - 1; i >= 0; i-- {
		c.cleanupFns[i]()
	}
}

// Build wires adapters, usecases and the HTTP surface.
//
// With FIRESTORE_PROJECT_ID set, the stock ledger, remote cart store and
// order store run on Firestore and identity on Firebase Auth. Without it
// (local mode) everything runs in memory and identity comes from the
// X-User-Id header.
func Build(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{}

	var (
		ledger stockdom.Ledger
		remote cartdom.Remote
		orders orderdom.Repository
		fbAuth *middleware.FirebaseAuthClient
	)

	mode := "firestore"
	if cfg.LocalMode() {
		mode = "local"
		ledger = memory.NewStockLedgerMemory()
		remote = memory.NewCartRemoteMemory()
		orders = memory.NewOrderRepositoryMemory()
	} else {
		fsw, err := firestoreinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("di: firestore init: %w", err)
		}
		c.cleanupFns = append(c.cleanupFns, func() { _ = fsw.Close() })

		stockRepo := outfs.NewStockRepositoryFS(fsw.Client)
		stockRepo.MaxAttempts = cfg.DecrementMaxAttempts
		ledger = stockRepo

		cartRepo := outfs.NewCartRemoteFS(fsw.Client)
		cartRepo.OpTimeout = cfg.CartOpTimeout
		remote = cartRepo

		orders = outfs.NewOrderRepositoryFS(fsw.Client)

		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID})
		if err != nil {
			return nil, fmt.Errorf("di: firebase init: %w", err)
		}
		fbAuth, err = app.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("di: firebase auth init: %w", err)
		}
	}

	mirror, err := outsqlite.Open(cfg.MirrorDBPath)
	if err != nil {
		return nil, fmt.Errorf("di: cart mirror init: %w", err)
	}
	c.cleanupFns = append(c.cleanupFns, func() { _ = mirror.Close() })

	c.CartUC = usecase.NewCartUsecase(remote, mirror)
	c.CheckoutUC = usecase.NewCheckoutUsecase(ledger, orders, c.CartUC)
	c.StockUC = usecase.NewStockUsecase(ledger)
	c.Availability = query.NewAvailabilityCache(ledger)

	c.Handler = httpin.NewRouter(httpin.RouterDeps{
		StockUC:      c.StockUC,
		CartUC:       c.CartUC,
		CheckoutUC:   c.CheckoutUC,
		Availability: c.Availability,
		Orders:       orders,
		FirebaseAuth: fbAuth,
		AdminToken:   cfg.AdminToken,
	})

	log.Printf("[di] container built (mode=%s mirror=%s)", mode, cfg.MirrorDBPath)
	return c, nil
}
