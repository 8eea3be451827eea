// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	"attire/internal/adapters/in/http/handler"
	"attire/internal/adapters/in/http/middleware"
	"attire/internal/application/query"
	"attire/internal/application/usecase"
)

// RouterDeps carries everything the HTTP surface needs. FirebaseAuth may be
// nil for local runs; identity then falls back to the X-User-Id header.
type RouterDeps struct {
	StockUC      *usecase.StockUsecase
	CartUC       *usecase.CartUsecase
	CheckoutUC   *usecase.CheckoutUsecase
	Availability *query.AvailabilityCache
	Orders       handler.OrderReader

	FirebaseAuth *middleware.FirebaseAuthClient
	AdminToken   string
}

func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	identity := middleware.IdentityMiddleware{FirebaseAuth: deps.FirebaseAuth}

	cartH := handler.NewCartHandler(deps.CartUC)
	mux.Handle("/cart", identity.Handler(cartH))
	mux.Handle("/cart/", identity.Handler(cartH))
	mux.Handle("/cart/items", identity.Handler(cartH))
	mux.Handle("/cart/items/", identity.Handler(cartH))

	mux.Handle("/checkout", identity.Handler(handler.NewCheckoutHandler(deps.CheckoutUC)))

	mux.Handle("/orders/", identity.Handler(handler.NewOrderHandler(deps.Orders)))

	mux.Handle("/availability", handler.NewAvailabilityHandler(deps.Availability))

	mux.Handle("/admin/stock", adminOnly(deps.AdminToken, handler.NewStockAdminHandler(deps.StockUC)))

	return mux
}

// adminOnly gates the operator surface behind a shared token. An empty
// configured token disables the check for local development.
func adminOnly(token string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" && r.Header.Get("X-Admin-Token") != token {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"forbidden"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
