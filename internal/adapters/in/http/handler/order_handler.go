// internal/adapters/in/http/handler/order_handler.go
package handler

import (
	"context"
	"net/http"
	"strings"

	"attire/internal/adapters/in/http/middleware"
	orderdom "attire/internal/domain/order"
)

// OrderReader is the narrow read port this handler needs.
type OrderReader interface {
	GetByID(ctx context.Context, id string) (orderdom.Order, error)
}

// OrderHandler serves GET /orders/{id}. Orders are only visible to the user
// who placed them; anyone else sees the same 404 as a missing order.
type OrderHandler struct {
	orders OrderReader
}

func NewOrderHandler(orders OrderReader) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.orders == nil {
		writeErr(w, http.StatusInternalServerError, "order handler is not configured")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	uid := middleware.UserIDFrom(r.Context())
	if uid == "" {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := strings.TrimPrefix(strings.TrimSuffix(r.URL.Path, "/"), "/orders/")
	if id == "" || strings.Contains(id, "/") {
		writeErr(w, http.StatusNotFound, "not_found")
		return
	}

	o, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if o.UserID != uid {
		writeErr(w, http.StatusNotFound, "not_found")
		return
	}

	writeJSON(w, http.StatusOK, o)
}
