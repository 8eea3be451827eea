// internal/adapters/in/http/handler/checkout_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"attire/internal/adapters/in/http/middleware"
	"attire/internal/application/usecase"
	orderdom "attire/internal/domain/order"
)

// CheckoutHandler serves POST /checkout.
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type checkoutRequest struct {
	Shipping orderdom.Shipping `json:"shipping"`
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "checkout handler is not configured")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	uid := middleware.UserIDFrom(r.Context())
	if uid == "" {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	o, err := h.uc.PlaceOrder(r.Context(), uid, req.Shipping)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"orderId": o.ID,
		"total":   o.Total,
		"status":  o.Status,
	})
}
