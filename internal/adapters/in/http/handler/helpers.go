// internal/adapters/in/http/handler/helpers.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"attire/internal/application/usecase"
	cartdom "attire/internal/domain/cart"
	"attire/internal/domain/common"
	orderdom "attire/internal/domain/order"
	stockdom "attire/internal/domain/stock"
)

// ============================================================
// HTTP helpers
// ============================================================

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeErr(w, http.StatusMethodNotAllowed, "method_not_allowed")
}

// writeDomainErr maps the engine's typed errors to HTTP responses. Checkout
// failures are per-line and specific (naming the product and size); outage
// and reconciliation cases stay opaque to the user.
func writeDomainErr(w http.ResponseWriter, err error) {
	var (
		ve  *common.ValidationError
		nf  *stockdom.NotFoundError
		ins *stockdom.InsufficientStockError
		tc  *stockdom.TransactionConflictError
		ue  *common.PersistenceUnavailableError
		re  *usecase.ReconciliationRequiredError
	)

	switch {
	case errors.As(err, &re):
		// Checked first: the wrapped cause (often an unreachable store) must
		// not leak a retryable status once stock is already consumed. Detail
		// goes to the log only.
		writeErr(w, http.StatusInternalServerError, "order_processing_error")
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "invalid_request",
			"reason": ve.Reason,
		})
	case errors.As(err, &nf):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     "unavailable",
			"productId": nf.ProductID,
			"size":      nf.Size,
		})
	case errors.As(err, &ins):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     "insufficient_stock",
			"productId": ins.ProductID,
			"size":      ins.Size,
			"requested": ins.Requested,
			"available": ins.Available,
		})
	case errors.As(err, &tc):
		// transient, distinct from stock exhaustion: the caller may retry
		writeJSON(w, http.StatusConflict, map[string]any{
			"error": "conflict_retry",
		})
	case errors.As(err, &ue):
		writeErr(w, http.StatusServiceUnavailable, "store_unavailable")
	case errors.Is(err, cartdom.ErrInvalidCart), errors.Is(err, cartdom.ErrInvalidItem),
		errors.Is(err, usecase.ErrCartInvalidArgument):
		writeErr(w, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, orderdom.ErrNotFound):
		writeErr(w, http.StatusNotFound, "not_found")
	default:
		writeErr(w, http.StatusInternalServerError, "internal_error")
	}
}
