// internal/adapters/in/http/handler/availability_handler.go
package handler

import (
	"net/http"
	"strings"

	"attire/internal/application/query"
)

// AvailabilityHandler serves GET /availability?productId=...
//
// Responses come from the process-local cache and may be stale; checkout
// re-validates stock transactionally.
type AvailabilityHandler struct {
	cache *query.AvailabilityCache
}

func NewAvailabilityHandler(cache *query.AvailabilityCache) *AvailabilityHandler {
	return &AvailabilityHandler{cache: cache}
}

func (h *AvailabilityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		writeErr(w, http.StatusInternalServerError, "availability handler is not configured")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	pid := strings.TrimSpace(r.URL.Query().Get("productId"))
	if pid == "" {
		writeErr(w, http.StatusBadRequest, "productId is required")
		return
	}

	stock, err := h.cache.Get(r.Context(), pid)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	inStock := false
	for _, n := range stock {
		if n > 0 {
			inStock = true
			break
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"productId": pid,
		"sizes":     stock,
		"inStock":   inStock,
	})
}
