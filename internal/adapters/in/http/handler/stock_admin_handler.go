// internal/adapters/in/http/handler/stock_admin_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"attire/internal/application/usecase"
)

// StockAdminHandler serves the admin stock surface:
//
//	GET    /admin/stock?productId=...            all sizes for a product
//	GET    /admin/stock?productId=...&size=...   one row
//	PUT    /admin/stock                          absolute upsert
//	DELETE /admin/stock?productId=...&size=...   explicit row delete
//
// Operator authn/authz sits in front of this handler at the routing layer;
// upserts are trusted input here.
type StockAdminHandler struct {
	uc *usecase.StockUsecase
}

func NewStockAdminHandler(uc *usecase.StockUsecase) *StockAdminHandler {
	return &StockAdminHandler{uc: uc}
}

func (h *StockAdminHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "stock handler is not configured")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPut:
		h.handleUpsert(w, r)
	case http.MethodDelete:
		h.handleDelete(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *StockAdminHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	pid := strings.TrimSpace(r.URL.Query().Get("productId"))
	size := strings.TrimSpace(r.URL.Query().Get("size"))
	if pid == "" {
		writeErr(w, http.StatusBadRequest, "productId is required")
		return
	}

	if size != "" {
		n, err := h.uc.Read(r.Context(), pid, size)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"productId": pid, "size": size, "stock": n})
		return
	}

	all, err := h.uc.ReadAllForProduct(r.Context(), pid)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"productId": pid, "sizes": all})
}

type upsertStockRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Stock     int    `json:"stock"`
}

func (h *StockAdminHandler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var req upsertStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	row, err := h.uc.Upsert(r.Context(), req.ProductID, req.Size, req.Stock)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *StockAdminHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	pid := strings.TrimSpace(r.URL.Query().Get("productId"))
	size := strings.TrimSpace(r.URL.Query().Get("size"))
	if pid == "" || size == "" {
		writeErr(w, http.StatusBadRequest, "productId and size are required")
		return
	}

	if err := h.uc.Delete(r.Context(), pid, size); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
