// internal/adapters/in/http/handler/cart_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"attire/internal/adapters/in/http/middleware"
	"attire/internal/application/usecase"
	cartdom "attire/internal/domain/cart"
)

// CartHandler serves the cart endpoints:
//
//	GET    /cart             current cart (reconciled on first touch)
//	POST   /cart/items       add item
//	PUT    /cart/items/{id}  set quantity (<= 0 removes)
//	DELETE /cart/items/{id}  remove item
//	DELETE /cart             clear
type CartHandler struct {
	uc *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "cart handler is not configured")
		return
	}

	uid := middleware.UserIDFrom(r.Context())
	if uid == "" {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")

	switch {
	case r.Method == http.MethodGet && path == "/cart":
		h.handleGet(w, r, uid)
	case r.Method == http.MethodDelete && path == "/cart":
		h.handleClear(w, r, uid)
	case r.Method == http.MethodPost && path == "/cart/items":
		h.handleAdd(w, r, uid)
	case r.Method == http.MethodPut && strings.HasPrefix(path, "/cart/items/"):
		h.handleSetQty(w, r, uid, strings.TrimPrefix(path, "/cart/items/"))
	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/cart/items/"):
		h.handleRemove(w, r, uid, strings.TrimPrefix(path, "/cart/items/"))
	default:
		methodNotAllowed(w)
	}
}

func (h *CartHandler) handleGet(w http.ResponseWriter, r *http.Request, uid string) {
	res, err := h.uc.Load(r.Context(), uid)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeCart(w, res)
}

type addItemRequest struct {
	Product cartdom.ProductSnapshot `json:"product"`
	Size    string                  `json:"size"`
	Color   string                  `json:"color"`
	Qty     int                     `json:"qty"`
}

func (h *CartHandler) handleAdd(w http.ResponseWriter, r *http.Request, uid string) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	res, err := h.uc.Add(r.Context(), uid, req.Product, req.Size, req.Color, req.Qty)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeCart(w, res)
}

type setQtyRequest struct {
	Qty int `json:"qty"`
}

func (h *CartHandler) handleSetQty(w http.ResponseWriter, r *http.Request, uid, itemID string) {
	var req setQtyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	res, err := h.uc.SetQty(r.Context(), uid, itemID, req.Qty)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeCart(w, res)
}

func (h *CartHandler) handleRemove(w http.ResponseWriter, r *http.Request, uid, itemID string) {
	res, err := h.uc.Remove(r.Context(), uid, itemID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeCart(w, res)
}

func (h *CartHandler) handleClear(w http.ResponseWriter, r *http.Request, uid string) {
	res, err := h.uc.Clear(r.Context(), uid)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeCart(w, res)
}

func writeCart(w http.ResponseWriter, res usecase.CartResult) {
	writeJSON(w, http.StatusOK, map[string]any{
		"cart":     res.Cart,
		"degraded": res.Degraded,
	})
}
