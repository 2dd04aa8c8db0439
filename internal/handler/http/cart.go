package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Eggie20/Online-Supermarket/internal/service"
	"github.com/Eggie20/Online-Supermarket/pkg/httputil"
	"github.com/Eggie20/Online-Supermarket/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.StorefrontService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.StorefrontService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.CartPage(r.Context(), profileFrom(r))})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req service.AddToCartInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	page, err := h.service.AddToCart(r.Context(), profileFrom(r), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: page})
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{productId}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	var req service.SetQuantityInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	page, err := h.service.SetQuantity(r.Context(), profileFrom(r), productID, req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: page})
}

// IncreaseQuantity handles POST /api/v1/cart/items/{productId}/increase
func (h *CartHandler) IncreaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.service.IncreaseQuantity)
}

// DecreaseQuantity handles POST /api/v1/cart/items/{productId}/decrease
func (h *CartHandler) DecreaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.service.DecreaseQuantity)
}

func (h *CartHandler) step(w http.ResponseWriter, r *http.Request, fn func(context.Context, string, int) (service.CartPage, error)) {
	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	page, err := fn(r.Context(), profileFrom(r), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: page})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	page := h.service.RemoveFromCart(r.Context(), profileFrom(r), productID)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: page})
}

// ClearCart handles DELETE /api/v1/cart. The cart is only emptied once the
// returned confirmation is accepted.
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	pending, err := h.service.RequestClearCart(r.Context(), profileFrom(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: pending})
}
