package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Eggie20/Online-Supermarket/internal/service"
	"github.com/Eggie20/Online-Supermarket/pkg/httputil"
)

// SellerHandler handles HTTP requests for the seller back office.
type SellerHandler struct {
	service *service.SellerService
	logger  *slog.Logger
}

// NewSellerHandler creates a new seller HTTP handler.
func NewSellerHandler(svc *service.SellerService, logger *slog.Logger) *SellerHandler {
	return &SellerHandler{
		service: svc,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/seller/products
func (h *SellerHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.service.Products(service.SellerProductFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
		Sort:     q.Get("sort"),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// DeleteProduct handles DELETE /api/v1/seller/products/{id}. The listing is
// removed once the returned confirmation is accepted.
func (h *SellerHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	pending, err := h.service.RequestDeleteProduct(r.Context(), profileFrom(r), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: pending})
}

// ListOrders handles GET /api/v1/seller/orders
func (h *SellerHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.Orders(r.URL.Query().Get("status"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: orders})
}

// GetOrder handles GET /api/v1/seller/orders/{id}
func (h *SellerHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Order(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// Dashboard handles GET /api/v1/seller/dashboard
func (h *SellerHandler) Dashboard(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.Dashboard()})
}
