package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Eggie20/Online-Supermarket/internal/service"
	"github.com/Eggie20/Online-Supermarket/pkg/httputil"
	"github.com/Eggie20/Online-Supermarket/pkg/pagination"
)

// ProductHandler handles HTTP requests for the catalog pages.
type ProductHandler struct {
	service *service.StorefrontService
	logger  *slog.Logger
}

// NewProductHandler creates a new catalog HTTP handler.
func NewProductHandler(svc *service.StorefrontService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := service.ProductListInput{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Seller:   q.Get("seller"),
		MinPrice: q.Get("min_price"),
		MaxPrice: q.Get("max_price"),
		Stock:    q.Get("stock"),
		Sort:     q.Get("sort"),
		Page:     pagination.FromRequest(r),
	}

	page, err := h.service.ProductList(r.Context(), profileFrom(r), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: page})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	page, err := h.service.ProductDetail(r.Context(), profileFrom(r), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: page})
}

// ListCategories handles GET /api/v1/categories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.Categories()})
}

// ListSellers handles GET /api/v1/sellers
func (h *ProductHandler) ListSellers(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.Sellers()})
}
