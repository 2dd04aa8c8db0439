package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eggie20/Online-Supermarket/internal/catalog"
	"github.com/Eggie20/Online-Supermarket/internal/config"
	"github.com/Eggie20/Online-Supermarket/internal/confirm"
	"github.com/Eggie20/Online-Supermarket/internal/domain"
	"github.com/Eggie20/Online-Supermarket/internal/event"
	"github.com/Eggie20/Online-Supermarket/internal/repository/memory"
	"github.com/Eggie20/Online-Supermarket/internal/service"
	"github.com/Eggie20/Online-Supermarket/pkg/health"
	"github.com/Eggie20/Online-Supermarket/pkg/httputil"
	"github.com/Eggie20/Online-Supermarket/pkg/middleware"
)

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:        "development",
		SSEKeepAlive:       time.Second,
		CORSAllowedOrigins: []string{"*"},
		PprofAllowedCIDRs:  []string{"127.0.0.0/8"},
	}
}

type testEnv struct {
	router http.Handler
	bus    *event.Bus
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := testLogger()
	bus := event.NewBus(logger)
	sessions := service.NewSessions(memory.New(), bus, time.Hour, logger)
	confirms := confirm.NewRegistry(time.Minute, logger)

	router := NewRouter(testConfig(), Deps{
		Storefront: service.NewStorefrontService(catalog.Default(), sessions, confirms, logger),
		Seller:     service.NewSellerService(confirms, logger),
		Confirms:   confirms,
		Bus:        bus,
		Health:     health.NewHandler(),
	}, logger)

	return &testEnv{router: router, bus: bus}
}

// do sends a request as profile. An empty profile omits the header.
func (e *testEnv) do(t *testing.T, method, path, profile string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if profile != "" {
		req.Header.Set(middleware.ProfileHeader, profile)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type envelope[T any] struct {
	Data  T                       `json:"data"`
	Error *httputil.ErrorResponse `json:"error"`
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env), rec.Body.String())
	require.Nil(t, env.Error)
	return env.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *httputil.ErrorResponse {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

// ============================================================================
// Profile header
// ============================================================================

func TestAPI_MissingProfile_Returns400(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/cart", "", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_PROFILE", decodeError(t, rec).Code)
}

func TestHealthLive_NoProfileNeeded(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health/live", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// ============================================================================
// Cart
// ============================================================================

func TestCart_AddMergesAndTotals(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", "guest", map[string]int{"productId": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/v1/cart/items", "guest", map[string]int{"productId": 1, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/v1/cart", "guest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "private, no-store", rec.Header().Get("Cache-Control"))
	page := decodeData[service.CartPage](t, rec)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 3, page.Items[0].Quantity)
	assert.Equal(t, 3, page.ItemCount)
	assert.True(t, page.Total.Equal(decimal.NewFromInt(255)), "got %s", page.Total)
}

func TestCart_ProfilesAreIsolated(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", "alice", map[string]int{"productId": 3})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/cart", "bob", nil)
	page := decodeData[service.CartPage](t, rec)
	assert.True(t, page.Empty)
}

func TestCart_AddValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", "guest", map[string]int{"productId": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", errResp.Code)
	assert.Contains(t, errResp.Fields, "productId")

	rec = env.do(t, http.MethodPost, "/api/v1/cart/items", "guest", map[string]any{"productId": 1, "color": "red"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeError(t, rec).Code)
}

func TestCart_AddUnknownProduct_Returns404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", "guest", map[string]int{"productId": 404})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Code)
}

func TestCart_UnsupportedMediaType(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("productId=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(middleware.ProfileHeader, "guest")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestCart_InvalidPathID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodDelete, "/api/v1/cart/items/abc", "guest", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_PARAMETER", decodeError(t, rec).Code)
}

func TestCart_StepAndSetQuantity(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/v1/cart/items", "guest", map[string]int{"productId": 6, "quantity": 2})

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items/6/increase", "guest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decodeData[service.CartPage](t, rec).ItemCount)

	rec = env.do(t, http.MethodPost, "/api/v1/cart/items/6/decrease", "guest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decodeData[service.CartPage](t, rec).ItemCount)

	// Chicken Breast has 15 in stock; larger quantities are clamped.
	rec = env.do(t, http.MethodPut, "/api/v1/cart/items/6", "guest", map[string]int{"quantity": 40})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 15, decodeData[service.CartPage](t, rec).ItemCount)

	rec = env.do(t, http.MethodPost, "/api/v1/cart/items/6/increase", "guest", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/v1/cart/items/6", "guest", map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeData[service.CartPage](t, rec).Empty)

	rec = env.do(t, http.MethodPost, "/api/v1/cart/items/6/decrease", "guest", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCart_RemoveAbsentIsOK(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodDelete, "/api/v1/cart/items/5", "guest", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeData[service.CartPage](t, rec).Empty)
}

// ============================================================================
// Confirmations
// ============================================================================

func TestClearCart_RequiresConfirmation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodDelete, "/api/v1/cart", "guest", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	env.do(t, http.MethodPost, "/api/v1/cart/items", "guest", map[string]int{"productId": 2})

	rec = env.do(t, http.MethodDelete, "/api/v1/cart", "guest", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)
	pending := decodeData[confirm.Pending](t, rec)
	assert.Equal(t, service.KindClearCart, pending.Kind)

	// Still there until accepted.
	rec = env.do(t, http.MethodGet, "/api/v1/cart", "guest", nil)
	assert.Equal(t, 1, decodeData[service.CartPage](t, rec).ItemCount)

	// Another profile cannot see or resolve it.
	rec = env.do(t, http.MethodPost, "/api/v1/confirmations/"+pending.ID+"/accept", "intruder", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/confirmations/"+pending.ID+"/accept", "guest", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/cart", "guest", nil)
	assert.True(t, decodeData[service.CartPage](t, rec).Empty)

	rec = env.do(t, http.MethodPost, "/api/v1/confirmations/"+pending.ID+"/cancel", "guest", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestClearWishlist_Cancel(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/v1/wishlist/items/12/toggle", "guest", nil)

	rec := env.do(t, http.MethodDelete, "/api/v1/wishlist", "guest", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)
	pending := decodeData[confirm.Pending](t, rec)

	rec = env.do(t, http.MethodPost, "/api/v1/confirmations/"+pending.ID+"/cancel", "guest", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/confirmations/"+pending.ID, "guest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, confirm.OutcomeCancelled, decodeData[confirm.Pending](t, rec).Outcome)

	rec = env.do(t, http.MethodGet, "/api/v1/wishlist", "guest", nil)
	assert.Equal(t, 1, decodeData[service.WishlistPage](t, rec).Count)
}

func TestConfirmation_InvalidID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/confirmations/not-a-uuid", "guest", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_PARAMETER", decodeError(t, rec).Code)
}

// ============================================================================
// Wishlist
// ============================================================================

func TestWishlist_ToggleTwice(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/wishlist/items/10/toggle", "guest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	first := decodeData[service.ToggleResult](t, rec)
	assert.True(t, first.Saved)
	assert.Equal(t, 1, first.Wishlist.Count)

	rec = env.do(t, http.MethodPost, "/api/v1/wishlist/items/10/toggle", "guest", nil)
	second := decodeData[service.ToggleResult](t, rec)
	assert.False(t, second.Saved)
	assert.True(t, second.Wishlist.Empty)

	rec = env.do(t, http.MethodPost, "/api/v1/wishlist/items/999/toggle", "guest", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWishlist_MoveToCartKeepsEntry(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/v1/wishlist/items/4/toggle", "guest", nil)

	rec := env.do(t, http.MethodPost, "/api/v1/wishlist/items/4/move-to-cart", "guest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeData[service.CartPage](t, rec).ItemCount)

	rec = env.do(t, http.MethodGet, "/api/v1/wishlist", "guest", nil)
	page := decodeData[service.WishlistPage](t, rec)
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].InCart)

	rec = env.do(t, http.MethodDelete, "/api/v1/wishlist/items/4", "guest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeData[service.WishlistPage](t, rec).Empty)

	rec = env.do(t, http.MethodPost, "/api/v1/wishlist/items/4/move-to-cart", "guest", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ============================================================================
// Catalog
// ============================================================================

func TestProducts_FilterAndPaginate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/products?category=Fruits&per_page=2", "guest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeData[service.ProductListPage](t, rec)
	assert.Equal(t, 3, page.TotalCount)
	assert.Len(t, page.Data, 2)
	assert.True(t, page.HasNext)
	for _, card := range page.Data {
		assert.Equal(t, "Fruits", card.Category)
	}
}

func TestProducts_InvalidPrice(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/products?min_price=cheap", "guest", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductDetail(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/v1/cart/items", "guest", map[string]int{"productId": 1, "quantity": 4})

	rec := env.do(t, http.MethodGet, "/api/v1/products/1", "guest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeData[service.ProductDetailPage](t, rec)
	assert.Equal(t, "Fresh Red Onions", page.Product.Name)
	assert.True(t, page.InCart)
	assert.Equal(t, 4, page.CartQuantity)
	require.NotNil(t, page.Seller)

	rec = env.do(t, http.MethodGet, "/api/v1/products/77", "guest", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategories_Cacheable(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/categories", "guest", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))

	rec = env.do(t, http.MethodGet, "/api/v1/sellers", "guest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

// ============================================================================
// Seller
// ============================================================================

func TestSeller_ProductsAndOrders(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/seller/products?status=low-stock", "seller", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/v1/seller/products?sort=rating", "seller", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/seller/orders?status=completed", "seller", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/seller/orders?status=shipped", "seller", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/seller/dashboard", "seller", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeData[service.DashboardStats](t, rec)
	assert.Equal(t, 8, stats.TotalProducts)
}

func TestSeller_OrderDetail(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/seller/orders/ORD-002", "seller", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	order := decodeData[domain.SellerOrder](t, rec)
	assert.Equal(t, "Maria Santos", order.Customer)
	assert.Equal(t, domain.OrderProcessing, order.Status)

	rec = env.do(t, http.MethodGet, "/api/v1/seller/orders/ORD-404", "seller", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Code)
}

func TestSeller_DeleteProductNeedsConfirmation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodDelete, "/api/v1/seller/products/3", "seller", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)
	pending := decodeData[confirm.Pending](t, rec)

	rec = env.do(t, http.MethodPost, "/api/v1/confirmations/"+pending.ID+"/accept", "seller", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/seller/dashboard", "seller", nil)
	assert.Equal(t, 7, decodeData[service.DashboardStats](t, rec).TotalProducts)

	rec = env.do(t, http.MethodDelete, "/api/v1/seller/products/3", "seller", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
