package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Eggie20/Online-Supermarket/internal/catalog"
	"github.com/Eggie20/Online-Supermarket/internal/confirm"
	"github.com/Eggie20/Online-Supermarket/internal/domain"
	apperrors "github.com/Eggie20/Online-Supermarket/pkg/errors"
	"github.com/Eggie20/Online-Supermarket/pkg/pagination"
	"github.com/Eggie20/Online-Supermarket/pkg/slug"
)

// Confirmation kinds raised by the storefront.
const (
	KindClearCart     = "clear_cart"
	KindClearWishlist = "clear_wishlist"
)

// MaxQuantityPerAdd bounds a single add-to-cart request.
const MaxQuantityPerAdd = 100

// AddToCartInput holds the parameters for adding a product to the cart.
type AddToCartInput struct {
	ProductID int `json:"productId" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"omitempty,gte=1,lte=100"`
}

// SetQuantityInput holds the parameters for setting a line quantity. Zero
// removes the line.
type SetQuantityInput struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=1000"`
}

// ProductListInput is the product list query string, as received.
type ProductListInput struct {
	Category string
	Search   string
	Seller   string
	MinPrice string
	MaxPrice string
	// Stock is a comma-separated list of stock bands.
	Stock string
	Sort  string
	Page  pagination.Params
}

// StorefrontService implements the shopper-facing pages and actions.
type StorefrontService struct {
	catalog  *catalog.Catalog
	sessions *Sessions
	confirms *confirm.Registry
	logger   *slog.Logger
}

// NewStorefrontService creates a new storefront service.
func NewStorefrontService(cat *catalog.Catalog, sessions *Sessions, confirms *confirm.Registry, logger *slog.Logger) *StorefrontService {
	return &StorefrontService{
		catalog:  cat,
		sessions: sessions,
		confirms: confirms,
		logger:   logger,
	}
}

// --- Cart ---

// CartPage renders the cart of profile.
func (s *StorefrontService) CartPage(ctx context.Context, profile string) CartPage {
	return RenderCart(s.sessions.CartItems(ctx, profile))
}

// AddToCart looks the product up in the catalog and adds it to the cart.
// Out-of-stock products are refused.
func (s *StorefrontService) AddToCart(ctx context.Context, profile string, input AddToCartInput) (CartPage, error) {
	if input.Quantity > MaxQuantityPerAdd {
		return CartPage{}, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerAdd))
	}

	p, ok := s.catalog.ByID(input.ProductID)
	if !ok {
		return CartPage{}, apperrors.NotFound("product", strconv.Itoa(input.ProductID))
	}
	if !p.InStock() {
		return CartPage{}, apperrors.InvalidInput(fmt.Sprintf("%s is out of stock", p.Name))
	}

	cart := s.sessions.Cart(ctx, profile)
	cart.AddItem(ctx, p, input.Quantity)
	return RenderCart(cart.Items()), nil
}

// IncreaseQuantity adds one unit to a cart line, up to its stock.
func (s *StorefrontService) IncreaseQuantity(ctx context.Context, profile string, productID int) (CartPage, error) {
	cart := s.sessions.Cart(ctx, profile)
	item, ok := cart.Item(productID)
	if !ok {
		return CartPage{}, apperrors.NotFound("cart item", strconv.Itoa(productID))
	}
	if item.Quantity >= item.Stock {
		return CartPage{}, apperrors.InvalidInput(fmt.Sprintf("only %d of %s in stock", item.Stock, item.Name))
	}

	cart.UpdateQuantity(ctx, productID, item.Quantity+1)
	return RenderCart(cart.Items()), nil
}

// DecreaseQuantity removes one unit from a cart line. A line is never
// decreased below one; use RemoveFromCart instead.
func (s *StorefrontService) DecreaseQuantity(ctx context.Context, profile string, productID int) (CartPage, error) {
	cart := s.sessions.Cart(ctx, profile)
	item, ok := cart.Item(productID)
	if !ok {
		return CartPage{}, apperrors.NotFound("cart item", strconv.Itoa(productID))
	}
	if item.Quantity <= 1 {
		return CartPage{}, apperrors.InvalidInput("quantity is already at the minimum")
	}

	cart.UpdateQuantity(ctx, productID, item.Quantity-1)
	return RenderCart(cart.Items()), nil
}

// SetQuantity sets a cart line to an exact quantity. Values above the stock
// are clamped; zero removes the line.
func (s *StorefrontService) SetQuantity(ctx context.Context, profile string, productID int, input SetQuantityInput) (CartPage, error) {
	cart := s.sessions.Cart(ctx, profile)
	if !cart.HasItem(productID) {
		return CartPage{}, apperrors.NotFound("cart item", strconv.Itoa(productID))
	}

	cart.UpdateQuantity(ctx, productID, input.Quantity)
	return RenderCart(cart.Items()), nil
}

// RemoveFromCart deletes a cart line. Removing an absent line is not an error.
func (s *StorefrontService) RemoveFromCart(ctx context.Context, profile string, productID int) CartPage {
	cart := s.sessions.Cart(ctx, profile)
	cart.RemoveItem(ctx, productID)
	return RenderCart(cart.Items())
}

// RequestClearCart opens a confirmation that empties the cart when accepted.
func (s *StorefrontService) RequestClearCart(ctx context.Context, profile string) (confirm.Pending, error) {
	cart := s.sessions.Cart(ctx, profile)
	if cart.ItemCount() == 0 {
		return confirm.Pending{}, apperrors.Conflict("your cart is already empty")
	}

	return s.confirms.Request(profile, KindClearCart,
		"Are you sure you want to clear all items from your cart?",
		func(ctx context.Context) error {
			s.sessions.Cart(ctx, profile).Clear(ctx)
			return nil
		})
}

// --- Wishlist ---

// WishlistPage renders the wishlist of profile.
func (s *StorefrontService) WishlistPage(ctx context.Context, profile string) WishlistPage {
	return RenderWishlist(s.sessions.SavedItems(ctx, profile), s.sessions.CartItems(ctx, profile))
}

// ToggleWishlist saves or unsaves a catalog product.
func (s *StorefrontService) ToggleWishlist(ctx context.Context, profile string, productID int) (ToggleResult, error) {
	p, ok := s.catalog.ByID(productID)
	if !ok {
		return ToggleResult{}, apperrors.NotFound("product", strconv.Itoa(productID))
	}

	wishlist := s.sessions.Wishlist(ctx, profile)
	saved := wishlist.ToggleItem(ctx, p)
	return ToggleResult{
		Saved:    saved,
		Wishlist: RenderWishlist(wishlist.Items(), s.sessions.CartItems(ctx, profile)),
	}, nil
}

// MoveWishlistItemToCart adds one unit of a saved item to the cart using the
// snapshot stored in the wishlist. The wishlist entry is kept.
func (s *StorefrontService) MoveWishlistItemToCart(ctx context.Context, profile string, productID int) (CartPage, error) {
	item, ok := s.sessions.Wishlist(ctx, profile).Item(productID)
	if !ok {
		return CartPage{}, apperrors.NotFound("wishlist item", strconv.Itoa(productID))
	}
	if item.Stock <= 0 {
		return CartPage{}, apperrors.InvalidInput(fmt.Sprintf("%s is out of stock", item.Name))
	}

	cart := s.sessions.Cart(ctx, profile)
	cart.AddItem(ctx, item.Product(), 1)
	return RenderCart(cart.Items()), nil
}

// RemoveFromWishlist deletes a saved item.
func (s *StorefrontService) RemoveFromWishlist(ctx context.Context, profile string, productID int) WishlistPage {
	wishlist := s.sessions.Wishlist(ctx, profile)
	wishlist.RemoveItem(ctx, productID)
	return RenderWishlist(wishlist.Items(), s.sessions.CartItems(ctx, profile))
}

// RequestClearWishlist opens a confirmation that empties the wishlist when accepted.
func (s *StorefrontService) RequestClearWishlist(ctx context.Context, profile string) (confirm.Pending, error) {
	wishlist := s.sessions.Wishlist(ctx, profile)
	if wishlist.Count() == 0 {
		return confirm.Pending{}, apperrors.Conflict("your wishlist is already empty")
	}

	return s.confirms.Request(profile, KindClearWishlist,
		"Are you sure you want to remove all items from your wishlist?",
		func(ctx context.Context) error {
			s.sessions.Wishlist(ctx, profile).Clear(ctx)
			return nil
		})
}

// --- Catalog pages ---

// ProductList renders one page of the filtered product grid.
func (s *StorefrontService) ProductList(ctx context.Context, profile string, input ProductListInput) (ProductListPage, error) {
	q, err := parseProductQuery(input)
	if err != nil {
		return ProductListPage{}, err
	}

	saved := s.sessions.SavedItems(ctx, profile)
	matches := s.catalog.Filter(q)
	cards := make([]ProductCard, len(matches))
	for i, p := range matches {
		cards[i] = newProductCard(p, saved)
	}

	return ProductListPage{
		Result: pagination.Slice(cards, input.Page),
		Sort:   q.Sort,
	}, nil
}

// ProductDetail renders the detail page of one product.
func (s *StorefrontService) ProductDetail(ctx context.Context, profile string, productID int) (ProductDetailPage, error) {
	p, ok := s.catalog.ByID(productID)
	if !ok {
		return ProductDetailPage{}, apperrors.NotFound("product", strconv.Itoa(productID))
	}

	cart := s.sessions.CartItems(ctx, profile)
	saved := s.sessions.SavedItems(ctx, profile)

	related := s.catalog.Related(p, catalog.RelatedLimit)
	cards := make([]ProductCard, len(related))
	for i, r := range related {
		cards[i] = newProductCard(r, saved)
	}

	page := ProductDetailPage{
		Product:     p,
		Slug:        slug.Generate(p.Name),
		StockStatus: domain.StockStatus(p.Stock),
		StockLabel:  domain.StockLabel(p.Stock),
		Related:     cards,
		InWishlist:  saved.IndexOf(p.ID) >= 0,
	}
	if seller, ok := s.catalog.Seller(p.Seller); ok {
		page.Seller = &seller
	}
	if i := cart.IndexOf(p.ID); i >= 0 {
		page.InCart = true
		page.CartQuantity = cart[i].Quantity
	}
	return page, nil
}

// Categories returns the catalog categories.
func (s *StorefrontService) Categories() []domain.Category {
	return s.catalog.Categories()
}

// Sellers returns the catalog sellers.
func (s *StorefrontService) Sellers() []domain.Seller {
	return s.catalog.Sellers()
}

func parseProductQuery(input ProductListInput) (catalog.Query, error) {
	q := catalog.Query{
		Search: strings.TrimSpace(input.Search),
		Sort:   catalog.SortFeatured,
	}
	if input.Category != "" {
		q.Categories = splitList(input.Category)
	}
	if input.Seller != "" {
		q.Sellers = []string{input.Seller}
	}

	if input.Sort != "" {
		if !catalog.IsValidSort(input.Sort) {
			return catalog.Query{}, apperrors.InvalidInput(fmt.Sprintf("unknown sort %q", input.Sort))
		}
		q.Sort = input.Sort
	}

	for _, band := range splitList(input.Stock) {
		switch band {
		case domain.StockInStock, domain.StockLowStock, domain.StockOutOfStock:
			q.Stock = append(q.Stock, band)
		default:
			return catalog.Query{}, apperrors.InvalidInput(fmt.Sprintf("unknown stock filter %q", band))
		}
	}

	var err error
	if q.MinPrice, err = parsePrice("min_price", input.MinPrice); err != nil {
		return catalog.Query{}, err
	}
	if q.MaxPrice, err = parsePrice("max_price", input.MaxPrice); err != nil {
		return catalog.Query{}, err
	}
	if q.MinPrice.Valid && q.MaxPrice.Valid && q.MinPrice.Decimal.GreaterThan(q.MaxPrice.Decimal) {
		return catalog.Query{}, apperrors.InvalidInput("min_price must not exceed max_price")
	}
	return q, nil
}

func parsePrice(field, raw string) (decimal.NullDecimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.NullDecimal{}, apperrors.InvalidInput(fmt.Sprintf("%s must be a non-negative number", field))
	}
	return decimal.NewNullDecimal(d), nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
