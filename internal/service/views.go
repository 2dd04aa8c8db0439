package service

import (
	"github.com/shopspring/decimal"

	"github.com/Eggie20/Online-Supermarket/internal/domain"
	"github.com/Eggie20/Online-Supermarket/pkg/pagination"
	"github.com/Eggie20/Online-Supermarket/pkg/slug"
)

// CartLineView is one row of the cart page.
type CartLineView struct {
	domain.CartLineItem
	Subtotal    decimal.Decimal `json:"subtotal"`
	CanIncrease bool            `json:"canIncrease"`
	CanDecrease bool            `json:"canDecrease"`
}

// CartPage is the rendered cart: line rows plus the order summary.
type CartPage struct {
	Items     []CartLineView  `json:"items"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Total     decimal.Decimal `json:"total"`
	Empty     bool            `json:"empty"`
}

// WishlistEntryView is one card of the wishlist page.
type WishlistEntryView struct {
	domain.WishlistItem
	InStock    bool   `json:"inStock"`
	StockLabel string `json:"stockLabel"`
	InCart     bool   `json:"inCart"`
}

// WishlistPage is the rendered wishlist.
type WishlistPage struct {
	Items []WishlistEntryView `json:"items"`
	Count int                 `json:"count"`
	Empty bool                `json:"empty"`
}

// ToggleResult reports the outcome of a wishlist toggle.
type ToggleResult struct {
	Saved    bool         `json:"saved"`
	Wishlist WishlistPage `json:"wishlist"`
}

// ProductCard is a product in the grid, annotated for one profile.
type ProductCard struct {
	domain.CatalogProduct
	Slug        string `json:"slug"`
	StockStatus string `json:"stockStatus"`
	StockLabel  string `json:"stockLabel"`
	InWishlist  bool   `json:"inWishlist"`
}

// ProductListPage is one page of the filtered product grid.
type ProductListPage struct {
	pagination.Result[ProductCard]
	Sort string `json:"sort"`
}

// ProductDetailPage is the product detail view.
type ProductDetailPage struct {
	Product      domain.CatalogProduct `json:"product"`
	Slug         string                `json:"slug"`
	StockStatus  string                `json:"stockStatus"`
	StockLabel   string                `json:"stockLabel"`
	Seller       *domain.Seller        `json:"seller,omitempty"`
	Related      []ProductCard         `json:"related"`
	InCart       bool                  `json:"inCart"`
	CartQuantity int                   `json:"cartQuantity"`
	InWishlist   bool                  `json:"inWishlist"`
}

// RenderCart builds the cart page from a list snapshot.
func RenderCart(items domain.LineItems) CartPage {
	rows := make([]CartLineView, len(items))
	for i, item := range items {
		rows[i] = CartLineView{
			CartLineItem: item,
			Subtotal:     item.Subtotal(),
			CanIncrease:  item.Quantity < item.Stock,
			CanDecrease:  item.Quantity > 1,
		}
	}

	total := items.Total()
	return CartPage{
		Items:     rows,
		ItemCount: items.ItemCount(),
		Subtotal:  total,
		Total:     total,
		Empty:     len(items) == 0,
	}
}

// RenderWishlist builds the wishlist page, flagging entries already in cart.
func RenderWishlist(items domain.SavedItems, cart domain.LineItems) WishlistPage {
	rows := make([]WishlistEntryView, len(items))
	for i, item := range items {
		rows[i] = WishlistEntryView{
			WishlistItem: item,
			InStock:      item.Stock > 0,
			StockLabel:   domain.StockLabel(item.Stock),
			InCart:       cart.IndexOf(item.ID) >= 0,
		}
	}
	return WishlistPage{
		Items: rows,
		Count: len(items),
		Empty: len(items) == 0,
	}
}

func newProductCard(p domain.CatalogProduct, saved domain.SavedItems) ProductCard {
	return ProductCard{
		CatalogProduct: p,
		Slug:           slug.Generate(p.Name),
		StockStatus:    domain.StockStatus(p.Stock),
		StockLabel:     domain.StockLabel(p.Stock),
		InWishlist:     saved.IndexOf(p.ID) >= 0,
	}
}
