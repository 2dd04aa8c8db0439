package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WishlistItem is a product saved for later.
type WishlistItem struct {
	ID      int             `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Image   string          `json:"image"`
	Seller  string          `json:"seller"`
	Stock   int             `json:"stock"`
	AddedAt time.Time       `json:"addedAt"`
}

// NewWishlistItem snapshots a catalog product into a wishlist entry.
func NewWishlistItem(p CatalogProduct, addedAt time.Time) WishlistItem {
	return WishlistItem{
		ID:      p.ID,
		Name:    p.Name,
		Price:   canonicalPrice(p.Price),
		Image:   p.Image,
		Seller:  p.Seller,
		Stock:   p.Stock,
		AddedAt: addedAt,
	}
}

// Product rebuilds the catalog snapshot carried by the entry, so a saved item
// can be moved to the cart without a fresh catalog lookup.
func (w WishlistItem) Product() CatalogProduct {
	return CatalogProduct{
		ID:     w.ID,
		Name:   w.Name,
		Price:  w.Price,
		Image:  w.Image,
		Seller: w.Seller,
		Stock:  w.Stock,
	}
}

// SavedItems is the ordered list of wishlist entries, as persisted.
type SavedItems []WishlistItem

// IndexOf returns the index of the entry for the given product ID, or -1.
func (s SavedItems) IndexOf(productID int) int {
	for i := range s {
		if s[i].ID == productID {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no backing array with s.
func (s SavedItems) Clone() SavedItems {
	out := make(SavedItems, len(s))
	copy(out, s)
	return out
}
