package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Stock bands used by the product list filters and stock labels.
const (
	StockInStock    = "in-stock"
	StockLowStock   = "low-stock"
	StockOutOfStock = "out-of-stock"

	// LowStockThreshold is the stock level below which a product counts as low stock.
	LowStockThreshold = 20
)

// CatalogProduct is a read-only product snapshot from the static catalog.
type CatalogProduct struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Price          decimal.Decimal `json:"price"`
	Stock          int             `json:"stock"`
	Seller         string          `json:"seller"`
	SellerLocation string          `json:"sellerLocation"`
	Image          string          `json:"image"`
	Description    string          `json:"description"`
	Unit           string          `json:"unit"`
	Featured       bool            `json:"featured"`
	Rating         float64         `json:"rating"`
	Reviews        int             `json:"reviews"`
}

// InStock reports whether at least one unit is available.
func (p CatalogProduct) InStock() bool {
	return p.Stock > 0
}

// Category groups catalog products.
type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Count int    `json:"count"`
}

// Seller is a store that lists products in the catalog.
type Seller struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Location      string  `json:"location"`
	Contact       string  `json:"contact"`
	Email         string  `json:"email"`
	Rating        float64 `json:"rating"`
	ProductsCount int     `json:"productsCount"`
	Verified      bool    `json:"verified"`
}

// StockStatus maps a stock level onto one of the stock bands.
func StockStatus(stock int) string {
	switch {
	case stock <= 0:
		return StockOutOfStock
	case stock < LowStockThreshold:
		return StockLowStock
	default:
		return StockInStock
	}
}

// StockLabel is the shopper-facing stock text for a product card.
func StockLabel(stock int) string {
	switch StockStatus(stock) {
	case StockOutOfStock:
		return "Out of Stock"
	case StockLowStock:
		return fmt.Sprintf("Only %d left", stock)
	default:
		return "In Stock"
	}
}
