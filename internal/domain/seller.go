package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Seller product listing statuses.
const (
	ListingActive     = "active"
	ListingLowStock   = "low-stock"
	ListingOutOfStock = "out-of-stock"
)

// Seller order statuses.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

// SellerProduct is a row in the seller's product table.
type SellerProduct struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Status    string          `json:"status"`
	Image     string          `json:"image"`
	DateAdded time.Time       `json:"dateAdded"`
}

// SellerOrder is a row in the seller's order table.
type SellerOrder struct {
	ID       string          `json:"id"`
	Customer string          `json:"customer"`
	Items    int             `json:"items"`
	Total    decimal.Decimal `json:"total"`
	Status   string          `json:"status"`
	Date     time.Time       `json:"date"`
}

// IsValidOrderStatus checks whether s is a known order status.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// IsValidListingStatus checks whether s is a known listing status.
func IsValidListingStatus(s string) bool {
	switch s {
	case ListingActive, ListingLowStock, ListingOutOfStock:
		return true
	}
	return false
}
