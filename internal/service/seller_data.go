package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Eggie20/Online-Supermarket/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func sellerListings() []domain.SellerProduct {
	return []domain.SellerProduct{
		{ID: 1, Name: "Fresh Red Onions", Category: "Vegetables", Price: decimal.NewFromInt(85), Stock: 50, Status: domain.ListingActive, Image: "assets/img/products/onion.jpg", DateAdded: day("2025-01-15")},
		{ID: 2, Name: "Orange Carrots", Category: "Vegetables", Price: decimal.NewFromInt(95), Stock: 35, Status: domain.ListingActive, Image: "assets/img/products/carrot.jpg", DateAdded: day("2025-01-14")},
		{ID: 3, Name: "Premium White Rice", Category: "Grains", Price: decimal.NewFromInt(52), Stock: 100, Status: domain.ListingActive, Image: "assets/img/products/rice.jpg", DateAdded: day("2025-01-13")},
		{ID: 4, Name: "Farm Fresh Eggs", Category: "Dairy", Price: decimal.RequireFromString("8.50"), Stock: 15, Status: domain.ListingLowStock, Image: "assets/img/products/eggs.jpg", DateAdded: day("2025-01-12")},
		{ID: 5, Name: "Fresh Milk", Category: "Dairy", Price: decimal.NewFromInt(95), Stock: 5, Status: domain.ListingLowStock, Image: "assets/img/products/milk.jpg", DateAdded: day("2025-01-11")},
		{ID: 6, Name: "Chicken Breast", Category: "Meat", Price: decimal.NewFromInt(210), Stock: 15, Status: domain.ListingActive, Image: "assets/img/products/chicken.jpg", DateAdded: day("2025-01-10")},
		{ID: 7, Name: "Fresh Tomatoes", Category: "Vegetables", Price: decimal.NewFromInt(75), Stock: 0, Status: domain.ListingOutOfStock, Image: "assets/img/placeholder.jpg", DateAdded: day("2025-01-09")},
		{ID: 8, Name: "Green Cabbage", Category: "Vegetables", Price: decimal.NewFromInt(65), Stock: 30, Status: domain.ListingActive, Image: "assets/img/placeholder.jpg", DateAdded: day("2025-01-08")},
	}
}

func sellerOrders() []domain.SellerOrder {
	return []domain.SellerOrder{
		{ID: "ORD-001", Customer: "Juan Dela Cruz", Items: 3, Total: decimal.NewFromInt(1250), Status: domain.OrderCompleted, Date: day("2025-12-04")},
		{ID: "ORD-002", Customer: "Maria Santos", Items: 2, Total: decimal.NewFromInt(850), Status: domain.OrderProcessing, Date: day("2025-12-04")},
		{ID: "ORD-003", Customer: "Pedro Reyes", Items: 5, Total: decimal.NewFromInt(2100), Status: domain.OrderPending, Date: day("2025-12-03")},
		{ID: "ORD-004", Customer: "Ana Garcia", Items: 1, Total: decimal.NewFromInt(450), Status: domain.OrderCompleted, Date: day("2025-12-02")},
		{ID: "ORD-005", Customer: "Carlos Lopez", Items: 4, Total: decimal.NewFromInt(1800), Status: domain.OrderCancelled, Date: day("2025-12-01")},
	}
}
