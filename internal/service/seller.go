package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Eggie20/Online-Supermarket/internal/confirm"
	"github.com/Eggie20/Online-Supermarket/internal/domain"
	apperrors "github.com/Eggie20/Online-Supermarket/pkg/errors"
)

// KindDeleteProduct is the confirmation kind guarding listing deletion.
const KindDeleteProduct = "delete_product"

// Seller product sort orders.
const (
	SellerSortName  = "name"
	SellerSortPrice = "price"
	SellerSortStock = "stock"
	SellerSortDate  = "date"
)

// OrderFilterAll selects every order.
const OrderFilterAll = "all"

// SellerProductFilter narrows the seller product table.
type SellerProductFilter struct {
	Search   string
	Category string
	Status   string
	Sort     string
}

// DashboardStats summarises the seller's listings and orders.
type DashboardStats struct {
	TotalProducts  int                    `json:"totalProducts"`
	ActiveProducts int                    `json:"activeProducts"`
	LowStock       int                    `json:"lowStock"`
	OutOfStock     int                    `json:"outOfStock"`
	TotalOrders    int                    `json:"totalOrders"`
	OrdersByStatus map[string]int         `json:"ordersByStatus"`
	Revenue        decimal.Decimal        `json:"revenue"`
	InventoryValue decimal.Decimal        `json:"inventoryValue"`
	RecentProducts []domain.SellerProduct `json:"recentProducts"`
}

// SellerService implements the seller back office: the product table, the
// read-only order table and the dashboard.
type SellerService struct {
	mu       sync.RWMutex
	products []domain.SellerProduct
	orders   []domain.SellerOrder
	confirms *confirm.Registry
	logger   *slog.Logger
}

// NewSellerService creates a seller service seeded with the demo listings and orders.
func NewSellerService(confirms *confirm.Registry, logger *slog.Logger) *SellerService {
	return &SellerService{
		products: sellerListings(),
		orders:   sellerOrders(),
		confirms: confirms,
		logger:   logger,
	}
}

// Products returns the listings matching f.
func (s *SellerService) Products(f SellerProductFilter) ([]domain.SellerProduct, error) {
	if f.Status != "" && !domain.IsValidListingStatus(f.Status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown status %q", f.Status))
	}

	var less func(a, b domain.SellerProduct) int
	switch f.Sort {
	case "", SellerSortName:
		less = func(a, b domain.SellerProduct) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case SellerSortPrice:
		less = func(a, b domain.SellerProduct) int { return a.Price.Cmp(b.Price) }
	case SellerSortStock:
		less = func(a, b domain.SellerProduct) int { return cmp.Compare(b.Stock, a.Stock) }
	case SellerSortDate:
		less = func(a, b domain.SellerProduct) int { return b.DateAdded.Compare(a.DateAdded) }
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown sort %q", f.Sort))
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))

	s.mu.RLock()
	out := make([]domain.SellerProduct, 0, len(s.products))
	for _, p := range s.products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Category), search) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		out = append(out, p)
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, less)
	return out, nil
}

// RequestDeleteProduct opens a confirmation that removes listing id when accepted.
func (s *SellerService) RequestDeleteProduct(_ context.Context, profile string, id int) (confirm.Pending, error) {
	s.mu.RLock()
	idx := s.indexOf(id)
	s.mu.RUnlock()
	if idx < 0 {
		return confirm.Pending{}, apperrors.NotFound("product", strconv.Itoa(id))
	}

	return s.confirms.Request(profile, KindDeleteProduct,
		"Are you sure you want to delete this product?",
		func(ctx context.Context) error {
			return s.deleteProduct(ctx, id)
		})
}

func (s *SellerService) deleteProduct(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return apperrors.NotFound("product", strconv.Itoa(id))
	}
	s.products = slices.Delete(s.products, idx, idx+1)

	s.logger.InfoContext(ctx, "seller product deleted", slog.Int("product_id", id))
	return nil
}

// Orders returns the orders with status, or all orders for "" and "all".
func (s *SellerService) Orders(status string) ([]domain.SellerOrder, error) {
	if status == "" {
		status = OrderFilterAll
	}
	if status != OrderFilterAll && !domain.IsValidOrderStatus(status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown order status %q", status))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SellerOrder, 0, len(s.orders))
	for _, o := range s.orders {
		if status == OrderFilterAll || o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

// Order returns the order with id. Ids match case-insensitively.
func (s *SellerService) Order(id string) (domain.SellerOrder, error) {
	id = strings.TrimSpace(id)

	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.orders, func(o domain.SellerOrder) bool { return strings.EqualFold(o.ID, id) })
	if i < 0 {
		return domain.SellerOrder{}, apperrors.NotFound("order", id)
	}
	return s.orders[i], nil
}

// Dashboard computes the dashboard stat cards. Revenue counts completed orders only.
func (s *SellerService) Dashboard() DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := DashboardStats{
		TotalProducts:  len(s.products),
		TotalOrders:    len(s.orders),
		OrdersByStatus: make(map[string]int),
		Revenue:        decimal.Zero,
		InventoryValue: decimal.Zero,
	}
	for _, p := range s.products {
		switch p.Status {
		case domain.ListingActive:
			stats.ActiveProducts++
		case domain.ListingLowStock:
			stats.LowStock++
		case domain.ListingOutOfStock:
			stats.OutOfStock++
		}
		stats.InventoryValue = stats.InventoryValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	for _, o := range s.orders {
		stats.OrdersByStatus[o.Status]++
		if o.Status == domain.OrderCompleted {
			stats.Revenue = stats.Revenue.Add(o.Total)
		}
	}

	recent := slices.Clone(s.products)
	slices.SortStableFunc(recent, func(a, b domain.SellerProduct) int { return b.DateAdded.Compare(a.DateAdded) })
	stats.RecentProducts = recent[:min(5, len(recent))]
	return stats
}

func (s *SellerService) indexOf(id int) int {
	return slices.IndexFunc(s.products, func(p domain.SellerProduct) bool { return p.ID == id })
}
