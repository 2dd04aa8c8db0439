// Package catalog holds the static product catalog and the pure query helpers
// used by the product list and product detail pages.
package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Eggie20/Online-Supermarket/internal/domain"
)

// Sort orders accepted by Sort and Query.Sort.
const (
	SortFeatured  = "featured"
	SortNameAsc   = "name-asc"
	SortNameDesc  = "name-desc"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortStockDesc = "stock-desc"
)

// RelatedLimit is the number of related products shown on a detail page.
const RelatedLimit = 4

// IsValidSort checks whether s is a known sort order.
func IsValidSort(s string) bool {
	switch s {
	case SortFeatured, SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc, SortStockDesc:
		return true
	}
	return false
}

// Catalog is an immutable set of products, categories and sellers. All query
// methods return fresh slices that callers may modify.
type Catalog struct {
	products   []domain.CatalogProduct
	categories []domain.Category
	sellers    []domain.Seller
	byID       map[int]int
}

// New builds a catalog over the given data.
func New(products []domain.CatalogProduct, categories []domain.Category, sellers []domain.Seller) *Catalog {
	c := &Catalog{
		products:   slices.Clone(products),
		categories: slices.Clone(categories),
		sellers:    slices.Clone(sellers),
		byID:       make(map[int]int, len(products)),
	}
	for i, p := range c.products {
		c.byID[p.ID] = i
	}
	return c
}

// Default returns the built-in supermarket catalog.
func Default() *Catalog {
	return New(defaultProducts, defaultCategories, defaultSellers)
}

// All returns every product in catalog order.
func (c *Catalog) All() []domain.CatalogProduct {
	return slices.Clone(c.products)
}

// ByID looks up a product. A miss is reported through ok, never as an error.
func (c *Catalog) ByID(id int) (domain.CatalogProduct, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return domain.CatalogProduct{}, false
	}
	return c.products[idx], true
}

// ByCategory returns the products in category, matched case-insensitively.
func (c *Catalog) ByCategory(category string) []domain.CatalogProduct {
	return c.where(func(p domain.CatalogProduct) bool {
		return strings.EqualFold(p.Category, category)
	})
}

// Featured returns the featured products.
func (c *Catalog) Featured() []domain.CatalogProduct {
	return c.where(func(p domain.CatalogProduct) bool { return p.Featured })
}

// Search returns products whose name, category or seller contains query,
// ignoring case. An empty query matches everything.
func (c *Catalog) Search(query string) []domain.CatalogProduct {
	return c.where(searchMatcher(query))
}

// Related returns up to limit other products from p's category.
func (c *Catalog) Related(p domain.CatalogProduct, limit int) []domain.CatalogProduct {
	out := make([]domain.CatalogProduct, 0, limit)
	for _, candidate := range c.products {
		if len(out) == limit {
			break
		}
		if candidate.Category == p.Category && candidate.ID != p.ID {
			out = append(out, candidate)
		}
	}
	return out
}

// Categories returns the category list.
func (c *Catalog) Categories() []domain.Category {
	return slices.Clone(c.categories)
}

// Sellers returns the seller list.
func (c *Catalog) Sellers() []domain.Seller {
	return slices.Clone(c.sellers)
}

// Seller looks up a seller by name.
func (c *Catalog) Seller(name string) (domain.Seller, bool) {
	for _, s := range c.sellers {
		if s.Name == name {
			return s, true
		}
	}
	return domain.Seller{}, false
}

// Query describes the product list filters. Zero values mean "no filter".
type Query struct {
	Search     string
	Categories []string
	Sellers    []string
	MinPrice   decimal.NullDecimal
	MaxPrice   decimal.NullDecimal
	// Stock holds stock bands (domain.StockInStock and friends); a product
	// matching any listed band is kept.
	Stock []string
	Sort  string
}

// Filter applies q to the catalog and returns the sorted matches.
func (c *Catalog) Filter(q Query) []domain.CatalogProduct {
	matchSearch := searchMatcher(q.Search)

	out := c.where(func(p domain.CatalogProduct) bool {
		if !matchSearch(p) {
			return false
		}
		if len(q.Categories) > 0 && !containsFold(q.Categories, p.Category) {
			return false
		}
		if q.MinPrice.Valid && p.Price.LessThan(q.MinPrice.Decimal) {
			return false
		}
		if q.MaxPrice.Valid && p.Price.GreaterThan(q.MaxPrice.Decimal) {
			return false
		}
		if len(q.Stock) > 0 && !slices.Contains(q.Stock, domain.StockStatus(p.Stock)) {
			return false
		}
		if len(q.Sellers) > 0 && !containsFold(q.Sellers, p.Seller) {
			return false
		}
		return true
	})

	Sort(out, q.Sort)
	return out
}

// Sort orders products in place. Unknown orders fall back to SortFeatured.
// The sort is stable, so ties keep catalog order.
func Sort(products []domain.CatalogProduct, order string) {
	var less func(a, b domain.CatalogProduct) int

	switch order {
	case SortNameAsc:
		less = func(a, b domain.CatalogProduct) int { return compareFold(a.Name, b.Name) }
	case SortNameDesc:
		less = func(a, b domain.CatalogProduct) int { return compareFold(b.Name, a.Name) }
	case SortPriceAsc:
		less = func(a, b domain.CatalogProduct) int { return a.Price.Cmp(b.Price) }
	case SortPriceDesc:
		less = func(a, b domain.CatalogProduct) int { return b.Price.Cmp(a.Price) }
	case SortStockDesc:
		less = func(a, b domain.CatalogProduct) int { return cmp.Compare(b.Stock, a.Stock) }
	default:
		less = func(a, b domain.CatalogProduct) int { return cmp.Compare(rank(b.Featured), rank(a.Featured)) }
	}

	slices.SortStableFunc(products, less)
}

func (c *Catalog) where(keep func(domain.CatalogProduct) bool) []domain.CatalogProduct {
	out := make([]domain.CatalogProduct, 0, len(c.products))
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func searchMatcher(query string) func(domain.CatalogProduct) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return func(domain.CatalogProduct) bool { return true }
	}
	return func(p domain.CatalogProduct) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Category), q) ||
			strings.Contains(strings.ToLower(p.Seller), q)
	}
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func compareFold(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func rank(b bool) int {
	if b {
		return 1
	}
	return 0
}
