package domain

import "github.com/shopspring/decimal"

// CartLineItem is one product's entry in the cart. Stock is the ceiling copied
// from the catalog when the product first entered the cart.
type CartLineItem struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Seller   string          `json:"seller"`
	Stock    int             `json:"stock"`
	Quantity int             `json:"quantity"`
}

// NewCartLineItem snapshots a catalog product into a line item.
func NewCartLineItem(p CatalogProduct, quantity int) CartLineItem {
	return CartLineItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    canonicalPrice(p.Price),
		Image:    p.Image,
		Seller:   p.Seller,
		Stock:    p.Stock,
		Quantity: quantity,
	}
}

// canonicalPrice strips trailing fractional zeros (8.50 becomes 8.5) so a
// snapshot compares equal to itself after a JSON round trip.
func canonicalPrice(d decimal.Decimal) decimal.Decimal {
	return decimal.RequireFromString(d.String())
}

// Subtotal returns price × quantity for the line.
func (i CartLineItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineItems is the ordered list of cart line items, as persisted.
type LineItems []CartLineItem

// Total calculates the sum of price × quantity over all lines.
func (l LineItems) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range l {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount returns the total number of units in the cart.
func (l LineItems) ItemCount() int {
	var count int
	for _, item := range l {
		count += item.Quantity
	}
	return count
}

// IndexOf returns the index of the line for the given product ID, or -1.
func (l LineItems) IndexOf(productID int) int {
	for i := range l {
		if l[i].ID == productID {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no backing array with l.
func (l LineItems) Clone() LineItems {
	out := make(LineItems, len(l))
	copy(out, l)
	return out
}
