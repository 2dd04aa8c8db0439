package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Eggie20/Online-Supermarket/internal/domain"
)

// Notification types broadcast after store mutations.
const (
	TypeCartUpdated     = "cart.updated"
	TypeWishlistUpdated = "wishlist.updated"
)

// CartSnapshot is the cart state carried by a cart.updated notification.
type CartSnapshot struct {
	Items domain.LineItems `json:"items"`
	Count int              `json:"count"`
	Total decimal.Decimal  `json:"total"`
}

// WishlistSnapshot is the wishlist state carried by a wishlist.updated notification.
type WishlistSnapshot struct {
	Items domain.SavedItems `json:"items"`
	Count int               `json:"count"`
}

// Notification is broadcast on the Bus after every store mutation. Exactly one
// of Cart or Wishlist is set, matching Type. Origin is empty for local
// mutations and names the publishing replica for changes replayed from Kafka.
type Notification struct {
	Type       string            `json:"type"`
	Profile    string            `json:"profile"`
	Cart       *CartSnapshot     `json:"cart,omitempty"`
	Wishlist   *WishlistSnapshot `json:"wishlist,omitempty"`
	Origin     string            `json:"origin,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// NewCartUpdated builds a cart.updated notification from a list snapshot.
func NewCartUpdated(profile string, items domain.LineItems) Notification {
	items = items.Clone()
	return Notification{
		Type:    TypeCartUpdated,
		Profile: profile,
		Cart: &CartSnapshot{
			Items: items,
			Count: items.ItemCount(),
			Total: items.Total(),
		},
		OccurredAt: time.Now().UTC(),
	}
}

// NewWishlistUpdated builds a wishlist.updated notification from a list snapshot.
func NewWishlistUpdated(profile string, items domain.SavedItems) Notification {
	items = items.Clone()
	return Notification{
		Type:    TypeWishlistUpdated,
		Profile: profile,
		Wishlist: &WishlistSnapshot{
			Items: items,
			Count: len(items),
		},
		OccurredAt: time.Now().UTC(),
	}
}
