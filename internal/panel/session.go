package panel

import (
	"sync"

	"github.com/angelmondragon/pedidos-storefront/pkg/backend"
)

// Session is one merchant's panel state: the store being edited plus the last fetched zones,
// coupons and orders. Operations on a session are serialised by its mutex.
type Session struct {
	mu      sync.Mutex
	id      string
	store   *backend.Store
	zones   []backend.DeliveryZone
	coupons []backend.Coupon
	orders  []backend.Order
}

// findOrder looks an order up among the last listed orders.
func (s *Session) findOrder(orderID int64) (backend.Order, bool) {
	for _, order := range s.orders {
		if order.ID == orderID {
			return order, true
		}
	}
	return backend.Order{}, false
}

// SessionView is returned when a panel session is opened or inspected.
// Zones and Coupons are the cached listings from the last refresh.
type SessionView struct {
	SessionID string     `json:"session_id"`
	Store     *StoreView `json:"store"`
	Zones     *ListView  `json:"zones,omitempty"`
	Coupons   *ListView  `json:"coupons,omitempty"`
}
