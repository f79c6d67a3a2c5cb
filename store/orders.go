package store

import (
	"fmt"
	"slices"

	"github.com/Cloud-Net-Park/Gravel/models"
)

// CreateOrder turns the cart into a pending order for the current user and
// empties the cart. Nothing changes when it fails.
func (s *Store) CreateOrder() (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentUser == nil {
		return nil, ErrNotSignedIn
	}
	if len(s.cart) == 0 {
		return nil, ErrEmptyCart
	}

	items := slices.Clone(s.cart)
	address := models.DefaultShippingAddress()
	if s.currentUser.Address != nil {
		address = *s.currentUser.Address
	}

	// ids are never reused, even after DeleteOrder
	s.orderSeq++
	order := models.Order{
		ID:              fmt.Sprintf("ORD-%03d", s.orderSeq),
		UserID:          s.currentUser.ID,
		Items:           items,
		Total:           models.CartTotal(items).InexactFloat64(),
		Status:          models.OrderPending,
		CreatedAt:       s.now(),
		ShippingAddress: address,
	}
	s.orders = append(s.orders, order)
	s.cart = nil

	out := order
	out.Items = slices.Clone(items)
	return &out, nil
}

// UpdateOrderStatus sets the status of order id. Any transition between known
// statuses is allowed; an unknown status is ignored.
func (s *Store) UpdateOrderStatus(id string, status models.OrderStatus) {
	if !status.Valid() {
		s.logger.Warn("ignoring unknown order status", "op", "UpdateOrderStatus", "order", id, "status", status)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
		}
	}
}

// DeleteOrder removes order id. Its number is not handed out again.
func (s *Store) DeleteOrder(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = slices.DeleteFunc(s.orders, func(o models.Order) bool { return o.ID == id })
}

// OrdersForUser returns the orders placed by userID.
func (s *Store) OrdersForUser(userID string) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out
}
