package store

import (
	"slices"

	"github.com/Cloud-Net-Park/Gravel/models"
)

// AddToCart adds quantity units of product in size. A line for the same
// product and size absorbs the quantity; otherwise a new line is appended.
// Non-positive quantities are ignored.
func (s *Store) AddToCart(product models.Product, size string, quantity int) {
	if quantity <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart {
		if s.cart[i].ID == product.ID && s.cart[i].SelectedSize == size {
			s.cart[i].Quantity += quantity
			return
		}
	}
	s.cart = append(s.cart, models.CartItem{Product: product, Quantity: quantity, SelectedSize: size})
}

// RemoveFromCart drops every line of productID, whatever its size.
func (s *Store) RemoveFromCart(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeFromCartLocked(productID)
}

func (s *Store) removeFromCartLocked(productID string) {
	s.cart = slices.DeleteFunc(s.cart, func(item models.CartItem) bool {
		return item.ID == productID
	})
}

// UpdateCartQuantity sets quantity on every line of productID. A quantity
// of zero or less removes the product.
func (s *Store) UpdateCartQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeFromCartLocked(productID)
		return
	}
	for i := range s.cart {
		if s.cart[i].ID == productID {
			s.cart[i].Quantity = quantity
		}
	}
}

// ClearCart empties the cart.
func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
}

// CartSummary totals the cart.
func (s *Store) CartSummary() models.CartSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.SummarizeCart(slices.Clone(s.cart))
}
