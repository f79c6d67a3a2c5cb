package models

import (
	"github.com/shopspring/decimal"
)

// CartItem represents a product line in the shopping cart.
// Lines are keyed by product id and selected size.
type CartItem struct {
	Product
	Quantity     int    `json:"quantity"`
	SelectedSize string `json:"selected_size"`
}

// LineTotal is price times quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartSummary provides a summary of the cart with totals
type CartSummary struct {
	ItemCount   int        `json:"item_count"`
	TotalItems  int        `json:"total_items"`
	TotalAmount float64    `json:"total_amount"`
	Items       []CartItem `json:"items"`
}

// CartTotal sums price times quantity over items
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// SummarizeCart computes the cart summary for items
func SummarizeCart(items []CartItem) CartSummary {
	summary := CartSummary{
		ItemCount:   len(items),
		TotalAmount: CartTotal(items).InexactFloat64(),
		Items:       items,
	}
	for _, item := range items {
		summary.TotalItems += item.Quantity
	}
	return summary
}
