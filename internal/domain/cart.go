package domain

import "time"

// Cart is scoped to one session. Total and TotalQuantity are derived from
// Items against current catalog prices; after any mutation of Items the cart
// is inconsistent until recomputed.
type Cart struct {
	Items         []LineItem `json:"items"`
	Total         float64    `json:"total"`
	TotalQuantity int        `json:"total_quantity"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type LineItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Find returns the index of the line holding productID, or -1.
func (c *Cart) Find(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
