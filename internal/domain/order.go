package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
)

// An abandoned checkout leaves its order pending forever; there is no
// cancelled state.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusPaid
}

func (s OrderStatus) String() string {
	return string(s)
}

// OrderItem is a value copy of a cart line frozen at checkout time.
// Later catalog price changes never touch it.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type Order struct {
	ID                string      `json:"id"`
	ExternalSessionID string      `json:"session_id"`
	Status            OrderStatus `json:"status"`
	Items             []OrderItem `json:"items"`
	Total             float64     `json:"total"`
	CreatedAt         time.Time   `json:"created_at"`
}
