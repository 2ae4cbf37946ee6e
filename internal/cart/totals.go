package cart

import (
	"github.com/hankjoberg-netizen/voltstore/internal/domain"
)

// ProductResolver is the slice of the catalog that cart computation needs.
// Consumers define this interface, not the catalog implementation.
type ProductResolver interface {
	FindByID(id string) (*domain.Product, error)
}

type Totals struct {
	Total         float64
	TotalQuantity int
}

// Compute derives totals from line items against current catalog prices.
// Pure and idempotent: no state is touched, calling it twice is calling it
// once. Lines whose product no longer resolves are excluded from both the
// total and the quantity count; a product pulled from the catalog after
// being carted must not poison the cart.
func Compute(items []domain.LineItem, resolver ProductResolver) Totals {
	var t Totals
	for _, item := range items {
		p, err := resolver.FindByID(item.ProductID)
		if err != nil {
			continue
		}
		t.Total += p.Price.Amount() * float64(item.Quantity)
		t.TotalQuantity += item.Quantity
	}
	return t
}
