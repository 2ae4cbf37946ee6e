package cart

import (
	"errors"
	"time"

	"github.com/hankjoberg-netizen/voltstore/internal/domain"
)

var ErrUnknownProduct = errors.New("unknown product")

// Engine owns cart mutation. It operates on carts passed in by the caller;
// where a cart lives between requests (memory, redis, ...) is the session
// store's concern, not the engine's.
type Engine struct {
	resolver ProductResolver
}

func NewEngine(resolver ProductResolver) *Engine {
	return &Engine{resolver: resolver}
}

// Add puts quantity of productID into the cart. Quantities below 1 clamp to
// 1. An existing line for the product is incremented, never replaced;
// a new line is appended at the end. Returns ErrUnknownProduct, with the
// cart untouched, when the id does not resolve.
func (e *Engine) Add(c *domain.Cart, productID string, quantity int) error {
	if _, err := e.resolver.FindByID(productID); err != nil {
		return ErrUnknownProduct
	}

	quantity = clampQuantity(quantity)
	if i := c.Find(productID); i >= 0 {
		c.Items[i].Quantity += quantity
	} else {
		c.Items = append(c.Items, domain.LineItem{ProductID: productID, Quantity: quantity})
	}

	e.Recompute(c)
	return nil
}

// Remove deletes the line for productID. Removing an absent product is a
// no-op, not an error.
func (e *Engine) Remove(c *domain.Cart, productID string) {
	i := c.Find(productID)
	if i < 0 {
		return
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	e.Recompute(c)
}

// SetQuantity replaces the quantity on an existing line, clamping to a
// minimum of 1. No-op when the product is not in the cart.
func (e *Engine) SetQuantity(c *domain.Cart, productID string, quantity int) {
	i := c.Find(productID)
	if i < 0 {
		return
	}
	c.Items[i].Quantity = clampQuantity(quantity)
	e.Recompute(c)
}

// Clear resets the cart to empty. Used after a confirmed checkout.
func (e *Engine) Clear(c *domain.Cart) {
	c.Items = nil
	e.Recompute(c)
}

// Recompute re-derives Total and TotalQuantity from the lines.
// Must run after every mutation of Items before the cart is read again.
func (e *Engine) Recompute(c *domain.Cart) {
	t := Compute(c.Items, e.resolver)
	c.Total = t.Total
	c.TotalQuantity = t.TotalQuantity
	c.UpdatedAt = time.Now()
}

// ResolvedItem is a cart line joined with its product, for rendering and for
// checkout snapshots.
type ResolvedItem struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
	Subtotal float64        `json:"subtotal"`
}

// Resolve returns the cart lines that still resolve against the catalog,
// in cart order. Unresolvable lines are silently dropped.
func (e *Engine) Resolve(c *domain.Cart) []ResolvedItem {
	resolved := make([]ResolvedItem, 0, len(c.Items))
	for _, item := range c.Items {
		p, err := e.resolver.FindByID(item.ProductID)
		if err != nil {
			continue
		}
		resolved = append(resolved, ResolvedItem{
			Product:  *p,
			Quantity: item.Quantity,
			Subtotal: p.Price.Amount() * float64(item.Quantity),
		})
	}
	return resolved
}

func clampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}
