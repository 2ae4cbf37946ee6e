package checkout

import "errors"

var (
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

	// ErrPaymentNotConfigured means no payment backend is wired, an
	// environment problem surfaced to the user as a plain message.
	ErrPaymentNotConfigured = errors.New("payment provider is not configured")
)
