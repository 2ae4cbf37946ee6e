package payment

import "context"

// LineItem is one purchasable line sent to the hosted checkout. UnitAmount
// is in minor units (cents).
type LineItem struct {
	Name       string
	Image      string
	Currency   string
	UnitAmount int64
	Quantity   int
}

type CreateSessionRequest struct {
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
}

// Session is the hosted checkout session handle: the id we reconcile
// orders against and the URL the customer is redirected to.
type Session struct {
	ID  string
	URL string
}

// SessionDetails is what the provider reports back after the customer
// returns from hosted checkout.
type SessionDetails struct {
	PaymentStatus string
	CustomerEmail string
	CustomerName  string
	ShippingName  string
	// AddressLines holds the shipping address fields in display order;
	// empty fields included, callers filter when formatting.
	AddressLines []string
}

// Provider is the untrusted network boundary to the hosted payment service.
type Provider interface {
	CreateSession(ctx context.Context, req *CreateSessionRequest) (*Session, error)
	RetrieveSession(ctx context.Context, id string) (*SessionDetails, error)
}
