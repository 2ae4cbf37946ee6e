package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultStripeAPIBase = "https://api.stripe.com/v1"

// Countries the store ships to; collected by the hosted checkout page.
var shippingCountries = []string{"US", "CA", "GB", "AU"}

// StripeClient talks to the Stripe Checkout Sessions REST API directly:
// form-encoded requests, Bearer auth, JSON responses. Only the handful of
// fields the store consumes are decoded.
type StripeClient struct {
	httpClient *http.Client
	apiBase    string
	secretKey  string
}

func NewStripeClient(secretKey string) *StripeClient {
	return &StripeClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiBase:    defaultStripeAPIBase,
		secretKey:  secretKey,
	}
}

// NewStripeClientWithBase points the client at a different API base,
// used by tests to target a local stub server.
func NewStripeClientWithBase(secretKey, apiBase string) *StripeClient {
	c := NewStripeClient(secretKey)
	c.apiBase = strings.TrimRight(apiBase, "/")
	return c
}

type stripeSession struct {
	ID              string `json:"id"`
	URL             string `json:"url"`
	PaymentStatus   string `json:"payment_status"`
	CustomerDetails struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"customer_details"`
	ShippingDetails struct {
		Name    string `json:"name"`
		Address struct {
			Line1      string `json:"line1"`
			Line2      string `json:"line2"`
			City       string `json:"city"`
			State      string `json:"state"`
			PostalCode string `json:"postal_code"`
			Country    string `json:"country"`
		} `json:"address"`
	} `json:"shipping_details"`
}

type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *StripeClient) CreateSession(ctx context.Context, req *CreateSessionRequest) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("billing_address_collection", "auto")
	form.Set("phone_number_collection[enabled]", "true")
	form.Set("allow_promotion_codes", "true")
	for i, country := range shippingCountries {
		form.Set(fmt.Sprintf("shipping_address_collection[allowed_countries][%d]", i), country)
	}

	for i, item := range req.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", item.Currency)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.UnitAmount, 10))
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		if item.Image != "" {
			form.Set(prefix+"[price_data][product_data][images][0]", item.Image)
		}
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
	}

	var sess stripeSession
	if err := c.do(ctx, http.MethodPost, "/checkout/sessions", form, &sess); err != nil {
		return nil, err
	}

	return &Session{ID: sess.ID, URL: sess.URL}, nil
}

func (c *StripeClient) RetrieveSession(ctx context.Context, id string) (*SessionDetails, error) {
	var sess stripeSession
	path := "/checkout/sessions/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, nil, &sess); err != nil {
		return nil, err
	}

	addr := sess.ShippingDetails.Address
	return &SessionDetails{
		PaymentStatus: sess.PaymentStatus,
		CustomerEmail: sess.CustomerDetails.Email,
		CustomerName:  sess.CustomerDetails.Name,
		ShippingName:  sess.ShippingDetails.Name,
		AddressLines:  []string{addr.Line1, addr.Line2, addr.City, addr.State, addr.PostalCode, addr.Country},
	}, nil
}

func (c *StripeClient) do(ctx context.Context, method, path string, form url.Values, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, body)
	if err != nil {
		return fmt.Errorf("build stripe request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read stripe response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr stripeError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("stripe error (%s): %s", apiErr.Error.Type, apiErr.Error.Message)
		}
		return fmt.Errorf("stripe returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode stripe response: %w", err)
	}
	return nil
}
