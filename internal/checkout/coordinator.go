package checkout

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hankjoberg-netizen/voltstore/internal/cart"
	"github.com/hankjoberg-netizen/voltstore/internal/domain"
	"github.com/hankjoberg-netizen/voltstore/internal/payment"
	"github.com/hankjoberg-netizen/voltstore/internal/repository"
	"github.com/hankjoberg-netizen/voltstore/internal/session"
)

const checkoutCurrency = "usd"

// EventSink receives order lifecycle notifications. Failures are logged,
// never propagated; events must not be able to fail a checkout.
type EventSink interface {
	OrderCreated(ctx context.Context, order *domain.Order) error
	OrderPaid(ctx context.Context, order *domain.Order) error
}

// Redirect is where the customer goes next after initiating checkout.
type Redirect struct {
	OrderID string
	URL     string
}

// Confirmation is the view model for the post-payment page. Confirmed is
// false when the provider lookup failed; the page still renders, just
// without order details.
type Confirmation struct {
	Confirmed       bool
	OrderID         string
	Email           string
	ShippingName    string
	ShippingAddress string
}

// Coordinator drives the order state machine: a cart becomes a pending
// order when the hosted payment session is created, and the order flips to
// paid (one-way, terminal) when the provider confirms payment. An abandoned
// checkout leaves the order pending forever.
type Coordinator struct {
	engine   *cart.Engine
	orders   repository.OrderRepository
	sessions session.Store
	provider payment.Provider
	events   EventSink
	logger   *zap.Logger
	baseURL  string
}

func NewCoordinator(
	engine *cart.Engine,
	orders repository.OrderRepository,
	sessions session.Store,
	provider payment.Provider,
	events EventSink,
	logger *zap.Logger,
	baseURL string,
) *Coordinator {
	return &Coordinator{
		engine:   engine,
		orders:   orders,
		sessions: sessions,
		provider: provider,
		events:   events,
		logger:   logger,
		baseURL:  baseURL,
	}
}

// Initiate turns the session's cart into a hosted payment session plus a
// pending order. The order's line snapshot is copied from the resolved cart
// lines at this moment; later catalog changes never rewrite it. The order is
// persisted only after the provider call succeeds, so a provider failure
// leaves nothing behind.
func (co *Coordinator) Initiate(ctx context.Context, sessionID string, c *domain.Cart) (*Redirect, error) {
	resolved := co.engine.Resolve(c)
	if len(resolved) == 0 {
		return nil, ErrEmptyCart
	}
	if co.provider == nil {
		return nil, ErrPaymentNotConfigured
	}

	req := &payment.CreateSessionRequest{
		LineItems:  make([]payment.LineItem, 0, len(resolved)),
		SuccessURL: co.baseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  co.baseURL + "/checkout/cancel",
	}
	var total float64
	for _, line := range resolved {
		req.LineItems = append(req.LineItems, payment.LineItem{
			Name:       line.Product.Name,
			Image:      line.Product.Image,
			Currency:   checkoutCurrency,
			UnitAmount: int64(math.Round(line.Product.Price.Amount() * 100)),
			Quantity:   line.Quantity,
		})
		total += line.Subtotal
	}

	sess, err := co.provider.CreateSession(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create payment session: %w", err)
	}

	order := &domain.Order{
		ID:                uuid.New().String(),
		ExternalSessionID: sess.ID,
		Status:            domain.OrderStatusPending,
		Items:             snapshotItems(resolved),
		Total:             total,
		CreatedAt:         time.Now(),
	}
	if err := co.orders.Append(ctx, order); err != nil {
		return nil, fmt.Errorf("persist pending order: %w", err)
	}

	if co.events != nil {
		if err := co.events.OrderCreated(ctx, order); err != nil {
			co.logger.Warn("failed to publish order created event",
				zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	co.logger.Info("checkout initiated",
		zap.String("order_id", order.ID),
		zap.String("payment_session_id", sess.ID),
		zap.Float64("total", total))

	return &Redirect{OrderID: order.ID, URL: sess.URL}, nil
}

// Confirm reconciles an order after the customer returns from hosted
// checkout. It never hard-fails: a provider lookup error leaves the order
// pending and yields a degraded confirmation the page can still render.
// Only a successful confirmation clears the originating session's cart.
func (co *Coordinator) Confirm(ctx context.Context, externalSessionID, sessionID string) *Confirmation {
	if co.provider == nil || externalSessionID == "" {
		return &Confirmation{}
	}

	details, err := co.provider.RetrieveSession(ctx, externalSessionID)
	if err != nil {
		co.logger.Error("failed to retrieve payment session",
			zap.String("payment_session_id", externalSessionID), zap.Error(err))
		return &Confirmation{}
	}

	confirmation := &Confirmation{
		Confirmed:       true,
		OrderID:         externalSessionID,
		Email:           details.CustomerEmail,
		ShippingName:    shippingName(details),
		ShippingAddress: joinAddress(details.AddressLines),
	}

	order, err := co.orders.FindBySessionID(ctx, externalSessionID)
	if err != nil {
		co.logger.Warn("no order on record for payment session",
			zap.String("payment_session_id", externalSessionID), zap.Error(err))
	} else {
		confirmation.OrderID = order.ID
		if order.Status.IsTerminal() {
			// Revisiting the success page; nothing left to transition.
		} else if err := co.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusPaid); err != nil {
			co.logger.Error("failed to mark order paid",
				zap.String("order_id", order.ID), zap.Error(err))
		} else {
			order.Status = domain.OrderStatusPaid
			if co.events != nil {
				if err := co.events.OrderPaid(ctx, order); err != nil {
					co.logger.Warn("failed to publish order paid event",
						zap.String("order_id", order.ID), zap.Error(err))
				}
			}
		}
	}

	if err := co.sessions.Delete(ctx, sessionID); err != nil {
		co.logger.Warn("failed to clear session cart",
			zap.String("session_id", sessionID), zap.Error(err))
	}

	return confirmation
}

func snapshotItems(resolved []cart.ResolvedItem) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(resolved))
	for _, line := range resolved {
		items = append(items, domain.OrderItem{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Price:     line.Product.Price.Amount(),
			Quantity:  line.Quantity,
		})
	}
	return items
}

func shippingName(details *payment.SessionDetails) string {
	if details.ShippingName != "" {
		return details.ShippingName
	}
	if details.CustomerName != "" {
		return details.CustomerName
	}
	return "Customer"
}

func joinAddress(lines []string) string {
	nonEmpty := make([]string, 0, len(lines))
	for _, line := range lines {
		if line != "" {
			nonEmpty = append(nonEmpty, line)
		}
	}
	return strings.Join(nonEmpty, ", ")
}
