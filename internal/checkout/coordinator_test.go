package checkout

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hankjoberg-netizen/voltstore/internal/cart"
	"github.com/hankjoberg-netizen/voltstore/internal/catalog"
	"github.com/hankjoberg-netizen/voltstore/internal/domain"
	"github.com/hankjoberg-netizen/voltstore/internal/payment"
	"github.com/hankjoberg-netizen/voltstore/internal/repository"
	"github.com/hankjoberg-netizen/voltstore/internal/session"
)

type mockOrders struct {
	m      sync.RWMutex
	orders []*domain.Order
	err    error
}

func (m *mockOrders) Append(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	copied := *order
	m.orders = append(m.orders, &copied)
	return nil
}

func (m *mockOrders) FindBySessionID(_ context.Context, externalSessionID string) (*domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, o := range m.orders {
		if o.ExternalSessionID == externalSessionID {
			copied := *o
			return &copied, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrders) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, o := range m.orders {
		if o.ID == id {
			o.Status = status
			return nil
		}
	}
	return repository.ErrOrderNotFound
}

func (m *mockOrders) ListOrders(context.Context) ([]*domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.orders, nil
}

func (m *mockOrders) Close() error { return nil }

func (m *mockOrders) count() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return len(m.orders)
}

type mockProvider struct {
	createErr    error
	retrieveErr  error
	details      *payment.SessionDetails
	createdReq   *payment.CreateSessionRequest
	nextSession  int
	lastSessions []string
}

func (m *mockProvider) CreateSession(_ context.Context, req *payment.CreateSessionRequest) (*payment.Session, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.createdReq = req
	m.nextSession++
	id := fmt.Sprintf("cs_test_%d", m.nextSession)
	m.lastSessions = append(m.lastSessions, id)
	return &payment.Session{ID: id, URL: "https://checkout.test/pay/" + id}, nil
}

func (m *mockProvider) RetrieveSession(_ context.Context, id string) (*payment.SessionDetails, error) {
	if m.retrieveErr != nil {
		return nil, m.retrieveErr
	}
	if m.details != nil {
		return m.details, nil
	}
	return &payment.SessionDetails{PaymentStatus: "paid"}, nil
}

type mockEvents struct {
	created []string
	paid    []string
	err     error
}

func (m *mockEvents) OrderCreated(_ context.Context, order *domain.Order) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, order.ID)
	return nil
}

func (m *mockEvents) OrderPaid(_ context.Context, order *domain.Order) error {
	if m.err != nil {
		return m.err
	}
	m.paid = append(m.paid, order.ID)
	return nil
}

type fixture struct {
	coordinator *Coordinator
	engine      *cart.Engine
	orders      *mockOrders
	provider    *mockProvider
	sessions    session.Store
	events      *mockEvents
}

func setup(t *testing.T, provider payment.Provider) *fixture {
	t.Helper()

	store := catalog.New([]domain.Product{
		{ID: "p1", Name: "Battery Pack", Price: 10.00, Image: "http://img/p1.jpg"},
		{ID: "p2", Name: "Charger", Price: domain.ParsePrice("$5.00")},
	})
	engine := cart.NewEngine(store)
	orders := &mockOrders{}
	sessions := session.NewMemoryStore()
	events := &mockEvents{}

	var mp *mockProvider
	if p, ok := provider.(*mockProvider); ok {
		mp = p
	}

	return &fixture{
		coordinator: NewCoordinator(engine, orders, sessions, provider, events, zap.NewNop(), "http://store.test"),
		engine:      engine,
		orders:      orders,
		provider:    mp,
		sessions:    sessions,
		events:      events,
	}
}

func filledCart(t *testing.T, f *fixture) *domain.Cart {
	t.Helper()
	c := domain.NewCart()
	require.NoError(t, f.engine.Add(c, "p1", 2))
	require.NoError(t, f.engine.Add(c, "p2", 1))
	require.NoError(t, f.sessions.Put(context.Background(), "sess-1", c))
	return c
}

func TestInitiate_EmptyCart(t *testing.T) {
	f := setup(t, &mockProvider{})

	redirect, err := f.coordinator.Initiate(context.Background(), "sess-1", domain.NewCart())

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, redirect)
	assert.Equal(t, 0, f.orders.count())
}

func TestInitiate_OnlyUnresolvableLines_TreatedAsEmpty(t *testing.T) {
	f := setup(t, &mockProvider{})
	c := &domain.Cart{Items: []domain.LineItem{{ProductID: "discontinued", Quantity: 3}}}

	_, err := f.coordinator.Initiate(context.Background(), "sess-1", c)

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestInitiate_NoProviderConfigured(t *testing.T) {
	f := setup(t, nil)
	c := filledCart(t, f)

	redirect, err := f.coordinator.Initiate(context.Background(), "sess-1", c)

	assert.ErrorIs(t, err, ErrPaymentNotConfigured)
	assert.Nil(t, redirect)
	assert.Equal(t, 0, f.orders.count())
}

func TestInitiate_Success_PersistsPendingOrderWithSnapshot(t *testing.T) {
	f := setup(t, &mockProvider{})
	c := filledCart(t, f)

	redirect, err := f.coordinator.Initiate(context.Background(), "sess-1", c)
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.test/pay/cs_test_1", redirect.URL)
	require.Equal(t, 1, f.orders.count())

	order, err := f.orders.FindBySessionID(context.Background(), "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, redirect.OrderID, order.ID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, 25.00, order.Total)
	require.Len(t, order.Items, 2)
	assert.Equal(t, domain.OrderItem{ProductID: "p1", Name: "Battery Pack", Price: 10.00, Quantity: 2}, order.Items[0])
	assert.Equal(t, domain.OrderItem{ProductID: "p2", Name: "Charger", Price: 5.00, Quantity: 1}, order.Items[1])

	assert.Equal(t, []string{order.ID}, f.events.created)
}

func TestInitiate_BuildsProviderLineItemsInMinorUnits(t *testing.T) {
	f := setup(t, &mockProvider{})
	c := filledCart(t, f)

	_, err := f.coordinator.Initiate(context.Background(), "sess-1", c)
	require.NoError(t, err)

	req := f.provider.createdReq
	require.NotNil(t, req)
	require.Len(t, req.LineItems, 2)
	assert.Equal(t, payment.LineItem{
		Name: "Battery Pack", Image: "http://img/p1.jpg", Currency: "usd", UnitAmount: 1000, Quantity: 2,
	}, req.LineItems[0])
	assert.Equal(t, int64(500), req.LineItems[1].UnitAmount)
	assert.Equal(t, "http://store.test/checkout/success?session_id={CHECKOUT_SESSION_ID}", req.SuccessURL)
	assert.Equal(t, "http://store.test/checkout/cancel", req.CancelURL)
}

func TestInitiate_ProviderFailure_NoOrderPersisted(t *testing.T) {
	f := setup(t, &mockProvider{createErr: fmt.Errorf("provider exploded")})
	c := filledCart(t, f)

	redirect, err := f.coordinator.Initiate(context.Background(), "sess-1", c)

	require.ErrorContains(t, err, "provider exploded")
	assert.Nil(t, redirect)
	assert.Equal(t, 0, f.orders.count())
	assert.Empty(t, f.events.created)
}

func TestInitiate_SnapshotFrozenAgainstCatalogChanges(t *testing.T) {
	f := setup(t, &mockProvider{})
	c := filledCart(t, f)

	_, err := f.coordinator.Initiate(context.Background(), "sess-1", c)
	require.NoError(t, err)

	order, err := f.orders.FindBySessionID(context.Background(), "cs_test_1")
	require.NoError(t, err)

	// Mutating the cart afterwards must not touch the persisted snapshot.
	f.engine.SetQuantity(c, "p1", 99)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 25.00, order.Total)
}

func TestConfirm_RoundTrip_MarksPaidAndClearsCart(t *testing.T) {
	f := setup(t, &mockProvider{details: &payment.SessionDetails{
		PaymentStatus: "paid",
		CustomerEmail: "jo@example.com",
		ShippingName:  "Jo Voltman",
		AddressLines:  []string{"1 Main St", "", "Springfield", "IL", "62701", "US"},
	}})
	c := filledCart(t, f)

	redirect, err := f.coordinator.Initiate(context.Background(), "sess-1", c)
	require.NoError(t, err)

	confirmation := f.coordinator.Confirm(context.Background(), "cs_test_1", "sess-1")

	require.True(t, confirmation.Confirmed)
	assert.Equal(t, redirect.OrderID, confirmation.OrderID)
	assert.Equal(t, "jo@example.com", confirmation.Email)
	assert.Equal(t, "Jo Voltman", confirmation.ShippingName)
	assert.Equal(t, "1 Main St, Springfield, IL, 62701, US", confirmation.ShippingAddress)

	// Exactly one order moved pending -> paid.
	order, err := f.orders.FindBySessionID(context.Background(), "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, order.Status)
	assert.Equal(t, []string{order.ID}, f.events.paid)

	// The originating cart is cleared.
	cleared, err := f.sessions.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Empty(t, cleared.Items)
}

func TestConfirm_ProviderFailure_DegradedAndOrderStaysPending(t *testing.T) {
	f := setup(t, &mockProvider{retrieveErr: fmt.Errorf("timeout")})
	c := filledCart(t, f)

	_, err := f.coordinator.Initiate(context.Background(), "sess-1", c)
	require.NoError(t, err)

	confirmation := f.coordinator.Confirm(context.Background(), "cs_test_1", "sess-1")

	assert.False(t, confirmation.Confirmed)

	order, findErr := f.orders.FindBySessionID(context.Background(), "cs_test_1")
	require.NoError(t, findErr)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Empty(t, f.events.paid)

	// Cart survives a failed confirmation.
	kept, err := f.sessions.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.NotEmpty(t, kept.Items)
}

func TestConfirm_Repeated_DoesNotReEmitPaidEvent(t *testing.T) {
	f := setup(t, &mockProvider{details: &payment.SessionDetails{PaymentStatus: "paid"}})
	c := filledCart(t, f)

	_, err := f.coordinator.Initiate(context.Background(), "sess-1", c)
	require.NoError(t, err)

	first := f.coordinator.Confirm(context.Background(), "cs_test_1", "sess-1")
	second := f.coordinator.Confirm(context.Background(), "cs_test_1", "sess-1")

	assert.True(t, first.Confirmed)
	assert.True(t, second.Confirmed)
	assert.Len(t, f.events.paid, 1)

	order, err := f.orders.FindBySessionID(context.Background(), "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, order.Status)
}

func TestConfirm_UnknownOrder_StillConfirms(t *testing.T) {
	f := setup(t, &mockProvider{details: &payment.SessionDetails{
		PaymentStatus: "paid",
		CustomerName:  "Jo Voltman",
	}})

	confirmation := f.coordinator.Confirm(context.Background(), "cs_untracked", "sess-1")

	require.True(t, confirmation.Confirmed)
	assert.Equal(t, "cs_untracked", confirmation.OrderID)
	assert.Equal(t, "Jo Voltman", confirmation.ShippingName)
}

func TestConfirm_NameFallsBackToCustomer(t *testing.T) {
	f := setup(t, &mockProvider{details: &payment.SessionDetails{PaymentStatus: "paid"}})

	confirmation := f.coordinator.Confirm(context.Background(), "cs_untracked", "sess-1")

	require.True(t, confirmation.Confirmed)
	assert.Equal(t, "Customer", confirmation.ShippingName)
	assert.Equal(t, "", confirmation.ShippingAddress)
}

func TestConfirm_EmptySessionID_Degraded(t *testing.T) {
	f := setup(t, &mockProvider{})

	confirmation := f.coordinator.Confirm(context.Background(), "", "sess-1")

	assert.False(t, confirmation.Confirmed)
}
