package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	apporder "ordersvc/application/order"
	"ordersvc/domain/order"
	"ordersvc/domain/product"
	"ordersvc/domain/shared"
	"ordersvc/infrastructure/persistence/memory"
	"ordersvc/infrastructure/persistence/retry"
	"ordersvc/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEnv struct {
	service  *apporder.ApplicationService
	products *memory.ProductRepository
	orders   *memory.OrderRepository
	outbox   *memory.OutboxRepository
	logs     *observer.ObservedLogs
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(logger.Replace(zap.New(core)))

	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	orders := memory.NewOrderRepository(store)
	return &testEnv{
		service:  apporder.NewApplicationService(memory.NewUnitOfWorkFactory(store, retry.DefaultConfig), orders, products),
		products: products,
		orders:   orders,
		outbox:   memory.NewOutboxRepository(store),
		logs:     logs,
	}
}

func (e *testEnv) addProduct(t *testing.T, name, price string, stock int) string {
	t.Helper()
	p, err := product.NewProduct(product.Attributes{
		Name: name, Price: decimal.RequireFromString(price), Stock: stock, Category: "Office", Active: true,
	})
	require.NoError(t, err)
	require.NoError(t, e.products.Save(context.Background(), p))
	return p.ID()
}

func (e *testEnv) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := e.products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock()
}

func (e *testEnv) eventTypes() []string {
	var types []string
	for _, ev := range e.outbox.Events() {
		types = append(types, ev.EventType)
	}
	return types
}

func createRequest(lines ...apporder.OrderItemRequest) apporder.CreateOrderRequest {
	return apporder.CreateOrderRequest{
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		OrderItems:    lines,
	}
}

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t)
	desk := env.addProduct(t, "Desk", "199.99", 5)
	lamp := env.addProduct(t, "Lamp", "0.10", 50)

	resp, err := env.service.CreateOrder(context.Background(), createRequest(
		apporder.OrderItemRequest{ProductID: desk, Quantity: 2},
		apporder.OrderItemRequest{ProductID: lamp, Quantity: 3},
	))
	require.NoError(t, err)

	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, "400.28", resp.TotalAmount.StringFixed(2))
	require.Len(t, resp.OrderItems, 2)
	assert.Equal(t, "Desk", resp.OrderItems[0].ProductName)
	assert.Equal(t, "399.98", resp.OrderItems[0].TotalPrice.StringFixed(2))
	assert.Equal(t, "0.30", resp.OrderItems[1].TotalPrice.StringFixed(2))

	assert.Equal(t, 5, env.stock(t, desk), "placing an order does not touch stock")
	assert.Equal(t, []string{"order.placed"}, env.eventTypes())
	assert.Equal(t, 1, env.logs.FilterMessage("Order created").Len())
}

func TestCreateOrderFailuresPersistNothing(t *testing.T) {
	env := newTestEnv(t)
	desk := env.addProduct(t, "Desk", "199.99", 1)

	tests := []struct {
		name    string
		req     apporder.CreateOrderRequest
		wantErr error
	}{
		{"insufficient stock", createRequest(apporder.OrderItemRequest{ProductID: desk, Quantity: 2}), product.ErrInsufficientStock},
		{"unknown product", createRequest(apporder.OrderItemRequest{ProductID: "missing", Quantity: 1}), product.ErrProductNotFound},
		{"duplicate product", createRequest(
			apporder.OrderItemRequest{ProductID: desk, Quantity: 1},
			apporder.OrderItemRequest{ProductID: desk, Quantity: 1},
		), order.ErrInvalidOrder},
		{"no items", createRequest(), shared.ErrInvalidInput},
		{"bad email", apporder.CreateOrderRequest{
			CustomerName: "Ada", CustomerEmail: "nope",
			OrderItems: []apporder.OrderItemRequest{{ProductID: desk, Quantity: 1}},
		}, shared.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.CreateOrder(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	page, err := env.service.ListOrders(context.Background(), shared.PageRequest{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, env.eventTypes())
	assert.Equal(t, 1, env.stock(t, desk))
}

func TestConfirmThenCancelRestoresStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	desk := env.addProduct(t, "Desk", "100", 10)

	created, err := env.service.CreateOrder(ctx, createRequest(apporder.OrderItemRequest{ProductID: desk, Quantity: 3}))
	require.NoError(t, err)

	confirmed, err := env.service.UpdateOrderStatus(ctx, created.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", confirmed.Status)
	assert.Equal(t, 7, env.stock(t, desk))

	adjusted := env.logs.FilterMessage("Stock adjusted").All()
	require.Len(t, adjusted, 1)
	assert.Equal(t, int64(-3), adjusted[0].ContextMap()["delta"])

	require.NoError(t, env.service.CancelOrder(ctx, created.ID))
	assert.Equal(t, 10, env.stock(t, desk))

	got, err := env.service.GetOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", got.Status)
	assert.Equal(t, []string{"order.placed", "order.confirmed", "order.cancelled"}, env.eventTypes())
}

func TestConfirmFailsWhenStockWasTakenMeanwhile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	desk := env.addProduct(t, "Desk", "100", 5)

	first, err := env.service.CreateOrder(ctx, createRequest(apporder.OrderItemRequest{ProductID: desk, Quantity: 4}))
	require.NoError(t, err)
	second, err := env.service.CreateOrder(ctx, createRequest(apporder.OrderItemRequest{ProductID: desk, Quantity: 4}))
	require.NoError(t, err)

	_, err = env.service.UpdateOrderStatus(ctx, first.ID, "CONFIRMED")
	require.NoError(t, err)

	_, err = env.service.UpdateOrderStatus(ctx, second.ID, "CONFIRMED")
	var stockErr *product.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 4, stockErr.Requested)

	got, err := env.service.GetOrder(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", got.Status)
	assert.Equal(t, 1, env.stock(t, desk))
	assert.Equal(t, 1, env.logs.FilterMessage("Failed to update order status").FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestUpdateOrderStatusErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	desk := env.addProduct(t, "Desk", "100", 5)
	created, err := env.service.CreateOrder(ctx, createRequest(apporder.OrderItemRequest{ProductID: desk, Quantity: 1}))
	require.NoError(t, err)

	_, err = env.service.UpdateOrderStatus(ctx, created.ID, "LOST")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = env.service.UpdateOrderStatus(ctx, "missing", "CONFIRMED")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	assert.Equal(t, 1, env.logs.FilterMessage("Failed to update order status").FilterLevelExact(zapcore.WarnLevel).Len())

	for _, status := range []string{"CONFIRMED", "SHIPPED", "DELIVERED"} {
		_, err = env.service.UpdateOrderStatus(ctx, created.ID, status)
		require.NoError(t, err, status)
	}

	_, err = env.service.UpdateOrderStatus(ctx, created.ID, "SHIPPED")
	assert.ErrorIs(t, err, order.ErrInvalidOrderStatus)

	err = env.service.CancelOrder(ctx, created.ID)
	assert.ErrorIs(t, err, order.ErrInvalidOrderStatus)
	assert.Equal(t, 4, env.stock(t, desk), "delivered order keeps its stock debited")
}

func TestOrderQueries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	desk := env.addProduct(t, "Desk", "10", 100)

	var ids []string
	for i := 0; i < 12; i++ {
		resp, err := env.service.CreateOrder(ctx, createRequest(apporder.OrderItemRequest{ProductID: desk, Quantity: 1}))
		require.NoError(t, err)
		ids = append(ids, resp.ID)
		time.Sleep(time.Millisecond)
	}
	other := createRequest(apporder.OrderItemRequest{ProductID: desk, Quantity: 1})
	other.CustomerEmail = "grace@example.com"
	_, err := env.service.CreateOrder(ctx, other)
	require.NoError(t, err)

	page, err := env.service.ListOrders(ctx, shared.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(13), page.Total)
	assert.Equal(t, apporder.DefaultListSize, page.Size)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, "grace@example.com", page.Items[0].CustomerEmail, "newest first by default")

	_, err = env.service.ListOrders(ctx, shared.PageRequest{SortField: "color"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	mine, err := env.service.GetOrdersByCustomerEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 12)
	assert.Equal(t, ids[11], mine[0].ID)

	none, err := env.service.GetOrdersByCustomerEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = env.service.GetOrder(ctx, "missing")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}
