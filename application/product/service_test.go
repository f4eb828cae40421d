package product_test

import (
	"context"
	"errors"
	"testing"

	apporder "ordersvc/application/order"
	appproduct "ordersvc/application/product"
	"ordersvc/domain/product"
	"ordersvc/domain/shared"
	"ordersvc/infrastructure/persistence/memory"
	"ordersvc/infrastructure/persistence/retry"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServices() (*appproduct.ApplicationService, *apporder.ApplicationService) {
	store := memory.NewStore()
	uows := memory.NewUnitOfWorkFactory(store, retry.DefaultConfig)
	products := memory.NewProductRepository(store)
	return appproduct.NewApplicationService(uows, products),
		apporder.NewApplicationService(uows, memory.NewOrderRepository(store), products)
}

func request(name, price, category string, stock int) appproduct.ProductRequest {
	return appproduct.ProductRequest{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    &stock,
		Category: category,
	}
}

func TestCreateProductDefaultsToActive(t *testing.T) {
	svc, _ := newServices()

	created, err := svc.CreateProduct(context.Background(), request("Desk", "120.00", "Furniture", 4))
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.NotEmpty(t, created.ID)

	inactive := false
	req := request("Chair", "35.50", "Furniture", 0)
	req.IsActive = &inactive
	created, err = svc.CreateProduct(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, created.IsActive)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newServices()

	tests := []struct {
		name      string
		req       appproduct.ProductRequest
		wantField string
	}{
		{"missing name", request("", "1.00", "Furniture", 1), "name"},
		{"missing stock", appproduct.ProductRequest{Name: "Desk", Price: decimal.NewFromInt(1), Category: "Furniture"}, "stock"},
		{"negative stock", request("Desk", "1.00", "Furniture", -1), "stock"},
		{"zero price", request("Desk", "0", "Furniture", 1), "price"},
		{"missing category", request("Desk", "1.00", "", 1), "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), tt.req)
			var verrs *shared.ValidationErrors
			require.True(t, errors.As(err, &verrs), "got %v", err)
			assert.Contains(t, verrs.Fields, tt.wantField)
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	svc, _ := newServices()
	ctx := context.Background()

	inactive := false
	req := request("Desk", "120.00", "Furniture", 4)
	req.IsActive = &inactive
	created, err := svc.CreateProduct(ctx, req)
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(ctx, created.ID, request("Standing desk", "150.25", "Furniture", 9))
	require.NoError(t, err)
	assert.Equal(t, "Standing desk", updated.Name)
	assert.Equal(t, 9, updated.Stock)
	assert.False(t, updated.IsActive, "active flag kept when omitted")

	_, err = svc.UpdateProduct(ctx, "missing", request("X", "1", "Y", 1))
	assert.ErrorIs(t, err, product.ErrProductNotFound)
}

func TestDeleteProduct(t *testing.T) {
	products, orders := newServices()
	ctx := context.Background()

	free, err := products.CreateProduct(ctx, request("Lamp", "10", "Lighting", 3))
	require.NoError(t, err)
	used, err := products.CreateProduct(ctx, request("Desk", "100", "Furniture", 3))
	require.NoError(t, err)
	_, err = orders.CreateOrder(ctx, apporder.CreateOrderRequest{
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		OrderItems:    []apporder.OrderItemRequest{{ProductID: used.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, products.DeleteProduct(ctx, free.ID))
	_, err = products.GetProduct(ctx, free.ID)
	assert.ErrorIs(t, err, product.ErrProductNotFound)

	err = products.DeleteProduct(ctx, used.ID)
	assert.ErrorIs(t, err, shared.ErrConflict)

	err = products.DeleteProduct(ctx, "missing")
	assert.ErrorIs(t, err, product.ErrProductNotFound)
}

func TestSearchAndListProducts(t *testing.T) {
	svc, _ := newServices()
	ctx := context.Background()

	for _, r := range []appproduct.ProductRequest{
		request("Oak Desk", "300", "Furniture", 2),
		request("Desk Lamp", "25", "Lighting", 10),
		request("Floor Lamp", "60", "Lighting", 0),
	} {
		_, err := svc.CreateProduct(ctx, r)
		require.NoError(t, err)
	}
	hidden := request("Old desk", "10", "Furniture", 1)
	inactive := false
	hidden.IsActive = &inactive
	_, err := svc.CreateProduct(ctx, hidden)
	require.NoError(t, err)

	byName, err := svc.SearchProducts(ctx, "DESK", "", shared.PageRequest{SortField: "name"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), byName.Total, "name search includes inactive products")
	assert.Equal(t, "Desk Lamp", byName.Items[0].Name)

	both, err := svc.SearchProducts(ctx, "lamp", "light", shared.PageRequest{SortField: "price", SortDesc: true})
	require.NoError(t, err)
	require.Len(t, both.Items, 2)
	assert.Equal(t, "Floor Lamp", both.Items[0].Name)

	active, err := svc.SearchProducts(ctx, "", "", shared.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), active.Total)

	all, err := svc.ListProducts(ctx, shared.PageRequest{Size: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.Total)
	assert.Len(t, all.Items, 3)
	assert.Equal(t, 2, all.TotalPages)

	_, err = svc.ListProducts(ctx, shared.PageRequest{SortField: "weight"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
