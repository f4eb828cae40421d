package order_test

import (
	"context"
	"testing"

	"ordersvc/domain/order"
	"ordersvc/domain/product"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestAssembleRejectsDuplicatesFirst(t *testing.T) {
	f := newFixture()
	a := f.addProduct(t, "A", "1.00", 10, true)

	tests := []struct {
		name  string
		lines []order.LineRequest
	}{
		{"adjacent", []order.LineRequest{{ProductID: a.ID(), Quantity: 1}, {ProductID: a.ID(), Quantity: 2}}},
		{"after missing product", []order.LineRequest{{ProductID: "missing", Quantity: 1}, {ProductID: a.ID(), Quantity: 1}, {ProductID: a.ID(), Quantity: 1}}},
		{"duplicate of missing product", []order.LineRequest{{ProductID: "missing", Quantity: 1}, {ProductID: "missing", Quantity: 1}}},
		{"after oversized line", []order.LineRequest{{ProductID: a.ID(), Quantity: 99}, {ProductID: a.ID(), Quantity: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.assembler.Assemble(context.Background(), tt.lines)
			assert.ErrorIs(t, err, order.ErrInvalidOrder)
		})
	}
}

func TestAssembleFailures(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	active := f.addProduct(t, "Active", "2.00", 3, true)
	empty := f.addProduct(t, "Empty", "2.00", 0, true)
	inactive := f.addProduct(t, "Inactive", "2.00", 10, false)

	_, _, err := f.assembler.Assemble(ctx, []order.LineRequest{{ProductID: "nope", Quantity: 1}})
	assert.ErrorIs(t, err, product.ErrProductNotFound)

	_, _, err = f.assembler.Assemble(ctx, []order.LineRequest{{ProductID: empty.ID(), Quantity: 1}})
	assert.ErrorIs(t, err, product.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "out of stock or inactive")

	_, _, err = f.assembler.Assemble(ctx, []order.LineRequest{{ProductID: inactive.ID(), Quantity: 1}})
	assert.ErrorIs(t, err, product.ErrInsufficientStock)

	_, _, err = f.assembler.Assemble(ctx, []order.LineRequest{{ProductID: active.ID(), Quantity: 4}})
	assert.ErrorIs(t, err, product.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Available: 3, Requested: 4")

	_, _, err = f.assembler.Assemble(ctx, nil)
	assert.ErrorIs(t, err, order.ErrInvalidOrder)
}

func TestAssembleDoesNotTouchStock(t *testing.T) {
	f := newFixture()
	a := f.addProduct(t, "A", "9.99", 7, true)

	items, total, err := f.assembler.Assemble(context.Background(), []order.LineRequest{{ProductID: a.ID(), Quantity: 7}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].ProductName())
	assert.True(t, items[0].UnitPrice().Equal(decimal.RequireFromString("9.99")))
	assert.True(t, total.Equal(decimal.RequireFromString("69.93")))
	assert.Equal(t, 7, f.stock(t, a.ID()))
}

func TestAssembleSnapshotsPrice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.addProduct(t, "A", "5.00", 10, true)
	o := f.placeOrder(t, order.LineRequest{ProductID: a.ID(), Quantity: 2})

	p := mustProduct(t, f, a.ID())
	require.NoError(t, p.Update(product.Attributes{Name: "A", Price: decimal.NewFromInt(99), Stock: 10, Category: "General", Active: true}))
	require.NoError(t, f.products.Save(ctx, p))

	stored, err := f.orders.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.True(t, stored.Items()[0].UnitPrice().Equal(decimal.NewFromInt(5)))
	assert.True(t, stored.TotalAmount().Equal(decimal.NewFromInt(10)))
}

func TestAssembleTotalIsExactSum(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture()
		ctx := context.Background()
		n := rapid.IntRange(1, 8).Draw(rt, "lines")

		want := decimal.Zero
		var lines []order.LineRequest
		for i := 0; i < n; i++ {
			cents := rapid.Int64Range(1, 1_000_000).Draw(rt, "cents")
			qty := rapid.IntRange(1, 1000).Draw(rt, "qty")
			price := decimal.New(cents, -2)

			p, err := product.NewProduct(product.Attributes{Name: "P", Price: price, Stock: qty, Category: "C", Active: true})
			if err != nil {
				rt.Fatal(err)
			}
			if err := f.products.Save(ctx, p); err != nil {
				rt.Fatal(err)
			}
			lines = append(lines, order.LineRequest{ProductID: p.ID(), Quantity: qty})
			want = want.Add(price.Mul(decimal.NewFromInt(int64(qty))))
		}

		items, total, err := f.assembler.Assemble(ctx, lines)
		if err != nil {
			rt.Fatal(err)
		}
		if !total.Equal(want) {
			rt.Fatalf("total %s, want %s", total, want)
		}
		sum := decimal.Zero
		for _, item := range items {
			sum = sum.Add(item.TotalPrice())
		}
		if !sum.Equal(total) {
			rt.Fatalf("item sum %s != total %s", sum, total)
		}
	})
}
