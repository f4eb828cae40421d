package order

import (
	"errors"
	"testing"

	"ordersvc/domain/shared"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, status Status) *Order {
	t.Helper()
	item, err := NewOrderItem("p1", "Mouse", 2, decimal.RequireFromString("10.50"))
	require.NoError(t, err)
	o, err := NewOrder("Ada", "ada@example.com", []OrderItem{item}, decimal.RequireFromString("21.00"))
	require.NoError(t, err)
	o.status = status
	o.PullEvents()
	return o
}

func TestNewOrder(t *testing.T) {
	item, err := NewOrderItem("p1", "Mouse", 3, decimal.RequireFromString("0.10"))
	require.NoError(t, err)
	assert.True(t, item.TotalPrice().Equal(decimal.RequireFromString("0.30")))

	o, err := NewOrder("Ada", "ada@example.com", []OrderItem{item}, decimal.RequireFromString("0.3"))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status())
	assert.Equal(t, o.ID(), o.Items()[0].OrderID())
	events := o.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "order.placed", events[0].EventName())
	assert.NoError(t, shared.ValidateEvent(events[0]))
	assert.Empty(t, o.PullEvents())
}

func TestNewOrderRejects(t *testing.T) {
	item, err := NewOrderItem("p1", "Mouse", 1, decimal.NewFromInt(5))
	require.NoError(t, err)

	_, err = NewOrder("", "ada@example.com", []OrderItem{item}, decimal.NewFromInt(5))
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewOrder("Ada", "ada@example.com", nil, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = NewOrder("Ada", "ada@example.com", []OrderItem{item}, decimal.NewFromInt(6))
	assert.Error(t, err)

	_, err = NewOrderItem("p1", "Mouse", 0, decimal.NewFromInt(5))
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestCheckTransition(t *testing.T) {
	all := []Status{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled}

	for _, from := range all {
		for _, to := range all {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				o := newTestOrder(t, from)
				err := o.CheckTransition(to)

				allowed := to == StatusCancelled || from == StatusPending || from == StatusConfirmed
				if allowed {
					assert.NoError(t, err)
					return
				}
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidOrderStatus))
				var statusErr *InvalidStatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, from, statusErr.Current)
				assert.Equal(t, to, statusErr.Attempted)
			})
		}
	}
}

func TestCheckTransitionRejectsUnknownStatus(t *testing.T) {
	o := newTestOrder(t, StatusPending)
	assert.ErrorIs(t, o.CheckTransition(Status("LOST")), shared.ErrInvalidInput)
}

func TestCheckCancel(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusShipped, StatusCancelled} {
		assert.NoError(t, newTestOrder(t, s).CheckCancel(), s)
	}
	err := newTestOrder(t, StatusDelivered).CheckCancel()
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
	assert.Equal(t, "Cannot cancel a delivered order.", err.Error())
}

func TestStockEffectOf(t *testing.T) {
	tests := []struct {
		from, to Status
		want     StockEffect
	}{
		{StatusPending, StatusConfirmed, StockDebit},
		{StatusConfirmed, StatusCancelled, StockCredit},
		{StatusShipped, StatusCancelled, StockCredit},
		{StatusPending, StatusCancelled, StockNone},
		{StatusPending, StatusShipped, StockNone},
		{StatusPending, StatusDelivered, StockNone},
		{StatusConfirmed, StatusShipped, StockNone},
		{StatusConfirmed, StatusDelivered, StockNone},
		{StatusConfirmed, StatusConfirmed, StockNone},
		{StatusDelivered, StatusCancelled, StockNone},
		{StatusCancelled, StatusCancelled, StockNone},
	}

	for _, tt := range tests {
		o := newTestOrder(t, tt.from)
		assert.Equal(t, tt.want, o.StockEffectOf(tt.to), "%s->%s", tt.from, tt.to)
	}
}

func TestApplyStatusRecordsEvents(t *testing.T) {
	o := newTestOrder(t, StatusPending)
	o.ApplyStatus(StatusConfirmed)
	o.ApplyStatus(StatusShipped)
	o.ApplyStatus(StatusCancelled)

	events := o.PullEvents()
	require.Len(t, events, 3)
	assert.Equal(t, "order.confirmed", events[0].EventName())
	assert.Equal(t, "order.status_changed", events[1].EventName())
	assert.Equal(t, "order.cancelled", events[2].EventName())

	cancelled, ok := events[2].(*OrderCancelledEvent)
	require.True(t, ok)
	assert.True(t, cancelled.Restocked())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" confirmed ")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseStatus("returned")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestRebuildRoundTrip(t *testing.T) {
	o := newTestOrder(t, StatusShipped)
	rebuilt := RebuildFromDTO(o.ToDTO())

	assert.Equal(t, o.ID(), rebuilt.ID())
	assert.Equal(t, StatusShipped, rebuilt.Status())
	assert.True(t, o.TotalAmount().Equal(rebuilt.TotalAmount()))
	assert.Equal(t, o.Items(), rebuilt.Items())
}
