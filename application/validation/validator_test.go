package validation

import (
	"errors"
	"testing"

	"ordersvc/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

type orderRequest struct {
	CustomerName  string        `json:"customerName" validate:"required,max=10"`
	CustomerEmail string        `json:"customerEmail" validate:"required,email"`
	Lines         []lineRequest `json:"orderItems" validate:"min=1,dive"`
	Stock         *int          `json:"stock" validate:"omitempty,min=0"`
}

func TestStructValid(t *testing.T) {
	req := orderRequest{
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		Lines:         []lineRequest{{ProductID: "p-1", Quantity: 1}},
	}
	assert.NoError(t, Struct("order", req))
}

func TestStructReportsFieldsByJSONName(t *testing.T) {
	negative := -1
	req := orderRequest{
		CustomerName:  "A very long name",
		CustomerEmail: "not-an-email",
		Lines:         []lineRequest{{ProductID: "", Quantity: 0}},
		Stock:         &negative,
	}

	err := Struct("order", req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	var verrs *shared.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "order", verrs.Entity)
	assert.Equal(t, map[string]string{
		"customerName":            "customerName must be at most 10 characters",
		"customerEmail":           "customerEmail must be a valid email address",
		"orderItems[0].productId": "productId is required",
		"orderItems[0].quantity":  "quantity must be at least 1",
		"stock":                   "stock must be at least 0",
	}, verrs.Fields)
}

func TestStructEmptySlice(t *testing.T) {
	err := Struct("order", orderRequest{CustomerName: "Ada", CustomerEmail: "ada@example.com", Lines: []lineRequest{}})

	var verrs *shared.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "orderItems must contain at least 1 item(s)", verrs.Fields["orderItems"])
}
