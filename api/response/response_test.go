package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ordersvc/domain/order"
	"ordersvc/domain/product"
	"ordersvc/domain/shared"
	apperrors "ordersvc/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(err error) (*httptest.ResponseRecorder, Response) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/orders/o-1", nil)
	c.Set(RequestIDKey, "req-1")

	HandleAppError(c, err)

	var body Response
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestHandleAppErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"order not found", order.NewOrderNotFoundError("o-1"), http.StatusNotFound, "ORDER_NOT_FOUND"},
		{"product not found", product.NewProductNotFoundError("p-1"), http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"insufficient stock", product.NewInsufficientStockError("p-1", "Desk", 1, 2), http.StatusBadRequest, "INSUFFICIENT_STOCK"},
		{"invalid status", order.NewCannotCancelDeliveredError("o-1"), http.StatusBadRequest, "INVALID_ORDER_STATUS"},
		{"invalid order", order.NewDuplicateProductError("p-1"), http.StatusBadRequest, "INVALID_ORDER"},
		{"validation", order.NewUnknownStatusError("LOST"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"concurrent", order.NewConcurrentModificationError("o-1"), http.StatusConflict, "CONCURRENT_MODIFICATION"},
		{"conflict", shared.NewConflictError("product", "in use"), http.StatusConflict, "CONFLICT"},
		{"rate limited", apperrors.TooManyRequests("slow down"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"internal", errors.New("disk full"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := serve(tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, body.Error)
			assert.Equal(t, tt.wantStatus, body.Code)
			assert.Equal(t, "req-1", body.RequestID)
			assert.False(t, body.Success)
		})
	}
}

func TestHandleAppErrorHidesInternalDetails(t *testing.T) {
	_, body := serve(errors.New("dial tcp 10.0.0.5:3306: connection refused"))
	assert.Equal(t, "internal server error", body.Message)
}

func TestHandleAppErrorCarriesValidationDetails(t *testing.T) {
	_, body := serve(shared.NewValidationErrors("product", map[string]string{"name": "name is required"}))
	require.NotNil(t, body.Details)
	assert.Equal(t, "name is required", body.Details["name"])
}
