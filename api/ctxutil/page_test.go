package ctxutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ordersvc/domain/shared"
	"ordersvc/infrastructure/persistence"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextFor(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestPageRequest(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    shared.PageRequest
		wantErr bool
	}{
		{"defaults", "/orders", shared.PageRequest{}, false},
		{"page and size", "/orders?page=2&size=5", shared.PageRequest{Page: 2, Size: 5}, false},
		{"sort desc", "/orders?sort=orderDate,desc", shared.PageRequest{SortField: "orderDate", SortDesc: true}, false},
		{"sort without direction", "/products?sort=name", shared.PageRequest{SortField: "name"}, false},
		{"negative page", "/orders?page=-1", shared.PageRequest{}, true},
		{"page past the last index", "/orders?page=922337203685477580&size=20", shared.PageRequest{}, true},
		{"page overflowing int", "/orders?page=99999999999999999999", shared.PageRequest{}, true},
		{"size not a number", "/orders?size=ten", shared.PageRequest{}, true},
		{"size too large", "/orders?size=1000", shared.PageRequest{}, true},
		{"bad direction", "/orders?sort=id,sideways", shared.PageRequest{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PageRequest(contextFor(tt.target), "order")
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, shared.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithRequestID(t *testing.T) {
	c := contextFor("/orders")
	c.Set("request_id", "req-7")

	ctx := WithRequestID(c)
	assert.Equal(t, "req-7", persistence.RequestIDFromContext(ctx))
}
