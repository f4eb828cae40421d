package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ordersvc/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newEngine(store Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{App: config.AppConfig{Version: "1.2.3", Env: "production"}}
	engine := gin.New()
	NewController(cfg, store).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthy(t *testing.T) {
	engine := newEngine(pingFunc(func(context.Context) error { return nil }))

	rec := get(engine, "/api/v1/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "1.2.3", body.Version)
	assert.Equal(t, "healthy", body.Checks["database"].Status)
	assert.Nil(t, body.System)

	assert.Equal(t, http.StatusOK, get(engine, "/api/v1/health/ready").Code)
	assert.Equal(t, http.StatusOK, get(engine, "/api/v1/health/live").Code)
}

func TestUnhealthyDatabase(t *testing.T) {
	engine := newEngine(pingFunc(func(context.Context) error { return errors.New("connection refused") }))

	rec := get(engine, "/api/v1/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")

	assert.Equal(t, http.StatusServiceUnavailable, get(engine, "/api/v1/health/ready").Code)
	assert.Equal(t, http.StatusOK, get(engine, "/api/v1/health/live").Code)
}

func TestNoStoreConfigured(t *testing.T) {
	rec := get(newEngine(nil), "/api/v1/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}
