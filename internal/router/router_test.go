package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"cafepos/internal/config"
	"cafepos/internal/database"
	"cafepos/internal/live"
	"cafepos/internal/middleware"
	"cafepos/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(context.Background(), database.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "router-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	engine := gin.New()
	cfg := &config.Config{CORSAllowedOrigins: []string{"http://localhost:3000"}}
	Setup(engine, services.NewCafeService(db, live.NewHub()), cfg)
	return engine
}

func TestPing(t *testing.T) {
	engine := setupTestEngine(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRoutesAreRegistered(t *testing.T) {
	engine := setupTestEngine(t)

	for _, path := range []string{
		"/api/v1/products", "/api/v1/inventory", "/api/v1/purchases", "/api/v1/sales",
		"/api/v1/sales/parked", "/api/v1/employees", "/api/v1/shifts/open",
		"/api/v1/customers", "/api/v1/audit-logs", "/api/v1/reports",
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	engine := setupTestEngine(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
