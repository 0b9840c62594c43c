package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rivalsxninjax1/rms/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		SessionSecret: "test-secret",
		Env:           "development",
	}
}

// The global middleware must be attached before routes are registered;
// gin snapshots each route's handler chain at registration time, so a
// later Use call never reaches already-registered routes.
func TestSetupRouter_GlobalMiddlewareRunsOnRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := SetupRouter(testConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payments/cancel", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestSetupRouter_CanonicalHostRedirect(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.CanonicalHost = "orders.example.com"
	router := SetupRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/payments/cancel", nil)
	req.Host = "old.example.com"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "https://orders.example.com/payments/cancel", w.Header().Get("Location"))
}

func TestSetupRouter_DebugCartHiddenInProduction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	cfg.Env = "production"
	router := SetupRouter(cfg)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cart/debug", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	router = SetupRouter(testConfig())
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cart/debug", nil))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
