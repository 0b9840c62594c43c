package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rivalsxninjax1/rms/models"
	"github.com/rivalsxninjax1/rms/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeServiceType(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"DINE_IN", models.ServiceTypeDineIn, true},
		{"dine_in", models.ServiceTypeDineIn, true},
		{"Dine-In", models.ServiceTypeDineIn, true},
		{" dinein ", models.ServiceTypeDineIn, true},
		{"takeaway", models.ServiceTypeTakeaway, true},
		{"PICKUP", models.ServiceTypeTakeaway, true},
		{"uber_eats", models.ServiceTypeUberEats, true},
		{"ubereats", models.ServiceTypeUberEats, true},
		{"doordash", models.ServiceTypeDoorDash, true},
		{"DOOR_DASH", models.ServiceTypeDoorDash, true},
		{"delivery", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := normalizeServiceType(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// sessionRouter builds a test engine with the cookie session store, the
// same shape the real router uses.
func sessionRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("rms_session", store))
	for _, h := range handlers {
		router.Any("/probe", h)
	}
	return router
}

func TestResolveServiceType_BodyWinsOverSession(t *testing.T) {
	var got string
	var ok bool
	router := sessionRouter(func(c *gin.Context) {
		_ = utils.SaveCartMeta(c, utils.CartMeta{ServiceType: models.ServiceTypeTakeaway})
		got, ok = resolveServiceType(c, "doordash")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	router.ServeHTTP(w, req)

	require.True(t, ok)
	assert.Equal(t, models.ServiceTypeDoorDash, got)
}

func TestResolveServiceType_FallsBackToSessionThenDefault(t *testing.T) {
	var fromSession, fromDefault string
	router := sessionRouter(func(c *gin.Context) {
		fromDefault, _ = resolveServiceType(c, "")
		_ = utils.SaveCartMeta(c, utils.CartMeta{ServiceType: "takeaway"})
		fromSession, _ = resolveServiceType(c, "")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, models.ServiceTypeDineIn, fromDefault)
	assert.Equal(t, models.ServiceTypeTakeaway, fromSession)
}

func TestResolveServiceType_RejectsUnknownBodyValue(t *testing.T) {
	var ok bool
	router := sessionRouter(func(c *gin.Context) {
		_, ok = resolveServiceType(c, "carrier-pigeon")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	router.ServeHTTP(w, req)

	assert.False(t, ok)
}
