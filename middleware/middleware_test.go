package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"saubio/config"
	"saubio/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func principalRouter() *gin.Engine {
	r := gin.New()
	r.Use(OptionalAuth())
	r.GET("/", func(c *gin.Context) {
		p := PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"user": p.UserID, "auth": p.Authenticated()})
	})
	return r
}

func TestOptionalAuth(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	r := principalRouter()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"guest", "", `{"auth":false,"user":""}`},
		{"valid", "Bearer " + signed(t, "test-secret", jwt.MapClaims{"sub": "u-1"}), `{"auth":true,"user":"u-1"}`},
		{"wrong secret", "Bearer " + signed(t, "other", jwt.MapClaims{"sub": "u-1"}), `{"auth":false,"user":""}`},
		{"missing sub", "Bearer " + signed(t, "test-secret", jwt.MapClaims{"role": "x"}), `{"auth":false,"user":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

func TestPrincipalFrom_WithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, models.Principal{}, PrincipalFrom(c))
}

func TestTabScope(t *testing.T) {
	r := gin.New()
	r.Use(TabScope())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, ScopeFrom(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TabSessionHeader, "../../etc")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TabSessionHeader, "tab_0123abcd")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tab_0123abcd", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?tab=ws-tab-0001", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ws-tab-0001", w.Body.String())
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.2")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code, "limits are per client ip")
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": " 203.0.113.7 , 10.0.0.1"}, "203.0.113.7"},
		{"garbage forwarded falls through", map[string]string{"X-Forwarded-For": "unknown", "X-Real-IP": "198.51.100.2"}, "198.51.100.2"},
		{"remote addr", nil, "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(c))
		})
	}
}

func TestRateLimiterStore_SweepsIdleVisitors(t *testing.T) {
	now := time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC)
	s := newRateLimiterStore(1)
	s.now = func() time.Time { return now }

	assert.True(t, s.allow("a"))
	assert.False(t, s.allow("a"))

	now = now.Add(limiterIdleTTL + time.Second)
	assert.True(t, s.allow("b"))
	s.mu.Lock()
	_, kept := s.visitors["a"]
	s.mu.Unlock()
	assert.False(t, kept)
}
