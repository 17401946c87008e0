package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"saubio/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn", zapcore.InfoLevel))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("", zapcore.InfoLevel))
	assert.Equal(t, zapcore.DebugLevel, parseLevel("loud", zapcore.DebugLevel))
}

func TestParsePrincipal(t *testing.T) {
	config.AppConfig.JWTSecret = "s3cret"
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-9"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	p, err := ParsePrincipal(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-9", p.UserID)
	assert.Equal(t, raw, p.Token)
	assert.True(t, p.Authenticated())

	_, err = ParsePrincipal("not.a.token")
	assert.Error(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user-9"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParsePrincipal(none)
	assert.Error(t, err)
}

func TestParsePrincipal_NoSecret(t *testing.T) {
	config.AppConfig.JWTSecret = ""
	_, err := ParsePrincipal("anything")
	assert.Error(t, err)
}

func TestCheckHealth(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()

	s := CheckHealth(context.Background(), nil, up.URL)
	assert.True(t, s.Redis)
	assert.True(t, s.API)
	assert.Equal(t, s, GetHealthStatus())

	s = CheckHealth(context.Background(), nil, down.URL)
	assert.False(t, s.API)
}

func TestErrorHandler_RecoversPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal Server Error")
}
