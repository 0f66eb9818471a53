package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"terminal-terrace/conduit/internal/identity"
	"terminal-terrace/conduit/pkg/authsdk"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T) (*gin.Engine, *authsdk.TokenManager, *observer.ObservedLogs) {
	t.Helper()
	m, err := authsdk.NewTokenManager("middleware-test-secret", time.Hour)
	require.NoError(t, err)

	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(RequestLogger(zap.New(core)), ResolveIdentity(identity.NewResolver(m, nil)))
	r.GET("/optional", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"state": identity.FromContext(c).State.String()})
	})
	r.GET("/required", RequireIdentity(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": identity.MustUserID(c)})
	})
	return r, m, logs
}

func do(r *gin.Engine, path, auth string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestOptionalRoute(t *testing.T) {
	r, m, _ := setupRouter(t)
	token, err := m.GenerateToken(3, "bob", "bob@example.com")
	require.NoError(t, err)

	w := do(r, "/optional", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"state":"anonymous"}`, w.Body.String())

	w = do(r, "/optional", "Bearer garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"state":"anonymous"}`, w.Body.String())

	w = do(r, "/optional", "Token "+token)
	assert.JSONEq(t, `{"state":"resolved"}`, w.Body.String())
}

func TestRequiredRoute(t *testing.T) {
	r, m, _ := setupRouter(t)
	token, err := m.GenerateToken(3, "bob", "bob@example.com")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/required", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/required", "Bearer garbage").Code)

	w := do(r, "/required", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":3}`, w.Body.String())
}

func TestRequestLogger(t *testing.T) {
	r, m, logs := setupRouter(t)
	token, err := m.GenerateToken(3, "bob", "bob@example.com")
	require.NoError(t, err)

	w := do(r, "/required", "Bearer "+token)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/required", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, uint64(3), fields["user_id"])
	assert.NotEmpty(t, fields["request_id"])
}
