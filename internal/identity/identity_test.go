package identity

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terminal-terrace/conduit/pkg/authsdk"
)

type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func (f fakeRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return f.revoked[tokenID], f.err
}

func newManager(t *testing.T) *authsdk.TokenManager {
	t.Helper()
	m, err := authsdk.NewTokenManager("identity-test-secret", time.Hour)
	require.NoError(t, err)
	return m
}

func TestResolve(t *testing.T) {
	m := newManager(t)
	token, err := m.GenerateToken(7, "alice", "alice@example.com")
	require.NoError(t, err)

	other, err := authsdk.NewTokenManager("another-secret", time.Hour)
	require.NoError(t, err)
	foreign, err := other.GenerateToken(7, "alice", "alice@example.com")
	require.NoError(t, err)

	tests := []struct {
		name      string
		header    string
		wantState State
	}{
		{"Bearer 前缀", "Bearer " + token, Resolved},
		{"Token 前缀", "Token " + token, Resolved},
		{"未提供", "", Anonymous},
		{"格式错误", "Basic abc", Anonymous},
		{"无效令牌", "Bearer not-a-jwt", Anonymous},
		{"其他密钥签发", "Bearer " + foreign, Anonymous},
	}

	r := NewResolver(m, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := r.Resolve(context.Background(), tt.header)
			assert.Equal(t, tt.wantState, id.State)
			if tt.wantState == Resolved {
				assert.Equal(t, uint(7), id.UserID)
				assert.Equal(t, "alice", id.Username)
				assert.Equal(t, token, id.Token)
				assert.NotEmpty(t, id.TokenID)
			} else {
				assert.Zero(t, id.UserID)
			}
		})
	}
}

func TestResolve_Revoked(t *testing.T) {
	m := newManager(t)
	token, err := m.GenerateToken(7, "alice", "alice@example.com")
	require.NoError(t, err)
	uc, err := m.ParseToken(token)
	require.NoError(t, err)

	r := NewResolver(m, fakeRevocations{revoked: map[string]bool{uc.TokenID: true}})
	assert.Equal(t, Anonymous, r.Resolve(context.Background(), "Bearer "+token).State)

	r = NewResolver(m, fakeRevocations{err: errors.New("redis down")})
	assert.Equal(t, Anonymous, r.Resolve(context.Background(), "Bearer "+token).State)

	r = NewResolver(m, fakeRevocations{revoked: map[string]bool{}})
	assert.Equal(t, Resolved, r.Resolve(context.Background(), "Bearer "+token).State)
}

func TestGinHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, Unresolved, FromContext(c).State)
	assert.Nil(t, OptionalUserID(c))
	assert.Panics(t, func() { MustUserID(c) })

	Set(c, Identity{State: Anonymous})
	assert.Nil(t, OptionalUserID(c))
	assert.Panics(t, func() { MustUserID(c) })

	Set(c, Identity{State: Resolved, UserID: 42})
	require.NotNil(t, OptionalUserID(c))
	assert.Equal(t, uint(42), *OptionalUserID(c))
	assert.Equal(t, uint(42), MustUserID(c))
	assert.Equal(t, uint(42), c.GetUint("user_id"))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unresolved", Unresolved.String())
	assert.Equal(t, "resolved", Resolved.String())
	assert.Equal(t, "anonymous", Anonymous.String())
}
