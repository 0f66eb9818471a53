package authsdk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, secret string) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(secret, 24*time.Hour)
	require.NoError(t, err)
	return m
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	m, err := NewTokenManager("", time.Hour)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestParseToken(t *testing.T) {
	m := newTestManager(t, "test-secret-key")

	validToken, err := m.GenerateToken(1, "testuser", "test@example.com")
	require.NoError(t, err)

	tests := []struct {
		name      string
		token     string
		expectErr error
	}{
		{name: "解析有效的令牌", token: validToken},
		{name: "解析空令牌", token: "", expectErr: ErrNoToken},
		{name: "解析无效的令牌", token: "invalid.token.string", expectErr: ErrInvalidToken},
		{name: "解析格式错误的令牌", token: "not-a-jwt-token", expectErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := m.ParseToken(tt.token)

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(1), user.UserID)
			assert.Equal(t, "testuser", user.Username)
			assert.Equal(t, "test@example.com", user.Email)
			assert.NotEmpty(t, user.TokenID)
			assert.True(t, user.ExpiresAt.After(time.Now()))
		})
	}
}

func TestParseToken_WithDifferentSecret(t *testing.T) {
	token, err := newTestManager(t, "secret-key-1").GenerateToken(1, "testuser", "test@example.com")
	require.NoError(t, err)

	user, err := newTestManager(t, "secret-key-2").ParseToken(token)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_ExpiredToken(t *testing.T) {
	m := newTestManager(t, "test-secret-key")
	m.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }

	token, err := m.GenerateToken(1, "testuser", "test@example.com")
	require.NoError(t, err)

	m.now = time.Now
	user, err := m.ParseToken(token)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestGenerateToken_UniqueTokenIDs(t *testing.T) {
	m := newTestManager(t, "test-secret-key")

	a, err := m.GenerateToken(7, "a", "a@example.com")
	require.NoError(t, err)
	b, err := m.GenerateToken(7, "a", "a@example.com")
	require.NoError(t, err)

	ua, err := m.ParseToken(a)
	require.NoError(t, err)
	ub, err := m.ParseToken(b)
	require.NoError(t, err)
	assert.NotEqual(t, ua.TokenID, ub.TokenID)
}

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "Bearer 前缀", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "Token 前缀", header: "Token abc.def.ghi", want: "abc.def.ghi"},
		{name: "小写前缀", header: "bearer abc", want: "abc"},
		{name: "空头", header: "", wantErr: ErrNoToken},
		{name: "只有前缀", header: "Bearer ", wantErr: ErrNoToken},
		{name: "未知格式", header: "Basic dXNlcjpwYXNz", wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearer(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
