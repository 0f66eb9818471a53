// Package identity 描述单次请求的身份解析状态
//
// 状态只会从 Unresolved 迁移到 Resolved 或 Anonymous。
// 凭据缺失、格式错误、过期或已被吊销都视为匿名，不作为错误处理；
// 需要登录的路由由 middleware.RequireIdentity 拦截。
package identity

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"terminal-terrace/conduit/internal/logger"
	"terminal-terrace/conduit/pkg/authsdk"
)

type State int

const (
	Unresolved State = iota
	Resolved
	Anonymous
)

func (s State) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case Anonymous:
		return "anonymous"
	default:
		return "unresolved"
	}
}

// Identity 当前请求者
type Identity struct {
	State     State
	UserID    uint
	Username  string
	Email     string
	TokenID   string
	ExpiresAt time.Time
	// 原始令牌，返回当前用户时回显
	Token string
}

// IsResolved 是否为已登录用户
func (i Identity) IsResolved() bool {
	return i.State == Resolved && i.UserID != 0
}

// TokenParser 校验令牌并返回其中的用户信息
type TokenParser interface {
	ParseToken(token string) (*authsdk.UserContext, error)
}

// RevocationChecker 查询令牌是否已注销
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Resolver 把 Authorization 头解析为 Identity
type Resolver struct {
	parser  TokenParser
	revoked RevocationChecker
}

// NewResolver revoked 可以为 nil
func NewResolver(parser TokenParser, revoked RevocationChecker) *Resolver {
	return &Resolver{parser: parser, revoked: revoked}
}

// Resolve 返回 Resolved 或 Anonymous，不会返回 Unresolved
func (r *Resolver) Resolve(ctx context.Context, authorization string) Identity {
	anonymous := Identity{State: Anonymous}

	token, err := authsdk.ExtractBearer(authorization)
	if err != nil {
		return anonymous
	}
	uc, err := r.parser.ParseToken(token)
	if err != nil {
		return anonymous
	}

	if r.revoked != nil {
		revoked, err := r.revoked.IsRevoked(ctx, uc.TokenID)
		if err != nil {
			// 无法确认时按未登录处理
			logger.FromContext(ctx).Warn("revocation check failed", zap.Error(err))
			return anonymous
		}
		if revoked {
			return anonymous
		}
	}

	return Identity{
		State:     Resolved,
		UserID:    uc.UserID,
		Username:  uc.Username,
		Email:     uc.Email,
		TokenID:   uc.TokenID,
		ExpiresAt: uc.ExpiresAt,
		Token:     token,
	}
}

const contextKey = "identity"

// Set 写入 gin 上下文
func Set(c *gin.Context, id Identity) {
	c.Set(contextKey, id)
	if id.IsResolved() {
		c.Set("user_id", id.UserID)
	}
}

// FromContext 未经过解析中间件时返回 Unresolved
func FromContext(c *gin.Context) Identity {
	if v, ok := c.Get(contextKey); ok {
		if id, ok := v.(Identity); ok {
			return id
		}
	}
	return Identity{State: Unresolved}
}

// OptionalUserID 只用于标注读结果，匿名时为 nil
func OptionalUserID(c *gin.Context) *uint {
	id := FromContext(c)
	if !id.IsResolved() {
		return nil
	}
	userID := id.UserID
	return &userID
}

// MustUserID 只能在 RequireIdentity 之后调用
func MustUserID(c *gin.Context) uint {
	id := FromContext(c)
	if !id.IsResolved() {
		panic("identity: MustUserID called on a route without RequireIdentity")
	}
	return id.UserID
}
