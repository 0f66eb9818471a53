package middleware

import (
	"github.com/gin-gonic/gin"

	"terminal-terrace/conduit/internal/dto"
	"terminal-terrace/conduit/internal/errs"
	"terminal-terrace/conduit/internal/identity"
)

// ResolveIdentity 身份解析中间件，所有路由都挂载
// 无论是否携带有效令牌都继续执行
func ResolveIdentity(resolver *identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := resolver.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
		identity.Set(c, id)
		c.Next()
	}
}

// RequireIdentity 必需认证，未解析为登录用户时返回 401
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !identity.FromContext(c).IsResolved() {
			dto.HandleError(c, errs.ErrUnauthorized)
			return
		}
		c.Next()
	}
}
