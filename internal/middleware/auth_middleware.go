package middleware

import (
	"github.com/gin-gonic/gin"

	"linkly-go/internal/apperrors"
	"linkly-go/internal/handler"
	"linkly-go/internal/session"
)

// AuthMiddleware 管理接口鉴权。会话 token 来自 cookie 或 Bearer 头；
// 缺失、无效、过期统一返回同一个 401，不区分原因。
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := handler.SessionToken(c)
		if !session.Default.Validate(token) {
			_ = c.Error(apperrors.UnauthorizedError())
			c.Abort()
			return
		}
		c.Next()
	}
}
