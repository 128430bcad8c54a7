package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"linkly-go/internal/apperrors"
	"linkly-go/internal/i18n"
	"linkly-go/response"
)

// GlobalErrorMiddleware 全局错误中间件。
// AppError 的 Message 是 i18n 消息 key，在这里统一本地化后输出。
func GlobalErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			for _, err := range c.Errors {
				var appErr *apperrors.AppError
				if errors.As(err.Err, &appErr) {
					message := i18n.T(c.Request.Context(), appErr.Message)
					c.AbortWithStatusJSON(appErr.Code, response.Error(message))
					return
				}
			}

			// 未定义的错误统一按系统错误处理
			message := i18n.T(c.Request.Context(), "error.system")
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(message))
			return
		}
	}
}
