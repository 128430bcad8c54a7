package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"linkly-go/pkg/metrics"
)

// MetricsMiddleware 按方法/路由模板/状态码统计请求量。
// 使用路由模板而不是原始路径，避免短码把 label 基数撑爆。
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}
