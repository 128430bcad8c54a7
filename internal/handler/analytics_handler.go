package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linkly-go/internal/service"
	"linkly-go/response"
)

// LinkAnalyticsHandler 单条链接的访问分析
func LinkAnalyticsHandler(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	analytics, err := service.GetLinkAnalytics(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.OK(analytics, "success"))
}
