package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linkly-go/internal/apperrors"
	"linkly-go/internal/dto"
	"linkly-go/internal/i18n"
	"linkly-go/internal/service"
	"linkly-go/response"
)

// CreateLinkHandler 创建短链
func CreateLinkHandler(c *gin.Context) {
	var req dto.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Warn("Request body binding failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	link, err := service.CreateLink(c.Request.Context(), req)
	if err != nil {
		zap.L().Warn("Link creation failed",
			zap.Error(err),
			zap.String("short_code", req.ShortCode),
		)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.OK(link, i18n.T(c.Request.Context(), "success.link_created")))
}

// ListLinksHandler 分页查询链接列表
func ListLinksHandler(c *gin.Context) {
	pageStr := c.DefaultQuery("page", "1")
	sizeStr := c.DefaultQuery("size", "10")
	shortCode := c.Query("shortCode")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	size, err := strconv.Atoi(sizeStr)
	if err != nil || size < 1 || size > 100 {
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	pageResp, err := service.ListLinks(c.Request.Context(), page, size, shortCode)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.OK(pageResp, "success"))
}

// UpdateLinkHandler 更新目标地址与描述信息
func UpdateLinkHandler(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Warn("Request body binding failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	link, err := service.UpdateLink(c.Request.Context(), id, req)
	if err != nil {
		zap.L().Warn("Link update failed",
			zap.Error(err),
			zap.Uint("id", id),
			zap.String("target_url", req.TargetURL),
		)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.OK(link, i18n.T(c.Request.Context(), "success.link_updated")))
}

// UpdateLinkStatusHandler 启用/停用链接
func UpdateLinkStatusHandler(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateLinkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	link, err := service.UpdateLinkStatus(c.Request.Context(), id, *req.Active)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.OK(link, i18n.T(c.Request.Context(), "success.link_updated")))
}

// DeleteLinkHandler 删除链接及其点击记录
func DeleteLinkHandler(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := service.DeleteLink(c.Request.Context(), id); err != nil {
		zap.L().Warn("Link deletion failed", zap.Error(err), zap.Uint("id", id))
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.OK(struct{}{}, i18n.T(c.Request.Context(), "success.link_deleted")))
}

// pathID 解析路径中的链接 ID；非法时直接写入错误并返回 false
func pathID(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id < 1 {
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return 0, false
	}
	return uint(id), true
}
