package dto

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"linkly-go/pkg/utils"
)

// CreateLinkRequest 创建短链的请求参数。
// ShortCode 缺省时由服务端生成随机短码。
type CreateLinkRequest struct {
	TargetURL   string `json:"targetUrl" binding:"required,url"`
	ShortCode   string `json:"shortCode" binding:"omitempty,shortcode"`
	Title       string `json:"title" binding:"omitempty,max=255"`
	Description string `json:"description" binding:"omitempty,max=1024"`
}

// Validate 自定义验证逻辑，复用公共校验
func (r *CreateLinkRequest) Validate() error {
	if err := utils.ValidateTargetURL(r.TargetURL); err != nil {
		return err
	}
	if r.ShortCode != "" {
		if err := utils.ValidateShortCode(r.ShortCode); err != nil {
			return err
		}
	}
	return nil
}

// UpdateLinkRequest 更新短链的请求参数（不允许改短码）
type UpdateLinkRequest struct {
	TargetURL   string `json:"targetUrl" binding:"required,url"`
	Title       string `json:"title" binding:"omitempty,max=255"`
	Description string `json:"description" binding:"omitempty,max=1024"`
}

// UpdateLinkStatusRequest 启用/停用短链
type UpdateLinkStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// LinkWithStats 列表页行：链接 + 累计点击数
type LinkWithStats struct {
	ID          uint      `json:"id"`
	ShortCode   string    `json:"shortCode"`
	TargetURL   string    `json:"targetUrl"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	ClickCount  int64     `json:"clickCount"`
}

// RegisterValidations 在 gin 的 validator 引擎上注册自定义规则
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("shortcode", func(fl validator.FieldLevel) bool {
			return utils.IsValidShortCode(fl.Field().String())
		})
	}
}
