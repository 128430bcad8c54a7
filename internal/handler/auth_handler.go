package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linkly-go/internal/apperrors"
	"linkly-go/internal/dto"
	"linkly-go/internal/i18n"
	"linkly-go/internal/session"
	"linkly-go/response"
)

// SessionCookieName 会话 cookie 名，登录后下发、鉴权中间件读取
const SessionCookieName = "session_id"

// LoginHandler 后台登录。口令正确时签发会话 token，
// 同时写入 HttpOnly cookie 并在响应体返回（供非浏览器客户端用 Bearer 头）。
func LoginHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	token, err := session.Default.Login(req.Password)
	if err != nil {
		zap.L().Warn("Login attempt rejected", zap.String("ip", c.ClientIP()))
		_ = c.Error(apperrors.UnauthorizedError())
		return
	}

	maxAge := int(session.Default.Duration().Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, maxAge, "/", "", false, true)

	zap.L().Info("Admin session issued", zap.String("ip", c.ClientIP()))
	c.JSON(http.StatusOK, response.OK(dto.LoginResponse{Token: token}, i18n.T(c.Request.Context(), "success.login")))
}

// LogoutHandler 注销当前会话并清除 cookie
func LogoutHandler(c *gin.Context) {
	if token := SessionToken(c); token != "" {
		session.Default.Logout(token)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, response.OK(struct{}{}, i18n.T(c.Request.Context(), "success.logout")))
}

// SessionToken 从请求中取会话 token：优先 cookie，其次 Bearer 头
func SessionToken(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookieName); err == nil && token != "" {
		return token
	}

	const prefix = "Bearer "
	auth := c.GetHeader("Authorization")
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}
