package dto

// LoginRequest 后台登录请求
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录成功返回的会话 token（同时写入 cookie）
type LoginResponse struct {
	Token string `json:"token"`
}
