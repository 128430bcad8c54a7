package apperrors

import (
	"net/http"
)

// AppError 自定义错误类型。Message 通常是 i18n 消息 key，
// 由全局错误中间件在响应前本地化。
type AppError struct {
	Code    int
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode 创建通用业务错误
func WithCode(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// BusinessError 封装业务逻辑错误（通用）
func BusinessError(code int, message string) *AppError {
	return WithCode(code, message)
}

// InvalidRequestError 封装参数校验错误
func InvalidRequestError(message string) *AppError {
	return WithCode(http.StatusBadRequest, message)
}

// InvalidRequestErrorDefault 默认参数校验错误
func InvalidRequestErrorDefault() *AppError {
	return WithCode(http.StatusBadRequest, "error.invalid_request")
}

// NotFoundError 资源不存在
func NotFoundError(message string) *AppError {
	return WithCode(http.StatusNotFound, message)
}

// UnauthorizedError 认证失败。登录失败与会话失效统一用同一条消息，
// 不向调用方泄露更具体的原因。
func UnauthorizedError() *AppError {
	return WithCode(http.StatusUnauthorized, "error.unauthorized")
}

// SystemError 封装系统内部错误
func SystemError(message string) *AppError {
	return WithCode(http.StatusInternalServerError, message)
}

// SystemErrorDefault 默认系统内部错误
func SystemErrorDefault() *AppError {
	return WithCode(http.StatusInternalServerError, "error.system")
}
