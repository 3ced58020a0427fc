// Package errors 提供统一的错误定义
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误 (1xxx)
	CodeSuccess            ErrorCode = "0"
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeUnauthorized       ErrorCode = "1002"
	CodeForbidden          ErrorCode = "1003"
	CodeNotFound           ErrorCode = "1004"
	CodeTooManyRequests    ErrorCode = "1005"
	CodeInternalError      ErrorCode = "1006"
	CodeServiceUnavailable ErrorCode = "1007"

	// 认证授权错误 (2xxx)
	CodeTokenExpired     ErrorCode = "2001"
	CodeTokenInvalid     ErrorCode = "2002"
	CodeTokenMissing     ErrorCode = "2003"
	CodePermissionDenied ErrorCode = "2004"

	// 资源错误 (3xxx)
	CodeProductNotFound ErrorCode = "3001"

	// 业务错误 (4xxx)
	CodeNoAPIKey          ErrorCode = "4001"
	CodeUsageLimitReached ErrorCode = "4002"
	CodeInvalidProvider   ErrorCode = "4003"
	CodeGenerationFailed  ErrorCode = "4004"
	CodeCancelled         ErrorCode = "4005"

	// 外部服务错误 (5xxx)
	CodeDatabaseError   ErrorCode = "5001"
	CodeCacheError      ErrorCode = "5002"
	CodeConnectionError ErrorCode = "5003"
	CodeAPIError        ErrorCode = "5004"
	CodeInvalidResponse ErrorCode = "5005"
)

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail 添加详细信息，返回副本以免污染预定义错误
func (e *AppError) WithDetail(detail string) *AppError {
	ne := *e
	ne.Detail = detail
	return &ne
}

// WithError 添加底层错误，返回副本以免污染预定义错误
func (e *AppError) WithError(err error) *AppError {
	ne := *e
	ne.Err = err
	return &ne
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 错误码转 HTTP 状态码
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam, CodeNoAPIKey, CodeInvalidProvider:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeTokenExpired, CodeTokenInvalid, CodeTokenMissing:
		return http.StatusUnauthorized
	case CodeForbidden, CodePermissionDenied:
		return http.StatusForbidden
	case CodeNotFound, CodeProductNotFound:
		return http.StatusNotFound
	case CodeTooManyRequests, CodeUsageLimitReached:
		return http.StatusTooManyRequests
	case CodeConnectionError, CodeAPIError, CodeInvalidResponse:
		return http.StatusBadGateway
	case CodeCancelled:
		return http.StatusRequestTimeout
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// 预定义错误
var (
	ErrInvalidParam       = New(CodeInvalidParam, "invalid parameter")
	ErrUnauthorized       = New(CodeUnauthorized, "unauthorized")
	ErrForbidden          = New(CodeForbidden, "forbidden")
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrTooManyRequests    = New(CodeTooManyRequests, "too many requests")
	ErrInternalError      = New(CodeInternalError, "internal server error")
	ErrServiceUnavailable = New(CodeServiceUnavailable, "service unavailable")

	ErrTokenExpired = New(CodeTokenExpired, "token expired")
	ErrTokenInvalid = New(CodeTokenInvalid, "token invalid")
	ErrTokenMissing = New(CodeTokenMissing, "token missing")

	ErrProductNotFound = New(CodeProductNotFound, "product not found")

	ErrNoAPIKey          = New(CodeNoAPIKey, "API key not configured")
	ErrUsageLimitReached = New(CodeUsageLimitReached, "monthly usage limit reached")
	ErrInvalidProvider   = New(CodeInvalidProvider, "invalid API provider")
	ErrGenerationFailed  = New(CodeGenerationFailed, "description generation failed")
	ErrCancelled         = New(CodeCancelled, "request cancelled")

	ErrConnectionError = New(CodeConnectionError, "failed to connect to provider API")
	ErrAPIError        = New(CodeAPIError, "provider API error")
	ErrInvalidResponse = New(CodeInvalidResponse, "invalid response from provider API")
)

// IsAppError 检查是否为 AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}

// IsCode 检查错误是否携带指定错误码
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}
