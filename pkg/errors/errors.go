/*
Package errors 应用层错误

AppError 携带错误码和用户可见消息；领域错误通过 FromDomainError
按哨兵错误 (errors.Is/As) 映射为错误码。HTTP 状态码只在 API 层映射。
*/
package errors

import (
	"errors"
	"fmt"

	"ordersvc/domain/order"
	"ordersvc/domain/product"
	"ordersvc/domain/shared"
)

// ErrorCode 错误码
type ErrorCode string

const (
	// 通用错误码
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"

	// 业务错误码
	CodeProductNotFound    ErrorCode = "PRODUCT_NOT_FOUND"
	CodeOrderNotFound      ErrorCode = "ORDER_NOT_FOUND"
	CodeInsufficientStock  ErrorCode = "INSUFFICIENT_STOCK"
	CodeInvalidOrderStatus ErrorCode = "INVALID_ORDER_STATUS"
	CodeInvalidOrder       ErrorCode = "INVALID_ORDER"
	CodeConcurrentModify   ErrorCode = "CONCURRENT_MODIFICATION"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode         `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"` // 字段 -> 原因
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequest, message)
}

// Validation 带字段明细的校验错误
func Validation(message string, details map[string]string) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Details: details}
}

// Is 检查是否为特定错误码
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromDomainError 将领域错误映射为应用错误
// 未识别的错误一律视为内部错误，消息不外泄。
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var validationErrs *shared.ValidationErrors
	if errors.As(err, &validationErrs) {
		return &AppError{Code: CodeValidation, Message: "Validation failed", Details: validationErrs.Fields, Err: err}
	}

	switch {
	case errors.Is(err, product.ErrProductNotFound):
		return Wrap(err, CodeProductNotFound, err.Error())
	case errors.Is(err, order.ErrOrderNotFound):
		return Wrap(err, CodeOrderNotFound, err.Error())
	case errors.Is(err, product.ErrInsufficientStock):
		return Wrap(err, CodeInsufficientStock, err.Error())
	case errors.Is(err, order.ErrInvalidOrderStatus):
		return Wrap(err, CodeInvalidOrderStatus, err.Error())
	case errors.Is(err, order.ErrInvalidOrder):
		return withField(Wrap(err, CodeInvalidOrder, err.Error()), err)
	case errors.Is(err, order.ErrConcurrentModification), errors.Is(err, product.ErrConcurrentModification):
		return Wrap(err, CodeConcurrentModify, err.Error())
	case errors.Is(err, shared.ErrInvalidInput):
		return withField(Wrap(err, CodeValidation, err.Error()), err)
	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeNotFound, err.Error())
	case errors.Is(err, shared.ErrConflict):
		return Wrap(err, CodeConflict, err.Error())
	default:
		return Wrap(err, CodeInternal, "internal server error")
	}
}

// withField 把单字段领域错误的字段名写入 Details
func withField(appErr *AppError, err error) *AppError {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && domainErr.Field != "" {
		appErr.Details = map[string]string{domainErr.Field: domainErr.Message}
		return appErr
	}
	var fielded interface{ Field() string }
	if errors.As(err, &fielded) && fielded.Field() != "" {
		appErr.Details = map[string]string{fielded.Field(): err.Error()}
	}
	return appErr
}
