package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Details any    `json:"details,omitempty"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios. Messages are user facing.
var (
	ErrNotFound          = New("NOT_FOUND", http.StatusNotFound, "không tìm thấy dữ liệu")
	ErrConflict          = New("CONFLICT", http.StatusConflict, "dữ liệu bị trùng lặp hoặc xung đột")
	ErrValidation        = New("VALIDATION_ERROR", http.StatusBadRequest, "dữ liệu không hợp lệ")
	ErrBusinessRule      = New("BUSINESS_RULE", http.StatusBadRequest, "thao tác không được phép")
	ErrHasDependents     = New("HAS_DEPENDENTS", http.StatusConflict, "dữ liệu đang được tham chiếu")
	ErrVersionConflict   = New("VERSION_CONFLICT", http.StatusConflict, "dữ liệu đã bị thay đổi bởi yêu cầu khác")
	ErrCalculationFailed = New("CALCULATION_FAILED", http.StatusInternalServerError, "tính lương thất bại")
	ErrInternal          = New("INTERNAL_ERROR", http.StatusInternalServerError, "lỗi hệ thống")
	ErrCacheMiss         = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WithDetails returns a copy of the error carrying structured details for the client.
func WithDetails(err *Error, message string, details any) *Error {
	clone := Clone(err, message)
	if clone != nil {
		clone.Details = details
	}
	return clone
}

// Is reports whether err carries the given predefined error code.
func Is(err error, target *Error) bool {
	if err == nil || target == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code == target.Code
	}
	return false
}
