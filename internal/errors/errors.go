package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeCredential indicates rejected credentials (wrong identifier/password).
	ErrCodeCredential ErrorCode = "credential_rejected"
	// ErrCodeRoleMismatch indicates valid credentials presented to the wrong portal.
	ErrCodeRoleMismatch ErrorCode = "role_mismatch"
	// ErrCodeGateway indicates a transport failure or malformed backend response.
	ErrCodeGateway ErrorCode = "gateway"
	// ErrCodeSessionExpired indicates the inactivity window elapsed.
	ErrCodeSessionExpired ErrorCode = "session_expired"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError represents a structured application error with a code, message,
// and optional cause. It supports errors.Is and errors.As via Unwrap.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Credential creates a new credential-rejection error.
func Credential(message string) *AppError {
	return &AppError{Code: ErrCodeCredential, Message: message}
}

// RoleMismatch creates a new role-mismatch error.
func RoleMismatch(message string) *AppError {
	return &AppError{Code: ErrCodeRoleMismatch, Message: message}
}

// Gateway creates a new gateway error.
func Gateway(message string) *AppError {
	return &AppError{Code: ErrCodeGateway, Message: message}
}

// Gatewayf creates a new gateway error with formatted message.
func Gatewayf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeGateway, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a new validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// ValidationField creates a new validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsCredential checks if an error is a credential-rejection error.
func IsCredential(err error) bool { return isCode(err, ErrCodeCredential) }

// IsRoleMismatch checks if an error is a role-mismatch error.
func IsRoleMismatch(err error) bool { return isCode(err, ErrCodeRoleMismatch) }

// IsGateway checks if an error is a gateway error.
func IsGateway(err error) bool { return isCode(err, ErrCodeGateway) }

// IsSessionExpired checks if an error is a session-expired error.
func IsSessionExpired(err error) bool { return isCode(err, ErrCodeSessionExpired) }

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// UserMessage returns the message suitable for showing to a user:
// the AppError message when present, else the fallback.
func UserMessage(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
