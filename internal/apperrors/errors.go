// internal/apperrors/errors.go
package apperrors

import "errors"

// Error is the domain error type. Services return these; handlers map them
// to envelope codes and HTTP statuses without string matching.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code, so sentinel
// comparisons like errors.Is(err, ErrNotOwner) work across wrapping.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the error code from err, or CodeInternalError when err is
// not a domain error.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalError
}

// Sentinel errors for the registry's failure kinds.
var (
	ErrUnauthorized        = New(CodeUnauthorized, "caller is not authorized for this operation")
	ErrNotOwner            = New(CodeNotOwner, "caller does not own this asset")
	ErrTokenNotFound       = New(CodeTokenNotFound, "asset does not exist")
	ErrInvalidRoyalty      = New(CodeInvalidRoyalty, "value exceeds the configured bound")
	ErrInsufficientPayment = New(CodeInsufficientPayment, "sale price does not cover the royalty")
	ErrInvalidRecipient    = New(CodeInvalidRecipient, "recipient must differ from the caller")
	ErrRegistryPaused      = New(CodeRegistryPaused, "registry is paused")
	ErrInsufficientFunds   = New(CodeInsufficientFunds, "account balance is insufficient")
)
