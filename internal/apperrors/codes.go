// internal/apperrors/codes.go
package apperrors

import "net/http"

// Code is a machine-readable error code carried in API error envelopes.
type Code string

// Domain failure codes. These are the stable kinds clients branch on.
const (
	CodeUnauthorized        Code = "UNAUTHORIZED"
	CodeNotOwner            Code = "NOT_OWNER"
	CodeTokenNotFound       Code = "TOKEN_NOT_FOUND"
	CodeInvalidRoyalty      Code = "INVALID_ROYALTY"
	CodeInsufficientPayment Code = "INSUFFICIENT_PAYMENT"
	CodeInvalidRecipient    Code = "INVALID_RECIPIENT"
	CodeRegistryPaused      Code = "REGISTRY_PAUSED"
	CodeInsufficientFunds   Code = "INSUFFICIENT_FUNDS"
)

// Transport-level codes.
const (
	CodeUnauthenticated   Code = "UNAUTHENTICATED"
	CodeValidationError   Code = "VALIDATION_ERROR"
	CodeBadRequest        Code = "BAD_REQUEST"
	CodeNotFound          Code = "NOT_FOUND"
	CodeRateLimitExceeded Code = "RATE_LIMIT_EXCEEDED"
	CodePaymentFailed     Code = "PAYMENT_FAILED"
	CodeInternalError     Code = "INTERNAL_ERROR"
)

// HTTPStatus maps an error code to its HTTP response status.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeUnauthorized, CodeNotOwner:
		return http.StatusForbidden
	case CodeTokenNotFound, CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidRoyalty, CodeInsufficientPayment, CodeInvalidRecipient,
		CodeValidationError, CodeBadRequest:
		return http.StatusBadRequest
	case CodeRegistryPaused:
		return http.StatusConflict
	case CodeInsufficientFunds:
		return http.StatusPaymentRequired
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case CodePaymentFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// MessageKey returns the i18n translation key for the code.
func (c Code) MessageKey() string {
	switch c {
	case CodeUnauthorized:
		return "errors.unauthorized"
	case CodeNotOwner:
		return "errors.not_owner"
	case CodeTokenNotFound:
		return "errors.token_not_found"
	case CodeInvalidRoyalty:
		return "errors.invalid_royalty"
	case CodeInsufficientPayment:
		return "errors.insufficient_payment"
	case CodeInvalidRecipient:
		return "errors.invalid_recipient"
	case CodeRegistryPaused:
		return "errors.registry_paused"
	case CodeInsufficientFunds:
		return "errors.insufficient_funds"
	case CodeUnauthenticated:
		return "errors.unauthenticated"
	case CodeValidationError:
		return "errors.validation_failed"
	case CodeBadRequest:
		return "errors.bad_request"
	case CodeNotFound:
		return "errors.not_found"
	case CodeRateLimitExceeded:
		return "errors.rate_limit_exceeded"
	case CodePaymentFailed:
		return "errors.payment_failed"
	default:
		return "errors.internal_error"
	}
}
