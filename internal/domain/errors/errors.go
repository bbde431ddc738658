// File: internal/domain/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

var (
	// General errors
	ErrInternal       = errors.New("internal server error")
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("resource not found")
	ErrAlreadyExists  = errors.New("resource already exists")
	ErrForbidden      = errors.New("forbidden")
	ErrUnauthorized   = errors.New("unauthorized")

	// Verification errors
	ErrVerificationNotFound = errors.New("verification not found")
	ErrInvalidTransition    = errors.New("illegal verification status transition")
	ErrNoUnredeemedPurchase = errors.New("no unredeemed verification purchase")
	ErrCreditCheckFailed    = errors.New("credit check did not pass minimum requirements")

	// Payment errors
	ErrUserNotFound          = errors.New("user not found")
	ErrPurchaseNotFound      = errors.New("purchase not found")
	ErrPaymentNotFound       = errors.New("payment intent not found")
	ErrPaymentNotCancellable = errors.New("payment intent can no longer be cancelled")
	ErrPaymentNotOwned       = errors.New("payment intent does not belong to the caller")
	ErrSetupSessionExpired   = errors.New("card setup session expired")

	// Webhook errors
	ErrSignatureInvalid = errors.New("webhook signature invalid")

	// Vendor errors
	ErrVendorUnavailable = errors.New("vendor service unavailable")
)

// AppError carries a user-facing message, an HTTP status code and an API
// error code alongside the wrapped cause. The cause is logged server-side
// and never serialized into responses.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error.
func NewAppError(err error, message string, statusCode int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
}

// IsNotFound reports whether err is a "not found" class error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrVerificationNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrPurchaseNotFound) ||
		errors.Is(err, ErrPaymentNotFound)
}

// IsForbidden reports whether err is a "forbidden" class error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrPaymentNotOwned) ||
		errors.Is(err, ErrNoUnredeemedPurchase)
}

// IsUnauthorized reports whether err is an authentication error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrSignatureInvalid)
}

// IsBadRequest reports whether err is a request validation class error.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrPaymentNotCancellable) ||
		errors.Is(err, ErrSetupSessionExpired)
}

// IsConflict reports whether err is a conflict class error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
