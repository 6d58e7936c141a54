package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes exposed to API clients.
const (
	CodeDuplicateEmail           = "DUPLICATE_EMAIL"
	CodeNotFound                 = "NOT_FOUND"
	CodeSuspended                = "SUSPENDED"
	CodeInvalidCredentials       = "INVALID_CREDENTIALS"
	CodeInvalidOrExpiredOTP      = "INVALID_OR_EXPIRED_OTP"
	CodeInvalidVerificationToken = "INVALID_VERIFICATION_TOKEN"
	CodeExpiredVerificationToken = "EXPIRED_VERIFICATION_TOKEN"
	CodeUnauthorized             = "UNAUTHORIZED"
	CodeForbidden                = "FORBIDDEN"
	CodeValidationFailed         = "VALIDATION_FAILED"
	CodeDeliveryError            = "DELIVERY_ERROR"
	CodeStoreError               = "STORE_ERROR"
	CodeInternalError            = "INTERNAL_ERROR"
)

// Sentinels for errors.Is matching. Two DomainErrors match when their codes are equal.
var (
	ErrDuplicateEmail           = &DomainError{Code: CodeDuplicateEmail}
	ErrNotFound                 = &DomainError{Code: CodeNotFound}
	ErrSuspended                = &DomainError{Code: CodeSuspended}
	ErrInvalidCredentials       = &DomainError{Code: CodeInvalidCredentials}
	ErrInvalidOrExpiredOTP      = &DomainError{Code: CodeInvalidOrExpiredOTP}
	ErrInvalidVerificationToken = &DomainError{Code: CodeInvalidVerificationToken}
	ErrExpiredVerificationToken = &DomainError{Code: CodeExpiredVerificationToken}
	ErrUnauthorized             = &DomainError{Code: CodeUnauthorized}
	ErrForbidden                = &DomainError{Code: CodeForbidden}
	ErrValidation               = &DomainError{Code: CodeValidationFailed}
	ErrDelivery                 = &DomainError{Code: CodeDeliveryError}
	ErrStore                    = &DomainError{Code: CodeStoreError}
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Message == "" {
		return e.Code
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewDuplicateEmail(email string) error {
	return NewDomainError(CodeDuplicateEmail, "an account with this email already exists", http.StatusConflict,
		map[string]any{"email": email})
}

func NewSuspended() error {
	return NewDomainError(CodeSuspended, "account is suspended", http.StatusForbidden, nil)
}

func NewInvalidCredentials() error {
	return NewDomainError(CodeInvalidCredentials, "invalid credentials", http.StatusUnauthorized, nil)
}

func NewInvalidOrExpiredOTP() error {
	return NewDomainError(CodeInvalidOrExpiredOTP, "invalid or expired OTP", http.StatusBadRequest, nil)
}

func NewInvalidVerificationToken() error {
	return NewDomainError(CodeInvalidVerificationToken, "invalid verification token", http.StatusUnauthorized, nil)
}

func NewExpiredVerificationToken() error {
	return NewDomainError(CodeExpiredVerificationToken, "verification token expired", http.StatusUnauthorized, nil)
}

func NewDeliveryError(err error) error {
	return &DomainError{
		Code:       CodeDeliveryError,
		Message:    "notification delivery failed",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewStoreError(err error) error {
	return &DomainError{
		Code:       CodeStoreError,
		Message:    "storage failure",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		if domainErr.HTTPStatus == 0 {
			clone := *domainErr
			clone.HTTPStatus = http.StatusInternalServerError
			return &clone
		}
		return domainErr
	}
	return NewInternalError(err).(*DomainError)
}
