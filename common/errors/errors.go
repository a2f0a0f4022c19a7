package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies a failure so callers can choose how to recover from it.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindAuthRequired      Kind = "auth_required"
	KindDuplicateItem     Kind = "duplicate_item"
	KindPersistenceRead   Kind = "persistence_read"
	KindNotFound          Kind = "not_found"
	KindInvalidCredential Kind = "invalid_credential"
	KindConflict          Kind = "conflict"
	KindUnavailable       Kind = "unavailable"
	KindRateLimited       Kind = "rate_limited"
	KindInternal          Kind = "internal"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so wrapped sentinels compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(code int, kind Kind, message string, err error) *Error {
	return &Error{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Wrap returns a copy of the sentinel carrying err as its cause.
func Wrap(sentinel *Error, err error) *Error {
	return New(sentinel.Code, sentinel.Kind, sentinel.Message, err)
}

// WithMessage returns a copy of the sentinel with a more specific message.
func WithMessage(sentinel *Error, message string) *Error {
	return New(sentinel.Code, sentinel.Kind, message, nil)
}

// KindOf reports the classification of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Validation error types
var (
	ErrValidation   = New(http.StatusBadRequest, KindValidation, "Validation error", nil)
	ErrInvalidInput = New(http.StatusBadRequest, KindValidation, "Invalid input", nil)
)

// Authentication error types
var (
	ErrAuthRequired       = New(http.StatusUnauthorized, KindAuthRequired, "You must log in first.", nil)
	ErrInvalidCredentials = New(http.StatusUnauthorized, KindInvalidCredential, "Invalid email or password.", nil)
	ErrAccountExists      = New(http.StatusConflict, KindConflict, "Account already exists", nil)
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, KindUnavailable, "Service unavailable", nil)
	ErrRateLimited        = New(http.StatusTooManyRequests, KindRateLimited, "Too many requests, slow down.", nil)
)

// Cart and checkout error types
var (
	ErrDuplicateItem   = New(http.StatusConflict, KindDuplicateItem, "This item is already in your cart!", nil)
	ErrNotFound        = New(http.StatusNotFound, KindNotFound, "Not found", nil)
	ErrPersistenceRead = New(http.StatusInternalServerError, KindPersistenceRead, "Stored cart could not be read", nil)
	ErrEmptyCart       = New(http.StatusBadRequest, KindValidation, "Your cart is empty. Please add items before checkout.", nil)
	ErrCheckoutBusy    = New(http.StatusConflict, KindConflict, "Checkout is already in progress", nil)
	ErrPaymentFailed   = New(http.StatusPaymentRequired, KindConflict, "Payment failed", nil)
	ErrInternalServer  = New(http.StatusInternalServerError, KindInternal, "Internal server error", nil)
)

// ErrorMiddleware renders the last gin error as an *Error JSON body.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *Error
			if !stderrors.As(err, &appErr) {
				appErr = Wrap(ErrInternalServer, err)
			}

			c.JSON(appErr.Code, appErr)
			c.Abort()
		}
	}
}
