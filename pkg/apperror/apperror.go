// Package apperror defines the typed errors services return so handlers
// can map business failures to HTTP statuses without string matching.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation       Kind = "validation_error"
	KindUnauthorized     Kind = "unauthorized"
	KindPermissionDenied Kind = "permission_denied"
	KindNotFound         Kind = "not_found"
	KindConflict         Kind = "conflict"
	KindUpstreamFailure  Kind = "upstream_failure"
	KindUpstreamTimeout  Kind = "upstream_timeout"
	KindInternal         Kind = "internal"
)

// Stable machine-readable codes carried in error responses.
const (
	CodeInvalidRequest            = "invalid_request"
	CodeInsufficientCapacity      = "insufficient_capacity"
	CodeShowtimeNotFound          = "showtime_not_found"
	CodeShowtimeAlreadyStarted    = "showtime_already_started"
	CodeBookingNotFound           = "booking_not_found"
	CodeBookingNotActive          = "booking_not_active"
	CodeBookingNotPayable         = "booking_not_payable"
	CodeCancellationWindowClosed  = "cancellation_window_closed"
	CodeDuplicatePayment          = "duplicate_payment"
	CodeNotOwner                  = "not_owner"
	CodeInsufficientLoyaltyPoints = "insufficient_loyalty_points"
	CodeMovieNotFound             = "movie_not_found"
	CodeGenreNotFound             = "genre_not_found"
	CodeGenreExists               = "genre_exists"
	CodePaymentNotFound           = "payment_not_found"
	CodeUserNotFound              = "user_not_found"
	CodeEmailTaken                = "email_taken"
	CodeUsernameTaken             = "username_taken"
	CodeInvalidCredentials        = "invalid_credentials"
	CodeInvalidToken              = "invalid_token"
	CodeChatUnavailable           = "chat_unavailable"
	CodeChatTimeout               = "chat_timeout"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Wrap(err error, kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

func Validation(code, message string) *Error {
	return New(KindValidation, code, message)
}

func Unauthorized(code, message string) *Error {
	return New(KindUnauthorized, code, message)
}

func PermissionDenied(code, message string) *Error {
	return New(KindPermissionDenied, code, message)
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

func Conflict(code, message string) *Error {
	return New(KindConflict, code, message)
}

func UpstreamFailure(err error, code, message string) *Error {
	return Wrap(err, KindUpstreamFailure, code, message)
}

func UpstreamTimeout(err error, code, message string) *Error {
	return Wrap(err, KindUpstreamTimeout, code, message)
}

func Internal(err error) *Error {
	return Wrap(err, KindInternal, "", "something went wrong")
}

// AsError returns the typed error inside err, or nil.
func AsError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func KindOf(err error) Kind {
	if appErr := AsError(err); appErr != nil {
		return appErr.Kind
	}
	return KindInternal
}

func CodeOf(err error) string {
	if appErr := AsError(err); appErr != nil {
		return appErr.Code
	}
	return ""
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstreamFailure:
		return http.StatusBadGateway
	case KindUpstreamTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
