package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies where a failure happened.
type Kind string

const (
	KindApp          Kind = "app"          // raised by this service (bad form input, forbidden page...)
	KindPrecondition Kind = "precondition" // local check failed, nothing was sent upstream
	KindStatus       Kind = "status"       // upstream answered with a non-2xx status
	KindTransport    Kind = "transport"    // the round trip itself failed
	KindDecode       Kind = "decode"       // upstream answered 2xx with a body we could not read
)

type AppError struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Kind:    KindApp,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}

// Precondition reports a local check that failed before any request was made.
func Precondition(message string) *AppError {
	return &AppError{Kind: KindPrecondition, Code: http.StatusBadRequest, Message: message}
}

// Status carries an upstream non-2xx answer. Message is the raw response body.
func Status(code int, body string) *AppError {
	return &AppError{Kind: KindStatus, Code: code, Message: body}
}

// Transport wraps a failed round trip (connection refused, reset, cancelled...).
func Transport(err error) *AppError {
	return &AppError{Kind: KindTransport, Code: http.StatusBadGateway, Message: err.Error(), Err: err}
}

// Decode wraps an unreadable 2xx body.
func Decode(err error) *AppError {
	return &AppError{Kind: KindDecode, Code: http.StatusBadGateway, Message: err.Error(), Err: err}
}

// As extracts an *AppError from err.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err is an *AppError of the given kind.
func Is(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}
