// Package errors defines the error taxonomy shared by account validation,
// strategy assembly and the upload/delete lifecycle.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error
type Kind string

const (
	KindConfiguration      Kind = "CONFIGURATION_ERROR"
	KindUnsupportedBackend Kind = "UNSUPPORTED_BACKEND"
	KindAuth               Kind = "AUTH_ERROR"
	KindConnectivity       Kind = "CONNECTIVITY_ERROR"
	KindTransfer           Kind = "TRANSFER_ERROR"
	KindNotFound           Kind = "NOT_FOUND"
	KindInternal           Kind = "INTERNAL_ERROR"
)

// Error carries a kind, a response code and a human readable message
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Err     error

	// Backend and Field are set for configuration errors
	Backend string
	Field   string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind so that errors.Is(err, ErrNotFound)
// works for any not-found error
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// Sentinels for errors.Is checks
var (
	ErrConfiguration      = &Error{Kind: KindConfiguration}
	ErrUnsupportedBackend = &Error{Kind: KindUnsupportedBackend}
	ErrAuth               = &Error{Kind: KindAuth}
	ErrConnectivity       = &Error{Kind: KindConnectivity}
	ErrTransfer           = &Error{Kind: KindTransfer}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrInternal           = &Error{Kind: KindInternal}
)

// Configuration reports a missing or invalid account field
func Configuration(backend, field string) error {
	return &Error{
		Kind:    KindConfiguration,
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf("%s: field %s is required", backend, field),
		Backend: backend,
		Field:   field,
	}
}

// Configurationf reports an invalid configuration that is not tied to a single field
func Configurationf(backend, format string, args ...any) error {
	return &Error{
		Kind:    KindConfiguration,
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf("%s: %s", backend, fmt.Sprintf(format, args...)),
		Backend: backend,
	}
}

// UnsupportedBackend reports an unknown backend type
func UnsupportedBackend(backend string) error {
	return &Error{
		Kind:    KindUnsupportedBackend,
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf("unsupported or unimplemented backend type %q", backend),
		Backend: backend,
	}
}

// Auth reports a missing or expired credential
func Auth(message string, err error) error {
	return &Error{Kind: KindAuth, Code: http.StatusUnauthorized, Message: message, Err: err}
}

// Connectivity reports a missing client or session
func Connectivity(message string, err error) error {
	return &Error{Kind: KindConnectivity, Code: http.StatusServiceUnavailable, Message: message, Err: err}
}

// Transfer reports an operation rejected by the backend. A code outside the
// HTTP error range is replaced by 500.
func Transfer(code int, message string, err error) error {
	if code < 400 || code > 599 {
		code = http.StatusInternalServerError
	}
	return &Error{Kind: KindTransfer, Code: code, Message: message, Err: err}
}

// NotFound reports an absent remote or local file
func NotFound(message string, err error) error {
	return &Error{Kind: KindNotFound, Code: http.StatusNotFound, Message: message, Err: err}
}

// Internal reports an unexpected failure
func Internal(message string, err error) error {
	return &Error{Kind: KindInternal, Code: http.StatusInternalServerError, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal when there is none
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf returns the response code for err. Errors outside the taxonomy map to 500.
func CodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Code != 0 {
		return e.Code
	}
	return http.StatusInternalServerError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
