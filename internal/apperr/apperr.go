// Package apperr defines the closed set of failure kinds used across the
// service and the single mapping from a kind to its HTTP representation.
// Handlers never pick status codes themselves; they return an *Error (or a
// wrapped one) and let Respond translate it. This keeps the wire contract
// in one place: every failure body carries a stable short code the client
// can branch on without parsing prose.
package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Kind enumerates every failure class the service can surface.
type Kind int

const (
	// KindInvalidToken covers bad signatures, malformed bearer tokens and
	// reset codes with no matching record. Callers must not be able to
	// distinguish "malformed" from "expired bearer" through this kind.
	KindInvalidToken Kind = iota
	// KindExpiredToken is a well-formed reset code whose record is past expiry.
	KindExpiredToken
	// KindValidation is a request that fails an input rule (password policy,
	// confirm mismatch, missing fields).
	KindValidation
	// KindNotFound is a lookup miss for a domain entity.
	KindNotFound
	// KindConflict is a uniqueness violation (duplicate email).
	KindConflict
	// KindUnauthorized is a missing or rejected credential on a protected route.
	KindUnauthorized
	// KindForbidden is an authenticated caller acting on someone else's resource.
	KindForbidden
	// KindConfiguration is a fatal deployment error, e.g. a signing secret
	// shorter than 32 bytes. Never recoverable per request.
	KindConfiguration
	// KindInternal is everything else.
	KindInternal
)

// Error is the one error type handlers and services exchange.
type Error struct {
	Kind    Kind
	Message string
	Err     error // optional cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with the given kind and message.
func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

// Wrap attaches a cause to a new *Error.
func Wrap(kind Kind, msg string, err error) *Error { return &Error{Kind: kind, Message: msg, Err: err} }

// KindOf extracts the kind from err, defaulting to KindInternal for
// anything that is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Code returns the stable machine-readable code for a kind. These strings
// are part of the API contract and must not change.
func (k Kind) Code() string {
	switch k {
	case KindInvalidToken:
		return "invalid_token"
	case KindExpiredToken:
		return "code_expired"
	case KindValidation:
		return "validation_error"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindConfiguration:
		return "configuration_error"
	default:
		return "server_error"
	}
}

// HTTPStatus maps a kind to its status code. Exhaustive by construction:
// the default arm only catches KindInternal and future kinds, which are
// server faults either way.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidToken:
		return http.StatusBadRequest
	case KindExpiredToken:
		return http.StatusGone
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes the canonical JSON body for err on c. The body always has
// the shape {"error": <code>, "message": <text>} so clients can branch on
// the code field alone.
func Respond(c echo.Context, err error) error {
	kind := KindOf(err)
	msg := "An unexpected error occurred."
	var ae *Error
	if errors.As(err, &ae) && kind != KindInternal {
		msg = ae.Message
	}
	return c.JSON(kind.HTTPStatus(), echo.Map{"error": kind.Code(), "message": msg})
}
