package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindCodes(t *testing.T) {
	cases := map[Kind]string{
		KindInvalidToken:  "invalid_token",
		KindExpiredToken:  "code_expired",
		KindValidation:    "validation_error",
		KindNotFound:      "not_found",
		KindConflict:      "conflict",
		KindUnauthorized:  "unauthorized",
		KindForbidden:     "forbidden",
		KindConfiguration: "configuration_error",
		KindInternal:      "server_error",
	}
	for kind, code := range cases {
		assert.Equal(t, code, kind.Code())
	}
}

func TestKindStatuses(t *testing.T) {
	cases := map[Kind]int{
		KindInvalidToken:  http.StatusBadRequest,
		KindExpiredToken:  http.StatusGone,
		KindValidation:    http.StatusBadRequest,
		KindNotFound:      http.StatusNotFound,
		KindConflict:      http.StatusConflict,
		KindUnauthorized:  http.StatusUnauthorized,
		KindForbidden:     http.StatusForbidden,
		KindConfiguration: http.StatusInternalServerError,
		KindInternal:      http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.HTTPStatus(), "kind %v", kind)
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindExpiredToken, KindOf(New(KindExpiredToken, "expired")))
	// Wrapped errors still report their kind.
	wrapped := fmt.Errorf("outer: %w", New(KindConflict, "duplicate"))
	assert.Equal(t, KindConflict, KindOf(wrapped))
	// Plain errors default to internal.
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(KindInvalidToken, "invalid token", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "root cause")
}
