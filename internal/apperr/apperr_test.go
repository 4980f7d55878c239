package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindConflict, http.StatusConflict},
		{KindNotFound, http.StatusNotFound},
		{KindInvalidCredentials, http.StatusUnauthorized},
		{KindInvalidCode, http.StatusBadRequest},
		{KindExpired, http.StatusBadRequest},
		{KindSignatureMismatch, http.StatusBadRequest},
		{KindValidation, http.StatusBadRequest},
		{KindForbidden, http.StatusForbidden},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HTTPStatus(New(c.kind, "msg")), string(c.kind))
	}
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, "internal error", MessageOf(errors.New("boom")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindInternal, "payment initiation failed", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "payment initiation failed", MessageOf(err))
}

func TestKindOfWrappedDeep(t *testing.T) {
	inner := New(KindConflict, "email already exists")
	outer := fmt.Errorf("register: %w", inner)

	assert.True(t, IsKind(outer, KindConflict))
	assert.Equal(t, "email already exists", MessageOf(outer))
}
