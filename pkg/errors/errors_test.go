package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		code   ErrorCode
		status int
	}{
		{ErrValidation, http.StatusBadRequest},
		{ErrNotFound, http.StatusNotFound},
		{ErrConflict, http.StatusConflict},
		{ErrUpstream, http.StatusBadGateway},
		{ErrExtraction, http.StatusInternalServerError},
		{ErrConfiguration, http.StatusInternalServerError},
		{ErrPersistence, http.StatusInternalServerError},
		{ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		err := &AppError{Code: tt.code, Message: "boom"}
		assert.Equal(t, tt.status, err.StatusCode(), "code %s", tt.code)
	}
}

func TestFrom(t *testing.T) {
	conflict := Conflict("doctor is unavailable")
	assert.Same(t, conflict, From(conflict))

	wrapped := fmt.Errorf("handling request: %w", conflict)
	assert.Same(t, conflict, From(wrapped))

	plain := fmt.Errorf("disk on fire")
	appErr := From(plain)
	assert.Equal(t, ErrInternal, appErr.Code)
	assert.Equal(t, plain, appErr.Err)
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", Validation("datetime is required", nil))
	assert.True(t, IsCode(err, ErrValidation))
	assert.False(t, IsCode(err, ErrConflict))
	assert.False(t, IsCode(fmt.Errorf("plain"), ErrValidation))
}
