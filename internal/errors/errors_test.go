package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeRequestDenied, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeAlreadyExists, http.StatusConflict},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeTokenExpired, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := Validation(MsgDuplicateIDs)

	assert.True(t, Is(err, ErrValidation))
	assert.False(t, Is(err, ErrNotFound))

	wrapped := fmt.Errorf("batch update: %w", err)
	assert.True(t, Is(wrapped, ErrValidation))
}

func TestError_WithCause(t *testing.T) {
	cause := fmt.Errorf("UNIQUE constraint failed: tags.tag_user_id, tags.tag_name")
	err := Validation("constraint violated").WithCause(cause)

	assert.Equal(t, "constraint violated: "+cause.Error(), err.Error())
	assert.Equal(t, cause, Unwrap(err))
	assert.Equal(t, "constraint violated", err.Message)
}

func TestError_WithDetails(t *testing.T) {
	base := Validation("invalid request")
	detailed := base.WithDetails(map[string]string{"field": "ids"})

	assert.Nil(t, base.Details)
	assert.NotNil(t, detailed.Details)
	assert.Equal(t, base.Code, detailed.Code)
}

func TestRequestDenied(t *testing.T) {
	err := RequestDenied(MsgLastTable)

	assert.Equal(t, CodeRequestDenied, err.Code)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
	assert.True(t, Is(err, ErrRequestDenied))
}
