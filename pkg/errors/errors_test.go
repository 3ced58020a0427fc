package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetailDoesNotMutatePredefined(t *testing.T) {
	err := ErrNoAPIKey.WithDetail("settings row missing")

	assert.Equal(t, "settings row missing", err.Detail)
	assert.Empty(t, ErrNoAPIKey.Detail)
	assert.Equal(t, ErrNoAPIKey.Code, err.Code)
}

func TestWithErrorDoesNotMutatePredefined(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := ErrConnectionError.WithError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Nil(t, ErrConnectionError.Err)
}

func TestCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeInvalidParam, http.StatusBadRequest},
		{CodeNoAPIKey, http.StatusBadRequest},
		{CodeInvalidProvider, http.StatusBadRequest},
		{CodePermissionDenied, http.StatusForbidden},
		{CodeProductNotFound, http.StatusNotFound},
		{CodeUsageLimitReached, http.StatusTooManyRequests},
		{CodeCancelled, http.StatusRequestTimeout},
		{CodeConnectionError, http.StatusBadGateway},
		{CodeAPIError, http.StatusBadGateway},
		{CodeInvalidResponse, http.StatusBadGateway},
		{CodeGenerationFailed, http.StatusInternalServerError},
		{CodeDatabaseError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.code, "m").HTTPStatus)
		})
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, CodeDatabaseError, "query failed")

	assert.Equal(t, CodeDatabaseError, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "query failed")
	assert.Contains(t, err.Error(), "boom")
}

func TestAsAppError(t *testing.T) {
	appErr := AsAppError(ErrUsageLimitReached)
	assert.Equal(t, CodeUsageLimitReached, appErr.Code)

	wrapped := AsAppError(errors.New("plain"))
	require.NotNil(t, wrapped)
	assert.Equal(t, CodeUnknown, wrapped.Code)
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(ErrProductNotFound, CodeProductNotFound))
	assert.False(t, IsCode(ErrProductNotFound, CodeNoAPIKey))
	assert.False(t, IsCode(errors.New("plain"), CodeUnknown))
	assert.False(t, IsCode(nil, CodeUnknown))
}
