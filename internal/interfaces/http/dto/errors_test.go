package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeInvalidJSON, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeSessionNotFound, http.StatusNotFound},
		{ErrCodeFormNotFound, http.StatusNotFound},
		{ErrCodeRowNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeUnknownSelector, http.StatusBadRequest},
		{ErrCodeUnknownField, http.StatusBadRequest},
		{ErrCodeMinRows, http.StatusUnprocessableEntity},
		{ErrCodeDerivedField, http.StatusBadRequest},
		{ErrCodePinnedLevel, http.StatusForbidden},
		{ErrCodeInvalidState, http.StatusConflict},
		{ErrCodeSubmitBlocked, http.StatusConflict},
		{ErrCodeValidationFailed, http.StatusUnprocessableEntity},
		{ErrCodeNoSubmitter, http.StatusInternalServerError},
		{ErrCodeCatalogUnavailable, http.StatusServiceUnavailable},
		{ErrCodeTooManySessions, http.StatusTooManyRequests},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		// Unknown code should return 500
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"id": "1"})

	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(ErrCodeSessionNotFound, "session gone")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeSessionNotFound, resp.Error.Code)
	assert.Equal(t, "session gone", resp.Error.Message)
	assert.Empty(t, resp.Error.RequestID)
}

func TestErrorResponseSerialization(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeValidationFailed, "2 field(s) invalid", "req-123")

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, false, decoded["success"])
	errInfo := decoded["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_FAILED", errInfo["code"])
	assert.Equal(t, "req-123", errInfo["request_id"])
	_, hasData := decoded["data"]
	assert.False(t, hasData)
}
