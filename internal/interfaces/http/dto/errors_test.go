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
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeSyncInProgress, http.StatusConflict},
		{ErrCodeSourceUnavailable, http.StatusBadGateway},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"VALIDATION_ERROR", ErrCodeValidation},
		{"INVALID_INPUT", ErrCodeInvalidInput},
		{"NOT_FOUND", ErrCodeNotFound},
		{"SYNC_IN_PROGRESS", ErrCodeSyncInProgress},
		{"INVALID_PROGRESS", ErrCodeInvalidState},
		{"UNAUTHORIZED", ErrCodeUnauthorized},
		{ErrCodeNotFound, ErrCodeNotFound},
		{"SOMETHING_ELSE", ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestResponseEnvelope(t *testing.T) {
	t.Run("success omits error", func(t *testing.T) {
		raw, err := json.Marshal(NewSuccessResponse(map[string]int{"processed": 3}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"data":{"processed":3}}`, string(raw))
	})

	t.Run("error carries request id", func(t *testing.T) {
		raw, err := json.Marshal(NewErrorResponseWithRequestID(ErrCodeNotFound, "gone", "req-1"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":false,"error":{"code":"ERR_NOT_FOUND","message":"gone","request_id":"req-1"}}`, string(raw))
	})

	t.Run("validation lists details", func(t *testing.T) {
		resp := NewValidationErrorResponse("Request validation failed", "req-2", []ValidationDetail{
			{Field: "endpoint", Message: "This field is required"},
		})
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeValidation, resp.Error.Code)
		assert.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "endpoint", resp.Error.Details[0].Field)
	})

	t.Run("list meta", func(t *testing.T) {
		resp := NewListResponse([]int{1, 2}, 2, 20)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, 2, resp.Meta.Count)
		assert.Equal(t, 20, resp.Meta.Limit)
	})
}
