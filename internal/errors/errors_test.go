package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		apiError *APIError
		want     string
	}{
		{
			name:     "simple message",
			apiError: New(http.StatusBadRequest, "INVALID_PARAMETER", "limit must be positive"),
			want:     "limit must be positive",
		},
		{
			name:     "empty message",
			apiError: New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", ""),
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.apiError.Error())
		})
	}
}

func TestAPIError_Render(t *testing.T) {
	tests := []struct {
		name       string
		apiError   *APIError
		wantStatus int
	}{
		{"bad request", ErrInvalidParameter, http.StatusBadRequest},
		{"not found", NotFoundError("match 42"), http.StatusNotFound},
		{"rate limited", ErrRateLimitExceeded, http.StatusTooManyRequests},
		{"unavailable", ErrServiceUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			require.NoError(t, render.Render(rec, req, tt.apiError))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.apiError.ErrorCode, body.ErrorCode)
		})
	}
}

func TestNewWithDetails(t *testing.T) {
	err := NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "bad", map[string]int{"limit": -1})

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)
	assert.Equal(t, map[string]int{"limit": -1}, err.Details)
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("innings", "must be a positive integer")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)
	assert.Equal(t, ValidationError{Field: "innings", Message: "must be a positive integer"}, err.Details)
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("match 42")

	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "match 42 not found", err.Message)
}

func TestErrDatasetLoad(t *testing.T) {
	err := ErrDatasetLoad(fmt.Errorf("read dir: permission denied"))

	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.Equal(t, "DATASET_LOAD_FAILED", err.ErrorCode)
	assert.Equal(t, "read dir: permission denied", err.Details)
}

func TestAPIError_JSONSerialization(t *testing.T) {
	data, err := json.Marshal(New(http.StatusNotFound, "NOT_FOUND", "gone"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"status_code":404,"error_code":"NOT_FOUND","message":"gone"}`, string(data))
}
