package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "parsing", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "storage", errType: ErrTypeStorage, expected: "STORAGE"},
		{name: "validation", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "not found", errType: ErrTypeNotFound, expected: "NOT_FOUND"},
		{name: "config", errType: ErrTypeConfig, expected: "CONFIG"},
		{name: "extraction", errType: ErrTypeExtraction, expected: "EXTRACTION"},
		{name: "schema", errType: ErrTypeSchema, expected: "SCHEMA"},
		{name: "date parse", errType: ErrTypeDateParse, expected: "DATE_PARSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without cause",
			err:      NewAppError(ErrTypeSchema, "missing innings", nil),
			expected: "[SCHEMA] missing innings",
		},
		{
			name:     "with cause",
			err:      NewStorageError("open failed", fmt.Errorf("permission denied")),
			expected: "[STORAGE] open failed: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_UnwrapAndIsType(t *testing.T) {
	root := errors.New("root cause")
	appErr := NewParsingError("decode", root)
	wrapped := fmt.Errorf("loading corpus: %w", appErr)

	assert.True(t, errors.Is(wrapped, root))
	assert.True(t, IsType(wrapped, ErrTypeParsing))
	assert.False(t, IsType(wrapped, ErrTypeSchema))
	assert.False(t, IsType(root, ErrTypeParsing))
	assert.False(t, IsType(nil, ErrTypeParsing))
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeExtraction, Message: "missing batter"}
	err.WithContext("match_id", 42).WithContext("over", 3)

	require.NotNil(t, err.Context)
	assert.Equal(t, 42, err.Context["match_id"])
	assert.Equal(t, 3, err.Context["over"])
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, ErrTypeValidation, NewAppValidationError("bad").Type)
	assert.Equal(t, "dataset not found", NewNotFoundError("dataset").Message)
	assert.Equal(t, ErrTypeConfig, NewConfigError("bad port", nil).Type)
}
