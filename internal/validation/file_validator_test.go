package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bbbcli/internal/errors"
	"bbbcli/internal/shared/testutil"
)

func TestFileValidator_ValidateInputDirectory(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		pattern   string
		wantType  apperrors.ErrorType
		wantErr   bool
	}{
		{
			name: "directory with match files",
			setupFunc: func(t *testing.T) string {
				dir := t.TempDir()
				require.NoError(t, os.WriteFile(filepath.Join(dir, "1001.json"), []byte("{}"), 0644))
				return dir
			},
			pattern: "*.json",
		},
		{
			name: "empty directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			pattern: "*.json",
		},
		{
			name: "non-existent directory",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing")
			},
			wantErr:  true,
			wantType: apperrors.ErrTypeNotFound,
		},
		{
			name: "path is a file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "match.json")
				require.NoError(t, os.WriteFile(file, []byte("{}"), 0644))
				return file
			},
			wantErr:  true,
			wantType: apperrors.ErrTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())

			err := validator.ValidateInputDirectory(tt.setupFunc(t), tt.pattern)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
	}{
		{
			name: "existing directory",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
		},
		{
			name: "nested directory is created",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "reports", "deliveries")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(nil)
			dir := tt.setupFunc(t)

			require.NoError(t, validator.ValidateOutputDirectory(dir))

			info, err := os.Stat(dir)
			require.NoError(t, err)
			assert.True(t, info.IsDir())

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries, "write probe must be removed")
		})
	}
}

func TestFileValidator_CountFiles(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("%d.json", i)), []byte("{}"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested.json"), 0755))

	validator := NewFileValidator(nil)

	count, err := validator.CountFiles(dir, "*.json")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	_, err = validator.CountFiles(dir, "[")
	assert.Error(t, err)
}

func TestFileValidator_UppercaseExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1001.JSON"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1002.Json"), []byte("{}"), 0644))

	logger, logs := testutil.NewTestLogger(t)
	validator := NewFileValidator(logger)

	count, err := validator.CountFiles(dir, "*.json")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, validator.ValidateInputDirectory(dir, "*.json"))
	assert.False(t, logs.ContainsMessage("No files matching pattern found"))
	testutil.AssertLogAttr(t, logs, "files_found", int64(2))
}
