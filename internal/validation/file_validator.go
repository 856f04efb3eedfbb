package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "bbbcli/internal/errors"
	"bbbcli/internal/files"
)

// FileValidator checks the directories and files the executables read from
// and write to before any work starts.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateInputDirectory checks that dir exists and is a readable directory.
// A directory holding no files matching pattern is valid; the loader reports
// that case itself.
func (v *FileValidator) ValidateInputDirectory(dir string, pattern string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return apperrors.NewNotFoundError(fmt.Sprintf("input directory %s", dir)).
			WithContext("directory", dir)
	}
	if err != nil {
		v.logger.Error("Failed to stat input directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to stat directory %s", dir), err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is not a directory", dir))
	}

	if _, err := os.ReadDir(dir); err != nil {
		v.logger.Error("Input directory is not readable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("input directory %s is not readable", dir), err)
	}

	if pattern != "" {
		count, err := v.CountFiles(dir, pattern)
		if err != nil {
			return err
		}
		if count == 0 {
			v.logger.Warn("No files matching pattern found",
				slog.String("directory", dir),
				slog.String("pattern", pattern))
			return nil
		}
		v.logger.Info("Input directory validated",
			slog.String("directory", dir),
			slog.Int("files_found", count),
			slog.String("pattern", pattern))
	}

	return nil
}

// ValidateOutputDirectory ensures the export directory exists and is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	probe, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// CountFiles counts the files in dir the corpus loader would read for
// pattern: case-insensitive, non-recursive, symlinks followed
func (v *FileValidator) CountFiles(dir string, pattern string) (int, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		v.logger.Error("Failed to count files",
			slog.String("pattern", pattern),
			slog.String("error", err.Error()))
		return 0, apperrors.NewAppValidationError(fmt.Sprintf("invalid file pattern %q", pattern))
	}

	found, err := files.NewDiscovery("").FindFiles(dir, pattern)
	if err != nil {
		return 0, apperrors.NewStorageError(fmt.Sprintf("failed to list directory %s", dir), err)
	}
	return len(found), nil
}
