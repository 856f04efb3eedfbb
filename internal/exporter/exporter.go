package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"bbbcli/internal/config"
	apperrors "bbbcli/internal/errors"
	"bbbcli/pkg/contracts/domain"
)

// checkEvery is how many rows are written between cancellation checks
const checkEvery = 1000

// Exporter writes a dataset to a single file
type Exporter interface {
	Format() string
	Export(ctx context.Context, ds *domain.Dataset, path string) error
}

// New returns the exporter for a configured format name
func New(format string, cfg config.ExportConfig, logger *slog.Logger) (Exporter, error) {
	switch format {
	case config.FormatCSV:
		return NewCSVExporter(cfg.CSVBOM, logger), nil
	case config.FormatXLSX:
		return NewXLSXExporter(logger), nil
	case config.FormatSQLite:
		return NewSQLiteExporter(logger), nil
	default:
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("unsupported export format %q", format))
	}
}

// Extension returns the file extension for a format
func Extension(format string) string {
	if format == config.FormatSQLite {
		return ".db"
	}
	return "." + format
}

// Result describes one written file
type Result struct {
	Format   string
	Path     string
	Rows     int
	Duration time.Duration
}

// ExportAll writes ds once per configured format into cfg.OutputDir and
// stops at the first failure.
func ExportAll(ctx context.Context, ds *domain.Dataset, cfg config.ExportConfig, logger *slog.Logger) ([]Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	results := make([]Result, 0, len(cfg.Formats))
	for _, format := range cfg.Formats {
		exp, err := New(format, cfg, logger)
		if err != nil {
			return results, err
		}

		path := filepath.Join(cfg.OutputDir, cfg.BaseName+Extension(format))
		start := time.Now()
		if err := exp.Export(ctx, ds, path); err != nil {
			return results, apperrors.NewStorageError(fmt.Sprintf("%s export to %s", format, path), err)
		}

		res := Result{Format: format, Path: path, Rows: ds.Len(), Duration: time.Since(start)}
		logger.InfoContext(ctx, "Export complete",
			slog.String("format", res.Format),
			slog.String("file_path", res.Path),
			slog.Int("rows", res.Rows),
			slog.Duration("duration", res.Duration))
		results = append(results, res)
	}
	return results, nil
}

func rowsOf(ds *domain.Dataset) []domain.FlatRow {
	if ds == nil {
		return nil
	}
	return ds.Rows
}
