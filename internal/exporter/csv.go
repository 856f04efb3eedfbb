package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"bbbcli/internal/config"
	"bbbcli/pkg/contracts/domain"
)

// utf8BOM helps Excel recognize UTF-8
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVExporter writes the dataset as one CSV file with a header row
type CSVExporter struct {
	bom    bool
	logger *slog.Logger
}

// NewCSVExporter creates a CSV exporter; bom prefixes the file with a UTF-8 BOM
func NewCSVExporter(bom bool, logger *slog.Logger) *CSVExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVExporter{bom: bom, logger: logger.With(slog.String("component", "csv_exporter"))}
}

// Format implements Exporter
func (e *CSVExporter) Format() string { return config.FormatCSV }

// Export implements Exporter
func (e *CSVExporter) Export(ctx context.Context, ds *domain.Dataset, path string) error {
	e.logger.InfoContext(ctx, "Writing CSV file",
		slog.String("file_path", path),
		slog.Int("record_count", ds.Len()))

	sw, err := CreateStreamWriter(path, domain.Columns, e.bom)
	if err != nil {
		return err
	}

	for i, row := range rowsOf(ds) {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				sw.Close()
				return err
			}
		}
		if err := sw.WriteRecord(Record(row)); err != nil {
			sw.Close()
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return sw.Close()
}

// StreamWriter provides streaming CSV writing for large datasets
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter creates the file, its directory and the header row
func CreateStreamWriter(path string, headers []string, bom bool) (*StreamWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if bom {
		if _, err := file.Write(utf8BOM); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)

	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{
		file:   file,
		writer: writer,
	}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
