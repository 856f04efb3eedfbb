package exporter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"bbbcli/internal/config"
	"bbbcli/pkg/contracts/domain"
)

// TableName is the table the deliveries are written to
const TableName = "deliveries"

const deliveriesSchema = `
	CREATE TABLE deliveries (
		match_id INTEGER NOT NULL,
		team1 TEXT NOT NULL,
		team2 TEXT NOT NULL,
		venue TEXT NOT NULL,
		date TEXT NOT NULL,
		winner TEXT,
		innings INTEGER NOT NULL,
		batting_team TEXT NOT NULL,
		over_number INTEGER NOT NULL,
		batter TEXT NOT NULL,
		bowler TEXT NOT NULL,
		non_striker TEXT NOT NULL,
		runs_batter INTEGER NOT NULL,
		runs_extras INTEGER NOT NULL,
		runs_total INTEGER NOT NULL,
		extras_type TEXT,
		player_out TEXT,
		dismissal_kind TEXT,
		fielders TEXT
	);
	CREATE INDEX idx_deliveries_match ON deliveries (match_id, innings);
`

// SQLiteExporter writes the dataset into a SQLite database file. The
// deliveries table is recreated on every export.
type SQLiteExporter struct {
	logger *slog.Logger
}

// NewSQLiteExporter creates a SQLite exporter
func NewSQLiteExporter(logger *slog.Logger) *SQLiteExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteExporter{logger: logger.With(slog.String("component", "sqlite_exporter"))}
}

// Format implements Exporter
func (e *SQLiteExporter) Format() string { return config.FormatSQLite }

// Export implements Exporter
func (e *SQLiteExporter) Export(ctx context.Context, ds *domain.Dataset, path string) error {
	e.logger.InfoContext(ctx, "Writing SQLite database",
		slog.String("file_path", path),
		slog.Int("record_count", ds.Len()))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op after Commit

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+TableName); err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deliveriesSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertStatement())
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rowsOf(ds) {
		if _, err := stmt.ExecContext(ctx, params(row)...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func insertStatement() string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(domain.Columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		TableName, strings.Join(domain.Columns, ", "), placeholders)
}
