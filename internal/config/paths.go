package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved directories the executables read from and
// write to. All fields are absolute.
type Paths struct {
	BaseDir    string
	DataDir    string
	MatchesDir string
	ReportsDir string
	LogsDir    string
}

// NewPaths resolves cfg's directories against baseDir. An empty baseDir means
// the current working directory.
func NewPaths(baseDir string, cfg *Config) (*Paths, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}
	baseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	if cfg == nil {
		cfg = Default()
	}

	p := &Paths{BaseDir: baseDir}
	p.DataDir = p.Resolve(DefaultDataDir)
	p.MatchesDir = p.Resolve(cfg.Pipeline.MatchesDir)
	p.ReportsDir = p.Resolve(cfg.Export.OutputDir)
	p.LogsDir = p.Resolve(filepath.Dir(cfg.Logging.FilePath))
	return p, nil
}

// ResolvePaths is NewPaths anchored at c.Paths.BaseDir
func (c *Config) ResolvePaths() (*Paths, error) {
	return NewPaths(c.Paths.BaseDir, c)
}

// Resolve makes path absolute relative to the base directory
func (p *Paths) Resolve(path string) string {
	if path == "" {
		return p.BaseDir
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.BaseDir, path)
}

// EnsureDirectories creates the output directories. The matches directory is
// input and is never created.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// LogPathResolution logs the resolved directories
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("matches", p.MatchesDir),
			slog.String("reports", p.ReportsDir),
			slog.String("logs", p.LogsDir),
		))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
