package dataprocessing

import (
	"log/slog"
	"runtime"

	"bbbcli/internal/files"
)

// Options configures a CorpusLoader
type Options struct {
	// Workers bounds how many match documents are parsed at once
	Workers int

	// DatePolicy selects skip or abort on unparseable match dates
	DatePolicy DatePolicy

	// FilePattern selects match documents, matched case-insensitively
	FilePattern string

	Logger    *slog.Logger
	Telemetry *Telemetry
}

// DefaultOptions returns default loading options
func DefaultOptions() Options {
	return Options{
		Workers:     runtime.NumCPU(),
		DatePolicy:  DatePolicySkip,
		FilePattern: files.DefaultMatchPattern,
	}
}

// withDefaults fills zero fields
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Workers <= 0 {
		o.Workers = def.Workers
	}
	if o.DatePolicy == "" {
		o.DatePolicy = def.DatePolicy
	}
	if o.FilePattern == "" {
		o.FilePattern = def.FilePattern
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Telemetry == nil {
		o.Telemetry = noopTelemetry()
	}
	return o
}
