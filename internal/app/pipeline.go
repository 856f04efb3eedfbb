package app

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"bbbcli/internal/config"
	"bbbcli/internal/dataprocessing"
	apperrors "bbbcli/internal/errors"
)

// NewCorpusLoader builds the corpus loader described by the pipeline
// configuration. A nil meter disables pipeline metrics.
func NewCorpusLoader(cfg config.PipelineConfig, logger *slog.Logger, meter metric.Meter) (*dataprocessing.CorpusLoader, error) {
	policy, err := dataprocessing.ParseDatePolicy(cfg.DatePolicy)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid pipeline.date_policy", err)
	}

	telemetry, err := dataprocessing.NewTelemetry(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline telemetry: %w", err)
	}

	return dataprocessing.NewCorpusLoader(dataprocessing.Options{
		Workers:     cfg.Workers,
		DatePolicy:  policy,
		FilePattern: cfg.FilePattern,
		Logger:      logger,
		Telemetry:   telemetry,
	}), nil
}
