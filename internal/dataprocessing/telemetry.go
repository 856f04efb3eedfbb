package dataprocessing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const (
	TracerName = "bbbcli.dataprocessing"
)

// Telemetry records spans and counters for corpus loads
type Telemetry struct {
	tracer trace.Tracer

	documents    metric.Int64Counter
	deliveries   metric.Int64Counter
	dateRejected metric.Int64Counter
	loadDuration metric.Float64Histogram
}

// NewTelemetry creates the pipeline instruments on meter. A nil meter
// disables metrics; spans go to the global tracer provider.
func NewTelemetry(meter metric.Meter) (*Telemetry, error) {
	if meter == nil {
		meter = metricnoop.NewMeterProvider().Meter(TracerName)
	}

	documents, err := meter.Int64Counter(
		"bbb_match_documents_total",
		metric.WithDescription("Match documents processed, by status"),
		metric.WithUnit("{document}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create documents counter: %w", err)
	}

	deliveries, err := meter.Int64Counter(
		"bbb_deliveries_total",
		metric.WithDescription("Deliveries seen, by status"),
		metric.WithUnit("{delivery}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create deliveries counter: %w", err)
	}

	dateRejected, err := meter.Int64Counter(
		"bbb_date_rejected_rows_total",
		metric.WithDescription("Rows dropped because the match date could not be parsed"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create date rejection counter: %w", err)
	}

	loadDuration, err := meter.Float64Histogram(
		"bbb_corpus_load_duration_seconds",
		metric.WithDescription("Duration of a full corpus load"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create load duration histogram: %w", err)
	}

	return &Telemetry{
		tracer:       otel.Tracer(TracerName),
		documents:    documents,
		deliveries:   deliveries,
		dateRejected: dateRejected,
		loadDuration: loadDuration,
	}, nil
}

// noopTelemetry never fails to build
func noopTelemetry() *Telemetry {
	t, _ := NewTelemetry(nil)
	return t
}

func (t *Telemetry) startLoad(ctx context.Context, dir string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "corpus.load",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("corpus.dir", dir)),
	)
}

func (t *Telemetry) startMatch(ctx context.Context, source string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "match.parse",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("match.source", source)),
	)
}

func (t *Telemetry) recordDocument(ctx context.Context, status string) {
	t.documents.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func (t *Telemetry) recordDeliveries(ctx context.Context, extracted, dropped int) {
	if extracted > 0 {
		t.deliveries.Add(ctx, int64(extracted), metric.WithAttributes(attribute.String("status", "extracted")))
	}
	if dropped > 0 {
		t.deliveries.Add(ctx, int64(dropped), metric.WithAttributes(attribute.String("status", "dropped")))
	}
}

func (t *Telemetry) recordDateRejected(ctx context.Context, rows int) {
	t.dateRejected.Add(ctx, int64(rows))
}

func (t *Telemetry) finishLoad(ctx context.Context, span trace.Span, started time.Time, rows int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.SetAttributes(attribute.Int("corpus.rows", rows))
	t.loadDuration.Record(ctx, time.Since(started).Seconds(),
		metric.WithAttributes(attribute.String("status", status)))
	span.End()
}
