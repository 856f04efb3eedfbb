package infrastructure

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RuntimeMetrics exposes process gauges that are sampled at collection time
type RuntimeMetrics struct {
	registration metric.Registration
}

// RegisterRuntimeMetrics registers observable gauges for goroutines, heap
// usage, GC count and uptime measured from started.
func RegisterRuntimeMetrics(meter metric.Meter, started time.Time) (*RuntimeMetrics, error) {
	goroutines, err := meter.Int64ObservableGauge(
		"system_goroutines",
		metric.WithDescription("Number of active goroutines"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create goroutine gauge: %w", err)
	}

	heap, err := meter.Int64ObservableGauge(
		"system_memory_heap_bytes",
		metric.WithDescription("Heap memory in use"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create heap gauge: %w", err)
	}

	gcCount, err := meter.Int64ObservableCounter(
		"system_gc_count",
		metric.WithDescription("Completed garbage collection cycles"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gc counter: %w", err)
	}

	uptime, err := meter.Float64ObservableGauge(
		"system_process_uptime_seconds",
		metric.WithDescription("Process uptime in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create uptime gauge: %w", err)
	}

	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		o.ObserveInt64(goroutines, int64(runtime.NumGoroutine()))
		o.ObserveInt64(heap, int64(mem.HeapAlloc))
		o.ObserveInt64(gcCount, int64(mem.NumGC))
		o.ObserveFloat64(uptime, time.Since(started).Seconds())
		return nil
	}, goroutines, heap, gcCount, uptime)
	if err != nil {
		return nil, fmt.Errorf("failed to register runtime callback: %w", err)
	}

	return &RuntimeMetrics{registration: reg}, nil
}

// Unregister stops sampling
func (m *RuntimeMetrics) Unregister() error {
	return m.registration.Unregister()
}
