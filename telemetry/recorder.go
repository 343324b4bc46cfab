// Package telemetry records routing and bridge metrics through OpenTelemetry.
// Without an exporter every instrument is a no-op.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/mwantia/s3fs"

// Recorder holds the metric instruments shared by router and bridge.
type Recorder struct {
	routeTotal     metric.Int64Counter
	bridgeTotal    metric.Int64Counter
	bridgeDuration metric.Float64Histogram
}

// NewRecorder registers all instruments against provider.
func NewRecorder(provider metric.MeterProvider) *Recorder {
	if provider == nil {
		provider = noop.NewMeterProvider()
	}

	m := provider.Meter(meterName)
	r := &Recorder{}

	r.routeTotal, _ = m.Int64Counter("s3fs.router.calls.total",
		metric.WithDescription("Total routed filesystem calls"),
	)
	r.bridgeTotal, _ = m.Int64Counter("s3fs.bridge.calls.total",
		metric.WithDescription("Total synchronous calls by final state"),
	)
	r.bridgeDuration, _ = m.Float64Histogram("s3fs.bridge.duration_ms",
		metric.WithDescription("Time a synchronous call blocked its caller"),
		metric.WithUnit("ms"),
	)

	return r
}

// Noop returns a recorder that drops everything.
func Noop() *Recorder {
	return NewRecorder(noop.NewMeterProvider())
}

func target(virtual bool) string {
	if virtual {
		return "virtual"
	}
	return "native"
}

// RecordRoute counts one call of op and where it was sent.
func (r *Recorder) RecordRoute(ctx context.Context, op string, virtual bool) {
	if r == nil {
		return
	}

	r.routeTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("target", target(virtual)),
	))
}

// RecordBridge counts one synchronous call of op that ended in state.
func (r *Recorder) RecordBridge(ctx context.Context, op, state string, elapsed time.Duration) {
	if r == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("state", state),
	)

	r.bridgeTotal.Add(ctx, 1, attrs)
	r.bridgeDuration.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
}
