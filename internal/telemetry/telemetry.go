// Package telemetry holds the tracer and meters of the query engines. With no
// OpenTelemetry SDK installed every call is a no-op.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	Tracer = otel.Tracer("pathq")
	meter  = otel.Meter("pathq")
)

var (
	roundsTotal   metric.Int64Counter
	queryDuration metric.Float64Histogram
	answersTotal  metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		roundsTotal, err = meter.Int64Counter(
			"pathq_fixpoint_rounds_total",
			metric.WithDescription("Fixpoint rounds run by the query engines"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		queryDuration, err = meter.Float64Histogram(
			"pathq_query_duration_seconds",
			metric.WithDescription("Duration of path queries"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		answersTotal, err = meter.Int64Counter(
			"pathq_answers_total",
			metric.WithDescription("Node pairs returned by path queries"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// RecordQuery records one finished engine call.
func RecordQuery(ctx context.Context, engine string, duration time.Duration, rounds, answers int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("engine", engine),
		attribute.Bool("success", success),
	)
	roundsTotal.Add(ctx, int64(rounds), attrs)
	queryDuration.Record(ctx, duration.Seconds(), attrs)
	if success {
		answersTotal.Add(ctx, int64(answers), attrs)
	}
}
