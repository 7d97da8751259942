// Package observe holds the OpenTelemetry metric instruments of the
// preprocessing pipeline.
//
// A package-level default [Metrics] instance ([DefaultMetrics]) records to
// the global meter provider; tests should use [NewMetrics] with their own
// [metric.MeterProvider].
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "koreanparse"

// Metrics holds all metric instruments. All fields are safe for concurrent use.
type Metrics struct {
	// Sentences counts decomposed sentences. Attribute: "noisy" ("true"/"false").
	Sentences metric.Int64Counter

	// NoiseApplications counts injector calls with an enabled spec.
	// Attribute: "spec" (e.g. "removing_phoneme").
	NoiseApplications metric.Int64Counter

	// Replaced and Removed count mutated elements. Attribute: "level".
	Replaced metric.Int64Counter
	Removed  metric.Int64Counter

	// EditDistance tracks the Levenshtein distance between clean and noisy
	// phoneme strings.
	EditDistance metric.Int64Histogram

	// PreprocessDuration tracks how long building one dataset item takes.
	PreprocessDuration metric.Float64Histogram

	// BatchDuration tracks how long building one batch takes.
	BatchDuration metric.Float64Histogram
}

// latencyBuckets are in seconds.
var latencyBuckets = []float64{
	0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1,
}

var distanceBuckets = []float64{0, 1, 2, 3, 5, 8, 13, 21, 34, 55}

// NewMetrics creates every instrument on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Sentences, err = m.Int64Counter("koreanparse.sentences",
		metric.WithDescription("Sentences decomposed."),
	); err != nil {
		return nil, err
	}
	if met.NoiseApplications, err = m.Int64Counter("koreanparse.noise.applications",
		metric.WithDescription("Noise injections by noise type."),
	); err != nil {
		return nil, err
	}
	if met.Replaced, err = m.Int64Counter("koreanparse.noise.replaced",
		metric.WithDescription("Elements resampled by the injector."),
	); err != nil {
		return nil, err
	}
	if met.Removed, err = m.Int64Counter("koreanparse.noise.removed",
		metric.WithDescription("Elements deleted by the injector."),
	); err != nil {
		return nil, err
	}
	if met.EditDistance, err = m.Int64Histogram("koreanparse.noise.edit_distance",
		metric.WithDescription("Levenshtein distance between clean and noisy phoneme strings."),
		metric.WithExplicitBucketBoundaries(distanceBuckets...),
	); err != nil {
		return nil, err
	}
	if met.PreprocessDuration, err = m.Float64Histogram("koreanparse.preprocess.duration",
		metric.WithDescription("Latency of building one dataset item."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.BatchDuration, err = m.Float64Histogram("koreanparse.batch.duration",
		metric.WithDescription("Latency of building one batch."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider].
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordSentence counts one decomposed sentence.
func (m *Metrics) RecordSentence(ctx context.Context, noisy bool) {
	v := "false"
	if noisy {
		v = "true"
	}
	m.Sentences.Add(ctx, 1, metric.WithAttributes(attribute.String("noisy", v)))
}

// RecordNoise records one injector call: its noise type and how many
// elements it touched per level.
func (m *Metrics) RecordNoise(ctx context.Context, spec string, replaced, removed map[string]int) {
	m.NoiseApplications.Add(ctx, 1, metric.WithAttributes(attribute.String("spec", spec)))
	for level, n := range replaced {
		m.Replaced.Add(ctx, int64(n), metric.WithAttributes(attribute.String("level", level)))
	}
	for level, n := range removed {
		m.Removed.Add(ctx, int64(n), metric.WithAttributes(attribute.String("level", level)))
	}
}

// RecordEditDistance observes one clean/noisy distance.
func (m *Metrics) RecordEditDistance(ctx context.Context, d int) {
	m.EditDistance.Record(ctx, int64(d))
}

// RecordPreprocess observes the time since start.
func (m *Metrics) RecordPreprocess(ctx context.Context, start time.Time) {
	m.PreprocessDuration.Record(ctx, time.Since(start).Seconds())
}

// RecordBatch observes the time since start.
func (m *Metrics) RecordBatch(ctx context.Context, start time.Time) {
	m.BatchDuration.Record(ctx, time.Since(start).Seconds())
}
