package observe

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumFor returns the value of the data point carrying key=value.
func sumFor(t *testing.T, rm metricdata.ResourceMetrics, name, key, value string) int64 {
	t.Helper()
	met := findMetric(rm, name)
	if met == nil {
		t.Fatalf("metric %q not found", name)
	}
	sum, ok := met.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("metric %q is not a sum", name)
	}
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			return dp.Value
		}
	}
	t.Fatalf("metric %q: no data point with %s=%s", name, key, value)
	return 0
}

func TestNewMetrics_CreatesWithoutError(t *testing.T) {
	m, _ := newTestMetrics(t)
	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}
}

func TestRecordSentence(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()
	m.RecordSentence(ctx, true)
	m.RecordSentence(ctx, true)
	m.RecordSentence(ctx, false)

	rm := collect(t, reader)
	if got := sumFor(t, rm, "koreanparse.sentences", "noisy", "true"); got != 2 {
		t.Errorf("noisy sentences = %d, want 2", got)
	}
	if got := sumFor(t, rm, "koreanparse.sentences", "noisy", "false"); got != 1 {
		t.Errorf("clean sentences = %d, want 1", got)
	}
}

func TestRecordNoise(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()
	m.RecordNoise(ctx, "removing_phoneme", nil, map[string]int{"phoneme": 4})
	m.RecordNoise(ctx, "replacing_syllable", map[string]int{"syllable": 3}, nil)

	rm := collect(t, reader)
	if got := sumFor(t, rm, "koreanparse.noise.applications", "spec", "removing_phoneme"); got != 1 {
		t.Errorf("applications = %d, want 1", got)
	}
	if got := sumFor(t, rm, "koreanparse.noise.removed", "level", "phoneme"); got != 4 {
		t.Errorf("removed = %d, want 4", got)
	}
	if got := sumFor(t, rm, "koreanparse.noise.replaced", "level", "syllable"); got != 3 {
		t.Errorf("replaced = %d, want 3", got)
	}
}

func TestHistograms(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()
	start := time.Now()
	m.RecordPreprocess(ctx, start)
	m.RecordPreprocess(ctx, start)
	m.RecordBatch(ctx, start)
	m.RecordEditDistance(ctx, 3)

	rm := collect(t, reader)
	for name, want := range map[string]uint64{
		"koreanparse.preprocess.duration": 2,
		"koreanparse.batch.duration":      1,
	} {
		met := findMetric(rm, name)
		if met == nil {
			t.Fatalf("metric %q not found", name)
		}
		hist, ok := met.Data.(metricdata.Histogram[float64])
		if !ok || len(hist.DataPoints) == 0 {
			t.Fatalf("metric %q has no histogram data", name)
		}
		if got := hist.DataPoints[0].Count; got != want {
			t.Errorf("%s count = %d, want %d", name, got, want)
		}
	}

	met := findMetric(rm, "koreanparse.noise.edit_distance")
	if met == nil {
		t.Fatal("edit distance metric not found")
	}
	hist, ok := met.Data.(metricdata.Histogram[int64])
	if !ok || len(hist.DataPoints) == 0 {
		t.Fatal("edit distance has no histogram data")
	}
	if hist.DataPoints[0].Sum != 3 {
		t.Errorf("edit distance sum = %d, want 3", hist.DataPoints[0].Sum)
	}
}

func TestDefaultMetrics_Singleton(t *testing.T) {
	if DefaultMetrics() != DefaultMetrics() {
		t.Error("DefaultMetrics returned different instances")
	}
}
