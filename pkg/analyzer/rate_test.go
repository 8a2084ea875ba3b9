package analyzer

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/opscart/es3-estimator/pkg/models"
)

func counterSeries(metric string, start time.Time, step time.Duration, values ...float64) models.MetricSeries {
	samples := make([]models.Sample, len(values))
	for i, v := range values {
		samples[i] = models.Sample{
			Timestamp: start.Add(time.Duration(i) * step),
			Value:     v,
		}
	}
	return models.MetricSeries{Metric: metric, Samples: samples}
}

func TestDeriveRate(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	series := counterSeries("test.counter", start, time.Second, 0, 3, 6, 9, 12, 112)

	rates, err := DeriveRate(series)
	if err != nil {
		t.Fatalf("DeriveRate failed: %v", err)
	}

	if len(rates.Samples) != 5 {
		t.Fatalf("Expected 5 rates from 6 samples, got %d", len(rates.Samples))
	}

	expected := []float64{3, 3, 3, 3, 100}
	for i, want := range expected {
		if math.Abs(rates.Samples[i].Value-want) > 1e-9 {
			t.Errorf("Rate %d: expected %.1f, got %.4f", i, want, rates.Samples[i].Value)
		}
	}

	// Rates attach to the end of their interval
	if !rates.Samples[0].Timestamp.Equal(start.Add(time.Second)) {
		t.Errorf("Expected first rate at %v, got %v", start.Add(time.Second), rates.Samples[0].Timestamp)
	}
}

func TestDeriveRateNonNegative(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	series := counterSeries("test.counter", start, time.Hour, 1000, 2000, 500, 1500)

	rates, err := DeriveRate(series)
	if err != nil {
		t.Fatalf("DeriveRate failed: %v", err)
	}

	for _, s := range rates.Samples {
		if s.Value < 0 {
			t.Errorf("Rate must never be negative, got %.4f", s.Value)
		}
	}
}

func TestDeriveRateCounterReset(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	// Counter resets between the second and third samples
	series := counterSeries("test.counter", start, time.Hour, 1000, 2000, 100, 1100)

	rates, err := DeriveRate(series)
	if err != nil {
		t.Fatalf("DeriveRate failed: %v", err)
	}

	// Reset interval is dropped: 3 intervals minus 1 reset
	if len(rates.Samples) != 2 {
		t.Fatalf("Expected reset interval dropped (2 rates), got %d", len(rates.Samples))
	}
}

func TestDeriveRateZeroDuration(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	series := models.MetricSeries{
		Metric: "test.counter",
		Samples: []models.Sample{
			{Timestamp: start, Value: 100},
			{Timestamp: start, Value: 200},
			{Timestamp: start.Add(time.Hour), Value: 300},
		},
	}

	rates, err := DeriveRate(series)
	if err != nil {
		t.Fatalf("DeriveRate failed: %v", err)
	}

	if len(rates.Samples) != 1 {
		t.Fatalf("Expected zero-duration interval dropped (1 rate), got %d", len(rates.Samples))
	}
}

func TestDeriveRateInsufficientSamples(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	series := counterSeries("test.counter", start, time.Hour, 1000)

	_, err := DeriveRate(series)
	if !errors.Is(err, ErrInsufficientSamples) {
		t.Errorf("Expected ErrInsufficientSamples for a single sample, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	series := models.MetricSeries{
		Metric: "test.counter",
		Samples: []models.Sample{
			{Timestamp: start.Add(2 * time.Hour), Value: 300},
			{Timestamp: start, Value: 100},
			{Timestamp: start.Add(time.Hour), Value: 150},
			{Timestamp: start.Add(time.Hour), Value: 200}, // duplicate timestamp, keep last
		},
	}

	normalized := Normalize(series)

	if len(normalized.Samples) != 3 {
		t.Fatalf("Expected 3 samples after dedupe, got %d", len(normalized.Samples))
	}
	if normalized.Samples[0].Value != 100 {
		t.Errorf("Expected first sample 100, got %.1f", normalized.Samples[0].Value)
	}
	if normalized.Samples[1].Value != 200 {
		t.Errorf("Expected duplicate timestamp to keep last value 200, got %.1f", normalized.Samples[1].Value)
	}
	for i := 1; i < len(normalized.Samples); i++ {
		if !normalized.Samples[i-1].Timestamp.Before(normalized.Samples[i].Timestamp) {
			t.Errorf("Samples not strictly ordered at index %d", i)
		}
	}
}

func TestValidateSeriesEmpty(t *testing.T) {
	err := ValidateSeries(models.MetricSeries{Metric: "test.counter"})
	if !errors.Is(err, ErrEmptySeries) {
		t.Errorf("Expected ErrEmptySeries, got %v", err)
	}
}
