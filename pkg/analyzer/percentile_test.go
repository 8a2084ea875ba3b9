package analyzer

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/opscart/es3-estimator/pkg/models"
)

func TestCalculatePercentiles(t *testing.T) {
	// Test samples: [1, 2, 3, 4, 5, 6, 7, 8, 9, 10]
	samples := make([]models.Sample, 10)
	for i := 0; i < 10; i++ {
		samples[i] = models.Sample{
			Timestamp: time.Now(),
			Value:     float64(i + 1),
		}
	}

	percentiles, err := CalculatePercentiles(samples)
	if err != nil {
		t.Fatalf("CalculatePercentiles failed: %v", err)
	}

	if percentiles.Average != 5.5 {
		t.Errorf("Expected average 5.5, got %.2f", percentiles.Average)
	}

	if percentiles.Min != 1.0 {
		t.Errorf("Expected min 1.0, got %.2f", percentiles.Min)
	}

	if percentiles.Peak != 10.0 {
		t.Errorf("Expected peak 10.0, got %.2f", percentiles.Peak)
	}

	// P50 should be around 5.5
	if math.Abs(percentiles.P50-5.5) > 0.5 {
		t.Errorf("Expected P50 ~5.5, got %.2f", percentiles.P50)
	}

	// P95 should be around 9.5
	if math.Abs(percentiles.P95-9.55) > 0.1 {
		t.Errorf("Expected P95 ~9.55, got %.2f", percentiles.P95)
	}
}

func TestCalculatePercentilesSingleSample(t *testing.T) {
	samples := []models.Sample{{Timestamp: time.Now(), Value: 42}}

	percentiles, err := CalculatePercentiles(samples)
	if err != nil {
		t.Fatalf("CalculatePercentiles failed: %v", err)
	}

	if percentiles.P50 != 42 || percentiles.P99 != 42 {
		t.Errorf("Expected all percentiles 42 for a single sample, got P50=%.1f P99=%.1f",
			percentiles.P50, percentiles.P99)
	}
}

func TestCalculatePercentilesEmpty(t *testing.T) {
	_, err := CalculatePercentiles(nil)
	if !errors.Is(err, ErrEmptySeries) {
		t.Errorf("Expected ErrEmptySeries, got %v", err)
	}
}
