package analyzer

import (
	"fmt"

	"github.com/opscart/es3-estimator/pkg/models"
)

// DeriveRate converts a monotonically increasing counter series into a
// per-second rate series via discrete derivative. Each rate is attributed
// to the end timestamp of its interval, so a non-decreasing counter of n
// samples yields n-1 rates.
//
// A counter reset (value decreases between consecutive samples, e.g. node
// restart or index rollover) is a discontinuity, not a negative rate: the
// interval is dropped from the output. Zero-duration intervals are dropped
// as well.
func DeriveRate(series models.MetricSeries) (models.RateSeries, error) {
	if len(series.Samples) < 2 {
		return models.RateSeries{}, fmt.Errorf("metric %q has %d samples: %w",
			series.Metric, len(series.Samples), ErrInsufficientSamples)
	}

	rates := make([]models.Sample, 0, len(series.Samples)-1)

	for i := 1; i < len(series.Samples); i++ {
		prev := series.Samples[i-1]
		cur := series.Samples[i]

		dt := cur.Timestamp.Sub(prev.Timestamp).Seconds()
		if dt <= 0 {
			continue
		}
		if cur.Value < prev.Value {
			// counter reset
			continue
		}

		rates = append(rates, models.Sample{
			Timestamp: cur.Timestamp,
			Value:     (cur.Value - prev.Value) / dt,
		})
	}

	return models.RateSeries{Metric: series.Metric, Samples: rates}, nil
}
