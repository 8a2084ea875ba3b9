package analyzer

import (
	"fmt"
	"sort"

	"github.com/opscart/es3-estimator/pkg/models"
)

// Normalize sorts samples ascending by timestamp and drops duplicate
// timestamps, keeping the last value seen for each. Sources deliver buckets
// at irregular intervals; downstream stages require strict ordering.
func Normalize(series models.MetricSeries) models.MetricSeries {
	samples := make([]models.Sample, len(series.Samples))
	copy(samples, series.Samples)

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})

	deduped := samples[:0]
	for _, s := range samples {
		if n := len(deduped); n > 0 && deduped[n-1].Timestamp.Equal(s.Timestamp) {
			deduped[n-1] = s
			continue
		}
		deduped = append(deduped, s)
	}

	return models.MetricSeries{Metric: series.Metric, Samples: deduped}
}

// ValidateSeries rejects empty series so downstream stages never see one
func ValidateSeries(series models.MetricSeries) error {
	if len(series.Samples) == 0 {
		return fmt.Errorf("metric %q: %w", series.Metric, ErrEmptySeries)
	}
	return nil
}
