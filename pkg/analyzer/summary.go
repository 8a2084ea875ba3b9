package analyzer

import (
	"fmt"
	"sort"
	"time"

	"github.com/opscart/es3-estimator/pkg/models"
)

// Summarize reduces a set of samples to average, peak and avg-to-peak
// ratio. The ratio is 0 when the peak is 0.
func Summarize(samples []models.Sample) (models.WorkloadSummary, error) {
	if len(samples) == 0 {
		return models.WorkloadSummary{}, ErrEmptySeries
	}

	summary := models.WorkloadSummary{
		SampleCount: len(samples),
		Min:         samples[0].Value,
		Peak:        samples[0].Value,
	}

	sum := 0.0
	for _, s := range samples {
		sum += s.Value
		if s.Value > summary.Peak {
			summary.Peak = s.Value
		}
		if s.Value < summary.Min {
			summary.Min = s.Value
		}
	}
	summary.Average = sum / float64(len(samples))

	if summary.Peak > 0 {
		summary.AvgToPeakRatio = summary.Average / summary.Peak
	}

	return summary, nil
}

// SummarizeRates reduces a rate series to a workload summary
func SummarizeRates(rates models.RateSeries) (models.WorkloadSummary, error) {
	summary, err := Summarize(rates.Samples)
	if err != nil {
		return summary, fmt.Errorf("metric %q: %w", rates.Metric, err)
	}
	return summary, nil
}

// CPUThreshold maps average CPU usage up to UpperBound (exclusive, percent)
// to a band. Thresholds are checked in order; averages above every bound
// fall into the final band of the policy.
type CPUThreshold struct {
	UpperBound float64
	Band       models.CPUBand
}

// CPUPolicy is an ordered threshold list plus the band for everything above
// the last bound. Overridable per run.
type CPUPolicy struct {
	Thresholds []CPUThreshold
	Above      models.CPUBand
}

// DefaultCPUPolicy classifies <30% Low, 30-60% Moderate, 60-85% High,
// above 85% Critical.
func DefaultCPUPolicy() CPUPolicy {
	return CPUPolicy{
		Thresholds: []CPUThreshold{
			{UpperBound: 30, Band: models.CPUBandLow},
			{UpperBound: 60, Band: models.CPUBandModerate},
			{UpperBound: 85, Band: models.CPUBandHigh},
		},
		Above: models.CPUBandCritical,
	}
}

var cpuInterpretations = map[models.CPUBand]string{
	models.CPUBandLow:      "Low CPU utilization - underutilized resources",
	models.CPUBandModerate: "Moderate CPU utilization - well-balanced workload",
	models.CPUBandHigh:     "High CPU utilization - consider scaling up",
	models.CPUBandCritical: "Very high CPU utilization - immediate scaling recommended",
}

// ClassifyCPU maps an average CPU percentage to a qualitative band
func (p CPUPolicy) ClassifyCPU(avgUsagePct float64) models.CPUClassification {
	band := p.Above
	for _, t := range p.Thresholds {
		if avgUsagePct < t.UpperBound {
			band = t.Band
			break
		}
	}
	return models.CPUClassification{
		Band:           band,
		Interpretation: cpuInterpretations[band],
	}
}

// ClusterCPUSummary computes the cluster-wide CPU summary from per-node
// gauge series. Nodes whose series is absent or entirely zero across the
// window are excluded: including them would understate true per-active-node
// load. Samples of active nodes are averaged per timestamp, then the
// resulting cluster series is summarized across time.
func ClusterCPUSummary(perNode map[string]models.MetricSeries) (models.WorkloadSummary, []string, error) {
	var excluded []string
	buckets := make(map[time.Time][]float64)

	for node, series := range perNode {
		if isAllZero(series.Samples) {
			excluded = append(excluded, node)
			continue
		}
		for _, s := range series.Samples {
			buckets[s.Timestamp] = append(buckets[s.Timestamp], s.Value)
		}
	}
	sort.Strings(excluded)

	if len(buckets) == 0 {
		return models.WorkloadSummary{}, excluded, fmt.Errorf("per-node cpu: %w", ErrEmptySeries)
	}

	clusterAvgs := make([]models.Sample, 0, len(buckets))
	for ts, values := range buckets {
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		clusterAvgs = append(clusterAvgs, models.Sample{
			Timestamp: ts,
			Value:     sum / float64(len(values)),
		})
	}
	sort.Slice(clusterAvgs, func(i, j int) bool {
		return clusterAvgs[i].Timestamp.Before(clusterAvgs[j].Timestamp)
	})

	summary, err := Summarize(clusterAvgs)
	return summary, excluded, err
}

// SumAcrossNodes combines per-node series into a single cluster series by
// summing values per timestamp. Output is sorted by timestamp.
func SumAcrossNodes(perNode map[string]models.MetricSeries, metric string) models.MetricSeries {
	buckets := make(map[time.Time]float64)
	for _, series := range perNode {
		for _, s := range series.Samples {
			buckets[s.Timestamp] += s.Value
		}
	}

	samples := make([]models.Sample, 0, len(buckets))
	for ts, v := range buckets {
		samples = append(samples, models.Sample{Timestamp: ts, Value: v})
	}
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})

	return models.MetricSeries{Metric: metric, Samples: samples}
}

func isAllZero(samples []models.Sample) bool {
	for _, s := range samples {
		if s.Value != 0 {
			return false
		}
	}
	return true
}
