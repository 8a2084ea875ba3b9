package models

import "time"

// Sample represents a single metric sample
type Sample struct {
	Timestamp time.Time
	Value     float64
}

// TimeRange is the lookback window for an analysis run
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the window
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// MetricSeries is an ordered sequence of samples for one named metric.
// Timestamps are strictly increasing with no duplicates.
type MetricSeries struct {
	Metric  string
	Samples []Sample
}

// RateSeries holds per-second rates derived from a counter MetricSeries.
// Each rate is attributed to the end timestamp of its interval.
type RateSeries struct {
	Metric  string
	Samples []Sample
}

// WorkloadSummary reduces a rate or gauge series to summary statistics
type WorkloadSummary struct {
	Average        float64
	Peak           float64
	Min            float64
	AvgToPeakRatio float64 // average/peak, 0 when peak is 0
	SampleCount    int
}

// Percentiles contains statistical percentiles over a series
type Percentiles struct {
	Average float64
	P50     float64
	P90     float64
	P95     float64
	P99     float64
	Peak    float64
	Min     float64
}

// CPUBand is a qualitative classification of average CPU usage
type CPUBand string

const (
	CPUBandLow      CPUBand = "Low"
	CPUBandModerate CPUBand = "Moderate"
	CPUBandHigh     CPUBand = "High"
	CPUBandCritical CPUBand = "Critical"
)

// CPUClassification pairs a band with its interpretation text
type CPUClassification struct {
	Band           CPUBand
	Interpretation string
}
