package analyzer

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/opscart/es3-estimator/pkg/models"
)

func samplesFrom(values ...float64) []models.Sample {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	samples := make([]models.Sample, len(values))
	for i, v := range values {
		samples[i] = models.Sample{Timestamp: start.Add(time.Duration(i) * time.Hour), Value: v}
	}
	return samples
}

func TestSummarize(t *testing.T) {
	summary, err := Summarize(samplesFrom(3, 3, 3, 3, 100))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if math.Abs(summary.Average-22.4) > 1e-9 {
		t.Errorf("Expected average 22.4, got %.4f", summary.Average)
	}
	if summary.Peak != 100 {
		t.Errorf("Expected peak 100, got %.1f", summary.Peak)
	}
	if summary.Min != 3 {
		t.Errorf("Expected min 3, got %.1f", summary.Min)
	}
	if math.Abs(summary.AvgToPeakRatio-0.224) > 1e-9 {
		t.Errorf("Expected avg/peak ratio 0.224, got %.4f", summary.AvgToPeakRatio)
	}
	if summary.SampleCount != 5 {
		t.Errorf("Expected 5 samples, got %d", summary.SampleCount)
	}
}

func TestSummarizeZeroPeak(t *testing.T) {
	summary, err := Summarize(samplesFrom(0, 0, 0))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.AvgToPeakRatio != 0 {
		t.Errorf("Expected ratio 0 when peak is 0, got %.4f", summary.AvgToPeakRatio)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize(nil)
	if !errors.Is(err, ErrEmptySeries) {
		t.Errorf("Expected ErrEmptySeries, got %v", err)
	}
}

func TestClassifyCPUBands(t *testing.T) {
	policy := DefaultCPUPolicy()

	cases := []struct {
		avg  float64
		want models.CPUBand
	}{
		{0, models.CPUBandLow},
		{29.9, models.CPUBandLow},
		{30, models.CPUBandModerate},
		{54.1, models.CPUBandModerate},
		{59.9, models.CPUBandModerate},
		{60, models.CPUBandHigh},
		{84.9, models.CPUBandHigh},
		{85, models.CPUBandCritical},
		{99, models.CPUBandCritical},
	}

	for _, tc := range cases {
		got := policy.ClassifyCPU(tc.avg)
		if got.Band != tc.want {
			t.Errorf("ClassifyCPU(%.1f): expected %s, got %s", tc.avg, tc.want, got.Band)
		}
		if got.Interpretation == "" {
			t.Errorf("ClassifyCPU(%.1f): empty interpretation", tc.avg)
		}
	}
}

func TestClassifyCPUModerateInterpretation(t *testing.T) {
	got := DefaultCPUPolicy().ClassifyCPU(54.1)
	want := "Moderate CPU utilization - well-balanced workload"
	if got.Interpretation != want {
		t.Errorf("Expected %q, got %q", want, got.Interpretation)
	}
}

func TestClusterCPUSummaryExcludesZeroNodes(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	active := models.MetricSeries{Samples: []models.Sample{
		{Timestamp: start, Value: 80},
		{Timestamp: start.Add(time.Hour), Value: 80},
	}}
	idle := models.MetricSeries{Samples: []models.Sample{
		{Timestamp: start, Value: 0},
		{Timestamp: start.Add(time.Hour), Value: 0},
	}}

	summary, excluded, err := ClusterCPUSummary(map[string]models.MetricSeries{
		"node-a": active,
		"node-b": idle,
	})
	if err != nil {
		t.Fatalf("ClusterCPUSummary failed: %v", err)
	}

	// The idle node must not drag the average down to 40
	if math.Abs(summary.Average-80) > 1e-9 {
		t.Errorf("Expected average 80 with idle node excluded, got %.2f", summary.Average)
	}
	if len(excluded) != 1 || excluded[0] != "node-b" {
		t.Errorf("Expected node-b excluded, got %v", excluded)
	}
}

func TestClusterCPUSummaryAveragesPerTimestamp(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	nodeA := models.MetricSeries{Samples: []models.Sample{
		{Timestamp: start, Value: 40},
		{Timestamp: start.Add(time.Hour), Value: 60},
	}}
	nodeB := models.MetricSeries{Samples: []models.Sample{
		{Timestamp: start, Value: 60},
		{Timestamp: start.Add(time.Hour), Value: 80},
	}}

	summary, _, err := ClusterCPUSummary(map[string]models.MetricSeries{
		"node-a": nodeA,
		"node-b": nodeB,
	})
	if err != nil {
		t.Fatalf("ClusterCPUSummary failed: %v", err)
	}

	if math.Abs(summary.Average-60) > 1e-9 {
		t.Errorf("Expected cluster average 60, got %.2f", summary.Average)
	}
	if math.Abs(summary.Peak-70) > 1e-9 {
		t.Errorf("Expected cluster peak 70, got %.2f", summary.Peak)
	}
}

func TestClusterCPUSummaryAllExcluded(t *testing.T) {
	idle := models.MetricSeries{Samples: []models.Sample{{Value: 0}}}

	_, _, err := ClusterCPUSummary(map[string]models.MetricSeries{"node-a": idle})
	if !errors.Is(err, ErrEmptySeries) {
		t.Errorf("Expected ErrEmptySeries when every node is excluded, got %v", err)
	}
}

func TestSumAcrossNodes(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	perNode := map[string]models.MetricSeries{
		"node-a": {Samples: []models.Sample{
			{Timestamp: start, Value: 10},
			{Timestamp: start.Add(time.Hour), Value: 30},
		}},
		"node-b": {Samples: []models.Sample{
			{Timestamp: start, Value: 15},
		}},
	}

	combined := SumAcrossNodes(perNode, "test.counter")
	if combined.Metric != "test.counter" {
		t.Errorf("Expected metric name test.counter, got %q", combined.Metric)
	}
	if len(combined.Samples) != 2 {
		t.Fatalf("Expected 2 combined samples, got %d", len(combined.Samples))
	}
	if combined.Samples[0].Value != 25 {
		t.Errorf("Expected summed value 25, got %.1f", combined.Samples[0].Value)
	}
	if combined.Samples[1].Value != 30 {
		t.Errorf("Expected second bucket value 30, got %.1f", combined.Samples[1].Value)
	}
	if !combined.Samples[0].Timestamp.Before(combined.Samples[1].Timestamp) {
		t.Error("Expected combined samples sorted by timestamp")
	}
}
