package reporter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/opscart/es3-estimator/pkg/models"
)

func sampleReport() *models.CostReport {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return &models.CostReport{
		ClusterID:   "abc123",
		Window:      models.TimeRange{Start: start, End: start.Add(7 * 24 * time.Hour)},
		GeneratedAt: start.Add(7 * 24 * time.Hour),

		Stats:   models.NewClusterStats(51982995, 722978000000, 2, 1, start),
		DocSize: models.AnalyzeDocumentSize(models.NewClusterStats(51982995, 722978000000, 2, 1, start)),

		IngestSummary: models.WorkloadSummary{Average: 22.4, Peak: 100, AvgToPeakRatio: 0.224, SampleCount: 168},
		SearchSummary: models.WorkloadSummary{Average: 78, Peak: 100, AvgToPeakRatio: 0.78, SampleCount: 40},
		CPUSummary:    models.WorkloadSummary{Average: 54.1, Peak: 68, AvgToPeakRatio: 0.795, SampleCount: 168},
		CPU: models.CPUClassification{
			Band:           models.CPUBandModerate,
			Interpretation: "Moderate CPU utilization - well-balanced workload",
		},

		IngestShare:         0.2405,
		IngestQueryRatioPct: 31.7,
		WorkloadProfile:     "Query-heavy workload - prioritize search performance",
		MemoryGB:            386.5,

		Tiers: []models.TierCostEstimate{
			{Tier: models.TierIngest, RequiredVCU: 11.26, UnitPrice: 0.14, MonthlyCost: 1135.45},
			{Tier: models.TierSearch, RequiredVCU: 123.87, UnitPrice: 0.14, MonthlyCost: 12486.18},
			{Tier: models.TierStorage, StorageGB: 361.489, UnitPrice: 0.047, MonthlyCost: 16.99},
		},
		TotalMonthlyCost: 13638.62,
	}
}

func TestGenerateText(t *testing.T) {
	rep := New(FormatText)
	report, err := rep.Generate(sampleReport())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var buf bytes.Buffer
	if err := rep.Render(report, &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"abc123",
		"Monthly Cost Estimate",
		"13638.62",
		"Moderate CPU utilization",
		"Query-heavy workload",
		"Capacity Planning Guidance",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected text report to contain %q", want)
		}
	}
}

func TestGenerateCSV(t *testing.T) {
	rep := New(FormatCSV)
	report, err := rep.Generate(sampleReport())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var buf bytes.Buffer
	if err := rep.Render(report, &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "ingest") || !strings.Contains(out, "storage") {
		t.Error("Expected a row per tier in the CSV")
	}
	if !strings.Contains(out, "SUMMARY") {
		t.Error("Expected a SUMMARY section in the CSV")
	}
}

func TestGenerateHTML(t *testing.T) {
	rep := New(FormatHTML)
	report, err := rep.Generate(sampleReport())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var buf bytes.Buffer
	if err := rep.Render(report, &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "<html") {
		t.Error("Expected an HTML document")
	}
	if !strings.Contains(out, "abc123") {
		t.Error("Expected the cluster ID in the HTML report")
	}
	if !strings.Contains(out, "$13638.62") {
		t.Error("Expected the total cost in the HTML report")
	}
}

func TestRenderUnsupportedFormat(t *testing.T) {
	rep := New(ReportFormat("yaml"))
	report, err := rep.Generate(sampleReport())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if err := rep.Render(report, &bytes.Buffer{}); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestGenerateNilReport(t *testing.T) {
	rep := New(FormatText)
	if _, err := rep.Generate(nil); err == nil {
		t.Error("Expected error for nil cost report")
	}
}
