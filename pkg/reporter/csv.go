package reporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/opscart/es3-estimator/pkg/models"
)

// GenerateCSV creates a CSV report
func GenerateCSV(report *Report, writer io.Writer) error {
	w := csv.NewWriter(writer)
	defer w.Flush()

	cost := report.Cost

	header := []string{
		"Cluster",
		"Tier",
		"Required VCU",
		"Storage (GB)",
		"Unit Price",
		"Monthly Cost ($)",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, tier := range cost.Tiers {
		row := []string{
			cost.ClusterID,
			string(tier.Tier),
			fmt.Sprintf("%.2f", tier.RequiredVCU),
			fmt.Sprintf("%.2f", tier.StorageGB),
			fmt.Sprintf("%.4f", tier.UnitPrice),
			fmt.Sprintf("%.2f", tier.MonthlyCost),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	// Summary rows
	w.Write([]string{})
	w.Write([]string{"SUMMARY"})
	w.Write([]string{"Total Monthly Cost", fmt.Sprintf("$%.2f", cost.TotalMonthlyCost)})
	w.Write([]string{"Workload Profile", cost.WorkloadProfile})
	w.Write([]string{"Ingest/Query Ratio", fmt.Sprintf("%.1f%%", cost.IngestQueryRatioPct)})
	w.Write([]string{"CPU Interpretation", cost.CPU.Interpretation})
	if cost.Stats != nil {
		w.Write([]string{"Total Documents", fmt.Sprintf("%d", cost.Stats.TotalDocs)})
		w.Write([]string{"Primary Storage (GB)", fmt.Sprintf("%.2f", cost.Stats.PrimaryStorageGB())})
	}

	// Workload breakdown
	w.Write([]string{})
	w.Write([]string{"WORKLOAD BREAKDOWN"})
	w.Write([]string{"Metric", "Average", "Peak", "Avg/Peak"})
	writeSummaryRow(w, "ingest", cost.IngestSummary)
	writeSummaryRow(w, "search", cost.SearchSummary)
	writeSummaryRow(w, "cpu", cost.CPUSummary)

	return nil
}

func writeSummaryRow(w *csv.Writer, name string, s models.WorkloadSummary) {
	w.Write([]string{
		name,
		fmt.Sprintf("%.2f", s.Average),
		fmt.Sprintf("%.2f", s.Peak),
		fmt.Sprintf("%.3f", s.AvgToPeakRatio),
	})
}
