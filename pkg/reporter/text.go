package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/opscart/es3-estimator/pkg/models"
)

// GenerateText writes the terminal report
func GenerateText(report *Report, w io.Writer) error {
	cost := report.Cost

	section(w, fmt.Sprintf("ES3 Cost Estimate: %s", cost.ClusterID))
	fmt.Fprintf(w, "Window:       %s to %s (%.1f days)\n",
		cost.Window.Start.Format("2006-01-02 15:04"),
		cost.Window.End.Format("2006-01-02 15:04"),
		cost.Window.Duration().Hours()/24)
	fmt.Fprintf(w, "Generated:    %s\n", cost.GeneratedAt.Format("2006-01-02 15:04:05"))

	if cost.Stats != nil {
		section(w, "Cluster Statistics")
		fmt.Fprintf(w, "Total documents:    %d (primary: %d, replica: %d)\n",
			cost.Stats.TotalDocs, cost.Stats.PrimaryDocs, cost.Stats.ReplicaDocs)
		fmt.Fprintf(w, "Total storage:      %.2f GB (primary: %.2f GB)\n",
			cost.Stats.TotalStorageGB(), cost.Stats.PrimaryStorageGB())
		fmt.Fprintf(w, "Shards:             %d total, %d primary (ratio %.2f)\n",
			cost.Stats.TotalShards, cost.Stats.PrimaryShards, cost.Stats.PrimaryRatio)
	}

	if cost.DocSize != nil {
		fmt.Fprintf(w, "Avg document size:  %.2f KB - %s\n", cost.DocSize.AvgSizeKB, cost.DocSize.Category)
		fmt.Fprintf(w, "                    %s\n", cost.DocSize.Insight)
	}

	section(w, "Ingest Performance")
	writeSummary(w, cost.IngestSummary, cost.IngestPercentiles, "bytes/s")

	section(w, "Search Performance")
	writeSummary(w, cost.SearchSummary, cost.SearchPercentiles, "ops/s")

	section(w, "CPU Utilization")
	fmt.Fprintf(w, "Average:            %.1f%% (peak %.1f%%)\n", cost.CPUSummary.Average, cost.CPUSummary.Peak)
	fmt.Fprintf(w, "Classification:     %s\n", cost.CPU.Interpretation)
	if len(cost.ExcludedNodes) > 0 {
		fmt.Fprintf(w, "Excluded nodes:     %s\n", strings.Join(cost.ExcludedNodes, ", "))
	}

	section(w, "Workload Profile")
	fmt.Fprintf(w, "Ingest/query ratio: %.1f%%\n", cost.IngestQueryRatioPct)
	fmt.Fprintf(w, "Ingest share:       %.2f%%\n", cost.IngestShare*100)
	fmt.Fprintf(w, "Profile:            %s\n", cost.WorkloadProfile)
	fmt.Fprintf(w, "Node memory:        %.1f GB\n", cost.MemoryGB)

	section(w, "Monthly Cost Estimate")
	for _, tier := range cost.Tiers {
		switch tier.Tier {
		case models.TierStorage:
			fmt.Fprintf(w, "%-10s %10.2f GB  x $%.4f/GB-mo   = $%10.2f\n",
				string(tier.Tier), tier.StorageGB, tier.UnitPrice, tier.MonthlyCost)
		default:
			fmt.Fprintf(w, "%-10s %10.2f VCU x $%.4f/VCU-hr  = $%10.2f\n",
				string(tier.Tier), tier.RequiredVCU, tier.UnitPrice, tier.MonthlyCost)
		}
	}
	fmt.Fprintf(w, "%-10s %38s $%10.2f\n", "TOTAL", "", cost.TotalMonthlyCost)

	if cost.StorageGrowthPctPerMonth != 0 {
		section(w, "Storage Growth")
		fmt.Fprintf(w, "Trend:              %+.1f%%/month\n", cost.StorageGrowthPctPerMonth)
		fmt.Fprintf(w, "Projected (3 mo):   %.2f GB\n", cost.ProjectedStorageGB3Mo)
		fmt.Fprintf(w, "Projected (6 mo):   %.2f GB\n", cost.ProjectedStorageGB6Mo)
	}

	section(w, "Capacity Planning Guidance")
	fmt.Fprintf(w, "Suggested preset:   %s\n", report.Guidance.Preset)
	fmt.Fprintf(w, "Rationale:          %s\n", report.Guidance.Rationale)
	for _, action := range report.Guidance.Actions {
		fmt.Fprintf(w, "  - %s\n", action)
	}

	return nil
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

func writeSummary(w io.Writer, s models.WorkloadSummary, p *models.Percentiles, unit string) {
	fmt.Fprintf(w, "Average rate:       %.2f %s\n", s.Average, unit)
	fmt.Fprintf(w, "Peak rate:          %.2f %s\n", s.Peak, unit)
	fmt.Fprintf(w, "Avg/peak ratio:     %.3f\n", s.AvgToPeakRatio)
	fmt.Fprintf(w, "Samples:            %d\n", s.SampleCount)
	if p != nil {
		fmt.Fprintf(w, "Percentiles:        p50=%.2f p90=%.2f p95=%.2f p99=%.2f\n",
			p.P50, p.P90, p.P95, p.P99)
	}
}
