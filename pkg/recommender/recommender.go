package recommender

import (
	"fmt"

	"github.com/opscart/es3-estimator/pkg/models"
)

// Recommendation is a capacity planning suggestion derived from a cost report.
type Recommendation struct {
	Preset    string
	Rationale string
	Actions   []string
}

// Recommend produces capacity guidance from the workload mix and CPU profile.
// The preset choice follows the ingest/query ratio: search-dominated clusters
// are served best by the performance-optimized preset, ingest-dominated ones
// by the throughput-optimized preset.
func Recommend(report *models.CostReport) Recommendation {
	rec := Recommendation{}

	ratioPct := report.IngestQueryRatioPct
	switch {
	case ratioPct < 100:
		rec.Preset = "Performant"
		rec.Rationale = fmt.Sprintf(
			"search activity dominates (ingest/query ratio %.1f%%), so the search tier drives capacity", ratioPct)
	case ratioPct < 200:
		rec.Preset = "Performant"
		rec.Rationale = fmt.Sprintf(
			"ingest moderately exceeds search (ratio %.1f%%), a balanced preset still fits", ratioPct)
	default:
		rec.Preset = "High-Throughput"
		rec.Rationale = fmt.Sprintf(
			"ingest heavily exceeds search (ratio %.1f%%), throughput-optimized capacity is a better fit", ratioPct)
	}

	if report.CPU.Band == models.CPUBandLow {
		rec.Actions = append(rec.Actions,
			"CPU is underutilized; current node memory likely overstates the required VCU capacity")
	}
	if report.CPU.Band == models.CPUBandHigh || report.CPU.Band == models.CPUBandCritical {
		rec.Actions = append(rec.Actions,
			"CPU utilization is high; validate the estimate against peak-hour load before sizing down")
	}
	if report.IngestSummary.AvgToPeakRatio < 0.25 && report.IngestSummary.Average > 0 {
		rec.Actions = append(rec.Actions,
			"ingest is bursty (average well below peak); autoscaling absorbs the peaks you pay for today")
	}
	if len(report.ExcludedNodes) > 0 {
		rec.Actions = append(rec.Actions, fmt.Sprintf(
			"%d node(s) were excluded as inactive; consider shrinking the source cluster", len(report.ExcludedNodes)))
	}
	if report.StorageGrowthPctPerMonth > 10 {
		rec.Actions = append(rec.Actions, fmt.Sprintf(
			"storage is growing %.1f%%/month; revisit the storage tier estimate quarterly", report.StorageGrowthPctPerMonth))
	}

	return rec
}
