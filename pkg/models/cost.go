package models

import "time"

// Tier identifies an ES3 billing tier
type Tier string

const (
	TierIngest  Tier = "ingest"
	TierSearch  Tier = "search"
	TierStorage Tier = "storage"
)

// PricingTable maps each tier to its unit price: $/VCU-hour for the ingest
// and search tiers, $/GB-month for the storage tier. Always supplied per
// run, never a process-wide default.
type PricingTable map[Tier]float64

// TierCostEstimate is the projected monthly cost for one tier
type TierCostEstimate struct {
	Tier        Tier
	RequiredVCU float64 // ingest/search tiers
	StorageGB   float64 // storage tier
	UnitPrice   float64
	MonthlyCost float64
}

// CostReport is the final output of an estimation run. Monetary values are
// kept at full precision; rounding happens only at presentation time.
type CostReport struct {
	ClusterID   string
	Window      TimeRange
	GeneratedAt time.Time

	Stats   *ClusterStats
	DocSize *DocumentSizeAnalysis

	IngestSummary WorkloadSummary
	SearchSummary WorkloadSummary
	CPUSummary    WorkloadSummary
	CPU           CPUClassification

	IngestPercentiles *Percentiles
	SearchPercentiles *Percentiles

	// Ratio of average ingest rate to average search rate. Positive
	// infinity when the search side is zero, zero when the ingest side is.
	IngestSearchRatio float64

	// Fraction of node time spent indexing vs querying, and the raw
	// index-time/query-time percentage it was derived from.
	IngestShare         float64
	IngestQueryRatioPct float64
	WorkloadProfile     string

	MemoryGB      float64
	ExcludedNodes []string

	// Storage growth over the lookback window, when enough snapshots exist
	StorageGrowthPctPerMonth float64
	ProjectedStorageGB3Mo    float64
	ProjectedStorageGB6Mo    float64

	Tiers            []TierCostEstimate
	TotalMonthlyCost float64
}

// TierEstimate returns the estimate for a tier, nil when absent
func (r *CostReport) TierEstimate(tier Tier) *TierCostEstimate {
	for i := range r.Tiers {
		if r.Tiers[i].Tier == tier {
			return &r.Tiers[i]
		}
	}
	return nil
}
