package estimator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/opscart/es3-estimator/pkg/analyzer"
	"github.com/opscart/es3-estimator/pkg/datasource"
	"github.com/opscart/es3-estimator/pkg/models"
)

// Config holds the per-run policy knobs of the estimation engine. All
// values are passed in per call; the engine keeps no state between runs.
type Config struct {
	MinimumVCU float64
	CPUPolicy  analyzer.CPUPolicy
	Verbose    bool
}

// Request is the input of a single estimation run
type Request struct {
	ClusterID string
	Window    models.TimeRange
	Pricing   models.PricingTable

	// Total memory of the metered cluster in GB
	MemoryGB float64

	// Ingest weight in (0,1]: the measured index-time/query-time
	// percentage divided by 100. Either configured directly or derived
	// via ShareFromRatioPct from the measured percentage.
	IngestShare float64
}

// Estimator runs the metrics-to-cost pipeline against a metrics source
type Estimator struct {
	source datasource.Source
	cfg    Config
}

func New(source datasource.Source, cfg Config) *Estimator {
	return &Estimator{source: source, cfg: cfg}
}

// Run executes one full estimation: fetch the raw series, derive rates,
// summarize workloads, estimate VCU capacity per tier and aggregate tier
// costs. Deterministic given identical inputs. The three series families
// are fetched concurrently; everything downstream is pure computation.
func (e *Estimator) Run(ctx context.Context, req Request) (*models.CostReport, error) {
	var (
		wg         sync.WaitGroup
		ingestRaw  models.MetricSeries
		searchRaw  models.MetricSeries
		perNodeCPU map[string]models.MetricSeries
		stats      *models.ClusterStats
		fetchErrs  [4]error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		ingestRaw, fetchErrs[0] = e.source.FetchMetricSeries(ctx, datasource.MetricIngestBytesTotal, req.Window)
	}()
	go func() {
		defer wg.Done()
		searchRaw, fetchErrs[1] = e.source.FetchMetricSeries(ctx, datasource.MetricSearchFetchTotal, req.Window)
	}()
	go func() {
		defer wg.Done()
		perNodeCPU, fetchErrs[2] = e.source.FetchPerNodeCPUSeries(ctx, req.Window)
	}()
	go func() {
		defer wg.Done()
		stats, fetchErrs[3] = e.source.FetchClusterStats(ctx)
	}()
	wg.Wait()

	for _, err := range fetchErrs {
		if err != nil {
			return nil, err
		}
	}

	ingestSummary, ingestPct, err := e.summarizeCounter(ingestRaw)
	if err != nil {
		return nil, err
	}
	searchSummary, searchPct, err := e.summarizeCounter(searchRaw)
	if err != nil {
		return nil, err
	}

	activeCPU, excluded := filterInactiveNodes(perNodeCPU)
	cpuSummary, zeroNodes, err := analyzer.ClusterCPUSummary(activeCPU)
	if err != nil {
		return nil, err
	}
	excluded = append(excluded, zeroNodes...)

	if e.cfg.Verbose && len(excluded) > 0 {
		fmt.Printf("[DEBUG] excluded inactive nodes from CPU average: %v\n", excluded)
	}

	ingestShare := clampShare(req.IngestShare)

	ingestVCU, err := EstimateIngestVCU(ingestSummary, cpuSummary, req.MemoryGB, ingestShare, VCUConfig{MinimumVCU: e.cfg.MinimumVCU})
	if err != nil {
		return nil, err
	}
	searchVCU, err := EstimateSearchVCU(searchSummary, cpuSummary, req.MemoryGB, ingestShare, VCUConfig{MinimumVCU: e.cfg.MinimumVCU})
	if err != nil {
		return nil, err
	}

	tiers, total, err := AggregateCosts(ingestVCU, searchVCU, float64(stats.PrimaryStorageBytes), req.Pricing)
	if err != nil {
		return nil, err
	}

	report := &models.CostReport{
		ClusterID:   req.ClusterID,
		Window:      req.Window,
		GeneratedAt: time.Now().UTC(),

		Stats:   stats,
		DocSize: models.AnalyzeDocumentSize(stats),

		IngestSummary: ingestSummary,
		SearchSummary: searchSummary,
		CPUSummary:    cpuSummary,
		CPU:           e.cfg.CPUPolicy.ClassifyCPU(cpuSummary.Average),

		IngestPercentiles: ingestPct,
		SearchPercentiles: searchPct,

		IngestSearchRatio:   IngestSearchRatio(ingestSummary, searchSummary),
		IngestShare:         ingestShare,
		IngestQueryRatioPct: ingestShare * 100.0,
		WorkloadProfile:     InterpretWorkloadProfile(ingestShare * 100.0),

		MemoryGB:      req.MemoryGB,
		ExcludedNodes: excluded,

		Tiers:            tiers,
		TotalMonthlyCost: total,
	}

	e.attachStorageGrowth(ctx, req.Window, report)

	return report, nil
}

// summarizeCounter normalizes a raw counter series, derives its rate and
// reduces it to a workload summary plus percentiles.
func (e *Estimator) summarizeCounter(raw models.MetricSeries) (models.WorkloadSummary, *models.Percentiles, error) {
	series := analyzer.Normalize(raw)
	if err := analyzer.ValidateSeries(series); err != nil {
		return models.WorkloadSummary{}, nil, err
	}

	rates, err := analyzer.DeriveRate(series)
	if err != nil {
		return models.WorkloadSummary{}, nil, err
	}

	summary, err := analyzer.SummarizeRates(rates)
	if err != nil {
		return models.WorkloadSummary{}, nil, err
	}

	pct, err := analyzer.CalculatePercentiles(rates.Samples)
	if err != nil {
		return models.WorkloadSummary{}, nil, err
	}

	return summary, pct, nil
}

// attachStorageGrowth projects storage growth from size snapshots over the
// window. Growth is advisory and never fails the run: the metric may not
// exist on every source.
func (e *Estimator) attachStorageGrowth(ctx context.Context, window models.TimeRange, report *models.CostReport) {
	series, err := e.source.FetchMetricSeries(ctx, datasource.MetricStorageBytes, window)
	if err != nil {
		if e.cfg.Verbose {
			fmt.Printf("[WARN] storage growth unavailable: %v\n", err)
		}
		return
	}

	trend, err := analyzer.CalculateGrowthTrend(analyzer.Normalize(series).Samples)
	if err != nil {
		if e.cfg.Verbose {
			fmt.Printf("[WARN] storage growth unavailable: %v\n", err)
		}
		return
	}

	report.StorageGrowthPctPerMonth = trend.RatePerMonth
	report.ProjectedStorageGB3Mo = trend.Predicted3Month / 1e9
	report.ProjectedStorageGB6Mo = trend.Predicted6Month / 1e9
}

// filterInactiveNodes drops nodes flagged by the statistical detector
// before the all-zero exclusion runs. Returns surviving nodes and the
// names of the dropped ones.
func filterInactiveNodes(perNode map[string]models.MetricSeries) (map[string]models.MetricSeries, []string) {
	summaries := make(map[string]models.WorkloadSummary, len(perNode))
	for node, series := range perNode {
		summary, err := analyzer.Summarize(series.Samples)
		if err != nil {
			continue
		}
		summaries[node] = summary
	}

	inactive := analyzer.IdentifyInactiveNodes(summaries)

	active := make(map[string]models.MetricSeries, len(perNode))
	var excluded []string
	for node, series := range perNode {
		if inactive[node] {
			excluded = append(excluded, node)
			continue
		}
		active[node] = series
	}
	return active, excluded
}

// ShareFromRatioPct converts a measured index-time/query-time percentage
// into the ingest share used by the VCU formulas: a ratio of 24 (indexing
// consumed 24% as much node time as querying) is a share of 0.24. Clamped
// to [0, 1].
func ShareFromRatioPct(ratioPct float64) float64 {
	return clampShare(ratioPct / 100.0)
}

func clampShare(share float64) float64 {
	if share < 0 {
		return 0
	}
	if share > 1 {
		return 1
	}
	return share
}
