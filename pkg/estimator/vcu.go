package estimator

import (
	"fmt"
	"math"

	"github.com/opscart/es3-estimator/pkg/models"
)

// VCUConfig carries the billing-floor constant for VCU estimates
type VCUConfig struct {
	// MinimumVCU is the minimum billable VCU for a tier with any activity.
	// Idle tiers (zero average rate) are always 0, never the floor.
	MinimumVCU float64
}

// EstimateIngestVCU maps the ingest workload to required ingest-tier VCUs.
//
// Formula (reproducible from the summary values alone):
//
//	ingestVCU = memoryGB * ingestShare * (ingestAvg/ingestPeak) * cpuFactor
//
// where cpuFactor is the average CPU usage fraction (1.0 when no CPU data
// is available). Strictly increasing in the ingest average for a fixed
// peak; 0 when the average rate is 0; never negative.
func EstimateIngestVCU(ingest, cpu models.WorkloadSummary, memoryGB, ingestShare float64, cfg VCUConfig) (float64, error) {
	if err := validateSummary("ingest", ingest); err != nil {
		return 0, err
	}
	if err := validateSummary("cpu", cpu); err != nil {
		return 0, err
	}
	if ingest.Average == 0 {
		return 0, nil
	}

	vcu := memoryGB * ingestShare * ingest.AvgToPeakRatio * cpuFactor(cpu)
	return applyFloor(vcu, cfg), nil
}

// EstimateSearchVCU maps the search workload to required search-tier VCUs.
//
// Formula:
//
//	searchVCU = memoryGB * (1-ingestShare) * (searchAvg/searchPeak) * cpuFactor
//
// Strictly increasing in both the search average (fixed peak) and the CPU
// average; 0 when the average rate is 0; never negative.
func EstimateSearchVCU(search, cpu models.WorkloadSummary, memoryGB, ingestShare float64, cfg VCUConfig) (float64, error) {
	if err := validateSummary("search", search); err != nil {
		return 0, err
	}
	if err := validateSummary("cpu", cpu); err != nil {
		return 0, err
	}
	if search.Average == 0 {
		return 0, nil
	}

	vcu := memoryGB * (1 - ingestShare) * search.AvgToPeakRatio * cpuFactor(cpu)
	return applyFloor(vcu, cfg), nil
}

// IngestSearchRatio is average ingest rate over average search rate.
// +Inf when only the ingest side is active, 0 when ingest is idle.
func IngestSearchRatio(ingest, search models.WorkloadSummary) float64 {
	if ingest.Average == 0 {
		return 0
	}
	if search.Average == 0 {
		return math.Inf(1)
	}
	return ingest.Average / search.Average
}

// InterpretWorkloadProfile describes the workload from the measured
// index-time/query-time percentage.
func InterpretWorkloadProfile(ratioPct float64) string {
	switch {
	case ratioPct < 50:
		return "Query-heavy workload - prioritize search performance"
	case ratioPct < 100:
		return "Balanced workload - moderate ingest, moderate queries"
	case ratioPct < 200:
		return "Ingest-heavy workload - prioritize indexing performance"
	case ratioPct < 500:
		return "Very ingest-heavy workload - high indexing throughput needed"
	default:
		return "Extremely ingest-heavy workload - maximum indexing capacity required"
	}
}

// cpuFactor scales capacity by observed CPU usage. Falls back to 1.0 when
// no CPU data is available so the estimate stays conservative.
func cpuFactor(cpu models.WorkloadSummary) float64 {
	if cpu.Average > 0 {
		return cpu.Average / 100.0
	}
	return 1.0
}

func applyFloor(vcu float64, cfg VCUConfig) float64 {
	if vcu < cfg.MinimumVCU {
		return cfg.MinimumVCU
	}
	return vcu
}

func validateSummary(name string, s models.WorkloadSummary) error {
	if s.Peak == 0 && s.Average > 0 {
		return fmt.Errorf("%s summary has peak 0 with average %.4f: %w", name, s.Average, ErrInvalidWorkload)
	}
	if s.Average > s.Peak {
		return fmt.Errorf("%s summary has average %.4f above peak %.4f: %w", name, s.Average, s.Peak, ErrInvalidWorkload)
	}
	return nil
}
