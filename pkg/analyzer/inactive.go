package analyzer

import (
	"math"

	"github.com/opscart/es3-estimator/pkg/models"
)

// IdentifyInactiveNodes flags nodes whose CPU usage sits significantly
// below the rest of the cluster: both the node's average and its peak must
// fall more than two standard deviations under the cluster means, with
// floors of 1% average and 2% peak so quiet-but-alive clusters are not
// stripped. Needs at least two nodes to compare.
func IdentifyInactiveNodes(perNode map[string]models.WorkloadSummary) map[string]bool {
	inactive := make(map[string]bool)
	if len(perNode) < 2 {
		return inactive
	}

	avgs := make([]float64, 0, len(perNode))
	peaks := make([]float64, 0, len(perNode))
	for _, s := range perNode {
		avgs = append(avgs, s.Average)
		peaks = append(peaks, s.Peak)
	}

	meanAvg, stdAvg := meanAndStdDev(avgs)
	meanPeak, stdPeak := meanAndStdDev(peaks)

	thresholdAvg := math.Max(meanAvg-2*stdAvg, 1.0)
	thresholdPeak := math.Max(meanPeak-2*stdPeak, 2.0)

	for node, s := range perNode {
		if s.Average < thresholdAvg && s.Peak < thresholdPeak {
			inactive[node] = true
		}
	}

	return inactive
}

func meanAndStdDev(values []float64) (mean, stdDev float64) {
	if len(values) == 0 {
		return 0, 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))

	return mean, math.Sqrt(variance)
}
