package analyzer

import (
	"testing"

	"github.com/opscart/es3-estimator/pkg/models"
)

func TestIdentifyInactiveNodes(t *testing.T) {
	perNode := map[string]models.WorkloadSummary{
		"node-1": {Average: 50, Peak: 80},
		"node-2": {Average: 52, Peak: 82},
		"node-3": {Average: 48, Peak: 78},
		"node-4": {Average: 51, Peak: 81},
		"node-5": {Average: 0.1, Peak: 0.5}, // effectively idle
	}

	inactive := IdentifyInactiveNodes(perNode)

	if !inactive["node-5"] {
		t.Errorf("Expected node-5 flagged as inactive")
	}
	for _, node := range []string{"node-1", "node-2", "node-3", "node-4"} {
		if inactive[node] {
			t.Errorf("Expected %s active, got inactive", node)
		}
	}
}

func TestIdentifyInactiveNodesQuietCluster(t *testing.T) {
	// Everything is quiet but above the absolute floors: nothing is flagged
	perNode := map[string]models.WorkloadSummary{
		"node-1": {Average: 5, Peak: 10},
		"node-2": {Average: 6, Peak: 11},
		"node-3": {Average: 5.5, Peak: 10.5},
	}

	inactive := IdentifyInactiveNodes(perNode)
	if len(inactive) != 0 {
		t.Errorf("Expected no inactive nodes in a uniformly quiet cluster, got %v", inactive)
	}
}

func TestIdentifyInactiveNodesSingleNode(t *testing.T) {
	perNode := map[string]models.WorkloadSummary{
		"node-1": {Average: 0.1, Peak: 0.2},
	}

	inactive := IdentifyInactiveNodes(perNode)
	if len(inactive) != 0 {
		t.Errorf("Expected no detection with fewer than two nodes, got %v", inactive)
	}
}
