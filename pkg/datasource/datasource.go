package datasource

import (
	"context"
	"time"

	"github.com/opscart/es3-estimator/pkg/models"
)

// Metric names understood by every source. The constants are the field
// names of the monitoring documents the default Elasticsearch source reads.
const (
	// Cumulative bytes bulk-indexed per node (counter)
	MetricIngestBytesTotal = "elasticsearch.index.total.bulk.total_size_in_bytes"

	// Cumulative search fetch operations per node (counter)
	MetricSearchFetchTotal = "indices.search.fetch_total"

	// Total on-disk index size (gauge), used for storage growth trends
	MetricStorageBytes = "elasticsearch.cluster.stats.indices.store.size.bytes"
)

// Source defines the interface for collecting cluster metrics
type Source interface {
	// FetchMetricSeries returns the cluster-level series for a named
	// metric over the window. Counter metrics are returned raw; rate
	// derivation happens downstream.
	FetchMetricSeries(ctx context.Context, metric string, window models.TimeRange) (models.MetricSeries, error)

	// FetchPerNodeCPUSeries returns the CPU usage gauge series (percent)
	// keyed by node name.
	FetchPerNodeCPUSeries(ctx context.Context, window models.TimeRange) (map[string]models.MetricSeries, error)

	// FetchClusterStats returns the latest structural snapshot.
	FetchClusterStats(ctx context.Context) (*models.ClusterStats, error)

	IsAvailable(ctx context.Context) bool
	Name() string
}

type Config struct {
	Endpoint      string
	APIKey        string
	ClusterID     string
	PrometheusURL string
	Timeout       time.Duration
	Verbose       bool
}
