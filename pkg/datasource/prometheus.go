package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/opscart/es3-estimator/pkg/models"
	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
)

// PrometheusSource reads the same metric families from a Prometheus server
// scraping elasticsearch_exporter. Query expressions are overridable for
// other exporter setups; the engine only cares about counter/gauge shape,
// not units.
type PrometheusSource struct {
	client  v1.API
	url     string
	queries map[string]string
	step    time.Duration
	verbose bool
}

// DefaultQueries targets prometheus-community/elasticsearch_exporter
var DefaultQueries = map[string]string{
	MetricIngestBytesTotal: `sum(elasticsearch_indices_indexing_index_total)`,
	MetricSearchFetchTotal: `sum(elasticsearch_indices_search_fetch_total)`,
	MetricStorageBytes:     `sum(elasticsearch_indices_store_size_bytes)`,
}

const cpuPerNodeQuery = `elasticsearch_process_cpu_percent`

func NewPrometheusSource(cfg Config) (*PrometheusSource, error) {
	client, err := api.NewClient(api.Config{
		Address: cfg.PrometheusURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus client: %w", err)
	}

	return &PrometheusSource{
		client:  v1.NewAPI(client),
		url:     cfg.PrometheusURL,
		queries: DefaultQueries,
		step:    time.Hour,
		verbose: cfg.Verbose,
	}, nil
}

// SetQuery overrides the PromQL expression for a metric name
func (p *PrometheusSource) SetQuery(metric, query string) {
	p.queries[metric] = query
}

func (p *PrometheusSource) Name() string {
	return "prometheus"
}

func (p *PrometheusSource) IsAvailable(ctx context.Context) bool {
	_, _, err := p.client.Query(ctx, "up", time.Now())
	return err == nil
}

func (p *PrometheusSource) FetchMetricSeries(ctx context.Context, metric string, window models.TimeRange) (models.MetricSeries, error) {
	query, ok := p.queries[metric]
	if !ok {
		return models.MetricSeries{}, fmt.Errorf("no query configured for metric %q", metric)
	}

	r := v1.Range{Start: window.Start, End: window.End, Step: p.step}

	if p.verbose {
		fmt.Printf("[DEBUG] Prometheus query: %s (%s to %s)\n", query,
			window.Start.Format(time.RFC3339), window.End.Format(time.RFC3339))
	}

	result, warnings, err := p.client.QueryRange(ctx, query, r)
	if err != nil {
		return models.MetricSeries{}, fmt.Errorf("prometheus query failed: %w", err)
	}
	if len(warnings) > 0 && p.verbose {
		fmt.Printf("[DEBUG] Prometheus warnings: %v\n", warnings)
	}

	matrix, ok := result.(model.Matrix)
	if !ok {
		return models.MetricSeries{}, fmt.Errorf("unexpected result type: %T", result)
	}

	var samples []models.Sample
	for _, series := range matrix {
		for _, value := range series.Values {
			samples = append(samples, models.Sample{
				Timestamp: value.Timestamp.Time(),
				Value:     float64(value.Value),
			})
		}
	}

	return models.MetricSeries{Metric: metric, Samples: samples}, nil
}

func (p *PrometheusSource) FetchPerNodeCPUSeries(ctx context.Context, window models.TimeRange) (map[string]models.MetricSeries, error) {
	r := v1.Range{Start: window.Start, End: window.End, Step: p.step}

	result, warnings, err := p.client.QueryRange(ctx, cpuPerNodeQuery, r)
	if err != nil {
		return nil, fmt.Errorf("prometheus cpu query failed: %w", err)
	}
	if len(warnings) > 0 && p.verbose {
		fmt.Printf("[DEBUG] Prometheus warnings: %v\n", warnings)
	}

	matrix, ok := result.(model.Matrix)
	if !ok {
		return nil, fmt.Errorf("unexpected result type: %T", result)
	}

	perNode := make(map[string]models.MetricSeries, len(matrix))
	for _, series := range matrix {
		node := string(series.Metric["name"])
		if node == "" {
			node = string(series.Metric["instance"])
		}

		samples := make([]models.Sample, 0, len(series.Values))
		for _, value := range series.Values {
			samples = append(samples, models.Sample{
				Timestamp: value.Timestamp.Time(),
				Value:     float64(value.Value),
			})
		}
		perNode[node] = models.MetricSeries{Metric: "cpu.usage.pct", Samples: samples}
	}

	return perNode, nil
}

func (p *PrometheusSource) FetchClusterStats(ctx context.Context) (*models.ClusterStats, error) {
	docs, err := p.querySingle(ctx, `sum(elasticsearch_indices_docs)`)
	if err != nil {
		return nil, fmt.Errorf("docs query failed: %w", err)
	}
	storage, err := p.querySingle(ctx, `sum(elasticsearch_indices_store_size_bytes)`)
	if err != nil {
		return nil, fmt.Errorf("storage query failed: %w", err)
	}

	// shard counts are best-effort; the split falls back to all-primary
	shards, err := p.querySingle(ctx, `elasticsearch_cluster_health_active_shards`)
	if err != nil {
		shards = 0
	}
	primaries, err := p.querySingle(ctx, `elasticsearch_cluster_health_active_primary_shards`)
	if err != nil {
		primaries = 0
	}

	return models.NewClusterStats(int64(docs), int64(storage), int64(shards), int64(primaries), time.Now()), nil
}

func (p *PrometheusSource) querySingle(ctx context.Context, query string) (float64, error) {
	result, warnings, err := p.client.Query(ctx, query, time.Now())
	if err != nil {
		return 0, fmt.Errorf("query failed: %w", err)
	}
	if len(warnings) > 0 && p.verbose {
		fmt.Printf("[WARN] Prometheus: %v\n", warnings)
	}

	vector, ok := result.(model.Vector)
	if !ok || len(vector) == 0 {
		return 0, fmt.Errorf("no data for query: %s", query)
	}

	sum := 0.0
	for _, sample := range vector {
		sum += float64(sample.Value)
	}
	return sum, nil
}
