package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/opscart/es3-estimator/pkg/analyzer"
	"github.com/opscart/es3-estimator/pkg/models"
)

const (
	metricsIndex = "metrics-*:cluster-elasticsearch-*"
	loggingIndex = "logging-*:elasticsearch-2*"

	// 1 hour buckets for smoother derivatives on ingest/CPU/storage
	hourlyInterval = "3600s"
	// wider buckets for the slow-moving search counter
	searchInterval = "30240s"
)

// ElasticsearchSource reads metrics from the Elastic Cloud monitoring
// deployment over the _search and _query HTTP APIs.
type ElasticsearchSource struct {
	endpoint   string
	apiKey     string
	clusterID  string
	httpClient *http.Client
	verbose    bool
}

func NewElasticsearchSource(cfg Config) *ElasticsearchSource {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &ElasticsearchSource{
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:    cfg.APIKey,
		clusterID: cfg.ClusterID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		verbose: cfg.Verbose,
	}
}

func (s *ElasticsearchSource) Name() string {
	return "elasticsearch"
}

func (s *ElasticsearchSource) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"/", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "ApiKey "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// FetchMetricSeries fetches the max-per-bucket counter (or gauge) value per
// node and sums across nodes into a single cluster-level series. The sum of
// per-node counters stays monotonic while all nodes report; a node restart
// shows up as a cluster-level reset and is dropped by the rate deriver.
func (s *ElasticsearchSource) FetchMetricSeries(ctx context.Context, metric string, window models.TimeRange) (models.MetricSeries, error) {
	switch metric {
	case MetricIngestBytesTotal:
		return s.fetchNodeCounter(ctx, metricsIndex, metric, "ece.instance", hourlyInterval, window, map[string]any{
			"term": map[string]any{"event.dataset": "elasticsearch.index"},
		})
	case MetricSearchFetchTotal:
		return s.fetchNodeCounter(ctx, loggingIndex, metric, "node_name.keyword", searchInterval, window, nil)
	case MetricStorageBytes:
		return s.fetchClusterGauge(ctx, metricsIndex, metric, hourlyInterval, window)
	default:
		return models.MetricSeries{}, fmt.Errorf("unknown metric %q", metric)
	}
}

// FetchPerNodeCPUSeries returns per-node CPU usage in percent. The source
// field is in thousandths (680 = 68.0%).
func (s *ElasticsearchSource) FetchPerNodeCPUSeries(ctx context.Context, window models.TimeRange) (map[string]models.MetricSeries, error) {
	body := s.aggQuery(window, "node_name.keyword", hourlyInterval, map[string]any{
		"avg": map[string]any{"field": "container.cpu.usage_in_thousands"},
	}, nil)

	var resp nodeAggResponse
	if err := s.search(ctx, loggingIndex, body, &resp); err != nil {
		return nil, fmt.Errorf("cpu query failed: %w", err)
	}

	perNode := make(map[string]models.MetricSeries, len(resp.Aggregations.Nodes.Buckets))
	for _, node := range resp.Aggregations.Nodes.Buckets {
		samples := make([]models.Sample, 0, len(node.Timeseries.Buckets))
		for _, b := range node.Timeseries.Buckets {
			if b.Metric.Value == nil {
				continue
			}
			samples = append(samples, models.Sample{
				Timestamp: time.UnixMilli(b.Key).UTC(),
				Value:     *b.Metric.Value / 10.0,
			})
		}
		perNode[node.Key] = models.MetricSeries{Metric: "cpu.usage.pct", Samples: samples}
	}

	if s.verbose {
		fmt.Printf("[DEBUG] fetched CPU series for %d nodes\n", len(perNode))
	}
	return perNode, nil
}

// FetchClusterStats returns the latest cluster stats document with a
// non-zero document count, split into primary/replica portions by shard
// ratio.
func (s *ElasticsearchSource) FetchClusterStats(ctx context.Context) (*models.ClusterStats, error) {
	body := map[string]any{
		"size": 1,
		"sort": []any{map[string]any{"@timestamp": map[string]any{"order": "desc"}}},
		"query": map[string]any{
			"bool": map[string]any{
				"must": []any{
					map[string]any{"term": map[string]any{"ece.cluster": s.clusterID}},
					map[string]any{"range": map[string]any{
						"elasticsearch.cluster.stats.indices.docs.total": map[string]any{"gt": 0},
					}},
				},
			},
		},
		"_source": []string{"elasticsearch.cluster.stats.*", "@timestamp"},
	}

	var resp clusterStatsResponse
	if err := s.search(ctx, metricsIndex, body, &resp); err != nil {
		return nil, fmt.Errorf("cluster stats query failed: %w", err)
	}
	if len(resp.Hits.Hits) == 0 {
		return nil, fmt.Errorf("no cluster stats documents for cluster %s", s.clusterID)
	}

	src := resp.Hits.Hits[0].Source
	indices := src.Elasticsearch.Cluster.Stats.Indices
	return models.NewClusterStats(
		indices.Docs.Total,
		indices.Store.Size.Bytes,
		indices.Shards.Count,
		indices.Shards.Primaries,
		src.Timestamp,
	), nil
}

// FetchIngestQueryRatioPct measures the index-time/query-time percentage
// over the window via ES|QL (e.g. 24 means indexing consumed 24% as much
// node time as querying).
func (s *ElasticsearchSource) FetchIngestQueryRatioPct(ctx context.Context, window models.TimeRange) (float64, error) {
	query := fmt.Sprintf(`
FROM %s
| WHERE ece.cluster:"%s" AND event.dataset:"elasticsearch.node.stats" AND @timestamp >= "%s"
| STATS max_node_query_time = MAX(elasticsearch.node.stats.indices.search.fetch_time.ms + elasticsearch.node.stats.indices.search.query_time.ms), max_node_index_time = MAX(elasticsearch.node.stats.indices.indexing.index_time.ms) BY elasticsearch.node.name
| STATS total_query_time = SUM(max_node_query_time), total_index_time = SUM(max_node_index_time)
| EVAL ingest_ratio = CEIL(total_index_time::double / total_query_time::double * 100.0)
| KEEP ingest_ratio
| LIMIT 1`, metricsIndex, s.clusterID, window.Start.UTC().Format(time.RFC3339))

	value, err := s.esql(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("ingest ratio query failed: %w", err)
	}
	return value, nil
}

// FetchClusterMemoryGB sums the max cgroup memory limit of each ingest node
func (s *ElasticsearchSource) FetchClusterMemoryGB(ctx context.Context, window models.TimeRange) (float64, error) {
	query := fmt.Sprintf(`
FROM %s
| WHERE ece.cluster:"%s" AND event.dataset:"elasticsearch.node.stats" AND ece.elasticsearch_roles: "ingest" AND @timestamp >= "%s"
| STATS max_memory_node = MAX(elasticsearch.node.stats.os.cgroup.memory.limit.bytes::long) BY elasticsearch.node.name
| STATS total_memory = SUM(max_memory_node)
| EVAL total_memory_gb = total_memory / 1000 / 1000 / 1000
| KEEP total_memory_gb
| LIMIT 1`, metricsIndex, s.clusterID, window.Start.UTC().Format(time.RFC3339))

	value, err := s.esql(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("cluster memory query failed: %w", err)
	}
	return value, nil
}

func (s *ElasticsearchSource) fetchNodeCounter(ctx context.Context, index, field, nodeField, interval string, window models.TimeRange, extraFilter map[string]any) (models.MetricSeries, error) {
	body := s.aggQuery(window, nodeField, interval, map[string]any{
		"max": map[string]any{"field": field},
	}, extraFilter)

	var resp nodeAggResponse
	if err := s.search(ctx, index, body, &resp); err != nil {
		return models.MetricSeries{}, fmt.Errorf("query for %s failed: %w", field, err)
	}

	perNode := make(map[string]models.MetricSeries, len(resp.Aggregations.Nodes.Buckets))
	for _, node := range resp.Aggregations.Nodes.Buckets {
		samples := make([]models.Sample, 0, len(node.Timeseries.Buckets))
		for _, b := range node.Timeseries.Buckets {
			if b.Metric.Value == nil {
				continue
			}
			samples = append(samples, models.Sample{Timestamp: time.UnixMilli(b.Key).UTC(), Value: *b.Metric.Value})
		}
		perNode[node.Key] = models.MetricSeries{Metric: field, Samples: samples}
	}

	// sum max-per-bucket counters across nodes
	series := analyzer.SumAcrossNodes(perNode, field)

	if s.verbose {
		fmt.Printf("[DEBUG] %s: %d buckets across %d nodes\n", field, len(series.Samples), len(perNode))
	}
	return series, nil
}

func (s *ElasticsearchSource) fetchClusterGauge(ctx context.Context, index, field, interval string, window models.TimeRange) (models.MetricSeries, error) {
	body := map[string]any{
		"size":  0,
		"query": s.windowQuery(window, nil),
		"aggs": map[string]any{
			"timeseries": map[string]any{
				"date_histogram": histogramAgg(window, interval),
				"aggs": map[string]any{
					"metric": map[string]any{"max": map[string]any{"field": field}},
				},
			},
		},
	}

	var resp gaugeAggResponse
	if err := s.search(ctx, index, body, &resp); err != nil {
		return models.MetricSeries{}, fmt.Errorf("query for %s failed: %w", field, err)
	}

	samples := make([]models.Sample, 0, len(resp.Aggregations.Timeseries.Buckets))
	for _, b := range resp.Aggregations.Timeseries.Buckets {
		if b.Metric.Value == nil {
			continue
		}
		samples = append(samples, models.Sample{Timestamp: time.UnixMilli(b.Key).UTC(), Value: *b.Metric.Value})
	}
	return models.MetricSeries{Metric: field, Samples: samples}, nil
}

func (s *ElasticsearchSource) aggQuery(window models.TimeRange, nodeField, interval string, valueAgg map[string]any, extraFilter map[string]any) map[string]any {
	return map[string]any{
		"size":  0,
		"query": s.windowQuery(window, extraFilter),
		"aggs": map[string]any{
			"nodes": map[string]any{
				"terms": map[string]any{
					"field": nodeField,
					"size":  200,
					"order": map[string]any{"_count": "desc"},
				},
				"aggs": map[string]any{
					"timeseries": map[string]any{
						"date_histogram": histogramAgg(window, interval),
						"aggs": map[string]any{
							"metric": valueAgg,
						},
					},
				},
			},
		},
	}
}

func (s *ElasticsearchSource) windowQuery(window models.TimeRange, extraFilter map[string]any) map[string]any {
	must := []any{
		map[string]any{"term": map[string]any{"ece.cluster": s.clusterID}},
		map[string]any{"range": map[string]any{
			"@timestamp": map[string]any{
				"gte":    window.Start.UTC().Format(time.RFC3339),
				"lte":    window.End.UTC().Format(time.RFC3339),
				"format": "strict_date_optional_time",
			},
		}},
	}
	if extraFilter != nil {
		must = append(must, extraFilter)
	}
	return map[string]any{"bool": map[string]any{"must": must}}
}

func histogramAgg(window models.TimeRange, interval string) map[string]any {
	return map[string]any{
		"field":          "@timestamp",
		"min_doc_count":  0,
		"time_zone":      "UTC",
		"fixed_interval": interval,
		"extended_bounds": map[string]any{
			"min": window.Start.UnixMilli(),
			"max": window.End.UnixMilli(),
		},
	}
}

func (s *ElasticsearchSource) search(ctx context.Context, index string, body, out any) error {
	return s.post(ctx, "/"+index+"/_search", body, out)
}

// esql runs an ES|QL query expected to return a single numeric value.
// Values arrive either as numbers or as strings (possibly "%"-suffixed).
func (s *ElasticsearchSource) esql(ctx context.Context, query string) (float64, error) {
	var resp esqlResponse
	if err := s.post(ctx, "/_query", map[string]any{"query": query}, &resp); err != nil {
		return 0, err
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 || resp.Values[0][0] == nil {
		return 0, fmt.Errorf("esql query returned no rows")
	}

	switch v := resp.Values[0][0].(type) {
	case float64:
		return v, nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("unparseable esql value %q: %w", v, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("unexpected esql value type %T", v)
	}
}

func (s *ElasticsearchSource) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "ApiKey "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type timeBucket struct {
	Key    int64 `json:"key"`
	Metric struct {
		Value *float64 `json:"value"`
	} `json:"metric"`
}

type nodeAggResponse struct {
	Aggregations struct {
		Nodes struct {
			Buckets []struct {
				Key        string `json:"key"`
				Timeseries struct {
					Buckets []timeBucket `json:"buckets"`
				} `json:"timeseries"`
			} `json:"buckets"`
		} `json:"nodes"`
	} `json:"aggregations"`
}

type gaugeAggResponse struct {
	Aggregations struct {
		Timeseries struct {
			Buckets []timeBucket `json:"buckets"`
		} `json:"timeseries"`
	} `json:"aggregations"`
}

type clusterStatsResponse struct {
	Hits struct {
		Hits []struct {
			Source struct {
				Timestamp     time.Time `json:"@timestamp"`
				Elasticsearch struct {
					Cluster struct {
						Stats struct {
							Indices struct {
								Docs struct {
									Total int64 `json:"total"`
								} `json:"docs"`
								Store struct {
									Size struct {
										Bytes int64 `json:"bytes"`
									} `json:"size"`
								} `json:"store"`
								Shards struct {
									Count     int64 `json:"count"`
									Primaries int64 `json:"primaries"`
								} `json:"shards"`
							} `json:"indices"`
						} `json:"stats"`
					} `json:"cluster"`
				} `json:"elasticsearch"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type esqlResponse struct {
	Columns []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"columns"`
	Values [][]any `json:"values"`
}
