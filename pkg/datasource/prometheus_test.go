package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// promHandler serves canned /api/v1 responses keyed by query substring
func promHandler(t *testing.T, responses map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		query := r.Form.Get("query")

		for substr, body := range responses {
			if strings.Contains(query, substr) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(body))
				return
			}
		}
		t.Errorf("Unexpected Prometheus query: %s", query)
		w.Write([]byte(`{"status":"success","data":{"resultType":"matrix","result":[]}}`))
	}
}

func TestPrometheusFetchMetricSeries(t *testing.T) {
	matrix := `{
		"status": "success",
		"data": {
			"resultType": "matrix",
			"result": [
				{
					"metric": {},
					"values": [[1754006400, "1000"], [1754010000, "1500"]]
				}
			]
		}
	}`

	server := httptest.NewServer(promHandler(t, map[string]string{
		"elasticsearch_indices_indexing_index_total": matrix,
	}))
	defer server.Close()

	source, err := NewPrometheusSource(Config{PrometheusURL: server.URL})
	if err != nil {
		t.Fatalf("NewPrometheusSource failed: %v", err)
	}

	series, err := source.FetchMetricSeries(context.Background(), MetricIngestBytesTotal, testWindow())
	if err != nil {
		t.Fatalf("FetchMetricSeries failed: %v", err)
	}

	if len(series.Samples) != 2 {
		t.Fatalf("Expected 2 samples, got %d", len(series.Samples))
	}
	if series.Samples[0].Value != 1000 {
		t.Errorf("Expected first sample 1000, got %.1f", series.Samples[0].Value)
	}
}

func TestPrometheusFetchMetricSeriesNoQuery(t *testing.T) {
	server := httptest.NewServer(promHandler(t, nil))
	defer server.Close()

	source, err := NewPrometheusSource(Config{PrometheusURL: server.URL})
	if err != nil {
		t.Fatalf("NewPrometheusSource failed: %v", err)
	}

	if _, err := source.FetchMetricSeries(context.Background(), "no.such.metric", testWindow()); err == nil {
		t.Error("Expected error for metric without a configured query")
	}
}

func TestPrometheusFetchPerNodeCPUSeries(t *testing.T) {
	matrix := `{
		"status": "success",
		"data": {
			"resultType": "matrix",
			"result": [
				{
					"metric": {"name": "es-node-1"},
					"values": [[1754006400, "54.1"]]
				},
				{
					"metric": {"instance": "10.0.0.2:9114"},
					"values": [[1754006400, "61.0"]]
				}
			]
		}
	}`

	server := httptest.NewServer(promHandler(t, map[string]string{
		"elasticsearch_process_cpu_percent": matrix,
	}))
	defer server.Close()

	source, err := NewPrometheusSource(Config{PrometheusURL: server.URL})
	if err != nil {
		t.Fatalf("NewPrometheusSource failed: %v", err)
	}

	perNode, err := source.FetchPerNodeCPUSeries(context.Background(), testWindow())
	if err != nil {
		t.Fatalf("FetchPerNodeCPUSeries failed: %v", err)
	}

	if len(perNode) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(perNode))
	}
	if _, ok := perNode["es-node-1"]; !ok {
		t.Errorf("Expected name label used as node key, got %v", perNode)
	}
	// Falls back to the instance label when name is absent
	if _, ok := perNode["10.0.0.2:9114"]; !ok {
		t.Errorf("Expected instance label fallback, got %v", perNode)
	}
}

func TestPrometheusFetchClusterStats(t *testing.T) {
	vector := func(value string) string {
		return `{
			"status": "success",
			"data": {
				"resultType": "vector",
				"result": [{"metric": {}, "value": [1754006400, "` + value + `"]}]
			}
		}`
	}

	server := httptest.NewServer(promHandler(t, map[string]string{
		"elasticsearch_indices_docs":                         vector("1000"),
		"elasticsearch_indices_store_size_bytes":             vector("800000000000"),
		"elasticsearch_cluster_health_active_primary_shards": vector("2"),
		"elasticsearch_cluster_health_active_shards":         vector("4"),
	}))
	defer server.Close()

	source, err := NewPrometheusSource(Config{PrometheusURL: server.URL})
	if err != nil {
		t.Fatalf("NewPrometheusSource failed: %v", err)
	}

	stats, err := source.FetchClusterStats(context.Background())
	if err != nil {
		t.Fatalf("FetchClusterStats failed: %v", err)
	}

	if stats.TotalDocs != 1000 {
		t.Errorf("Expected 1000 docs, got %d", stats.TotalDocs)
	}
	if stats.PrimaryRatio != 0.5 {
		t.Errorf("Expected primary ratio 0.5, got %.4f", stats.PrimaryRatio)
	}
}
