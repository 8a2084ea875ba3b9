package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/opscart/es3-estimator/pkg/config"
	"github.com/opscart/es3-estimator/pkg/datasource"
	"github.com/opscart/es3-estimator/pkg/estimator"
	"github.com/opscart/es3-estimator/pkg/models"
	"github.com/opscart/es3-estimator/pkg/pricing"
	"github.com/opscart/es3-estimator/pkg/reporter"
	"github.com/opscart/es3-estimator/pkg/storage"
)

var (
	// Estimate flags
	clusterID     string
	endpoint      string
	apiKey        string
	apiKeyFile    string
	sourceKind    string
	prometheusURL string
	lookback      time.Duration
	memoryGB      float64
	ingestShare   float64
	vcuPrice      float64
	storagePrice  float64
	pricingURL    string
	outputFormat  string
	reportFormat  string
	reportOutput  string
	saveResults   bool
	verbose       bool

	// Global config
	cfg   *config.Config
	store storage.Store

	// History command vars
	historyLimit int
)

func logVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Printf("[DEBUG] "+format+"\n", args...)
	}
}

func main() {
	// Initialize config
	cfg = config.NewConfig()

	var rootCmd = &cobra.Command{
		Use:   "es3-estimate",
		Short: "Elasticsearch serverless cost estimator",
		Long:  `Estimate ES3 serverless costs from the observed ingest, search and CPU workload of an existing Elasticsearch cluster.`,
		Run:   runEstimate,
	}

	rootCmd.Flags().StringVar(&clusterID, "cluster-id", cfg.ClusterID, "Cluster identifier")
	rootCmd.Flags().StringVar(&endpoint, "endpoint", cfg.Endpoint, "Metrics cluster endpoint URL")
	rootCmd.Flags().StringVar(&apiKey, "api-key", cfg.APIKey, "API key for the metrics cluster")
	rootCmd.Flags().StringVar(&apiKeyFile, "api-key-file", "", "File containing the API key")
	rootCmd.Flags().StringVar(&sourceKind, "source", "elasticsearch", "Metrics source: elasticsearch, prometheus")
	rootCmd.Flags().StringVar(&prometheusURL, "prometheus-url", cfg.PrometheusURL, "Prometheus endpoint (source=prometheus)")
	rootCmd.Flags().DurationVar(&lookback, "lookback", cfg.Lookback, "Analysis window (e.g. 168h)")
	rootCmd.Flags().Float64Var(&memoryGB, "memory-gb", cfg.MemoryGB, "Total cluster memory in GB (0 = discover)")
	rootCmd.Flags().Float64Var(&ingestShare, "ingest-share", cfg.IngestShare, "Ingest time share in (0,1] (0 = measure)")
	rootCmd.Flags().Float64Var(&vcuPrice, "vcu-price", 0, "VCU-hour price override")
	rootCmd.Flags().Float64Var(&storagePrice, "storage-price", 0, "Storage GB-month price override")
	rootCmd.Flags().StringVar(&pricingURL, "pricing-url", cfg.PricingURL, "Remote price list URL")
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json")
	rootCmd.Flags().StringVar(&reportFormat, "report-format", "", "Write a report file: text, csv, html")
	rootCmd.Flags().StringVar(&reportOutput, "report-output", "es3-report.html", "Output file for report")
	rootCmd.Flags().BoolVar(&saveResults, "save", false, "Save the report to the database")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// History command
	historyCmd := &cobra.Command{
		Use:   "history [cluster-id]",
		Short: "View past cost reports",
		Args:  cobra.MaximumNArgs(1),
		Run:   runHistory,
	}
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of reports to show")

	rootCmd.AddCommand(historyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initStorage() error {
	var err error
	store, err = storage.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	return nil
}

func runEstimate(cmd *cobra.Command, args []string) {
	if outputFormat != "text" && outputFormat != "json" {
		fmt.Fprintln(os.Stderr, "Error: output must be text or json")
		os.Exit(1)
	}

	if apiKeyFile != "" {
		data, err := os.ReadFile(apiKeyFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading API key file: %v\n", err)
			os.Exit(1)
		}
		apiKey = strings.TrimSpace(string(data))
	}

	if saveResults {
		if err := initStorage(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	ctx := context.Background()

	if outputFormat == "text" {
		fmt.Println("[INFO] ES3 Estimator - Starting analysis")
	}

	window := models.TimeRange{
		End:   time.Now().UTC(),
		Start: time.Now().UTC().Add(-lookback),
	}

	source, esSource := initSource(ctx)

	// Discover memory and workload mix from the cluster when not configured
	if memoryGB == 0 && esSource != nil {
		discovered, err := esSource.FetchClusterMemoryGB(ctx, window)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cluster memory not discoverable, pass --memory-gb: %v\n", err)
			os.Exit(1)
		}
		memoryGB = discovered
		logVerbose("discovered cluster memory: %.1f GB", memoryGB)
	}
	if memoryGB <= 0 {
		fmt.Fprintln(os.Stderr, "Error: --memory-gb is required for this source")
		os.Exit(1)
	}

	if ingestShare == 0 && esSource != nil {
		ratioPct, err := esSource.FetchIngestQueryRatioPct(ctx, window)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: ingest/query ratio not measurable, pass --ingest-share: %v\n", err)
			os.Exit(1)
		}
		ingestShare = estimator.ShareFromRatioPct(ratioPct)
		logVerbose("measured ingest/query ratio: %.1f%% (share %.4f)", ratioPct, ingestShare)
	}
	if ingestShare <= 0 || ingestShare > 1 {
		fmt.Fprintln(os.Stderr, "Error: --ingest-share must be in (0,1] for this source")
		os.Exit(1)
	}

	table := resolvePricing(ctx)

	est := estimator.New(source, estimator.Config{
		MinimumVCU: cfg.MinimumVCU,
		CPUPolicy:  cfg.CPUPolicy(),
		Verbose:    verbose,
	})

	report, err := est.Run(ctx, estimator.Request{
		ClusterID:   clusterID,
		Window:      window,
		Pricing:     table,
		MemoryGB:    memoryGB,
		IngestShare: ingestShare,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: estimation failed: %v\n", err)
		os.Exit(1)
	}

	if saveResults && store != nil {
		id, err := store.SaveReport(ctx, report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Failed to save report: %v\n", err)
		} else if outputFormat == "text" {
			fmt.Printf("[INFO] Saved report (ID: %s)\n", id)
		}
	}

	switch outputFormat {
	case "json":
		outputJSON(report)
	default:
		rep := reporter.New(reporter.FormatText)
		rendered, err := rep.Generate(report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := rep.Render(rendered, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if reportFormat != "" {
		if err := writeReportFile(report); err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] Failed to generate report: %v\n", err)
		}
	}
}

// initSource builds the metrics source. The second return value is non-nil
// only for the Elasticsearch source, which supports memory and workload-mix
// discovery on top of the plain Source interface.
func initSource(ctx context.Context) (datasource.Source, *datasource.ElasticsearchSource) {
	switch sourceKind {
	case "prometheus":
		src, err := datasource.NewPrometheusSource(datasource.Config{
			PrometheusURL: prometheusURL,
			ClusterID:     clusterID,
			Verbose:       verbose,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: prometheus source: %v\n", err)
			os.Exit(1)
		}
		if !src.IsAvailable(ctx) {
			fmt.Fprintf(os.Stderr, "Error: Prometheus not reachable at %s\n", prometheusURL)
			os.Exit(1)
		}
		if outputFormat == "text" {
			fmt.Printf("[INFO] Using Prometheus at %s\n", prometheusURL)
		}
		return src, nil
	case "elasticsearch":
		if endpoint == "" {
			fmt.Fprintln(os.Stderr, "Error: --endpoint or ES_ENDPOINT must be set")
			os.Exit(1)
		}
		src := datasource.NewElasticsearchSource(datasource.Config{
			Endpoint:  endpoint,
			APIKey:    apiKey,
			ClusterID: clusterID,
			Verbose:   verbose,
		})
		if !src.IsAvailable(ctx) {
			fmt.Fprintf(os.Stderr, "Error: metrics cluster not reachable at %s\n", endpoint)
			os.Exit(1)
		}
		if outputFormat == "text" {
			fmt.Printf("[INFO] Using metrics cluster at %s\n", endpoint)
		}
		return src, src
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown source %q\n", sourceKind)
		os.Exit(1)
		return nil, nil
	}
}

// resolvePricing builds the pricing table: remote price list when configured,
// defaults otherwise, with flag overrides applied last.
func resolvePricing(ctx context.Context) models.PricingTable {
	var provider pricing.Provider = pricing.NewDefaultProvider(vcuPrice, storagePrice)

	if pricingURL != "" {
		provider = pricing.NewHTTPProvider(pricingURL, 24*time.Hour)
	}

	table, err := provider.Table(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Pricing provider failed: %v, using defaults\n", err)
		table, _ = pricing.NewDefaultProvider(vcuPrice, storagePrice).Table(ctx)
	}

	if vcuPrice > 0 {
		table[models.TierIngest] = vcuPrice
		table[models.TierSearch] = vcuPrice
	}
	if storagePrice > 0 {
		table[models.TierStorage] = storagePrice
	}

	logVerbose("pricing: ingest=%.4f search=%.4f storage=%.4f",
		table[models.TierIngest], table[models.TierSearch], table[models.TierStorage])

	return table
}

func outputJSON(report *models.CostReport) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

func writeReportFile(report *models.CostReport) error {
	rep := reporter.New(reporter.ReportFormat(reportFormat))
	rendered, err := rep.Generate(report)
	if err != nil {
		return err
	}

	file, err := os.Create(reportOutput)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := rep.Render(rendered, file); err != nil {
		return err
	}

	fmt.Printf("[INFO] Report written to %s\n", reportOutput)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) {
	if err := initStorage(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	filter := ""
	if len(args) > 0 {
		filter = args[0]
	}

	reports, err := store.ListReports(context.Background(), filter, historyLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(reports) == 0 {
		fmt.Println("[INFO] No stored reports found")
		return
	}

	fmt.Printf("%-38s %-20s %-22s %12s  %s\n", "ID", "CLUSTER", "GENERATED", "MONTHLY ($)", "PROFILE")
	for _, r := range reports {
		fmt.Printf("%-38s %-20s %-22s %12.2f  %s\n",
			r.ID, r.ClusterID, r.GeneratedAt, r.TotalMonthlyCost, r.WorkloadProfile)
	}
}
