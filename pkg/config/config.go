package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/opscart/es3-estimator/pkg/analyzer"
	"github.com/opscart/es3-estimator/pkg/models"
)

// Config holds application configuration
type Config struct {
	// Source cluster
	Endpoint  string
	APIKey    string
	ClusterID string

	// Alternative Prometheus source
	PrometheusURL string

	// Storage
	StorageEnabled bool
	DatabaseURL    string

	// Analysis
	LookbackDays int
	Lookback     time.Duration
	MemoryGB     float64 // 0 = discover from the cluster
	IngestShare  float64 // 0 = measure from the cluster
	MinimumVCU   float64

	// CPU classification bounds (percent, upper-exclusive)
	CPULowMax      float64
	CPUModerateMax float64
	CPUHighMax     float64

	// Pricing
	PricingURL          string
	VCUHourPrice        float64
	StorageGBMonthPrice float64
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	lookbackDays := getEnvInt("LOOKBACK_DAYS", 7)

	return &Config{
		Endpoint:       getEnv("ES_ENDPOINT", ""),
		APIKey:         getEnv("ES_API_KEY", ""),
		ClusterID:      getEnv("ES_CLUSTER_ID", ""),
		PrometheusURL:  getEnv("PROMETHEUS_URL", "http://localhost:9090"),
		StorageEnabled: getEnvBool("STORAGE_ENABLED", false),
		DatabaseURL:    getEnv("DATABASE_URL", "host=localhost port=5432 user=es3 password=devpassword dbname=es3estimates sslmode=disable"),
		LookbackDays:   lookbackDays,
		Lookback:       time.Duration(lookbackDays) * 24 * time.Hour,
		MemoryGB:       getEnvFloat("CLUSTER_MEMORY_GB", 0),
		IngestShare:    getEnvFloat("INGEST_SHARE", 0),
		MinimumVCU:     getEnvFloat("MINIMUM_VCU", 0),
		CPULowMax:      getEnvFloat("CPU_LOW_MAX", 30),
		CPUModerateMax: getEnvFloat("CPU_MODERATE_MAX", 60),
		CPUHighMax:     getEnvFloat("CPU_HIGH_MAX", 85),
		PricingURL:     getEnv("PRICING_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Lookback < 1*time.Hour {
		return fmt.Errorf("lookback must be at least 1 hour")
	}
	if c.StorageEnabled && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set when storage is enabled")
	}
	if c.IngestShare < 0 || c.IngestShare > 1 {
		return fmt.Errorf("ingest share must be in [0, 1]")
	}
	if c.MinimumVCU < 0 {
		return fmt.Errorf("minimum VCU must not be negative")
	}
	if !(c.CPULowMax < c.CPUModerateMax && c.CPUModerateMax < c.CPUHighMax) {
		return fmt.Errorf("CPU thresholds must be strictly increasing")
	}
	return nil
}

// CPUPolicy builds an analyzer threshold policy from the configured bounds
func (c *Config) CPUPolicy() analyzer.CPUPolicy {
	return analyzer.CPUPolicy{
		Thresholds: []analyzer.CPUThreshold{
			{UpperBound: c.CPULowMax, Band: models.CPUBandLow},
			{UpperBound: c.CPUModerateMax, Band: models.CPUBandModerate},
			{UpperBound: c.CPUHighMax, Band: models.CPUBandHigh},
		},
		Above: models.CPUBandCritical,
	}
}
