package pricing

import (
	"context"

	"github.com/opscart/es3-estimator/pkg/models"
)

// Provider supplies the per-tier unit prices for an estimation run
type Provider interface {
	Table(ctx context.Context) (models.PricingTable, error)
	Name() string
}

type Config struct {
	// URL of a remote price list; empty means built-in defaults
	PricingURL string

	// Overrides for the built-in defaults
	VCUHourPrice        float64
	StorageGBMonthPrice float64

	CacheTTL int // seconds
}
