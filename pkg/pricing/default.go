package pricing

import (
	"context"

	"github.com/opscart/es3-estimator/pkg/models"
)

// Published ES3 list prices, used when no price source is configured
const (
	DefaultVCUHourPrice        = 0.14
	DefaultStorageGBMonthPrice = 0.047
)

// DefaultProvider serves a static pricing table
type DefaultProvider struct {
	vcuHour        float64
	storageGBMonth float64
}

func NewDefaultProvider(vcuHour, storageGBMonth float64) *DefaultProvider {
	if vcuHour == 0 {
		vcuHour = DefaultVCUHourPrice
	}
	if storageGBMonth == 0 {
		storageGBMonth = DefaultStorageGBMonthPrice
	}
	return &DefaultProvider{
		vcuHour:        vcuHour,
		storageGBMonth: storageGBMonth,
	}
}

func (d *DefaultProvider) Name() string {
	return "default"
}

func (d *DefaultProvider) Table(ctx context.Context) (models.PricingTable, error) {
	return models.PricingTable{
		models.TierIngest:  d.vcuHour,
		models.TierSearch:  d.vcuHour,
		models.TierStorage: d.storageGBMonth,
	}, nil
}
