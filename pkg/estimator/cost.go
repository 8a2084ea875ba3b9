package estimator

import (
	"fmt"

	"github.com/opscart/es3-estimator/pkg/models"
)

// HoursPerMonth converts an hourly VCU price to a monthly cost
const HoursPerMonth = 24.0 * 30.0

// AggregateCosts combines VCU requirements and storage volume with unit
// pricing into per-tier estimates and the exact total. All prices are
// validated up front: a missing entry fails the whole aggregation, no
// partial result. Values stay unrounded; rounding belongs to presentation.
func AggregateCosts(ingestVCU, searchVCU, primaryStorageBytes float64, pricing models.PricingTable) ([]models.TierCostEstimate, float64, error) {
	ingestPrice, err := tierPrice(pricing, models.TierIngest)
	if err != nil {
		return nil, 0, err
	}
	searchPrice, err := tierPrice(pricing, models.TierSearch)
	if err != nil {
		return nil, 0, err
	}
	storagePrice, err := tierPrice(pricing, models.TierStorage)
	if err != nil {
		return nil, 0, err
	}

	storageGB := primaryStorageBytes / 1e9

	tiers := []models.TierCostEstimate{
		{
			Tier:        models.TierIngest,
			RequiredVCU: ingestVCU,
			UnitPrice:   ingestPrice,
			MonthlyCost: ingestVCU * ingestPrice * HoursPerMonth,
		},
		{
			Tier:        models.TierSearch,
			RequiredVCU: searchVCU,
			UnitPrice:   searchPrice,
			MonthlyCost: searchVCU * searchPrice * HoursPerMonth,
		},
		{
			Tier:        models.TierStorage,
			StorageGB:   storageGB,
			UnitPrice:   storagePrice,
			MonthlyCost: storageGB * storagePrice,
		},
	}

	total := 0.0
	for _, t := range tiers {
		total += t.MonthlyCost
	}

	return tiers, total, nil
}

func tierPrice(pricing models.PricingTable, tier models.Tier) (float64, error) {
	price, ok := pricing[tier]
	if !ok {
		return 0, fmt.Errorf("tier %q: %w", tier, ErrIncompletePricing)
	}
	return price, nil
}
