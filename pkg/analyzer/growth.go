package analyzer

import (
	"fmt"

	"github.com/opscart/es3-estimator/pkg/models"
)

// GrowthTrend describes how a metric grows over time
type GrowthTrend struct {
	RatePerMonth    float64 // % growth per month
	Confidence      float64 // R² of the fitted line
	Predicted3Month float64
	Predicted6Month float64
	IsGrowing       bool
}

// minGrowthSamples is roughly a day of hourly storage snapshots
const minGrowthSamples = 24

// CalculateGrowthTrend fits a line through the samples and extrapolates 3
// and 6 months out. Used against storage-size snapshots to project how the
// storage tier will grow.
func CalculateGrowthTrend(samples []models.Sample) (*GrowthTrend, error) {
	if len(samples) < minGrowthSamples {
		return nil, fmt.Errorf("insufficient data for trend analysis (need %d+ samples, got %d)",
			minGrowthSamples, len(samples))
	}

	startTime := samples[0].Timestamp
	x := make([]float64, len(samples)) // hours since start
	y := make([]float64, len(samples))
	for i, sample := range samples {
		x[i] = sample.Timestamp.Sub(startTime).Hours()
		y[i] = sample.Value
	}

	slope, intercept, r2 := linearRegression(x, y)
	currentAvg := calculateAverage(y)

	hoursPerMonth := 24.0 * 30.0
	absoluteGrowthPerMonth := slope * hoursPerMonth

	var ratePerMonth float64
	if currentAvg > 0 {
		ratePerMonth = (absoluteGrowthPerMonth / currentAvg) * 100.0
	}

	currentHours := x[len(x)-1]
	predicted3Month := slope*(currentHours+24*90) + intercept
	predicted6Month := slope*(currentHours+24*180) + intercept

	if predicted3Month < 0 {
		predicted3Month = currentAvg
	}
	if predicted6Month < 0 {
		predicted6Month = currentAvg
	}

	return &GrowthTrend{
		RatePerMonth:    ratePerMonth,
		Confidence:      r2,
		Predicted3Month: predicted3Month,
		Predicted6Month: predicted6Month,
		IsGrowing:       ratePerMonth > 3.0,
	}, nil
}

// linearRegression performs simple linear regression
// Returns: slope, intercept, R² (coefficient of determination)
func linearRegression(x, y []float64) (slope, intercept, r2 float64) {
	n := float64(len(x))
	if n == 0 {
		return 0, 0, 0
	}

	meanX := calculateAverage(x)
	meanY := calculateAverage(y)

	numerator := 0.0
	denominator := 0.0
	for i := 0; i < len(x); i++ {
		numerator += (x[i] - meanX) * (y[i] - meanY)
		denominator += (x[i] - meanX) * (x[i] - meanX)
	}
	if denominator == 0 {
		return 0, meanY, 0
	}

	slope = numerator / denominator
	intercept = meanY - slope*meanX

	ssTotal := 0.0
	ssRes := 0.0
	for i := 0; i < len(x); i++ {
		predicted := slope*x[i] + intercept
		ssRes += (y[i] - predicted) * (y[i] - predicted)
		ssTotal += (y[i] - meanY) * (y[i] - meanY)
	}

	if ssTotal == 0 {
		r2 = 0
	} else {
		r2 = 1.0 - (ssRes / ssTotal)
	}
	if r2 < 0 {
		r2 = 0
	} else if r2 > 1 {
		r2 = 1
	}

	return slope, intercept, r2
}
