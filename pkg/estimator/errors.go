package estimator

import "errors"

var (
	// ErrInvalidWorkload is returned for a physically impossible summary
	// (peak 0 with a positive average, or average above peak). It signals
	// a data-quality problem upstream rather than a nonsensical estimate.
	ErrInvalidWorkload = errors.New("physically inconsistent workload summary")

	// ErrIncompletePricing is returned when the supplied pricing table is
	// missing a required tier price. No partial report is produced.
	ErrIncompletePricing = errors.New("missing price entry in pricing table")
)
