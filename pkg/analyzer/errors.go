package analyzer

import "errors"

var (
	// ErrEmptySeries is returned when a required metric has no samples in
	// the requested window.
	ErrEmptySeries = errors.New("no samples for metric in window")

	// ErrInsufficientSamples is returned when a derivative is requested
	// over fewer than two samples.
	ErrInsufficientSamples = errors.New("fewer than two samples, cannot derive rate")
)
