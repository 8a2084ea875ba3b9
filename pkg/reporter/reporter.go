package reporter

import (
	"fmt"
	"io"

	"github.com/opscart/es3-estimator/pkg/models"
	"github.com/opscart/es3-estimator/pkg/recommender"
)

// ReportFormat represents the output format
type ReportFormat string

const (
	FormatText ReportFormat = "text"
	FormatCSV  ReportFormat = "csv"
	FormatHTML ReportFormat = "html"
)

// Report bundles a cost report with the derived capacity guidance.
type Report struct {
	Cost     *models.CostReport
	Guidance recommender.Recommendation
}

// Reporter renders cost reports in a chosen format
type Reporter struct {
	format ReportFormat
}

// New creates a new reporter
func New(format ReportFormat) *Reporter {
	return &Reporter{format: format}
}

// Generate builds the renderable report from a cost report.
func (r *Reporter) Generate(cost *models.CostReport) (*Report, error) {
	if cost == nil {
		return nil, fmt.Errorf("cost report is nil")
	}
	return &Report{
		Cost:     cost,
		Guidance: recommender.Recommend(cost),
	}, nil
}

// Render writes the report to the writer in the configured format.
func (r *Reporter) Render(report *Report, w io.Writer) error {
	switch r.format {
	case FormatText:
		return GenerateText(report, w)
	case FormatCSV:
		return GenerateCSV(report, w)
	case FormatHTML:
		return GenerateHTML(report, w)
	default:
		return fmt.Errorf("unsupported report format: %s", r.format)
	}
}
