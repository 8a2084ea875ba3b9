package reporter

import (
	"fmt"
	"html/template"
	"io"
)

const htmlTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>ES3 Cost Estimate - {{.Cost.ClusterID}}</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #333;
            padding: 20px;
            line-height: 1.6;
        }
        .container {
            max-width: 1000px;
            margin: 0 auto;
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 8px rgba(0, 0, 0, 0.1);
            overflow: hidden;
        }
        .header {
            background: linear-gradient(135deg, #00bfb3 0%, #0b5a57 100%);
            color: white;
            padding: 40px;
        }
        .header h1 {
            font-size: 2.2em;
            margin-bottom: 10px;
        }
        .header .meta {
            opacity: 0.85;
        }
        .content {
            padding: 40px;
        }
        .cards {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 20px;
            margin-bottom: 40px;
        }
        .card {
            background: #f8f9fb;
            border: 1px solid #e3e8ef;
            border-radius: 8px;
            padding: 20px;
        }
        .card .label {
            font-size: 0.85em;
            text-transform: uppercase;
            letter-spacing: 0.05em;
            color: #6b7a90;
        }
        .card .value {
            font-size: 1.8em;
            font-weight: 600;
            margin-top: 5px;
        }
        h2 {
            margin: 30px 0 15px;
            font-size: 1.3em;
            color: #1a2a3a;
        }
        table {
            width: 100%;
            border-collapse: collapse;
        }
        th, td {
            text-align: left;
            padding: 10px 14px;
            border-bottom: 1px solid #e3e8ef;
        }
        th {
            background: #f8f9fb;
            font-size: 0.85em;
            text-transform: uppercase;
            letter-spacing: 0.05em;
            color: #6b7a90;
        }
        tr.total td {
            font-weight: 600;
            border-top: 2px solid #1a2a3a;
        }
        .guidance {
            background: #f0faf9;
            border-left: 4px solid #00bfb3;
            padding: 20px;
            border-radius: 0 8px 8px 0;
            margin-top: 20px;
        }
        .guidance ul {
            margin: 10px 0 0 20px;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>ES3 Cost Estimate</h1>
            <div class="meta">Cluster {{.Cost.ClusterID}} &middot; generated {{.Cost.GeneratedAt.Format "2006-01-02 15:04"}}</div>
        </div>
        <div class="content">
            <div class="cards">
                <div class="card">
                    <div class="label">Total Monthly Cost</div>
                    <div class="value">${{printf "%.2f" .Cost.TotalMonthlyCost}}</div>
                </div>
                <div class="card">
                    <div class="label">Workload Profile</div>
                    <div class="value">{{.Cost.WorkloadProfile}}</div>
                </div>
                <div class="card">
                    <div class="label">Avg CPU</div>
                    <div class="value">{{printf "%.1f" .Cost.CPUSummary.Average}}%</div>
                </div>
                {{if .Cost.Stats}}
                <div class="card">
                    <div class="label">Primary Storage</div>
                    <div class="value">{{printf "%.1f" .Cost.Stats.PrimaryStorageGB}} GB</div>
                </div>
                {{end}}
            </div>

            <h2>Tier Breakdown</h2>
            <table>
                <tr><th>Tier</th><th>Required VCU</th><th>Storage (GB)</th><th>Unit Price</th><th>Monthly Cost</th></tr>
                {{range .Cost.Tiers}}
                <tr>
                    <td>{{.Tier}}</td>
                    <td>{{printf "%.2f" .RequiredVCU}}</td>
                    <td>{{printf "%.2f" .StorageGB}}</td>
                    <td>${{printf "%.4f" .UnitPrice}}</td>
                    <td>${{printf "%.2f" .MonthlyCost}}</td>
                </tr>
                {{end}}
                <tr class="total"><td colspan="4">Total</td><td>${{printf "%.2f" .Cost.TotalMonthlyCost}}</td></tr>
            </table>

            <h2>Workload Rates</h2>
            <table>
                <tr><th>Metric</th><th>Average</th><th>Peak</th><th>Avg/Peak</th><th>Samples</th></tr>
                <tr>
                    <td>Ingest (bytes/s)</td>
                    <td>{{printf "%.2f" .Cost.IngestSummary.Average}}</td>
                    <td>{{printf "%.2f" .Cost.IngestSummary.Peak}}</td>
                    <td>{{printf "%.3f" .Cost.IngestSummary.AvgToPeakRatio}}</td>
                    <td>{{.Cost.IngestSummary.SampleCount}}</td>
                </tr>
                <tr>
                    <td>Search (ops/s)</td>
                    <td>{{printf "%.2f" .Cost.SearchSummary.Average}}</td>
                    <td>{{printf "%.2f" .Cost.SearchSummary.Peak}}</td>
                    <td>{{printf "%.3f" .Cost.SearchSummary.AvgToPeakRatio}}</td>
                    <td>{{.Cost.SearchSummary.SampleCount}}</td>
                </tr>
            </table>

            <div class="guidance">
                <strong>Suggested preset: {{.Guidance.Preset}}</strong>
                <p>{{.Guidance.Rationale}}</p>
                {{if .Guidance.Actions}}
                <ul>
                    {{range .Guidance.Actions}}<li>{{.}}</li>{{end}}
                </ul>
                {{end}}
            </div>
        </div>
    </div>
</body>
</html>
`

// GenerateHTML creates an HTML report
func GenerateHTML(report *Report, writer io.Writer) error {
	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse HTML template: %w", err)
	}

	if err := tmpl.Execute(writer, report); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}

	return nil
}
