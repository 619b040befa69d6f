package report

import (
	"fmt"

	"github.com/jason-fintech/loan-api-tests/internal/testing/metrics"
	"github.com/jason-fintech/loan-api-tests/internal/testing/suite"
	"github.com/sirupsen/logrus"
)

// SummaryFormatter formats summary statistics as a table.
type SummaryFormatter struct {
	log      logrus.FieldLogger
	renderer Renderer
	colors   *ColorHelper
}

// NewSummaryFormatter creates a new summary table formatter.
func NewSummaryFormatter(log logrus.FieldLogger, renderer Renderer) *SummaryFormatter {
	return &SummaryFormatter{
		log:      log.WithField("component", "report.summary_formatter"),
		renderer: renderer,
		colors:   NewColorHelper(),
	}
}

// Format renders the run summary. Latency rows are included when latency is
// not nil and at least one request completed.
func (f *SummaryFormatter) Format(result *suite.Result, summary Summary, latency *metrics.LatencySummary) string {
	passRate := summary.PassRate()

	passedValue := fmt.Sprintf("%d (%s)", summary.Passed, f.colors.FormatPercentage(passRate))
	if summary.Failed == 0 {
		passedValue = f.colors.Success(fmt.Sprintf("%d (%.1f%%)", summary.Passed, passRate))
	}

	failedValue := f.colors.Success("0")
	if summary.Failed > 0 {
		failedValue = f.colors.Failure(fmt.Sprintf("%d", summary.Failed))
	}

	skippedValue := fmt.Sprintf("%d", summary.Skipped)
	if summary.Skipped > 0 {
		skippedValue = f.colors.Muted(skippedValue)
	}

	var (
		headers = []string{"Metric", "Value"}
		rows    = [][]string{
			{"Environment", f.colors.Bold(result.Environment.String())},
			{"Base URL", result.BaseURL},
			{"Run ID", f.colors.Muted(result.RunID)},
			{"Total Cases", f.colors.Bold(fmt.Sprintf("%d", summary.Total))},
			{"Passed", passedValue},
			{"Failed", failedValue},
			{"Skipped", skippedValue},
			{"Total Duration", formatDuration(summary.Elapsed)},
		}
	)

	if latency != nil && latency.Requests > 0 {
		rows = append(rows,
			[]string{"Requests", fmt.Sprintf("%d", latency.Requests)},
			[]string{"Latency min/avg/max", fmt.Sprintf("%s / %s / %s",
				formatDuration(latency.Min), formatDuration(latency.Mean), formatDuration(latency.Max))},
			[]string{"Latency p95", formatDuration(latency.P95)},
		)
	}

	f.log.WithField("rows", len(rows)).Debug("Formatted summary table")

	return "\n" + f.colors.Header("▸ Summary") + "\n\n" + f.renderer.RenderToString(headers, rows)
}
