package report

import (
	"fmt"
	"strings"

	"github.com/jason-fintech/loan-api-tests/internal/testing/suite"
	"github.com/sirupsen/logrus"
)

const maxDetailWidth = 60

// ResultsFormatter formats case results as a table.
type ResultsFormatter struct {
	log      logrus.FieldLogger
	renderer Renderer
	colors   *ColorHelper
}

// NewResultsFormatter creates a new results table formatter.
func NewResultsFormatter(log logrus.FieldLogger, renderer Renderer) *ResultsFormatter {
	return &ResultsFormatter{
		log:      log.WithField("component", "report.results_formatter"),
		renderer: renderer,
		colors:   NewColorHelper(),
	}
}

// Format renders one row per case followed by failure details.
func (f *ResultsFormatter) Format(result *suite.Result) string {
	if result == nil || len(result.Cases) == 0 {
		return "No test cases executed"
	}

	var (
		headers     = []string{"#", "Case", "Request", "Status", "HTTP", "Duration", "Details"}
		rows        = make([][]string, 0, len(result.Cases))
		failedCases = make([]suite.CaseResult, 0)
	)

	for _, c := range result.Cases {
		var details string

		switch c.Status {
		case suite.StatusFailed:
			failedCases = append(failedCases, c)

			details = f.colors.Failure(fmt.Sprintf("%d failure(s)", len(c.Failures)))
			if len(c.Failures) > 0 {
				details += " - " + f.colors.Muted(truncate(c.Failures[0], maxDetailWidth))
			}
		case suite.StatusSkipped:
			details = f.colors.Muted(c.SkipReason)
		}

		request := "-"
		if c.URL != "" {
			request = c.Method + " " + strings.TrimPrefix(c.URL, result.BaseURL)
		}

		rows = append(rows, []string{
			fmt.Sprintf("%d", c.Order),
			c.Name,
			request,
			f.colors.FormatStatus(c.Status),
			f.colors.FormatHTTPStatus(c.ResponseStatus),
			formatDuration(c.Elapsed),
			details,
		})
	}

	f.log.WithFields(logrus.Fields{
		"cases":  len(rows),
		"failed": len(failedCases),
	}).Debug("Formatted results table")

	output := "\n" + f.colors.Header("▸ Test Results") + "\n\n" + f.renderer.RenderToString(headers, rows, WithRowSeparator(len(rows) > 1))

	if len(failedCases) > 0 {
		output += f.formatFailureDetails(failedCases)
	}

	return output
}

// formatFailureDetails lists every failure message and a curl command to reproduce each failed case.
func (f *ResultsFormatter) formatFailureDetails(failedCases []suite.CaseResult) string {
	var builder strings.Builder

	builder.WriteString("\n" + f.colors.Header("▸ Failed Case Details") + "\n\n")

	for i, c := range failedCases {
		if i > 0 {
			builder.WriteString("\n")
		}

		builder.WriteString(fmt.Sprintf("%s (%s)\n", f.colors.Bold(c.Name), formatDuration(c.Elapsed)))

		if len(c.Failures) == 0 {
			builder.WriteString(fmt.Sprintf("  %s: case failed (no details available)\n", f.colors.Failure("Error")))
		}

		for _, msg := range c.Failures {
			builder.WriteString(fmt.Sprintf("  %s %s\n", f.colors.Failure("✗"), msg))
		}

		if c.Curl != "" {
			builder.WriteString(fmt.Sprintf("    %s: %s\n", f.colors.Info("Reproduce"), c.Curl))
		}
	}

	return builder.String()
}
