package report

import (
	"fmt"
	"io"

	"github.com/jason-fintech/loan-api-tests/internal/testing/suite"
)

// ConsoleListener prints one progress line per case as the suite runs.
type ConsoleListener struct {
	out     io.Writer
	colors  *ColorHelper
	verbose bool
}

var _ suite.Listener = (*ConsoleListener)(nil)

// NewConsoleListener writes progress to out. In verbose mode failure messages
// are printed beneath each failed case.
func NewConsoleListener(out io.Writer, verbose bool) *ConsoleListener {
	return &ConsoleListener{
		out:     out,
		colors:  NewColorHelper(),
		verbose: verbose,
	}
}

func (l *ConsoleListener) SuiteStarted(result *suite.Result) {
	fmt.Fprintf(l.out, "%s %s (%s)\n",
		l.colors.Header("▸ Running suite against"),
		result.Environment,
		result.BaseURL,
	)
}

func (l *ConsoleListener) CaseStarted(*suite.Case) {}

func (l *ConsoleListener) CaseFinished(result *suite.CaseResult) {
	line := fmt.Sprintf("  %s  %2d. %s", l.colors.FormatStatus(result.Status), result.Order, result.Name)

	if result.ResponseStatus != 0 {
		line += l.colors.Muted(fmt.Sprintf(" [%d, %s]", result.ResponseStatus, formatDuration(result.Elapsed)))
	}

	fmt.Fprintln(l.out, line)

	if l.verbose {
		for _, msg := range result.Failures {
			fmt.Fprintf(l.out, "        %s\n", l.colors.Failure(msg))
		}
	}
}

func (l *ConsoleListener) SuiteFinished(result *suite.Result) {
	summary := Summarize(result)

	fmt.Fprintf(l.out, "  %d passed, %d failed, %d skipped in %s\n",
		summary.Passed, summary.Failed, summary.Skipped, formatDuration(summary.Elapsed))
}

// MultiListener fans notifications out to several listeners in order.
type MultiListener []suite.Listener

var _ suite.Listener = MultiListener(nil)

func (m MultiListener) SuiteStarted(result *suite.Result) {
	for _, l := range m {
		l.SuiteStarted(result)
	}
}

func (m MultiListener) CaseStarted(c *suite.Case) {
	for _, l := range m {
		l.CaseStarted(c)
	}
}

func (m MultiListener) CaseFinished(result *suite.CaseResult) {
	for _, l := range m {
		l.CaseFinished(result)
	}
}

func (m MultiListener) SuiteFinished(result *suite.Result) {
	for _, l := range m {
		l.SuiteFinished(result)
	}
}
