// Package report aggregates suite results and renders them for people and files.
package report

import (
	"time"

	"github.com/jason-fintech/loan-api-tests/internal/testing/suite"
)

// CaseFailure lists the failure messages of one failed case.
type CaseFailure struct {
	Name     string   `json:"name"`
	Messages []string `json:"messages"`
}

// Summary aggregates a suite run.
type Summary struct {
	Total    int           `json:"total"`
	Passed   int           `json:"passed"`
	Failed   int           `json:"failed"`
	Skipped  int           `json:"skipped"`
	Failures []CaseFailure `json:"failures,omitempty"`
	Elapsed  time.Duration `json:"-"`
}

// Summarize counts outcomes and collects failure messages. It has no side effects.
func Summarize(result *suite.Result) Summary {
	var summary Summary

	if result == nil {
		return summary
	}

	summary.Total = len(result.Cases)
	summary.Elapsed = result.Elapsed

	for _, c := range result.Cases {
		switch c.Status {
		case suite.StatusPassed:
			summary.Passed++
		case suite.StatusSkipped:
			summary.Skipped++
		case suite.StatusFailed:
			summary.Failed++
			summary.Failures = append(summary.Failures, CaseFailure{
				Name:     c.Name,
				Messages: append([]string(nil), c.Failures...),
			})
		}
	}

	return summary
}

// OK reports whether no case failed. The process exit status follows it.
func (s Summary) OK() bool {
	return s.Failed == 0
}

// PassRate is the percentage of executed cases that passed. Skipped cases are
// not executed.
func (s Summary) PassRate() float64 {
	executed := s.Passed + s.Failed
	if executed == 0 {
		return 0
	}

	return float64(s.Passed) / float64(executed) * 100.0
}
