package suite

import (
	"time"

	"github.com/jason-fintech/loan-api-tests/internal/config"
)

// Status is the outcome of a single case.
type Status string

const (
	StatusPassed  Status = "PASSED"
	StatusFailed  Status = "FAILED"
	StatusSkipped Status = "SKIPPED"
)

// CaseResult is the structured outcome of one case. It carries no formatting.
type CaseResult struct {
	Name   string
	Order  int
	Method string
	URL    string
	Status Status
	// Failures holds one message per failed assertion or error.
	Failures []string
	// Errors holds the underlying errors, in the same order as Failures.
	Errors []error
	// SkipReason explains a skipped case.
	SkipReason string
	// Elapsed is the measured request time, zero when no request was sent.
	Elapsed        time.Duration
	ResponseStatus int
	Curl           string
}

// OK reports whether the case did not fail.
func (r *CaseResult) OK() bool {
	return r.Status != StatusFailed
}

func (r *CaseResult) addError(err error) {
	r.Status = StatusFailed
	r.Errors = append(r.Errors, err)
	r.Failures = append(r.Failures, err.Error())
}

// Result is the outcome of a suite run.
type Result struct {
	RunID       string
	Environment config.Environment
	BaseURL     string
	Cases       []CaseResult
	Started     time.Time
	Elapsed     time.Duration
}

// OK reports whether no case failed.
func (r *Result) OK() bool {
	for i := range r.Cases {
		if !r.Cases[i].OK() {
			return false
		}
	}
	return true
}

// Failed returns the failed case results.
func (r *Result) Failed() []CaseResult {
	var failed []CaseResult

	for _, c := range r.Cases {
		if c.Status == StatusFailed {
			failed = append(failed, c)
		}
	}

	return failed
}
