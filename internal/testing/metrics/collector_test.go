package metrics

import (
	"testing"
	"time"

	"github.com/jason-fintech/loan-api-tests/internal/testing/suite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Summary(t *testing.T) {
	t.Parallel()

	c := NewCollector(logrus.New())
	c.SuiteStarted(&suite.Result{RunID: "run"})

	for i, status := range []int{201, 200, 404, 200} {
		c.CaseFinished(&suite.CaseResult{
			Name:           "case",
			Method:         "GET",
			ResponseStatus: status,
			Elapsed:        time.Duration(i+1) * 100 * time.Millisecond,
		})
	}

	// No response, not a request metric.
	c.CaseFinished(&suite.CaseResult{Name: "skipped", Status: suite.StatusSkipped})
	c.SuiteFinished(&suite.Result{})

	require.Len(t, c.GetRequestMetrics(), 4)

	summary := c.GetSummary()
	assert.Equal(t, 4, summary.Requests)
	assert.Equal(t, 100*time.Millisecond, summary.Min)
	assert.Equal(t, 400*time.Millisecond, summary.Max)
	assert.Equal(t, 250*time.Millisecond, summary.Mean)
	assert.Equal(t, 400*time.Millisecond, summary.P95)
	assert.Equal(t, map[int]int{200: 2, 201: 1, 404: 1}, summary.StatusCodes)
}

func TestCollector_Empty(t *testing.T) {
	t.Parallel()

	summary := NewCollector(logrus.New()).GetSummary()
	assert.Zero(t, summary.Requests)
	assert.Zero(t, summary.P95)
	assert.Empty(t, summary.StatusCodes)
}

func TestPercentile(t *testing.T) {
	t.Parallel()

	sorted := make([]time.Duration, 20)
	for i := range sorted {
		sorted[i] = time.Duration(i+1) * time.Millisecond
	}

	assert.Equal(t, 19*time.Millisecond, percentile(sorted, 95))
	assert.Equal(t, 10*time.Millisecond, percentile(sorted, 50))
	assert.Equal(t, 1*time.Millisecond, percentile(sorted[:1], 95))
}
