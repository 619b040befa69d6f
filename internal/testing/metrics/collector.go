// Package metrics collects request timing and status code statistics during a suite run.
package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/jason-fintech/loan-api-tests/internal/testing/suite"
	"github.com/sirupsen/logrus"
)

// RequestMetric captures one completed request.
type RequestMetric struct {
	Case     string
	Method   string
	Status   int
	Duration time.Duration
}

// LatencySummary provides aggregate statistics across completed requests.
type LatencySummary struct {
	Requests    int
	Min         time.Duration
	Max         time.Duration
	Mean        time.Duration
	P95         time.Duration
	StatusCodes map[int]int
}

// Collector records request metrics. It is a suite.Listener so it can be
// attached to a runner alongside console output.
type Collector interface {
	suite.Listener
	RecordRequest(metric RequestMetric)
	GetRequestMetrics() []RequestMetric
	GetSummary() LatencySummary
}

type collector struct {
	log     logrus.FieldLogger
	mu      sync.RWMutex
	metrics []RequestMetric
}

// NewCollector creates a new metrics collector
func NewCollector(log logrus.FieldLogger) Collector {
	return &collector{
		log:     log.WithField("component", "metrics_collector"),
		metrics: make([]RequestMetric, 0, 16),
	}
}

func (c *collector) SuiteStarted(result *suite.Result) {
	c.log.WithField("run_id", result.RunID).Debug("metrics collector started")
}

func (c *collector) CaseStarted(*suite.Case) {}

// CaseFinished records the case when a response was received.
func (c *collector) CaseFinished(result *suite.CaseResult) {
	if result.ResponseStatus == 0 {
		return
	}

	c.RecordRequest(RequestMetric{
		Case:     result.Name,
		Method:   result.Method,
		Status:   result.ResponseStatus,
		Duration: result.Elapsed,
	})
}

func (c *collector) SuiteFinished(*suite.Result) {
	c.log.WithField("requests", len(c.GetRequestMetrics())).Debug("metrics collector stopped")
}

func (c *collector) RecordRequest(metric RequestMetric) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = append(c.metrics, metric)
}

func (c *collector) GetRequestMetrics() []RequestMetric {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]RequestMetric, len(c.metrics))
	copy(result, c.metrics)
	return result
}

func (c *collector) GetSummary() LatencySummary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	summary := LatencySummary{
		Requests:    len(c.metrics),
		StatusCodes: make(map[int]int),
	}

	if len(c.metrics) == 0 {
		return summary
	}

	durations := make([]time.Duration, 0, len(c.metrics))

	var total time.Duration

	for _, m := range c.metrics {
		durations = append(durations, m.Duration)
		total += m.Duration
		summary.StatusCodes[m.Status]++
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	summary.Min = durations[0]
	summary.Max = durations[len(durations)-1]
	summary.Mean = total / time.Duration(len(durations))
	summary.P95 = percentile(durations, 95)

	return summary
}

// percentile uses the nearest-rank method on sorted durations.
func percentile(sorted []time.Duration, p int) time.Duration {
	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}

	return sorted[rank-1]
}

var _ Collector = (*collector)(nil)
