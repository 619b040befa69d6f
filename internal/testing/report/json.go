package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jason-fintech/loan-api-tests/internal/testing/suite"
)

// Document is the persisted JSON form of a suite run.
type Document struct {
	RunID       string       `json:"run_id"`
	Environment string       `json:"environment"`
	BaseURL     string       `json:"base_url"`
	Started     time.Time    `json:"started"`
	ElapsedMS   int64        `json:"elapsed_ms"`
	Summary     Summary      `json:"summary"`
	Results     []CaseRecord `json:"results"`
}

// CaseRecord is the persisted form of one case result.
type CaseRecord struct {
	Order      int      `json:"order"`
	Name       string   `json:"name"`
	Method     string   `json:"method"`
	URL        string   `json:"url,omitempty"`
	Status     string   `json:"status"`
	HTTPStatus int      `json:"http_status,omitempty"`
	LatencyMS  int64    `json:"latency_ms"`
	Failures   []string `json:"failures,omitempty"`
	SkipReason string   `json:"skip_reason,omitempty"`
	Curl       string   `json:"curl,omitempty"`
}

// NewDocument builds the JSON document for a run.
func NewDocument(result *suite.Result, summary Summary) Document {
	doc := Document{
		RunID:       result.RunID,
		Environment: result.Environment.String(),
		BaseURL:     result.BaseURL,
		Started:     result.Started,
		ElapsedMS:   result.Elapsed.Milliseconds(),
		Summary:     summary,
		Results:     make([]CaseRecord, 0, len(result.Cases)),
	}

	for _, c := range result.Cases {
		doc.Results = append(doc.Results, CaseRecord{
			Order:      c.Order,
			Name:       c.Name,
			Method:     c.Method,
			URL:        c.URL,
			Status:     string(c.Status),
			HTTPStatus: c.ResponseStatus,
			LatencyMS:  c.Elapsed.Milliseconds(),
			Failures:   c.Failures,
			SkipReason: c.SkipReason,
			Curl:       c.Curl,
		})
	}

	return doc
}

// WriteJSON writes the run as indented JSON, creating parent directories.
func WriteJSON(path string, result *suite.Result, summary Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare output directory for %q: %w", path, err)
	}

	b, err := json.MarshalIndent(NewDocument(result, summary), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json %q: %w", path, err)
	}

	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write json file %q: %w", path, err)
	}

	return nil
}
