package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jason-fintech/loan-api-tests/internal/testing/suite"
	"github.com/xuri/excelize/v2"
)

const (
	resultsSheet = "Results"
	summarySheet = "Summary"

	failedFill = "FFC7CE"
	skipFill   = "EDEDED"
	slowFill   = "FFEB9C"
)

var xlsxHeaders = []string{
	"Order", "Case", "Method", "URL", "Status", "HTTP Status", "Latency (ms)", "Failures", "cURL",
}

// WriteXLSX writes a workbook with a results sheet and a summary sheet. Failed
// rows are red, skipped rows grey, and passed rows slower than slow yellow.
func WriteXLSX(path string, result *suite.Result, summary Summary, slow time.Duration) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare output directory for %q: %w", path, err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	styles, err := newRowStyles(f)
	if err != nil {
		return err
	}

	if err := writeResultsSheet(f, result, styles, slow); err != nil {
		return err
	}

	if err := writeSummarySheet(f, result, summary); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %q: %w", path, err)
	}

	return nil
}

type rowStyles struct {
	header int
	failed int
	skip   int
	slow   int
}

func newRowStyles(f *excelize.File) (rowStyles, error) {
	var (
		styles rowStyles
		err    error
	)

	if styles.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return styles, fmt.Errorf("create header style: %w", err)
	}

	for _, fill := range []struct {
		target *int
		color  string
	}{
		{&styles.failed, failedFill},
		{&styles.skip, skipFill},
		{&styles.slow, slowFill},
	} {
		*fill.target, err = f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill.color}},
		})
		if err != nil {
			return styles, fmt.Errorf("create fill style: %w", err)
		}
	}

	return styles, nil
}

func writeResultsSheet(f *excelize.File, result *suite.Result, styles rowStyles, slow time.Duration) error {
	if err := f.SetSheetRow(resultsSheet, "A1", &xlsxHeaders); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(xlsxHeaders))

	if err := f.SetCellStyle(resultsSheet, "A1", lastCol+"1", styles.header); err != nil {
		return fmt.Errorf("style header row: %w", err)
	}

	for i, c := range result.Cases {
		row := i + 2
		start := fmt.Sprintf("A%d", row)
		end := fmt.Sprintf("%s%d", lastCol, row)

		values := []interface{}{
			c.Order,
			c.Name,
			c.Method,
			c.URL,
			string(c.Status),
			c.ResponseStatus,
			c.Elapsed.Milliseconds(),
			strings.Join(c.Failures, "\n"),
			c.Curl,
		}

		if err := f.SetSheetRow(resultsSheet, start, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}

		style := 0

		switch {
		case c.Status == suite.StatusFailed:
			style = styles.failed
		case c.Status == suite.StatusSkipped:
			style = styles.skip
		case slow > 0 && c.Elapsed > slow:
			style = styles.slow
		}

		if style != 0 {
			if err := f.SetCellStyle(resultsSheet, start, end, style); err != nil {
				return fmt.Errorf("style row %d: %w", row, err)
			}
		}
	}

	if err := f.SetColWidth(resultsSheet, "B", "B", 32); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.SetColWidth(resultsSheet, "D", "D", 48); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	return nil
}

func writeSummarySheet(f *excelize.File, result *suite.Result, summary Summary) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Run ID", result.RunID},
		{"Environment", result.Environment.String()},
		{"Base URL", result.BaseURL},
		{"Started", result.Started.Format(time.RFC3339)},
		{"Total", summary.Total},
		{"Passed", summary.Passed},
		{"Failed", summary.Failed},
		{"Skipped", summary.Skipped},
		{"Elapsed (ms)", summary.Elapsed.Milliseconds()},
	}

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}

	return nil
}
