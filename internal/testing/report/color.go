package report

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/jason-fintech/loan-api-tests/internal/testing/suite"
)

// ColorHelper provides utilities for coloring test output
type ColorHelper struct {
	enabled bool
}

// NewColorHelper creates a new color helper
// Colors are enabled only when outputting to a terminal
func NewColorHelper() *ColorHelper {
	return &ColorHelper{
		enabled: !color.NoColor,
	}
}

// Success returns green colored text
func (c *ColorHelper) Success(text string) string {
	if !c.enabled {
		return text
	}
	return color.GreenString(text)
}

// Failure returns red colored text
func (c *ColorHelper) Failure(text string) string {
	if !c.enabled {
		return text
	}
	return color.RedString(text)
}

// Warning returns yellow colored text
func (c *ColorHelper) Warning(text string) string {
	if !c.enabled {
		return text
	}
	return color.YellowString(text)
}

// Info returns cyan colored text
func (c *ColorHelper) Info(text string) string {
	if !c.enabled {
		return text
	}
	return color.CyanString(text)
}

// Muted returns gray colored text
func (c *ColorHelper) Muted(text string) string {
	if !c.enabled {
		return text
	}
	return color.New(color.FgHiBlack).Sprint(text)
}

// Bold returns bold text
func (c *ColorHelper) Bold(text string) string {
	if !c.enabled {
		return text
	}
	return color.New(color.Bold).Sprint(text)
}

// Header returns bold cyan text for section headers
func (c *ColorHelper) Header(text string) string {
	if !c.enabled {
		return text
	}
	return color.New(color.FgCyan, color.Bold).Sprint(text)
}

// FormatStatus returns the colored label for a case status
func (c *ColorHelper) FormatStatus(status suite.Status) string {
	switch status {
	case suite.StatusPassed:
		return c.Success("✓ PASS")
	case suite.StatusSkipped:
		return c.Muted("- SKIP")
	default:
		return c.Failure("✗ FAIL")
	}
}

// FormatHTTPStatus colors a response status code by class. Zero means no response.
func (c *ColorHelper) FormatHTTPStatus(code int) string {
	if code == 0 {
		return c.Muted("-")
	}

	text := fmt.Sprintf("%d", code)

	switch {
	case code < 300:
		return c.Success(text)
	case code < 500:
		return c.Warning(text)
	default:
		return c.Failure(text)
	}
}

// FormatPercentage returns colored percentage based on value
func (c *ColorHelper) FormatPercentage(value float64) string {
	text := fmt.Sprintf("%.1f%%", value)
	if value == 100.0 {
		return c.Success(text)
	}
	if value >= 90.0 {
		return c.Warning(text)
	}
	return c.Failure(text)
}
