// Package suite runs ordered API test cases against a resolved environment.
package suite

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jason-fintech/loan-api-tests/internal/config"
	"github.com/jason-fintech/loan-api-tests/internal/testing/assertion"
)

var (
	// ErrNoCases is returned when a run is started without any cases.
	ErrNoCases = errors.New("no test cases")
	// ErrDuplicateOrder is returned when two cases declare the same order.
	ErrDuplicateOrder = errors.New("duplicate case order")
	// ErrInvalidCase is returned when a case definition is incomplete.
	ErrInvalidCase = errors.New("invalid test case")
	// ErrMissingDependency is recorded when a case needs captured state that an
	// earlier case did not produce.
	ErrMissingDependency = errors.New("missing dependency")
	// ErrSuiteSetup is returned when the before-suite hook fails.
	ErrSuiteSetup = errors.New("suite setup failed")

	errUnresolvedPlaceholder = errors.New("unresolved path placeholder")
	errCaptureFailed         = errors.New("capture failed")
)

// Case is a single request plus the assertions that judge its response.
type Case struct {
	Name string
	// Order fixes the execution position. Cases run in ascending order.
	Order  int
	Method string
	// Path is appended to the base URL and may contain {placeholders}.
	Path string
	// PathParams fills placeholders with literal values.
	PathParams map[string]string
	// StateParams fills placeholders from captured state, keyed by placeholder.
	StateParams map[string]string
	Query       map[string]string
	Headers     map[string]string
	Body        interface{}
	Assertions  []assertion.Assertion
	// Requires lists state keys that must exist before the request is sent,
	// in addition to those referenced by StateParams.
	Requires []string
	// Captures maps a state key to the body path stored when the case passes.
	Captures map[string]string
}

// Dependencies returns every state key the case reads, sorted.
func (c *Case) Dependencies() []string {
	seen := make(map[string]struct{}, len(c.Requires)+len(c.StateParams))

	for _, key := range c.Requires {
		seen[key] = struct{}{}
	}

	for _, key := range c.StateParams {
		seen[key] = struct{}{}
	}

	deps := make([]string, 0, len(seen))
	for key := range seen {
		deps = append(deps, key)
	}

	sort.Strings(deps)

	return deps
}

// Hooks are optional callbacks around the suite and each case. AfterCase and
// AfterSuite run regardless of outcomes once setup has completed.
type Hooks struct {
	BeforeSuite func(ctx context.Context, env config.Resolved) error
	AfterSuite  func(ctx context.Context, result *Result)
	BeforeCase  func(ctx context.Context, c *Case)
	AfterCase   func(ctx context.Context, c *Case, result *CaseResult)
}

// prepareCases validates the cases and returns a copy sorted by Order.
func prepareCases(cases []Case) ([]Case, error) {
	if len(cases) == 0 {
		return nil, ErrNoCases
	}

	orders := make(map[int]string, len(cases))
	names := make(map[string]struct{}, len(cases))

	for i := range cases {
		c := &cases[i]

		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("%w: case at index %d has no name", ErrInvalidCase, i)
		}

		if _, exists := names[c.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidCase, c.Name)
		}
		names[c.Name] = struct{}{}

		if c.Path == "" {
			return nil, fmt.Errorf("%w: case %q has no path", ErrInvalidCase, c.Name)
		}

		if other, exists := orders[c.Order]; exists {
			return nil, fmt.Errorf("%w: %d used by %q and %q", ErrDuplicateOrder, c.Order, other, c.Name)
		}
		orders[c.Order] = c.Name
	}

	sorted := append([]Case(nil), cases...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	return sorted, nil
}
