// Package casedef loads API test cases from YAML files.
package casedef

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jason-fintech/loan-api-tests/internal/testing/assertion"
	"github.com/jason-fintech/loan-api-tests/internal/testing/suite"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var (
	errNoCases                 = errors.New("file defines no cases")
	errCaseNameRequired        = errors.New("case name is required")
	errCaseOrderRequired       = errors.New("case order is required")
	errCasePathRequired        = errors.New("case path is required")
	errInvalidMethod           = errors.New("invalid HTTP method")
	errAssertionMissingType    = errors.New("assertion missing type")
	errAssertionInvalidType    = errors.New("assertion has invalid type")
	errAssertionMissingPath    = errors.New("assertion missing path")
	errAssertionMissingName    = errors.New("assertion missing header name")
	errAssertionMissingValue   = errors.New("assertion missing value")
	errAssertionInvalidValue   = errors.New("assertion has invalid value")
	errAssertionInvalidPattern = errors.New("assertion has invalid pattern")
)

var validMethods = map[string]bool{
	"GET":     true,
	"POST":    true,
	"PUT":     true,
	"PATCH":   true,
	"DELETE":  true,
	"HEAD":    true,
	"OPTIONS": true,
}

// File is the top level of a case definition file.
type File struct {
	Cases []*CaseDefinition `yaml:"cases"`
}

// CaseDefinition is the YAML form of a suite.Case.
type CaseDefinition struct {
	Name        string                 `yaml:"name"`
	Order       *int                   `yaml:"order"`
	Method      string                 `yaml:"method"`
	Path        string                 `yaml:"path"`
	PathParams  map[string]string      `yaml:"path_params,omitempty"`
	StateParams map[string]string      `yaml:"state_params,omitempty"`
	Query       map[string]string      `yaml:"query,omitempty"`
	Headers     map[string]string      `yaml:"headers,omitempty"`
	Body        interface{}            `yaml:"body,omitempty"`
	Requires    []string               `yaml:"requires,omitempty"`
	Captures    map[string]string      `yaml:"captures,omitempty"`
	Assertions  []*AssertionDefinition `yaml:"assertions"`
}

// AssertionDefinition is the YAML form of an assertion. Which fields apply
// depends on Type.
type AssertionDefinition struct {
	Type    string      `yaml:"type"`
	Path    string      `yaml:"path,omitempty"`
	Name    string      `yaml:"name,omitempty"`
	Value   interface{} `yaml:"value,omitempty"`
	Values  []int       `yaml:"values,omitempty"`
	Pattern string      `yaml:"pattern,omitempty"`
}

// Loader loads case definition files.
type Loader interface {
	LoadFile(path string) ([]suite.Case, error)
	LoadDir(dir string) ([]suite.Case, error)
	// Load loads a single file or every YAML file in a directory.
	Load(path string) ([]suite.Case, error)
}

type loader struct {
	log logrus.FieldLogger
}

// NewLoader creates a new case definition loader.
func NewLoader(log logrus.FieldLogger) Loader {
	return &loader{
		log: log.WithField("component", "casedef_loader"),
	}
}

func (l *loader) Load(path string) ([]suite.Case, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if info.IsDir() {
		return l.LoadDir(path)
	}

	return l.LoadFile(path)
}

// LoadFile loads and validates every case in one file.
func (l *loader) LoadFile(path string) ([]suite.Case, error) {
	l.log.WithField("path", path).Debug("loading case definitions")

	file, err := l.loadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading cases from %s: %w", path, err)
	}

	if len(file.Cases) == 0 {
		return nil, fmt.Errorf("%w: %s", errNoCases, path)
	}

	cases := make([]suite.Case, 0, len(file.Cases))

	for i, def := range file.Cases {
		c, err := def.ToCase()
		if err != nil {
			return nil, fmt.Errorf("validating case %d in %s: %w", i, path, err)
		}

		cases = append(cases, c)
	}

	return cases, nil
}

// LoadDir loads every .yaml and .yml file in dir in name order. Any invalid
// file fails the whole load.
func (l *loader) LoadDir(dir string) ([]suite.Case, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if ext := filepath.Ext(entry.Name()); ext == ".yaml" || ext == ".yml" {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)

	var cases []suite.Case

	for _, name := range names {
		loaded, err := l.LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}

		cases = append(cases, loaded...)
	}

	if len(cases) == 0 {
		return nil, fmt.Errorf("%w: no case files in %s", errNoCases, dir)
	}

	l.log.WithFields(logrus.Fields{
		"dir":   dir,
		"files": len(names),
		"cases": len(cases),
	}).Debug("loaded case definitions")

	return cases, nil
}

// loadFile reads and parses a YAML case definition file
func (l *loader) loadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the --cases flag
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a case definition document.
func Parse(data []byte) (*File, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}

	return &file, nil
}

// ToCase validates the definition and converts it to a runnable case.
func (d *CaseDefinition) ToCase() (suite.Case, error) {
	if strings.TrimSpace(d.Name) == "" {
		return suite.Case{}, errCaseNameRequired
	}

	if d.Order == nil {
		return suite.Case{}, fmt.Errorf("%w: %s", errCaseOrderRequired, d.Name)
	}

	if d.Path == "" {
		return suite.Case{}, fmt.Errorf("%w: %s", errCasePathRequired, d.Name)
	}

	method := strings.ToUpper(d.Method)
	if method == "" {
		method = "GET"
	}

	if !validMethods[method] {
		return suite.Case{}, fmt.Errorf("%w: %s has method %q", errInvalidMethod, d.Name, d.Method)
	}

	assertions := make([]assertion.Assertion, 0, len(d.Assertions))

	for i, def := range d.Assertions {
		a, err := def.build()
		if err != nil {
			return suite.Case{}, fmt.Errorf("case %s, assertion %d: %w", d.Name, i, err)
		}

		assertions = append(assertions, a)
	}

	return suite.Case{
		Name:        d.Name,
		Order:       *d.Order,
		Method:      method,
		Path:        d.Path,
		PathParams:  d.PathParams,
		StateParams: d.StateParams,
		Query:       d.Query,
		Headers:     d.Headers,
		Body:        d.Body,
		Assertions:  assertions,
		Requires:    d.Requires,
		Captures:    d.Captures,
	}, nil
}

//nolint:gocyclo // one branch per assertion type
func (d *AssertionDefinition) build() (assertion.Assertion, error) {
	switch d.Type {
	case "":
		return nil, errAssertionMissingType
	case "status_equals":
		code, err := intValue(d.Value)
		if err != nil {
			return nil, err
		}
		return assertion.StatusEquals(code), nil
	case "status_in":
		if len(d.Values) == 0 {
			return nil, fmt.Errorf("%w: status_in needs values", errAssertionMissingValue)
		}
		return assertion.StatusIn(d.Values...), nil
	case "body_field_equals":
		if d.Path == "" {
			return nil, errAssertionMissingPath
		}
		if d.Value == nil {
			return nil, errAssertionMissingValue
		}
		return assertion.BodyFieldEquals(d.Path, d.Value), nil
	case "body_field_not_null":
		if d.Path == "" {
			return nil, errAssertionMissingPath
		}
		return assertion.BodyFieldNotNull(d.Path), nil
	case "body_field_matches":
		if d.Path == "" {
			return nil, errAssertionMissingPath
		}
		pattern, err := regexp.Compile(d.Pattern)
		if err != nil || d.Pattern == "" {
			return nil, fmt.Errorf("%w: %q", errAssertionInvalidPattern, d.Pattern)
		}
		return assertion.BodyFieldMatches(d.Path, pattern), nil
	case "body_size_greater_than":
		n, err := intValue(d.Value)
		if err != nil {
			return nil, err
		}
		return assertion.BodySizeGreaterThan(n), nil
	case "header_contains":
		if d.Name == "" {
			return nil, errAssertionMissingName
		}
		text, ok := d.Value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: header_contains needs a string value", errAssertionInvalidValue)
		}
		return assertion.HeaderContains(d.Name, text), nil
	case "elapsed_less_than":
		ms, err := intValue(d.Value)
		if err != nil {
			return nil, err
		}
		if ms <= 0 {
			return nil, fmt.Errorf("%w: elapsed limit must be positive", errAssertionInvalidValue)
		}
		return assertion.ElapsedLessThan(time.Duration(ms) * time.Millisecond), nil
	default:
		return nil, fmt.Errorf("%w: %q (must be one of: %s)", errAssertionInvalidType, d.Type, strings.Join(assertionTypes(), ", "))
	}
}

func assertionTypes() []string {
	return []string{
		"status_equals",
		"status_in",
		"body_field_equals",
		"body_field_not_null",
		"body_field_matches",
		"body_size_greater_than",
		"header_contains",
		"elapsed_less_than",
	}
}

// intValue accepts YAML integers and whole floats.
func intValue(v interface{}) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, errAssertionMissingValue
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	}

	return 0, fmt.Errorf("%w: %v is not an integer", errAssertionInvalidValue, v)
}
