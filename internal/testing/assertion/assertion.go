// Package assertion provides response assertions for validating API test cases.
package assertion

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jason-fintech/loan-api-tests/internal/testing/httpexec"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Assertion is a pure predicate over a response.
type Assertion interface {
	// Describe returns a short human-readable name, e.g. "status == 201".
	Describe() string
	// Check returns nil when the response satisfies the assertion, or a *Failure.
	Check(resp *httpexec.Response) error
}

// Failure describes a failed assertion with its expected and actual values.
type Failure struct {
	Assertion string
	Expected  string
	Actual    string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", f.Assertion, f.Expected, f.Actual)
}

func fail(a Assertion, expected, actual string) error {
	return &Failure{Assertion: a.Describe(), Expected: expected, Actual: actual}
}

// Evaluate checks every assertion in order and returns all failures. It never
// stops at the first failure.
func Evaluate(resp *httpexec.Response, assertions []Assertion) []error {
	var failures []error

	for _, a := range assertions {
		if err := a.Check(resp); err != nil {
			failures = append(failures, err)
		}
	}

	return failures
}

type statusEquals struct {
	code int
}

// StatusEquals asserts the response status code.
func StatusEquals(code int) Assertion {
	return statusEquals{code: code}
}

func (a statusEquals) Describe() string {
	return fmt.Sprintf("status == %d", a.code)
}

func (a statusEquals) Check(resp *httpexec.Response) error {
	if resp.Status != a.code {
		return fail(a, fmt.Sprintf("%d", a.code), fmt.Sprintf("%d", resp.Status))
	}
	return nil
}

type statusIn struct {
	codes []int
}

// StatusIn asserts the response status code is one of codes.
func StatusIn(codes ...int) Assertion {
	sorted := append([]int(nil), codes...)
	sort.Ints(sorted)

	return statusIn{codes: sorted}
}

func (a statusIn) Describe() string {
	return fmt.Sprintf("status in %v", a.codes)
}

func (a statusIn) Check(resp *httpexec.Response) error {
	for _, code := range a.codes {
		if resp.Status == code {
			return nil
		}
	}
	return fail(a, fmt.Sprintf("one of %v", a.codes), fmt.Sprintf("%d", resp.Status))
}

type bodyFieldEquals struct {
	path     string
	expected ldvalue.Value
}

// BodyFieldEquals asserts the JSON value at path equals expected. Numbers
// compare by value, so 1 and 1.0 are equal.
func BodyFieldEquals(path string, expected interface{}) Assertion {
	return bodyFieldEquals{path: path, expected: ldvalue.CopyArbitraryValue(expected)}
}

func (a bodyFieldEquals) Describe() string {
	return fmt.Sprintf("body.%s == %s", a.path, a.expected.JSONString())
}

func (a bodyFieldEquals) Check(resp *httpexec.Response) error {
	if resp.ParseErr != nil {
		return fail(a, a.expected.JSONString(), resp.ParseErr.Error())
	}

	actual, found := Lookup(resp.Body, a.path)
	if !found {
		return fail(a, a.expected.JSONString(), "field not present")
	}

	if !actual.Equal(a.expected) {
		return fail(a, a.expected.JSONString(), actual.JSONString())
	}

	return nil
}

type bodyFieldNotNull struct {
	path string
}

// BodyFieldNotNull asserts the JSON value at path exists and is not null.
func BodyFieldNotNull(path string) Assertion {
	return bodyFieldNotNull{path: path}
}

func (a bodyFieldNotNull) Describe() string {
	return fmt.Sprintf("body.%s != null", a.path)
}

func (a bodyFieldNotNull) Check(resp *httpexec.Response) error {
	if resp.ParseErr != nil {
		return fail(a, "non-null value", resp.ParseErr.Error())
	}

	actual, found := Lookup(resp.Body, a.path)
	if !found {
		return fail(a, "non-null value", "field not present")
	}

	if actual.IsNull() {
		return fail(a, "non-null value", "null")
	}

	return nil
}

type bodyFieldMatches struct {
	path    string
	pattern *regexp.Regexp
}

// BodyFieldMatches asserts the string form of the JSON value at path matches pattern.
func BodyFieldMatches(path string, pattern *regexp.Regexp) Assertion {
	return bodyFieldMatches{path: path, pattern: pattern}
}

func (a bodyFieldMatches) Describe() string {
	return fmt.Sprintf("body.%s =~ /%s/", a.path, a.pattern)
}

func (a bodyFieldMatches) Check(resp *httpexec.Response) error {
	expected := fmt.Sprintf("match for /%s/", a.pattern)

	if resp.ParseErr != nil {
		return fail(a, expected, resp.ParseErr.Error())
	}

	actual, found := Lookup(resp.Body, a.path)
	if !found {
		return fail(a, expected, "field not present")
	}

	text := actual.StringValue()
	if actual.Type() != ldvalue.StringType {
		text = actual.JSONString()
	}

	if !a.pattern.MatchString(text) {
		return fail(a, expected, actual.JSONString())
	}

	return nil
}

type bodySizeGreaterThan struct {
	n int
}

// BodySizeGreaterThan asserts the body size exceeds n. Size is the element
// count of a JSON array or object, the character count of a JSON string, and
// the byte length of any other body.
func BodySizeGreaterThan(n int) Assertion {
	return bodySizeGreaterThan{n: n}
}

func (a bodySizeGreaterThan) Describe() string {
	return fmt.Sprintf("body size > %d", a.n)
}

func (a bodySizeGreaterThan) Check(resp *httpexec.Response) error {
	size := BodySize(resp)
	if size <= a.n {
		return fail(a, fmt.Sprintf("size > %d", a.n), fmt.Sprintf("size %d", size))
	}
	return nil
}

// BodySize returns the size measure used by BodySizeGreaterThan.
func BodySize(resp *httpexec.Response) int {
	switch resp.Body.Type() {
	case ldvalue.ArrayType, ldvalue.ObjectType:
		return resp.Body.Count()
	case ldvalue.StringType:
		return utf8.RuneCountInString(resp.Body.StringValue())
	default:
		return len(resp.RawBody)
	}
}

type headerContains struct {
	name      string
	substring string
}

// HeaderContains asserts a response header, matched case-insensitively by
// name, contains substring.
func HeaderContains(name, substring string) Assertion {
	return headerContains{name: name, substring: substring}
}

func (a headerContains) Describe() string {
	return fmt.Sprintf("header %s contains %q", a.name, a.substring)
}

func (a headerContains) Check(resp *httpexec.Response) error {
	values := resp.Headers.Values(a.name)
	if len(values) == 0 {
		return fail(a, fmt.Sprintf("%q", a.substring), "header not present")
	}

	joined := strings.Join(values, ", ")
	if !strings.Contains(joined, a.substring) {
		return fail(a, fmt.Sprintf("%q", a.substring), fmt.Sprintf("%q", joined))
	}

	return nil
}

type elapsedLessThan struct {
	limit time.Duration
}

// ElapsedLessThan asserts the measured request time is below limit. A slow
// response is assessed, never aborted.
func ElapsedLessThan(limit time.Duration) Assertion {
	return elapsedLessThan{limit: limit}
}

func (a elapsedLessThan) Describe() string {
	return fmt.Sprintf("elapsed < %dms", a.limit.Milliseconds())
}

func (a elapsedLessThan) Check(resp *httpexec.Response) error {
	if resp.Elapsed >= a.limit {
		return fail(a, fmt.Sprintf("< %dms", a.limit.Milliseconds()), fmt.Sprintf("%dms", resp.Elapsed.Milliseconds()))
	}
	return nil
}
