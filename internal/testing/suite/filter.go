package suite

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter decides whether a case with the given name runs.
type Filter func(name string) bool

// RegexFilters selects cases by name. A case runs when it matches any
// MustMatch pattern (or none are set) and no MustNotMatch pattern.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

// AsFilter implements Filter.
func (r RegexFilters) AsFilter(name string) bool {
	return (!r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(name)) &&
		!r.MustNotMatch.AnyMatch(name)
}

// IsDefined reports whether any pattern is set.
func (r RegexFilters) IsDefined() bool {
	return r.MustMatch.IsDefined() || r.MustNotMatch.IsDefined()
}

// Describe summarizes the active patterns, or returns "" when none are set.
func (r RegexFilters) Describe() string {
	var parts []string

	if r.MustMatch.IsDefined() {
		parts = append(parts, fmt.Sprintf("skip any not matching %s", r.MustMatch))
	}

	if r.MustNotMatch.IsDefined() {
		parts = append(parts, fmt.Sprintf("skip any matching %s", r.MustNotMatch))
	}

	return strings.Join(parts, "; ")
}

// RegexList is a repeatable command line flag holding compiled patterns.
type RegexList struct {
	patterns []*regexp.Regexp
}

func (r RegexList) String() string {
	ss := make([]string, 0, len(r.patterns))
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser.
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	r.patterns = append(r.patterns, rx)
	return nil
}

// Type names the flag value type in help output.
func (r *RegexList) Type() string {
	return "regex"
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
