package suite

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// ErrStateKeyExists is returned when a captured key is written a second time.
var ErrStateKeyExists = errors.New("state key already captured")

// State holds values captured from earlier cases in a run. Each key is
// written at most once. A State belongs to a single run and is not shared.
type State struct {
	values map[string]ldvalue.Value
}

// NewState returns an empty state.
func NewState() *State {
	return &State{values: make(map[string]ldvalue.Value)}
}

// Set stores a value under key. A second write to the same key is rejected.
func (s *State) Set(key string, value ldvalue.Value) error {
	if _, exists := s.values[key]; exists {
		return fmt.Errorf("%w: %s", ErrStateKeyExists, key)
	}

	s.values[key] = value

	return nil
}

// Get returns the value stored under key.
func (s *State) Get(key string) (ldvalue.Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key has been captured.
func (s *State) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns the captured keys, sorted.
func (s *State) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Render formats a captured value for use in a URL path.
func Render(v ldvalue.Value) string {
	switch v.Type() {
	case ldvalue.StringType:
		return v.StringValue()
	case ldvalue.NumberType:
		if v.IsInt() {
			return strconv.Itoa(v.IntValue())
		}
		return strconv.FormatFloat(v.Float64Value(), 'f', -1, 64)
	default:
		return v.JSONString()
	}
}
