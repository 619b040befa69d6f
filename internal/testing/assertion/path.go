package assertion

import (
	"strconv"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Lookup walks a dotted path ("id", "address.city", "0.id") through a JSON
// value. Numeric segments index arrays. An empty path returns the value itself.
// The boolean is false when any segment is absent.
func Lookup(v ldvalue.Value, path string) (ldvalue.Value, bool) {
	if path == "" {
		return v, true
	}

	current := v

	for _, segment := range strings.Split(path, ".") {
		switch current.Type() {
		case ldvalue.ObjectType:
			if !hasKey(current, segment) {
				return ldvalue.Null(), false
			}
			current = current.GetByKey(segment)
		case ldvalue.ArrayType:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= current.Count() {
				return ldvalue.Null(), false
			}
			current = current.GetByIndex(index)
		default:
			return ldvalue.Null(), false
		}
	}

	return current, true
}

func hasKey(obj ldvalue.Value, key string) bool {
	for _, k := range obj.Keys() {
		if k == key {
			return true
		}
	}
	return false
}
