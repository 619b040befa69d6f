package suite

import "sort"

// Unsatisfied describes a case that reads state no earlier case captures.
type Unsatisfied struct {
	Case    string
	Order   int
	Missing []string
}

// CheckPlan walks the cases in execution order and reports every case whose
// dependencies cannot be produced by an earlier case. Cases rejected by filter
// neither run nor capture. Cases must already be validated and sorted.
func CheckPlan(ordered []Case, filter Filter) []Unsatisfied {
	captured := make(map[string]struct{})
	issues := make([]Unsatisfied, 0)

	for i := range ordered {
		c := &ordered[i]

		if filter != nil && !filter(c.Name) {
			continue
		}

		missing := make([]string, 0)
		for _, key := range c.Dependencies() {
			if _, ok := captured[key]; !ok {
				missing = append(missing, key)
			}
		}

		if len(missing) > 0 {
			issues = append(issues, Unsatisfied{Case: c.Name, Order: c.Order, Missing: missing})
		}

		for key := range c.Captures {
			captured[key] = struct{}{}
		}
	}

	return issues
}

// Providers maps each captured state key to the names of the cases that
// capture it, in execution order.
func Providers(ordered []Case) map[string][]string {
	providers := make(map[string][]string)

	for i := range ordered {
		keys := make([]string, 0, len(ordered[i].Captures))
		for key := range ordered[i].Captures {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			providers[key] = append(providers[key], ordered[i].Name)
		}
	}

	return providers
}
