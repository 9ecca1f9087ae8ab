// Package validation evaluates declarative rule sets over request payloads.
// Every applicable rule runs; all failures are collected, so clients see the
// full list of problems in one response.
package validation

// FieldError is a single failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result of evaluating a rule set.
type Result struct {
	Errors []FieldError
}

// IsValid reports whether no rule failed.
func (r Result) IsValid() bool { return len(r.Errors) == 0 }

// ByField groups messages by field name, the shape used in 400 bodies.
func (r Result) ByField() map[string][]string {
	out := make(map[string][]string, len(r.Errors))
	for _, e := range r.Errors {
		out[e.Field] = append(out[e.Field], e.Message)
	}
	return out
}

// Rule is one constraint over a payload. When is an optional guard: if it
// returns false the rule is skipped entirely and contributes nothing.
type Rule[T any] struct {
	Field   string
	Message string
	When    func(T) bool
	Fails   func(T) bool
}

// RuleSet is an ordered list of rules evaluated independently.
type RuleSet[T any] []Rule[T]

// Evaluate runs every rule (no stop-on-first-failure) and collects failures.
func (rs RuleSet[T]) Evaluate(v T) Result {
	var res Result
	for _, r := range rs {
		if r.When != nil && !r.When(v) {
			continue
		}
		if r.Fails(v) {
			res.Errors = append(res.Errors, FieldError{Field: r.Field, Message: r.Message})
		}
	}
	return res
}
