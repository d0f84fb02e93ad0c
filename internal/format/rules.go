package format

import "regexp"

// FormatRule rewrites a raw value for display when Trigger matches it
type FormatRule struct {
	Trigger   *regexp.Regexp
	Transform func(raw string) string
}

// ValidationRule fails with Message when Test returns false
type ValidationRule struct {
	Test    func(raw string) bool
	Message string
}

// Result is what a field shows after one keystroke
type Result struct {
	Raw     string `json:"raw"`
	Display string `json:"display"`
	Error   string `json:"error,omitempty"`
	Valid   bool   `json:"valid"`
}

// firstMatch returns the first item accepted by pred
func firstMatch[T any](items []T, pred func(T) bool) (T, bool) {
	for _, it := range items {
		if pred(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Format applies the transform of the first rule whose trigger matches raw.
// Later rules are never consulted; with no match raw is returned unchanged.
func Format(raw string, rules []FormatRule) string {
	rule, ok := firstMatch(rules, func(r FormatRule) bool {
		return r.Trigger != nil && r.Trigger.MatchString(raw)
	})
	if !ok {
		return raw
	}
	return rule.Transform(raw)
}

// Validate returns the message of the first failing rule, or "" when raw passes all of them
func Validate(raw string, rules []ValidationRule) string {
	rule, ok := firstMatch(rules, func(r ValidationRule) bool {
		return !r.Test(raw)
	})
	if !ok {
		return ""
	}
	return rule.Message
}

// Run formats and validates raw in one pass
func Run(raw string, formats []FormatRule, validations []ValidationRule) Result {
	msg := Validate(raw, validations)
	return Result{
		Raw:     raw,
		Display: Format(raw, formats),
		Error:   msg,
		Valid:   msg == "",
	}
}
