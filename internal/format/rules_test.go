package format

import (
	"regexp"
	"strings"
	"testing"
)

func TestFormatFirstMatchWins(t *testing.T) {
	var calls []string
	rules := []FormatRule{
		{Trigger: regexp.MustCompile(`^a`), Transform: func(s string) string { calls = append(calls, "a"); return "A" }},
		{Trigger: regexp.MustCompile(`^ab`), Transform: func(s string) string { calls = append(calls, "ab"); return "AB" }},
	}

	if got := Format("abc", rules); got != "A" {
		t.Errorf("Format() = %q, want %q", got, "A")
	}
	if strings.Join(calls, ",") != "a" {
		t.Errorf("later rules should not run, calls = %v", calls)
	}
}

func TestFormatNoMatchPassesThrough(t *testing.T) {
	rules := []FormatRule{{Trigger: regexp.MustCompile(`^\d+$`), Transform: strings.ToUpper}}

	if got := Format("abc", rules); got != "abc" {
		t.Errorf("Format() = %q, want raw value", got)
	}
	if got := Format("abc", nil); got != "abc" {
		t.Errorf("Format() with no rules = %q, want raw value", got)
	}
}

func TestValidateShortCircuits(t *testing.T) {
	evaluated := 0
	rules := []ValidationRule{
		{Test: func(string) bool { evaluated++; return true }, Message: "first"},
		{Test: func(string) bool { evaluated++; return false }, Message: "second"},
		{Test: func(string) bool { evaluated++; return false }, Message: "third"},
	}

	if got := Validate("x", rules); got != "second" {
		t.Errorf("Validate() = %q, want %q", got, "second")
	}
	if evaluated != 2 {
		t.Errorf("evaluated %d rules, want 2", evaluated)
	}
}

func TestValidateAllPass(t *testing.T) {
	rules := []ValidationRule{{Test: func(string) bool { return true }, Message: "never"}}
	if got := Validate("x", rules); got != "" {
		t.Errorf("Validate() = %q, want no error", got)
	}
}

func TestRun(t *testing.T) {
	res := Run("12", []FormatRule{{Trigger: regexp.MustCompile(`\d`), Transform: func(s string) string { return "#" + s }}},
		[]ValidationRule{{Test: func(s string) bool { return len(s) > 3 }, Message: "too short"}})

	if res.Raw != "12" || res.Display != "#12" || res.Error != "too short" || res.Valid {
		t.Errorf("Run() = %+v", res)
	}
}
