package domain

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the calendar-day format used for date range bounds.
const DayLayout = "2006-01-02"

// DateRange bounds the date filter. A nil bound imposes no constraint.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// Normalize moves From to the start of its day and To to the last
// nanosecond of its day, both in the bound's own location.
func (r DateRange) Normalize() DateRange {
	var out DateRange
	if r.From != nil {
		from := StartOfDay(*r.From)
		out.From = &from
	}
	if r.To != nil {
		to := EndOfDay(*r.To)
		out.To = &to
	}
	return out
}

// Contains reports whether t falls inside the normalized range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	n := r.Normalize()
	if n.From != nil && t.Before(*n.From) {
		return false
	}
	if n.To != nil && t.After(*n.To) {
		return false
	}
	return true
}

// Equal compares two ranges bound by bound.
func (r DateRange) Equal(o DateRange) bool {
	return sameBound(r.From, o.From) && sameBound(r.To, o.To)
}

func sameBound(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's day in t's location.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ParseDateRange builds a range from two YYYY-MM-DD strings interpreted in loc.
// Empty strings leave the bound unset.
func ParseDateRange(from, to string, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.Local
	}
	var r DateRange
	if s := strings.TrimSpace(from); s != "" {
		t, err := time.ParseInLocation(DayLayout, s, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid from date %q: %w", s, err)
		}
		r.From = &t
	}
	if s := strings.TrimSpace(to); s != "" {
		t, err := time.ParseInLocation(DayLayout, s, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid to date %q: %w", s, err)
		}
		r.To = &t
	}
	return r.Normalize(), nil
}

// String renders the range as "from..to" with empty sides for open bounds.
func (r DateRange) String() string {
	var b strings.Builder
	if r.From != nil {
		b.WriteString(r.From.Format(DayLayout))
	}
	b.WriteString("..")
	if r.To != nil {
		b.WriteString(r.To.Format(DayLayout))
	}
	return b.String()
}
