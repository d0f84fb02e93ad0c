package format

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownPreset is returned by Lookup for an id not in the catalog
var ErrUnknownPreset = errors.New("unknown format preset")

// Preset ids
const (
	Phone    = "phone"
	Email    = "email"
	ZIPCode  = "zipCode"
	Date     = "date"
	Currency = "currency"
)

var (
	digitsOnly   = regexp.MustCompile(`^\d+$`)
	anything     = regexp.MustCompile(`.*`)
	currencyLike = regexp.MustCompile(`^[\d.,$]+$`)
	emailAddress = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Preset bundles the rules of one input type with its gallery metadata
type Preset struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Placeholder string           `json:"placeholder"`
	DigitsOnly  bool             `json:"digits_only"` // input is stripped to digits before anything else
	Formats     []FormatRule     `json:"-"`
	Validations []ValidationRule `json:"-"`
}

// Apply formats and validates raw with the preset rules
func (p Preset) Apply(raw string) Result {
	return Run(p.Normalize(raw), p.Formats, p.Validations)
}

// Normalize returns the raw value the rules see
func (p Preset) Normalize(raw string) string {
	if p.DigitsOnly {
		return keepDigits(raw)
	}
	return raw
}

// Catalog is the ordered preset gallery
type Catalog struct {
	presets []Preset
}

// NewCatalog builds the gallery. now decides what "in the future" means for dates.
func NewCatalog(now func() time.Time) *Catalog {
	if now == nil {
		now = time.Now
	}
	return &Catalog{presets: []Preset{
		phonePreset(),
		emailPreset(),
		zipPreset(),
		datePreset(now),
		currencyPreset(),
	}}
}

// DefaultCatalog uses the wall clock
func DefaultCatalog() *Catalog {
	return NewCatalog(time.Now)
}

// Presets returns the presets in gallery order
func (c *Catalog) Presets() []Preset {
	out := make([]Preset, len(c.presets))
	copy(out, c.presets)
	return out
}

// Lookup finds a preset by id
func (c *Catalog) Lookup(id string) (Preset, error) {
	p, ok := firstMatch(c.presets, func(p Preset) bool { return p.ID == id })
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, id)
	}
	return p, nil
}

// Next returns the preset after id, wrapping around
func (c *Catalog) Next(id string) Preset {
	for i, p := range c.presets {
		if p.ID == id {
			return c.presets[(i+1)%len(c.presets)]
		}
	}
	return c.presets[0]
}

// Prev returns the preset before id, wrapping around
func (c *Catalog) Prev(id string) Preset {
	for i, p := range c.presets {
		if p.ID == id {
			return c.presets[(i+len(c.presets)-1)%len(c.presets)]
		}
	}
	return c.presets[0]
}

// IDs lists preset ids in gallery order
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.presets))
	for i, p := range c.presets {
		ids[i] = p.ID
	}
	return ids
}

func phonePreset() Preset {
	return Preset{
		ID:          Phone,
		Name:        "Phone Number",
		Placeholder: "Enter phone number",
		DigitsOnly:  true,
		Formats:     []FormatRule{{Trigger: digitsOnly, Transform: FormatPhone}},
		Validations: []ValidationRule{{
			Test: func(raw string) bool {
				n := len(keepDigits(raw))
				return n == 0 || n == 10
			},
			Message: "Phone number must be 10 digits",
		}},
	}
}

func emailPreset() Preset {
	return Preset{
		ID:          Email,
		Name:        "Email Address",
		Placeholder: "user@example.com",
		Formats:     []FormatRule{{Trigger: anything, Transform: func(raw string) string { return raw }}},
		Validations: []ValidationRule{{
			Test: func(raw string) bool {
				return raw == "" || emailAddress.MatchString(raw)
			},
			Message: "Please enter a valid email address",
		}},
	}
}

func zipPreset() Preset {
	return Preset{
		ID:          ZIPCode,
		Name:        "US ZIP Code",
		Placeholder: "12345 or 12345-6789",
		Formats:     []FormatRule{{Trigger: digitsOnly, Transform: FormatZIP}},
		Validations: []ValidationRule{{
			Test: func(raw string) bool {
				n := len(keepDigits(raw))
				return n == 0 || n == 5 || n == 9
			},
			Message: "ZIP code must be 5 or 9 digits",
		}},
	}
}

func datePreset(now func() time.Time) Preset {
	return Preset{
		ID:          Date,
		Name:        "Date (MM/DD/YYYY)",
		Placeholder: "MM/DD/YYYY",
		Formats:     []FormatRule{{Trigger: digitsOnly, Transform: FormatDate}},
		Validations: []ValidationRule{{
			Test:    func(raw string) bool { return validDate(raw, now()) },
			Message: "Invalid date or date is in the future",
		}},
	}
}

func currencyPreset() Preset {
	return Preset{
		ID:          Currency,
		Name:        "Currency",
		Placeholder: "Enter amount",
		Formats:     []FormatRule{{Trigger: currencyLike, Transform: FormatCurrency}},
		Validations: []ValidationRule{{
			Test: func(raw string) bool {
				v, ok := parseLeadingFloat(keepDigitsAndDots(raw))
				return ok && v >= 0
			},
			Message: "Invalid currency amount",
		}},
	}
}

// FormatPhone renders up to 10 digits as (xxx) xxx-xxxx, partially while typing
func FormatPhone(raw string) string {
	d := truncate(keepDigits(raw), 10)
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 6:
		return "(" + d[:3] + ") " + d[3:]
	default:
		return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
	}
}

// FormatZIP renders up to 9 digits as xxxxx or xxxxx-xxxx
func FormatZIP(raw string) string {
	d := truncate(keepDigits(raw), 9)
	if len(d) <= 5 {
		return d
	}
	return d[:5] + "-" + d[5:]
}

// FormatDate renders up to 8 digits as mm/dd/yyyy
func FormatDate(raw string) string {
	d := truncate(keepDigits(raw), 8)
	switch {
	case len(d) <= 2:
		return d
	case len(d) <= 4:
		return d[:2] + "/" + d[2:]
	default:
		return d[:2] + "/" + d[2:4] + "/" + d[4:]
	}
}

// FormatCurrency renders a dollar amount with thousands separators and at
// most two fraction digits. Extra dots are folded into the fraction.
func FormatCurrency(raw string) string {
	clean := keepDigitsAndDots(raw)
	parts := strings.Split(clean, ".")

	out := groupThousands(parts[0])
	if len(parts) > 1 {
		out += "." + truncate(strings.Join(parts[1:], ""), 2)
	}
	if out == "" {
		out = "0"
	}
	return "$" + out
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// validDate accepts an empty value or eight digits forming a real calendar
// date that is not after today in now's location
func validDate(raw string, now time.Time) bool {
	d := keepDigits(raw)
	if d == "" {
		return true
	}
	if len(d) != 8 {
		return false
	}

	month, _ := strconv.Atoi(d[:2])
	day, _ := strconv.Atoi(d[2:4])
	year, _ := strconv.Atoi(d[4:])

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	if day > daysIn(time.Month(month), year) {
		return false
	}

	input := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	y, m, dd := now.Date()
	today := time.Date(y, m, dd, 0, 0, 0, 0, now.Location())
	return !input.After(today)
}

func daysIn(m time.Month, year int) int {
	switch m {
	case time.April, time.June, time.September, time.November:
		return 30
	case time.February:
		if isLeap(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

func isLeap(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// parseLeadingFloat reads the longest numeric prefix of s, ignoring the rest
func parseLeadingFloat(s string) (float64, bool) {
	end, digits, dot := 0, 0, false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			digits++
		} else if c == '.' && !dot {
			dot = true
		} else {
			break
		}
		end++
	}
	if digits == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func keepDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func keepDigitsAndDots(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
