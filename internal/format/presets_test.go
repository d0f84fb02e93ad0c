package format

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func fixedNow() time.Time {
	return time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func preset(t *testing.T, id string) Preset {
	t.Helper()
	p, err := NewCatalog(fixedNow).Lookup(id)
	if err != nil {
		t.Fatalf("Lookup(%q) error = %v", id, err)
	}
	return p
}

type applyCase struct {
	name    string
	raw     string
	display string
	err     string
}

func runApplyCases(t *testing.T, id string, tests []applyCase) {
	t.Helper()
	p := preset(t, id)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Apply(tt.raw)
			if got.Display != tt.display {
				t.Errorf("Apply(%q).Display = %q, want %q", tt.raw, got.Display, tt.display)
			}
			if got.Error != tt.err {
				t.Errorf("Apply(%q).Error = %q, want %q", tt.raw, got.Error, tt.err)
			}
			if got.Valid != (tt.err == "") {
				t.Errorf("Apply(%q).Valid = %v with error %q", tt.raw, got.Valid, got.Error)
			}
		})
	}
}

func TestPhonePreset(t *testing.T) {
	const msg = "Phone number must be 10 digits"
	runApplyCases(t, Phone, []applyCase{
		{name: "empty", raw: "", display: "", err: ""},
		{name: "area code only", raw: "555", display: "555", err: msg},
		{name: "letters stripped", raw: "abc555", display: "555", err: msg},
		{name: "partial exchange", raw: "55512", display: "(555) 12", err: msg},
		{name: "six digits", raw: "555123", display: "(555) 123", err: msg},
		{name: "full number", raw: "5551234567", display: "(555) 123-4567", err: ""},
		{name: "already formatted", raw: "(555) 123-4567", display: "(555) 123-4567", err: ""},
		{name: "too long is truncated but invalid", raw: "555123456789", display: "(555) 123-4567", err: msg},
	})
}

func TestPhoneNormalizesRaw(t *testing.T) {
	p := preset(t, Phone)
	if got := p.Apply("abc555").Raw; got != "555" {
		t.Errorf("Raw = %q, want digits only", got)
	}
}

func TestEmailPreset(t *testing.T) {
	const msg = "Please enter a valid email address"
	runApplyCases(t, Email, []applyCase{
		{name: "empty", raw: "", display: "", err: ""},
		{name: "valid", raw: "user@example.com", display: "user@example.com", err: ""},
		{name: "plus addressing", raw: "first.last+tag@mail.example.org", display: "first.last+tag@mail.example.org", err: ""},
		{name: "missing domain", raw: "user@", display: "user@", err: msg},
		{name: "short tld", raw: "user@example.c", display: "user@example.c", err: msg},
		{name: "spaces", raw: "us er@example.com", display: "us er@example.com", err: msg},
	})
}

func TestZIPPreset(t *testing.T) {
	const msg = "ZIP code must be 5 or 9 digits"
	runApplyCases(t, ZIPCode, []applyCase{
		{name: "empty", raw: "", display: "", err: ""},
		{name: "partial", raw: "1234", display: "1234", err: msg},
		{name: "five", raw: "12345", display: "12345", err: ""},
		{name: "six", raw: "123456", display: "12345-6", err: msg},
		{name: "nine", raw: "123456789", display: "12345-6789", err: ""},
		{name: "ten is truncated", raw: "1234567890", display: "12345-6789", err: msg},
		{name: "dash blocks formatting", raw: "12345-6789", display: "12345-6789", err: ""},
	})
}

func TestDatePreset(t *testing.T) {
	const msg = "Invalid date or date is in the future"
	runApplyCases(t, Date, []applyCase{
		{name: "empty", raw: "", display: "", err: ""},
		{name: "month only", raw: "12", display: "12", err: msg},
		{name: "month and day", raw: "1225", display: "12/25", err: msg},
		{name: "full past date", raw: "12252023", display: "12/25/2023", err: ""},
		{name: "slashes validate", raw: "12/25/2023", display: "12/25/2023", err: ""},
		{name: "today", raw: "06152024", display: "06/15/2024", err: ""},
		{name: "tomorrow", raw: "06162024", display: "06/16/2024", err: msg},
		{name: "leap day", raw: "02292024", display: "02/29/2024", err: ""},
		{name: "not a leap year", raw: "02292023", display: "02/29/2023", err: msg},
		{name: "century not leap", raw: "02291900", display: "02/29/1900", err: msg},
		{name: "four hundred leap", raw: "02292000", display: "02/29/2000", err: ""},
		{name: "thirty day month", raw: "04312023", display: "04/31/2023", err: msg},
		{name: "month zero", raw: "00102020", display: "00/10/2020", err: msg},
		{name: "month thirteen", raw: "13012020", display: "13/01/2020", err: msg},
		{name: "day zero", raw: "01002020", display: "01/00/2020", err: msg},
		{name: "extra digits truncated", raw: "1225202399", display: "12/25/2023", err: msg},
	})
}

func TestCurrencyPreset(t *testing.T) {
	const msg = "Invalid currency amount"
	runApplyCases(t, Currency, []applyCase{
		{name: "empty", raw: "", display: "", err: msg},
		{name: "grouping and rounding down", raw: "1234.567", display: "$1,234.56", err: ""},
		{name: "millions", raw: "1000000", display: "$1,000,000", err: ""},
		{name: "small", raw: "999", display: "$999", err: ""},
		{name: "already formatted", raw: "$1,234.5", display: "$1,234.5", err: ""},
		{name: "extra dots fold into fraction", raw: "1.2.3", display: "$1.23", err: ""},
		{name: "fraction only", raw: ".5", display: "$.5", err: ""},
		{name: "lone dot", raw: ".", display: "$.", err: msg},
		{name: "dollar sign only", raw: "$", display: "$0", err: msg},
		{name: "letters", raw: "abc", display: "abc", err: msg},
	})
}

func TestCatalog(t *testing.T) {
	c := NewCatalog(fixedNow)

	if diff := cmp.Diff([]string{Phone, Email, ZIPCode, Date, Currency}, c.IDs()); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}

	names := map[string][2]string{
		Phone:    {"Phone Number", "Enter phone number"},
		Email:    {"Email Address", "user@example.com"},
		ZIPCode:  {"US ZIP Code", "12345 or 12345-6789"},
		Date:     {"Date (MM/DD/YYYY)", "MM/DD/YYYY"},
		Currency: {"Currency", "Enter amount"},
	}
	for _, p := range c.Presets() {
		want := names[p.ID]
		if p.Name != want[0] || p.Placeholder != want[1] {
			t.Errorf("preset %s = (%q, %q), want (%q, %q)", p.ID, p.Name, p.Placeholder, want[0], want[1])
		}
	}

	if _, err := c.Lookup("ssn"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("Lookup(ssn) error = %v, want ErrUnknownPreset", err)
	}

	if got := c.Next(Currency).ID; got != Phone {
		t.Errorf("Next(currency) = %q, want wrap to phone", got)
	}
	if got := c.Next(Phone).ID; got != Email {
		t.Errorf("Next(phone) = %q, want email", got)
	}
	if got := c.Prev(Phone).ID; got != Currency {
		t.Errorf("Prev(phone) = %q, want wrap to currency", got)
	}
	if got := c.Prev(ZIPCode).ID; got != Email {
		t.Errorf("Prev(zipCode) = %q, want email", got)
	}
}
