package domain

import "time"

// Email is one record of the mailbox.
//
// Records come from a static data source and live for the whole session.
// Only Favorite changes after load.
type Email struct {
	// ID is unique and stable for the lifetime of the process.
	ID int `json:"id" yaml:"id"`

	// Title is what search matches against.
	Title string `json:"title" yaml:"title"`

	// Date is the timestamp used by the date filter and the date sort.
	Date time.Time `json:"date" yaml:"date"`

	// Favorite is toggled by id or set in bulk from the selection.
	Favorite bool `json:"favorite" yaml:"favorite"`
}

// SortField names the attribute records are ordered by.
type SortField string

const (
	SortByTitle SortField = "title"
	SortByDate  SortField = "date"
)

// Valid reports whether f is a known sort field.
func (f SortField) Valid() bool {
	return f == SortByTitle || f == SortByDate
}

// SortDirection is asc or desc.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Valid reports whether d is a known direction.
func (d SortDirection) Valid() bool {
	return d == Ascending || d == Descending
}

// Flip returns the opposite direction.
func (d SortDirection) Flip() SortDirection {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// SortSpec is the field plus direction of the ordering step.
type SortSpec struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

// DefaultSort lists the newest mail first.
func DefaultSort() SortSpec {
	return SortSpec{Field: SortByDate, Direction: Descending}
}

// Toggle applies a click on field: the active field flips its direction,
// any other field starts ascending.
func (s SortSpec) Toggle(field SortField) SortSpec {
	if field == s.Field {
		return SortSpec{Field: field, Direction: s.Direction.Flip()}
	}
	return SortSpec{Field: field, Direction: Ascending}
}

// CloneEmails returns a deep copy so callers never share records.
func CloneEmails(emails []*Email) []*Email {
	out := make([]*Email, len(emails))
	for i, e := range emails {
		cp := *e
		out[i] = &cp
	}
	return out
}

// EmailIDs returns the ids of emails in order.
func EmailIDs(emails []*Email) []int {
	ids := make([]int, len(emails))
	for i, e := range emails {
		ids[i] = e.ID
	}
	return ids
}
