package mailbox

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/showcase/internal/domain"
)

// dateLayouts are tried in order. Layouts without a zone use the mapper location.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	domain.DayLayout,
}

// Mapper converts file records to domain.Email entities
type Mapper struct {
	loc *time.Location
}

// NewMapper creates a mapper. loc resolves dates written without a zone.
func NewMapper(loc *time.Location) *Mapper {
	if loc == nil {
		loc = time.Local
	}
	return &Mapper{loc: loc}
}

// MapEmails validates records and converts them, keeping file order.
// Every problem is reported, not only the first.
func (m *Mapper) MapEmails(records []Record) ([]*domain.Email, error) {
	emails := make([]*domain.Email, 0, len(records))
	seen := make(map[int]int, len(records))
	var errs []error

	for i, r := range records {
		if first, dup := seen[r.ID]; dup {
			errs = append(errs, fmt.Errorf("record %d: duplicate id %d (first at record %d)", i, r.ID, first))
			continue
		}
		seen[r.ID] = i

		title := strings.TrimSpace(r.Title)
		if title == "" {
			errs = append(errs, fmt.Errorf("record %d: id %d has an empty title", i, r.ID))
			continue
		}

		date, err := m.parseDate(r.Date)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: id %d: %w", i, r.ID, err))
			continue
		}

		emails = append(emails, &domain.Email{
			ID:       r.ID,
			Title:    title,
			Date:     date,
			Favorite: r.Favorite,
		})
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if len(emails) == 0 {
		return nil, fmt.Errorf("no emails found in mailbox file")
	}
	return emails, nil
}

func (m *Mapper) parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("missing date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, m.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
