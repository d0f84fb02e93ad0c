package domain

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultPageSize is the number of records per page.
const DefaultPageSize = 10

// Query is everything the list pipeline needs besides the records.
type Query struct {
	Search   string
	Range    DateRange
	Sort     SortSpec
	Page     int // 1-indexed, clamped into [1, TotalPages]
	PageSize int // <= 0 means DefaultPageSize
}

// Page is the pipeline output: one contiguous slice of the filtered and
// sorted records.
type Page struct {
	Emails     []*Email `json:"emails"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalPages int      `json:"total_pages"`
	Total      int      `json:"total"` // records left after filtering
}

// IDs returns the ids of the visible records.
func (p Page) IDs() []int {
	return EmailIDs(p.Emails)
}

// Pipeline runs filter, sort and paginate over a record collection.
// It holds no state besides the collation language, so the same inputs
// always produce the same page.
type Pipeline struct {
	lang language.Tag
}

// NewPipeline returns a pipeline comparing titles with lang's collation rules.
func NewPipeline(lang language.Tag) *Pipeline {
	return &Pipeline{lang: lang}
}

// Run derives the requested page. emails is never modified.
func (p *Pipeline) Run(emails []*Email, q Query) Page {
	result := FilterBySearch(emails, q.Search)
	result = FilterByDate(result, q.Range)
	SortEmails(result, q.Sort, p.lang)
	return Paginate(result, q.Page, q.PageSize)
}

// FilterBySearch keeps records whose title contains term, ignoring case.
// An empty term keeps everything. The result is always a fresh slice.
func FilterBySearch(emails []*Email, term string) []*Email {
	out := make([]*Email, 0, len(emails))
	if term == "" {
		return append(out, emails...)
	}
	needle := strings.ToLower(term)
	for _, e := range emails {
		if strings.Contains(strings.ToLower(e.Title), needle) {
			out = append(out, e)
		}
	}
	return out
}

// FilterByDate keeps records whose date lies inside the normalized range.
func FilterByDate(emails []*Email, r DateRange) []*Email {
	out := make([]*Email, 0, len(emails))
	if r.IsZero() {
		return append(out, emails...)
	}
	n := r.Normalize()
	for _, e := range emails {
		if n.From != nil && e.Date.Before(*n.From) {
			continue
		}
		if n.To != nil && e.Date.After(*n.To) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// SortEmails orders emails in place with a stable sort, so records with equal
// keys keep their relative order in both directions.
func SortEmails(emails []*Email, spec SortSpec, lang language.Tag) {
	cmp := compareFunc(spec.Field, lang)
	sign := 1
	if spec.Direction == Descending {
		sign = -1
	}
	slices.SortStableFunc(emails, func(a, b *Email) int {
		return sign * cmp(a, b)
	})
}

func compareFunc(field SortField, lang language.Tag) func(a, b *Email) int {
	if field == SortByTitle {
		// A Collator keeps scratch buffers, one per sort call.
		col := collate.New(lang)
		return func(a, b *Email) int {
			return col.CompareString(a.Title, b.Title)
		}
	}
	return func(a, b *Email) int {
		return a.Date.Compare(b.Date)
	}
}

// Paginate slices one page out of emails. page is clamped into the valid
// range; with no records the page is empty and TotalPages is 0.
func Paginate(emails []*Email, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(emails)
	totalPages := (total + size - 1) / size

	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	visible := make([]*Email, end-start)
	copy(visible, emails[start:end])

	return Page{
		Emails:     visible,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
		Total:      total,
	}
}
