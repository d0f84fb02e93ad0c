package domain

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/text/language"
)

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func sampleEmails() []*Email {
	return []*Email{
		{ID: 1, Title: "Weekly Report", Date: day(2024, 3, 1, 9)},
		{ID: 2, Title: "Invoice #1042", Date: day(2024, 3, 2, 14)},
		{ID: 3, Title: "weekly standup notes", Date: day(2024, 3, 2, 23)},
		{ID: 4, Title: "Team lunch", Date: day(2024, 3, 5, 12)},
		{ID: 5, Title: "Invoice #1043", Date: day(2024, 3, 7, 8)},
		{ID: 6, Title: "Éclair recipes", Date: day(2024, 3, 9, 18)},
		{ID: 7, Title: "Weekly Report", Date: day(2024, 3, 9, 18)},
	}
}

func generated(n int) []*Email {
	out := make([]*Email, n)
	base := day(2024, 1, 1, 0)
	for i := range out {
		out[i] = &Email{
			ID:    i + 1,
			Title: fmt.Sprintf("Message %03d", (i*37)%n),
			Date:  base.Add(time.Duration((i*13)%n) * time.Hour),
		}
	}
	return out
}

func TestFilterBySearch(t *testing.T) {
	emails := sampleEmails()

	tests := []struct {
		name string
		term string
		want []int
	}{
		{name: "empty term keeps all", term: "", want: []int{1, 2, 3, 4, 5, 6, 7}},
		{name: "case insensitive", term: "WEEKLY", want: []int{1, 3, 7}},
		{name: "substring", term: "voice", want: []int{2, 5}},
		{name: "no match", term: "zzz", want: []int{}},
		{name: "non ascii", term: "éclair", want: []int{6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EmailIDs(FilterBySearch(emails, tt.term))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterBySearch(%q) mismatch (-want +got):\n%s", tt.term, diff)
			}
		})
	}
}

func TestFilterBySearchPartition(t *testing.T) {
	emails := generated(57)
	for _, term := range []string{"0", "1", "message 00", "MESSAGE", "9", "x"} {
		kept := map[int]bool{}
		for _, e := range FilterBySearch(emails, term) {
			kept[e.ID] = true
			if !strings.Contains(strings.ToLower(e.Title), strings.ToLower(term)) {
				t.Errorf("term %q kept %q", term, e.Title)
			}
		}
		for _, e := range emails {
			if !kept[e.ID] && strings.Contains(strings.ToLower(e.Title), strings.ToLower(term)) {
				t.Errorf("term %q dropped %q", term, e.Title)
			}
		}
	}
}

func TestFilterByDate(t *testing.T) {
	emails := sampleEmails()
	from := day(2024, 3, 2, 15) // normalized to start of day
	to := day(2024, 3, 5, 0)    // normalized to end of day

	tests := []struct {
		name string
		r    DateRange
		want []int
	}{
		{name: "no bounds", r: DateRange{}, want: []int{1, 2, 3, 4, 5, 6, 7}},
		{name: "from only", r: DateRange{From: &from}, want: []int{2, 3, 4, 5, 6, 7}},
		{name: "to only, end of day inclusive", r: DateRange{To: &to}, want: []int{1, 2, 3, 4}},
		{name: "both bounds", r: DateRange{From: &from, To: &to}, want: []int{2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EmailIDs(FilterByDate(emails, tt.r))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterByDate mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearchAndDateCombine(t *testing.T) {
	emails := sampleEmails()
	from := day(2024, 3, 2, 0)
	p := NewPipeline(language.English)

	page := p.Run(emails, Query{
		Search: "weekly",
		Range:  DateRange{From: &from},
		Sort:   SortSpec{Field: SortByDate, Direction: Ascending},
		Page:   1,
	})

	if diff := cmp.Diff([]int{3, 7}, page.IDs()); diff != "" {
		t.Errorf("combined filter mismatch (-want +got):\n%s", diff)
	}
	for _, e := range page.Emails {
		if e.Date.Before(from) {
			t.Errorf("email %d is before the from bound", e.ID)
		}
	}
}

func TestSortEmails(t *testing.T) {
	tests := []struct {
		name string
		spec SortSpec
		want []int
	}{
		{
			name: "date ascending keeps tie order",
			spec: SortSpec{Field: SortByDate, Direction: Ascending},
			want: []int{1, 2, 3, 4, 5, 6, 7},
		},
		{
			name: "date descending keeps tie order",
			spec: SortSpec{Field: SortByDate, Direction: Descending},
			want: []int{6, 7, 5, 4, 3, 2, 1},
		},
		{
			name: "title ascending",
			spec: SortSpec{Field: SortByTitle, Direction: Ascending},
			want: []int{6, 2, 5, 4, 1, 7, 3},
		},
		{
			name: "title descending",
			spec: SortSpec{Field: SortByTitle, Direction: Descending},
			want: []int{3, 1, 7, 4, 5, 2, 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emails := sampleEmails()
			SortEmails(emails, tt.spec, language.English)
			if diff := cmp.Diff(tt.want, EmailIDs(emails)); diff != "" {
				t.Errorf("SortEmails mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortEmailsStable(t *testing.T) {
	// Every record shares both keys, so any reordering is a stability bug.
	emails := make([]*Email, 25)
	for i := range emails {
		emails[i] = &Email{ID: i + 1, Title: "Same", Date: day(2024, 5, 5, 5)}
	}
	want := EmailIDs(emails)

	for _, field := range []SortField{SortByTitle, SortByDate} {
		for _, dir := range []SortDirection{Ascending, Descending} {
			cp := append([]*Email(nil), emails...)
			SortEmails(cp, SortSpec{Field: field, Direction: dir}, language.English)
			if diff := cmp.Diff(want, EmailIDs(cp)); diff != "" {
				t.Errorf("%s/%s not stable (-want +got):\n%s", field, dir, diff)
			}
		}
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		page       int
		wantPage   int
		wantIDs    int
		wantTotalP int
	}{
		{name: "empty collection", n: 0, page: 1, wantPage: 1, wantIDs: 0, wantTotalP: 0},
		{name: "partial single page", n: 7, page: 1, wantPage: 1, wantIDs: 7, wantTotalP: 1},
		{name: "exact multiple", n: 20, page: 2, wantPage: 2, wantIDs: 10, wantTotalP: 2},
		{name: "last partial page", n: 23, page: 3, wantPage: 3, wantIDs: 3, wantTotalP: 3},
		{name: "clamps high page", n: 23, page: 9, wantPage: 3, wantIDs: 3, wantTotalP: 3},
		{name: "clamps low page", n: 23, page: -4, wantPage: 1, wantIDs: 10, wantTotalP: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(generated(tt.n), tt.page, DefaultPageSize)
			if got.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", got.Page, tt.wantPage)
			}
			if len(got.Emails) != tt.wantIDs {
				t.Errorf("len(Emails) = %d, want %d", len(got.Emails), tt.wantIDs)
			}
			if got.TotalPages != tt.wantTotalP {
				t.Errorf("TotalPages = %d, want %d", got.TotalPages, tt.wantTotalP)
			}
			if got.Total != tt.n {
				t.Errorf("Total = %d, want %d", got.Total, tt.n)
			}
		})
	}
}

func TestPagesReconstructSequence(t *testing.T) {
	p := NewPipeline(language.English)
	for _, n := range []int{0, 1, 9, 10, 11, 57, 100} {
		emails := generated(n)
		q := Query{Sort: SortSpec{Field: SortByTitle, Direction: Descending}}

		first := p.Run(emails, q)
		wantPages := (n + 9) / 10
		if first.TotalPages != wantPages {
			t.Fatalf("n=%d: TotalPages = %d, want %d", n, first.TotalPages, wantPages)
		}

		full := FilterBySearch(emails, "")
		SortEmails(full, q.Sort, language.English)

		var joined []int
		for page := 1; page <= first.TotalPages; page++ {
			q.Page = page
			joined = append(joined, p.Run(emails, q).IDs()...)
		}
		if diff := cmp.Diff(EmailIDs(full), joined, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("n=%d: pages do not rebuild the sequence (-want +got):\n%s", n, diff)
		}
	}
}

func TestPipelineDoesNotMutateInput(t *testing.T) {
	emails := sampleEmails()
	before := EmailIDs(emails)

	p := NewPipeline(language.English)
	_ = p.Run(emails, Query{Search: "e", Sort: SortSpec{Field: SortByTitle, Direction: Ascending}})

	if diff := cmp.Diff(before, EmailIDs(emails)); diff != "" {
		t.Errorf("input order changed (-before +after):\n%s", diff)
	}
}

func TestPipelineIdempotent(t *testing.T) {
	emails := generated(42)
	p := NewPipeline(language.English)
	q := Query{Search: "message", Sort: DefaultSort(), Page: 3}

	a := p.Run(emails, q)
	b := p.Run(emails, q)
	if diff := cmp.Diff(a.IDs(), b.IDs()); diff != "" {
		t.Errorf("two runs differ (-first +second):\n%s", diff)
	}
}

func TestSortSpecToggle(t *testing.T) {
	s := DefaultSort()
	s = s.Toggle(SortByDate)
	if s != (SortSpec{Field: SortByDate, Direction: Ascending}) {
		t.Errorf("same field should flip direction, got %+v", s)
	}
	s = s.Toggle(SortByTitle)
	if s != (SortSpec{Field: SortByTitle, Direction: Ascending}) {
		t.Errorf("new field should start ascending, got %+v", s)
	}
	s = s.Toggle(SortByTitle)
	if s.Direction != Descending {
		t.Errorf("second click should flip to desc, got %+v", s)
	}
}
