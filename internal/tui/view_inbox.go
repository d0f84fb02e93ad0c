package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/showcase/internal/domain"
)

const dateColumn = "2006-01-02 15:04"

func (m *AppModel) inboxUpper() string {
	var b strings.Builder

	switch m.mode {
	case modeSearch:
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	case modeRange:
		b.WriteString(m.rangeInput.View())
		b.WriteString("\n")
	}

	v := m.view
	if v.Empty != "" {
		b.WriteString(mutedStyle.Render(v.Empty))
		return b.String()
	}

	check := "[ ]"
	if v.AllSelected {
		check = "[x]"
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %s     %-40s %s",
		check, "Title"+sortMark(v.Sort, domain.SortByTitle), "Date"+sortMark(v.Sort, domain.SortByDate))))
	b.WriteString("\n")

	for i, row := range v.Rows {
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		box := "[ ]"
		if row.Selected {
			box = "[x]"
		}
		star := "   "
		if row.Favorite {
			star = favoriteStyle.Render(" ★ ")
		}
		title := truncate(row.Title, 40)
		fmt.Fprintf(&b, "%s%s %s %-40s %s\n", pointer, box, star, title, mutedStyle.Render(row.Date.Format(dateColumn)))
	}
	return b.String()
}

func (m *AppModel) inboxLower() string {
	v := m.view
	var b strings.Builder

	fmt.Fprintf(&b, "%d emails · %d selected · %d favorites\n", v.Total, v.SelectedCount, v.FavoriteCount)

	var filters []string
	if v.Search != "" {
		filters = append(filters, fmt.Sprintf("search %q", v.Search))
	}
	if !v.Range.IsZero() {
		filters = append(filters, "range "+v.Range.String())
	}
	if len(filters) > 0 {
		b.WriteString(mutedStyle.Render("filters: "+strings.Join(filters, ", ")) + "\n")
	}

	if pager := renderPager(v.Page, v.PageWindow); pager != "" {
		b.WriteString(pager + "\n")
	}

	if row, ok := m.currentRow(); ok {
		b.WriteString("\n")
		fmt.Fprintf(&b, "#%d  %s\n", row.ID, row.Title)
		b.WriteString(mutedStyle.Render(row.Date.Format("Monday, January 2 2006 at 15:04")))
		b.WriteString("\n")
	}
	return b.String()
}

// renderPager draws the page window, the current page highlighted
func renderPager(current int, window []int) string {
	if len(window) == 0 {
		return ""
	}
	parts := make([]string, len(window))
	for i, p := range window {
		switch {
		case p == domain.Ellipsis:
			parts[i] = "…"
		case p == current:
			parts[i] = currentPageStyle.Render(" " + strconv.Itoa(p) + " ")
		default:
			parts[i] = " " + strconv.Itoa(p) + " "
		}
	}
	return strings.Join(parts, "")
}

func sortMark(s domain.SortSpec, field domain.SortField) string {
	if s.Field != field {
		return ""
	}
	if s.Direction == domain.Ascending {
		return " ↑"
	}
	return " ↓"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func inboxFooter(mode inputMode) string {
	switch mode {
	case modeSearch:
		return "type to search  enter/esc: done"
	case modeRange:
		return "from..to, either side optional  enter: apply  esc: cancel"
	}
	return "↑/↓: move  space: select  a: select page  f: favorite  F: favorite selected  x: clear selection\n" +
		"/: search  r: date range  c: clear range  t/d: sort  n/p: page  ←/→ 1/2: swipe  +/-: split  q: quit"
}
