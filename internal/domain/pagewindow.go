package domain

// Ellipsis marks a gap in a page window.
const Ellipsis = 0

// maxWindowPages is the longest strip rendered without gaps.
const maxWindowPages = 5

// PageWindow returns the page numbers a pager shows around current.
// The first and last pages are always present, gaps are Ellipsis entries.
// It returns nil when there is at most one page.
func PageWindow(current, total int) []int {
	if total <= 1 {
		return nil
	}

	if total <= maxWindowPages {
		pages := make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}

	pages := []int{1}

	start := max(2, current-1)
	end := min(total-1, current+1)

	if current <= 3 {
		end = min(total-1, 4)
	}
	if current >= total-2 {
		start = max(2, total-3)
	}

	if start > 2 {
		pages = append(pages, Ellipsis)
	}
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	if end < total-1 {
		pages = append(pages, Ellipsis)
	}

	return append(pages, total)
}
