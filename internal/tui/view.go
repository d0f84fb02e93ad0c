package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *AppModel) View() string {
	height := m.height
	if height == 0 {
		height = 24
	}
	width := m.width
	if width == 0 {
		width = 80
	}

	upperH, lowerH := m.carousel.Split(max(2, height-chromeRows))

	var upper, lower, help string
	if m.carousel.Active() == pageChameleon {
		upper, lower = m.chameleonUpper(), m.chameleonLower()
		help = chameleonFooter(m.mode)
	} else {
		upper, lower = m.inboxUpper(), m.inboxLower()
		help = inboxFooter(m.mode)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Showcase") + "  " + mutedStyle.Render(pageTitle(m.carousel.Active())))
	b.WriteString("\n")
	b.WriteString(fit(upper, upperH))
	b.WriteString("\n")
	b.WriteString(m.divider(width))
	b.WriteString("\n")
	b.WriteString(fit(lower, lowerH))
	b.WriteString("\n")
	if m.status != "" {
		help = m.status
	}
	b.WriteString(footerStyle.Render(help))
	return b.String()
}

// divider carries the navigation dots and the split label
func (m *AppModel) divider(width int) string {
	dots := make([]string, m.carousel.Views())
	for i := range dots {
		dots[i] = inactiveDot
		if i == m.carousel.Active() {
			dots[i] = activeDot
		}
	}
	left := strings.Join(dots, " ")
	right := mutedStyle.Render(m.carousel.Label())

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return left + " " + dividerStyle.Render(strings.Repeat("─", gap)) + " " + right
}

func pageTitle(page int) string {
	if page == pageChameleon {
		return "Chameleon input"
	}
	return "Inbox"
}

// fit pads or truncates s to exactly h lines
func fit(s string, h int) string {
	if h <= 0 {
		return ""
	}
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
