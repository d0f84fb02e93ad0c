package tui

import (
	"fmt"
	"strings"
)

func (m *AppModel) chameleonUpper() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Input types"))
	b.WriteString("\n")

	active := m.field.Preset().ID
	for _, p := range m.catalog.Presets() {
		if p.ID == active {
			fmt.Fprintf(&b, "%s%s\n", cursorStyle.Render("> "), p.Name)
			continue
		}
		fmt.Fprintf(&b, "  %s\n", mutedStyle.Render(p.Name))
	}
	return b.String()
}

func (m *AppModel) chameleonLower() string {
	var b strings.Builder

	p := m.field.Preset()
	b.WriteString(headerStyle.Render(p.Name))
	b.WriteString("\n")
	b.WriteString(m.chameleonInput.View())
	b.WriteString("\n\n")

	state := m.field.State()
	fmt.Fprintf(&b, "raw:     %s\n", state.Raw)
	fmt.Fprintf(&b, "display: %s\n", state.Display)
	switch {
	case state.Raw == "":
		b.WriteString(mutedStyle.Render(p.Placeholder))
	case state.Error != "":
		b.WriteString(errorStyle.Render("✗ " + state.Error))
	default:
		b.WriteString(validStyle.Render("✓ valid"))
	}
	b.WriteString("\n")
	return b.String()
}

func chameleonFooter(mode inputMode) string {
	if mode == modeChameleon {
		return "type a value  tab: next type  enter/esc: done"
	}
	return "enter: edit  tab/shift+tab: change type  ←/→ 1/2: swipe  +/-: split  q: quit"
}
