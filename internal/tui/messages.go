package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// statusMsg replaces the footer status line; "" clears it
type statusMsg string

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return statusMsg("") })
}
