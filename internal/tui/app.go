// Package tui is the terminal front end: a two-page carousel holding the
// email browser and the self-formatting input.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrSnakeDoc/showcase/internal/carousel"
	"github.com/MrSnakeDoc/showcase/internal/domain"
	"github.com/MrSnakeDoc/showcase/internal/format"
	"github.com/MrSnakeDoc/showcase/internal/inbox"
	"github.com/MrSnakeDoc/showcase/internal/logger"
)

// Carousel pages
const (
	pageInbox = iota
	pageChameleon
	pageCount
)

type inputMode int

const (
	modeNormal    inputMode = iota
	modeSearch              // typing into the search box
	modeRange               // typing a from..to date range
	modeChameleon           // typing into the formatted field
)

// ratioKeyStep is how many RatioStep increments one +/- press moves
const ratioKeyStep = 5

// chromeRows is the height taken by title, divider and footer
const chromeRows = 5

type Options struct {
	Logger   logger.Logger
	Location *time.Location // zone used to read typed dates
}

type AppModel struct {
	ctx context.Context
	log logger.Logger
	loc *time.Location

	// Core state
	inbox    *inbox.Inbox
	catalog  *format.Catalog
	field    *format.Field
	carousel *carousel.Carousel
	status   string

	// Inbox page
	view   inbox.ViewState
	cursor int
	mode   inputMode

	// Sub-models
	searchInput    textinput.Model
	rangeInput     textinput.Model
	chameleonInput textinput.Model

	// Layout
	width, height int
}

func NewAppModel(ctx context.Context, box *inbox.Inbox, catalog *format.Catalog, opts Options) *AppModel {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	si := textinput.New()
	si.Prompt = "/ "
	si.Placeholder = "Search titles"
	si.CharLimit = 200

	ri := textinput.New()
	ri.Prompt = "range "
	ri.Placeholder = "YYYY-MM-DD..YYYY-MM-DD"
	ri.CharLimit = 22

	first := catalog.Presets()[0]
	ci := textinput.New()
	ci.Prompt = "> "
	ci.Placeholder = first.Placeholder
	ci.CharLimit = 64

	m := &AppModel{
		ctx:            ctx,
		log:            opts.Logger,
		loc:            opts.Location,
		inbox:          box,
		catalog:        catalog,
		carousel:       carousel.New(pageCount),
		searchInput:    si,
		rangeInput:     ri,
		chameleonInput: ci,
	}
	m.field = format.NewField(first, func(raw string) {
		m.log.Debug("chameleon input", logger.String("preset", m.field.Preset().ID), logger.Int("raw_len", len(raw)))
	})
	m.refresh()
	return m
}

func (m *AppModel) Init() tea.Cmd {
	return nil
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.searchInput.Width = max(10, msg.Width-4)
		m.chameleonInput.Width = max(10, msg.Width-4)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case statusMsg:
		m.status = string(msg)
		return m, nil
	}

	return m, nil
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global keys
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeRange:
		return m.handleRangeKey(msg)
	case modeChameleon:
		return m.handleChameleonKey(msg)
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.carousel.Prev()
		return m, nil
	case "right", "l":
		m.carousel.Next()
		return m, nil
	case "1":
		m.carousel.Go(pageInbox)
		return m, nil
	case "2":
		m.carousel.Go(pageChameleon)
		return m, nil
	case "+", "=":
		m.carousel.Nudge(ratioKeyStep)
		return m, nil
	case "-", "_":
		m.carousel.Nudge(-ratioKeyStep)
		return m, nil
	}

	if m.carousel.Active() == pageChameleon {
		return m.handleChameleonPageKey(key)
	}
	return m.handleInboxKey(key)
}

func (m *AppModel) handleInboxKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.view.Rows)-1 {
			m.cursor++
		}
	case " ":
		if row, ok := m.currentRow(); ok {
			if _, err := m.inbox.ToggleSelect(m.ctx, row.ID); err != nil {
				return m.flash(err.Error())
			}
		}
	case "f":
		if row, ok := m.currentRow(); ok {
			if _, err := m.inbox.ToggleFavorite(m.ctx, row.ID); err != nil {
				return m.flash(err.Error())
			}
		}
	case "a":
		m.inbox.ToggleSelectVisible(m.ctx)
	case "F":
		n := m.inbox.BulkFavorite(m.ctx)
		m.refresh()
		return m.flash(fmt.Sprintf("%d marked as favorite", n))
	case "x":
		m.inbox.ClearSelection(m.ctx)
	case "/":
		m.mode = modeSearch
		m.searchInput.SetValue(m.view.Search)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()
	case "r":
		m.mode = modeRange
		m.rangeInput.SetValue(rangeText(m.view.Range))
		m.rangeInput.CursorEnd()
		return m, m.rangeInput.Focus()
	case "c":
		m.inbox.ClearDateRange()
		m.cursor = 0
	case "t":
		m.inbox.ToggleSort(domain.SortByTitle)
		m.cursor = 0
	case "d":
		m.inbox.ToggleSort(domain.SortByDate)
		m.cursor = 0
	case "n":
		m.inbox.NextPage()
		m.cursor = 0
	case "p":
		m.inbox.PrevPage()
		m.cursor = 0
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

// Search is live: every keystroke re-runs the pipeline
func (m *AppModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.mode = modeNormal
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != m.view.Search {
		m.inbox.SetSearch(m.searchInput.Value())
		m.cursor = 0
		m.refresh()
	}
	return m, cmd
}

func (m *AppModel) handleRangeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.rangeInput.Blur()
		return m, nil
	case "enter":
		r, err := parseRange(m.rangeInput.Value(), m.loc)
		if err != nil {
			return m.flash(err.Error())
		}
		m.mode = modeNormal
		m.rangeInput.Blur()
		m.inbox.SetDateRange(r)
		m.cursor = 0
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.rangeInput, cmd = m.rangeInput.Update(msg)
	return m, cmd
}

func (m *AppModel) handleChameleonPageKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "tab":
		m.setPreset(m.catalog.Next(m.field.Preset().ID))
	case "shift+tab":
		m.setPreset(m.catalog.Prev(m.field.Preset().ID))
	case "enter", "i":
		m.mode = modeChameleon
		return m, m.chameleonInput.Focus()
	}
	return m, nil
}

// The input shows the formatted value; typing on top of it is normalized
// again by the preset, so the raw value never drifts.
func (m *AppModel) handleChameleonKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.mode = modeNormal
		m.chameleonInput.Blur()
		return m, nil
	case "tab", "shift+tab":
		return m.handleChameleonPageKey(msg.String())
	}

	before := m.chameleonInput.Value()
	var cmd tea.Cmd
	m.chameleonInput, cmd = m.chameleonInput.Update(msg)
	if v := m.chameleonInput.Value(); v != before {
		res := m.field.Input(v)
		m.chameleonInput.SetValue(res.Display)
		m.chameleonInput.CursorEnd()
	}
	return m, cmd
}

func (m *AppModel) setPreset(p format.Preset) {
	m.field.SetPreset(p)
	m.chameleonInput.SetValue("")
	m.chameleonInput.Placeholder = p.Placeholder
}

func (m *AppModel) currentRow() (inbox.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Rows) {
		return inbox.Row{}, false
	}
	return m.view.Rows[m.cursor], true
}

// refresh derives a new frame and keeps the cursor on a visible row
func (m *AppModel) refresh() {
	m.view = m.inbox.View()
	if m.cursor >= len(m.view.Rows) {
		m.cursor = max(0, len(m.view.Rows)-1)
	}
}

func (m *AppModel) flash(status string) (tea.Model, tea.Cmd) {
	m.status = status
	return m, clearStatusAfter(3 * time.Second)
}

// parseRange reads "from..to", either side may be empty. A single date
// without ".." is a one-day range.
func parseRange(s string, loc *time.Location) (domain.DateRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.DateRange{}, nil
	}
	from, to, found := strings.Cut(s, "..")
	if !found {
		to = from
	}
	return domain.ParseDateRange(from, to, loc)
}

func rangeText(r domain.DateRange) string {
	if r.IsZero() {
		return ""
	}
	return r.String()
}
