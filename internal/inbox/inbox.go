// Package inbox is the state shell of the email browser. An Inbox owns one
// session's records, selection and view settings, runs the list pipeline to
// derive what is visible and persists favorites and selection after every
// change.
package inbox

import (
	"context"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/MrSnakeDoc/showcase/internal/domain"
	"github.com/MrSnakeDoc/showcase/internal/index"
	"github.com/MrSnakeDoc/showcase/internal/kv"
	"github.com/MrSnakeDoc/showcase/internal/logger"
)

// EmptyMessage is shown when the filters leave nothing to display
const EmptyMessage = "No emails found"

// Options configures an Inbox
type Options struct {
	Store    kv.Store // nil disables persistence
	Keys     kv.Keys
	Logger   logger.Logger
	Pipeline *domain.Pipeline
	PageSize int
	Now      func() time.Time
}

func (o *Options) defaults() {
	if o.Keys == (kv.Keys{}) {
		o.Keys = kv.DefaultKeys()
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	if o.Pipeline == nil {
		o.Pipeline = domain.NewPipeline(language.English)
	}
	if o.PageSize <= 0 {
		o.PageSize = domain.DefaultPageSize
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Row is one visible record with its selection state
type Row struct {
	domain.Email
	Selected bool `json:"selected"`
}

// ViewState is everything a renderer needs for one frame
type ViewState struct {
	Rows          []Row            `json:"rows"`
	Page          int              `json:"page"`
	PageSize      int              `json:"page_size"`
	TotalPages    int              `json:"total_pages"`
	Total         int              `json:"total"`
	PageWindow    []int            `json:"page_window,omitempty"`
	AllSelected   bool             `json:"all_selected"`
	SelectedIDs   []int            `json:"selected_ids"`
	SelectedCount int              `json:"selected_count"`
	FavoriteCount int              `json:"favorite_count"`
	Search        string           `json:"search"`
	Range         domain.DateRange `json:"range"`
	Sort          domain.SortSpec  `json:"sort"`
	Empty         string           `json:"empty,omitempty"`
}

// VisibleIDs returns the ids of the visible rows
func (v ViewState) VisibleIDs() []int {
	ids := make([]int, len(v.Rows))
	for i, r := range v.Rows {
		ids[i] = r.ID
	}
	return ids
}

// Inbox is safe for concurrent use; every method applies one event atomically
type Inbox struct {
	mu sync.Mutex

	records   *index.MemoryIndex
	selection *domain.Selection
	// favorites is the authoritative favorite id set. It may hold ids the
	// records do not have yet, so a catalog loaded late gets them back.
	favorites *domain.Selection
	// ownFavorites is set once favorites come from the store or the user;
	// until then they follow the source flags
	ownFavorites bool

	search    string
	dateRange domain.DateRange
	sort      domain.SortSpec
	page      int

	opts     Options
	log      logger.Logger
	lastSeen time.Time
}

// New builds an inbox over a private copy of records
func New(records []*domain.Email, opts Options) *Inbox {
	opts.defaults()

	idx := index.NewMemoryIndex()
	idx.Replace(records)

	return &Inbox{
		records:   idx,
		selection: domain.NewSelection(),
		favorites: domain.NewSelection(idx.FavoriteIDs()...),
		sort:      domain.DefaultSort(),
		page:      1,
		opts:      opts,
		log:       opts.Logger,
		lastSeen:  opts.Now(),
	}
}

// Load restores favorites and selection from the store. A stored favorite
// list replaces the flags that came with the records.
func (b *Inbox) Load(ctx context.Context) error {
	if b.opts.Store == nil {
		return nil
	}

	favorites, foundFav, err := kv.LoadIDs(ctx, b.opts.Store, b.opts.Keys.Favorites, b.log)
	if err != nil {
		return err
	}
	selected, foundSel, err := kv.LoadIDs(ctx, b.opts.Store, b.opts.Keys.Selected, b.log)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if foundFav {
		b.favorites.Replace(favorites)
		b.ownFavorites = true
		b.records.ApplyFavorites(favorites)
	}
	if foundSel {
		b.selection.Replace(selected)
	}
	b.log.Debug("inbox state restored",
		logger.Int("favorites", b.favorites.Len()),
		logger.Int("selected", b.selection.Len()))
	return nil
}

// Touch records activity for idle eviction
func (b *Inbox) Touch() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastSeen = b.opts.Now()
}

// LastSeen returns the time of the last Touch
func (b *Inbox) LastSeen() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastSeen
}

// SetSearch changes the search term. A different term goes back to page 1.
func (b *Inbox) SetSearch(term string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if term == b.search {
		return
	}
	b.search = term
	b.page = 1
}

// SetDateRange changes the date filter. A different range goes back to page 1.
func (b *Inbox) SetDateRange(r domain.DateRange) {
	r = r.Normalize()

	b.mu.Lock()
	defer b.mu.Unlock()

	if r.Equal(b.dateRange) {
		return
	}
	b.dateRange = r
	b.page = 1
}

// ClearDateRange drops both date bounds
func (b *Inbox) ClearDateRange() {
	b.SetDateRange(domain.DateRange{})
}

// SetSort changes the ordering. A different spec goes back to page 1.
func (b *Inbox) SetSort(spec domain.SortSpec) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if spec == b.sort {
		return
	}
	b.sort = spec
	b.page = 1
}

// ToggleSort applies a click on a sort field and returns the new spec
func (b *Inbox) ToggleSort(field domain.SortField) domain.SortSpec {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sort = b.sort.Toggle(field)
	b.page = 1
	return b.sort
}

// SetPage moves to page p. Out of range values are clamped when the view is derived.
func (b *Inbox) SetPage(p int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.page = max(1, p)
}

// NextPage advances one page, stopping at the last
func (b *Inbox) NextPage() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.page = b.runLocked().Page + 1
}

// PrevPage goes back one page, stopping at the first
func (b *Inbox) PrevPage() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.page = max(1, b.runLocked().Page-1)
}

// ToggleSelect flips the selection of one id and returns whether it is selected afterwards
func (b *Inbox) ToggleSelect(ctx context.Context, id int) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.records.Exists(id) {
		return false, index.ErrNotFound
	}
	selected := b.selection.Toggle(id)
	b.saveSelectionLocked(ctx)
	return selected, nil
}

// ToggleSelectVisible selects every record on the current page, or
// deselects them when they are all selected already. Records on other pages
// keep their selection. It returns whether the page ended up selected.
func (b *Inbox) ToggleSelectVisible(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	visible := b.runLocked().IDs()
	if len(visible) == 0 {
		return false
	}
	selected := b.selection.ToggleVisible(visible)
	b.saveSelectionLocked(ctx)
	return selected
}

// SetSelection replaces the whole selection
func (b *Inbox) SetSelection(ctx context.Context, ids []int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.selection.Replace(ids)
	b.saveSelectionLocked(ctx)
}

// ClearSelection empties the selection
func (b *Inbox) ClearSelection(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.selection.Clear()
	b.saveSelectionLocked(ctx)
}

// ToggleFavorite flips the favorite flag of one record
func (b *Inbox) ToggleFavorite(ctx context.Context, id int) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	fav, err := b.records.ToggleFavorite(id)
	if err != nil {
		return false, err
	}
	if b.favorites.Has(id) != fav {
		b.favorites.Toggle(id)
	}
	b.ownFavorites = true
	b.saveFavoritesLocked(ctx)
	return fav, nil
}

// BulkFavorite marks every selected record as favorite. It never removes a
// favorite and leaves the selection untouched. It returns how many records changed.
func (b *Inbox) BulkFavorite(ctx context.Context) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := b.selection.IDs()
	changed := b.records.MarkFavorite(ids)
	for _, id := range ids {
		if b.records.Exists(id) && !b.favorites.Has(id) {
			b.favorites.Toggle(id)
		}
	}
	if changed > 0 {
		b.ownFavorites = true
		b.saveFavoritesLocked(ctx)
	}
	return changed
}

// Prune drops selected ids that no longer exist and returns them.
// Before the first catalog load nothing is stale yet.
func (b *Inbox) Prune(ctx context.Context) []int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.records.Count() == 0 {
		return nil
	}

	dropped := b.selection.Prune(b.records.Exists)
	if len(dropped) > 0 {
		b.log.Info("pruned stale selection", logger.Ints("ids", dropped))
		b.saveSelectionLocked(ctx)
	}
	return dropped
}

// Rebase swaps in a fresh copy of the records. Stored or user-set favorites
// carry over by id, including ids the previous records did not have; otherwise
// the new source flags apply. Selected ids that disappeared are dropped.
func (b *Inbox) Rebase(ctx context.Context, records []*domain.Email) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.records.Replace(records)
	if b.ownFavorites {
		b.records.ApplyFavorites(b.favorites.IDs())
	} else {
		b.favorites.Replace(b.records.FavoriteIDs())
	}

	if dropped := b.selection.Prune(b.records.Exists); len(dropped) > 0 {
		b.log.Info("pruned stale selection", logger.Ints("ids", dropped))
		b.saveSelectionLocked(ctx)
	}
}

// View derives the current page and selection summary
func (b *Inbox) View() ViewState {
	b.mu.Lock()
	defer b.mu.Unlock()

	page := b.runLocked()
	b.page = page.Page

	rows := make([]Row, len(page.Emails))
	for i, e := range page.Emails {
		rows[i] = Row{Email: *e, Selected: b.selection.Has(e.ID)}
	}

	v := ViewState{
		Rows:          rows,
		Page:          page.Page,
		PageSize:      page.PageSize,
		TotalPages:    page.TotalPages,
		Total:         page.Total,
		PageWindow:    domain.PageWindow(page.Page, page.TotalPages),
		AllSelected:   b.selection.AllSelected(page.IDs()),
		SelectedIDs:   b.selection.IDs(),
		SelectedCount: b.selection.Len(),
		FavoriteCount: len(b.records.FavoriteIDs()),
		Search:        b.search,
		Range:         b.dateRange,
		Sort:          b.sort,
	}
	if page.Total == 0 {
		v.Empty = EmptyMessage
	}
	return v
}

// Email returns a copy of one record
func (b *Inbox) Email(id int) (*domain.Email, bool) {
	return b.records.Get(id)
}

// Row returns one record with its selection flag
func (b *Inbox) Row(id int) (Row, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.records.Get(id)
	if !ok {
		return Row{}, false
	}
	return Row{Email: *e, Selected: b.selection.Has(id)}, true
}

func (b *Inbox) runLocked() domain.Page {
	return b.opts.Pipeline.Run(b.records.All(), domain.Query{
		Search:   b.search,
		Range:    b.dateRange,
		Sort:     b.sort,
		Page:     b.page,
		PageSize: b.opts.PageSize,
	})
}

// Persistence is best effort: the in-memory state stays authoritative.

func (b *Inbox) saveFavoritesLocked(ctx context.Context) {
	if b.opts.Store == nil {
		return
	}
	if err := kv.SaveIDs(ctx, b.opts.Store, b.opts.Keys.Favorites, b.favorites.IDs()); err != nil {
		b.log.Warn("failed to persist favorites", logger.Error(err))
	}
}

func (b *Inbox) saveSelectionLocked(ctx context.Context) {
	if b.opts.Store == nil {
		return
	}
	if err := kv.SaveIDs(ctx, b.opts.Store, b.opts.Keys.Selected, b.selection.IDs()); err != nil {
		b.log.Warn("failed to persist selection", logger.Error(err))
	}
}
