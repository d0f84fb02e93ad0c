package index

import (
	"errors"
	"sync"
	"time"

	"github.com/MrSnakeDoc/showcase/internal/domain"
)

// ErrNotFound is returned when an id is not in the index
var ErrNotFound = errors.New("email not found")

// MemoryIndex is the ordered in-memory record store.
// Records are copied on the way in and on the way out, so callers never
// share a record with the index.
type MemoryIndex struct {
	mu         sync.RWMutex
	order      []*domain.Email       // source order
	byID       map[int]*domain.Email // ID -> Email, same pointers as order
	lastReload time.Time             // Timestamp of last Replace
}

// NewMemoryIndex creates an empty index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		byID: make(map[int]*domain.Email),
	}
}

// Replace swaps the whole collection, keeping the given order
func (idx *MemoryIndex) Replace(emails []*domain.Email) {
	cloned := domain.CloneEmails(emails)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.order = cloned
	idx.byID = make(map[int]*domain.Email, len(cloned))
	for _, e := range cloned {
		idx.byID[e.ID] = e
	}
	idx.lastReload = time.Now()
}

// All returns a copy of every record in source order
func (idx *MemoryIndex) All() []*domain.Email {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return domain.CloneEmails(idx.order)
}

// Get retrieves a copy of a record by ID
func (idx *MemoryIndex) Get(id int) (*domain.Email, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	e, ok := idx.byID[id]
	if !ok {
		return nil, false
	}
	cp := *e
	return &cp, true
}

// Exists reports whether id is in the index
func (idx *MemoryIndex) Exists(id int) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	_, ok := idx.byID[id]
	return ok
}

// Count returns the number of records
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.order)
}

// ToggleFavorite flips the favorite flag of one record and returns the new value
func (idx *MemoryIndex) ToggleFavorite(id int) (bool, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	e, ok := idx.byID[id]
	if !ok {
		return false, ErrNotFound
	}
	e.Favorite = !e.Favorite
	return e.Favorite, nil
}

// MarkFavorite sets favorite on every listed record. Unknown ids are
// ignored. It returns how many records changed.
func (idx *MemoryIndex) MarkFavorite(ids []int) int {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	changed := 0
	for _, id := range ids {
		if e, ok := idx.byID[id]; ok && !e.Favorite {
			e.Favorite = true
			changed++
		}
	}
	return changed
}

// ApplyFavorites makes ids the exact favorite set: listed records become
// favorites and every other record loses the flag
func (idx *MemoryIndex) ApplyFavorites(ids []int) {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, e := range idx.order {
		_, e.Favorite = set[e.ID]
	}
}

// FavoriteIDs returns the ids of favorite records in source order
func (idx *MemoryIndex) FavoriteIDs() []int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ids := make([]int, 0)
	for _, e := range idx.order {
		if e.Favorite {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// GetLastReload returns the timestamp of the last Replace
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
