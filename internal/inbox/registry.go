package inbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/showcase/internal/index"
	"github.com/MrSnakeDoc/showcase/internal/kv"
	"github.com/MrSnakeDoc/showcase/internal/logger"
)

// StoreFunc returns the key-value store of one session
type StoreFunc func(sid string) kv.Store

// Registry keeps one Inbox per session, built lazily from the shared catalog
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Inbox

	catalog  *index.MemoryIndex
	storeFor StoreFunc
	opts     Options
	log      logger.Logger
}

// NewRegistry creates a registry over catalog. storeFor may be nil to keep
// sessions in memory only.
func NewRegistry(catalog *index.MemoryIndex, storeFor StoreFunc, opts Options) *Registry {
	opts.defaults()
	return &Registry{
		sessions: make(map[string]*Inbox),
		catalog:  catalog,
		storeFor: storeFor,
		opts:     opts,
		log:      opts.Logger,
	}
}

// ErrStateUnavailable is returned by Get when a new session's persisted
// state could not be read. The session is not cached, the next Get retries.
var ErrStateUnavailable = errors.New("session state unavailable")

// Get returns the inbox of sid, creating and loading it on first use.
// Loading runs outside the registry lock so a slow store only delays its own session.
func (r *Registry) Get(ctx context.Context, sid string) (*Inbox, error) {
	if b, ok := r.lookup(sid); ok {
		b.Touch()
		return b, nil
	}

	opts := r.opts
	opts.Logger = r.log.With(logger.String("session", sid))
	if r.storeFor != nil {
		opts.Store = r.storeFor(sid)
	}

	loadedAt := r.catalog.GetLastReload()
	b := New(r.catalog.All(), opts)
	if err := b.Load(ctx); err != nil {
		r.log.Warn("failed to restore session state",
			logger.String("session", sid),
			logger.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrStateUnavailable, err)
	}

	r.mu.Lock()
	// a concurrent request for the same session won the race
	if existing, ok := r.sessions[sid]; ok {
		r.mu.Unlock()
		existing.Touch()
		return existing, nil
	}
	r.sessions[sid] = b
	r.mu.Unlock()
	r.log.Debug("session opened", logger.String("session", sid))

	// RebaseAll may have run while this session was loading
	if !r.catalog.GetLastReload().Equal(loadedAt) {
		b.Rebase(ctx, r.catalog.All())
	}
	return b, nil
}

func (r *Registry) lookup(sid string) (*Inbox, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.sessions[sid]
	return b, ok
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// EvictIdle drops sessions not seen for ttl. Their persisted state stays in
// the store and is loaded again on the next request.
func (r *Registry) EvictIdle(ttl time.Duration) []string {
	cutoff := r.opts.Now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []string
	for sid, b := range r.sessions {
		if b.LastSeen().Before(cutoff) {
			delete(r.sessions, sid)
			evicted = append(evicted, sid)
		}
	}
	return evicted
}

// RebaseAll pushes the current catalog into every live session
func (r *Registry) RebaseAll(ctx context.Context) int {
	records := r.catalog.All()
	inboxes := r.snapshot()
	for _, b := range inboxes {
		b.Rebase(ctx, records)
	}
	return len(inboxes)
}

// PruneAll drops stale selected ids from every live session and returns how many were dropped
func (r *Registry) PruneAll(ctx context.Context) int {
	dropped := 0
	for _, b := range r.snapshot() {
		dropped += len(b.Prune(ctx))
	}
	return dropped
}

func (r *Registry) snapshot() []*Inbox {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Inbox, 0, len(r.sessions))
	for _, b := range r.sessions {
		out = append(out, b)
	}
	return out
}
