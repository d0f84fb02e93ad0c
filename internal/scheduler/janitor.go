package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/showcase/internal/logger"
	"github.com/MrSnakeDoc/showcase/internal/metrics"
)

const (
	// DefaultIdleTTL is how long a session stays in memory without requests
	DefaultIdleTTL = 2 * time.Hour
	// DefaultSweepInterval is used when the janitor gets a non-positive interval
	DefaultSweepInterval = time.Hour
	// DefaultReloadInterval is used when the reloader gets a non-positive interval
	DefaultReloadInterval = 24 * time.Hour
)

// Sessions is what the janitor sweeps
type Sessions interface {
	PruneAll(ctx context.Context) int
	EvictIdle(ttl time.Duration) []string
}

// Janitor periodically drops stale selected ids and evicts idle sessions.
// Evicted sessions keep their persisted state and come back on the next request.
type Janitor struct {
	sessions Sessions
	metrics  *metrics.Collector
	logger   logger.Logger
	interval time.Duration
	idleTTL  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewJanitor creates a new janitor
func NewJanitor(
	sessions Sessions,
	collector *metrics.Collector,
	log logger.Logger,
	interval time.Duration,
	idleTTL time.Duration,
) *Janitor {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	return &Janitor{
		sessions: sessions,
		metrics:  collector,
		logger:   log,
		interval: interval,
		idleTTL:  idleTTL,
		stopCh:   make(chan struct{}),
	}
}

// Run sweeps once, then on every tick until ctx is done or Stop is called
func (j *Janitor) Run(ctx context.Context) error {
	j.Sweep(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			j.Sweep(ctx)
		case <-j.stopCh:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// Stop stops the janitor. It is safe to call more than once.
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() { close(j.stopCh) })
}

// Sweep runs one cleanup pass and returns pruned ids and evicted sessions
func (j *Janitor) Sweep(ctx context.Context) (pruned, evicted int) {
	pruned = j.sessions.PruneAll(ctx)
	gone := j.sessions.EvictIdle(j.idleTTL)
	evicted = len(gone)
	j.metrics.Evicted(evicted)

	if pruned > 0 || evicted > 0 {
		j.logger.Info("janitor sweep completed",
			logger.Int("pruned_ids", pruned),
			logger.Int("evicted_sessions", evicted))
	} else {
		j.logger.Debug("nothing to sweep")
	}
	return pruned, evicted
}
