package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/showcase/internal/domain"
	"github.com/MrSnakeDoc/showcase/internal/index"
	"github.com/MrSnakeDoc/showcase/internal/logger"
	"github.com/MrSnakeDoc/showcase/internal/metrics"
)

// EmailSource produces the current mailbox content
type EmailSource interface {
	Emails() ([]*domain.Email, error)
}

// Snapshotter keeps a copy of the catalog outside the process
type Snapshotter interface {
	SaveEmailsMany(ctx context.Context, emails []*domain.Email) error
}

// Rebaser pushes a fresh catalog into live sessions
type Rebaser interface {
	RebaseAll(ctx context.Context) int
}

// MailboxReloader handles periodic and manual reloading of the mailbox file
type MailboxReloader struct {
	source        EmailSource
	store         Snapshotter
	index         *index.MemoryIndex
	sessions      Rebaser
	metrics       *metrics.Collector
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger <-chan struct{}
}

// NewMailboxReloader creates a new mailbox reloader. store, sessions and
// collector may be nil.
func NewMailboxReloader(
	source EmailSource,
	store Snapshotter,
	idx *index.MemoryIndex,
	sessions Rebaser,
	collector *metrics.Collector,
	log logger.Logger,
	interval time.Duration,
	manualTrigger <-chan struct{},
) *MailboxReloader {
	if interval <= 0 {
		interval = DefaultReloadInterval
	}
	return &MailboxReloader{
		source:        source,
		store:         store,
		index:         idx,
		sessions:      sessions,
		metrics:       collector,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Run loads the mailbox once, then reloads on every tick or manual trigger
// until ctx is done or Stop is called. A failed first load is fatal only
// when nothing was synced into the catalog beforehand.
func (mr *MailboxReloader) Run(ctx context.Context) error {
	if err := mr.Reload(ctx); err != nil {
		if mr.index.Count() == 0 {
			return fmt.Errorf("initial reload failed: %w", err)
		}
		mr.logger.Warn("initial reload failed, serving synced records",
			logger.Int("count", mr.index.Count()),
			logger.Error(err))
	}

	ticker := time.NewTicker(mr.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := mr.Reload(ctx); err != nil {
				mr.logger.Error("failed to reload mailbox", logger.Error(err))
			}
		case <-mr.manualTrigger:
			mr.logger.Info("manual reload triggered")
			if err := mr.Reload(ctx); err != nil {
				mr.logger.Error("failed to reload mailbox", logger.Error(err))
			}
		case <-mr.stopCh:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// Stop stops the reloader. It is safe to call more than once.
func (mr *MailboxReloader) Stop() {
	mr.stopOnce.Do(func() { close(mr.stopCh) })
}

// Reload reads the mailbox and updates catalog, sessions and snapshot
func (mr *MailboxReloader) Reload(ctx context.Context) error {
	mr.logger.Info("reloading mailbox")

	emails, err := mr.source.Emails()
	mr.metrics.Reload(len(emails), err)
	if err != nil {
		return fmt.Errorf("failed to load mailbox: %w", err)
	}

	mr.index.Replace(emails)
	mr.logger.Info("loaded mailbox", logger.Int("count", len(emails)))

	if mr.sessions != nil {
		if n := mr.sessions.RebaseAll(ctx); n > 0 {
			mr.logger.Info("rebased live sessions", logger.Int("sessions", n))
		}
	}

	// Snapshot is best effort, the memory index is the primary source
	if mr.store != nil {
		if err := mr.store.SaveEmailsMany(ctx, emails); err != nil {
			mr.logger.Warn("failed to save mailbox snapshot to redis", logger.Error(err))
		} else {
			mr.logger.Debug("mailbox snapshot saved to redis")
		}
	}

	return nil
}
