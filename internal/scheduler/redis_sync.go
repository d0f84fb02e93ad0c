package scheduler

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/showcase/internal/domain"
	"github.com/MrSnakeDoc/showcase/internal/index"
	"github.com/MrSnakeDoc/showcase/internal/logger"
)

// SnapshotReader returns the catalog snapshot kept in Redis
type SnapshotReader interface {
	GetAllEmails(ctx context.Context) ([]*domain.Email, error)
}

// RedisSyncer seeds the catalog from the Redis snapshot on startup, so the
// service can answer before the mailbox file is read
type RedisSyncer struct {
	store  SnapshotReader
	index  *index.MemoryIndex
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store SnapshotReader,
	idx *index.MemoryIndex,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads the snapshot into the catalog. An empty snapshot leaves the catalog untouched.
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	rs.logger.Info("syncing mailbox snapshot from redis to memory")

	emails, err := rs.store.GetAllEmails(ctx)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	if len(emails) == 0 {
		rs.logger.Info("no mailbox snapshot found in redis")
		return nil
	}

	rs.index.Replace(emails)

	rs.logger.Info("synced mailbox snapshot from redis",
		logger.Int("count", len(emails)))

	return nil
}
