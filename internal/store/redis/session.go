package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/showcase/internal/kv"
	"github.com/redis/go-redis/v9"
)

// SessionStore is the kv.Store of one session. Every key is namespaced under
// the session prefix and every write refreshes the session TTL.
type SessionStore struct {
	store *Store
	sid   string
}

var _ kv.Store = (*SessionStore)(nil)

// Session returns the key-value view of session sid
func (s *Store) Session(sid string) *SessionStore {
	return &SessionStore{store: s, sid: sid}
}

// Get returns the value stored under key
func (ss *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := ss.store.client.Get(ctx, SessionKey(ss.sid, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil // miss
		}
		return "", false, fmt.Errorf("failed to get session value: %w", err)
	}
	return val, true, nil
}

// Set stores value under key with the session TTL
func (ss *SessionStore) Set(ctx context.Context, key, value string) error {
	if err := ss.store.client.Set(ctx, SessionKey(ss.sid, key), value, ss.store.sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session value: %w", err)
	}
	return nil
}

// SessionIDs lists the sessions that have persisted state
func (s *Store) SessionIDs(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string

	iter := s.client.Scan(ctx, 0, KeyPrefixSession+"*", 0).Iterator()
	for iter.Next(ctx) {
		sid, err := ExtractSessionID(iter.Val())
		if err != nil {
			continue
		}
		if _, ok := seen[sid]; !ok {
			seen[sid] = struct{}{}
			ids = append(ids, sid)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan sessions: %w", err)
	}
	return ids, nil
}
