package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/showcase/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultEmailTTL is the TTL of the record snapshot (48 hours)
	DefaultEmailTTL = 48 * time.Hour
	// DefaultSessionTTL is the TTL of persisted session state (30 days)
	DefaultSessionTTL = 30 * 24 * time.Hour
)

// Store handles Redis operations for the record snapshot and session state
type Store struct {
	client     *redis.Client
	sessionTTL time.Duration
}

// NewStore creates a new Redis store. sessionTTL <= 0 selects DefaultSessionTTL.
func NewStore(client *redis.Client, sessionTTL time.Duration) *Store {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &Store{
		client:     client,
		sessionTTL: sessionTTL,
	}
}

// SaveEmailsMany replaces the record snapshot (bulk operation).
// Source order is kept as the score of each id in the order set.
func (s *Store) SaveEmailsMany(ctx context.Context, emails []*domain.Email) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, EmailOrderKey())

	for i, email := range emails {
		data, err := json.Marshal(email)
		if err != nil {
			return fmt.Errorf("failed to marshal email %d: %w", email.ID, err)
		}

		pipe.Set(ctx, EmailKey(email.ID), data, DefaultEmailTTL)
		pipe.ZAdd(ctx, EmailOrderKey(), redis.Z{Score: float64(i), Member: email.ID})
	}
	pipe.Expire(ctx, EmailOrderKey(), DefaultEmailTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save emails: %w", err)
	}
	return nil
}

// GetAllEmails retrieves the snapshot in source order. Records whose key
// expired or cannot be decoded are skipped.
func (s *Store) GetAllEmails(ctx context.Context) ([]*domain.Email, error) {
	members, err := s.client.ZRange(ctx, EmailOrderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get email order: %w", err)
	}
	if len(members) == 0 {
		return []*domain.Email{}, nil
	}

	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = KeyPrefixEmail + m
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get emails: %w", err)
	}

	emails := make([]*domain.Email, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var email domain.Email
		if err := json.Unmarshal([]byte(str), &email); err != nil {
			continue
		}
		emails = append(emails, &email)
	}
	return emails, nil
}

// CountEmails returns the number of records in the snapshot
func (s *Store) CountEmails(ctx context.Context) (int64, error) {
	n, err := s.client.ZCard(ctx, EmailOrderKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count emails: %w", err)
	}
	return n, nil
}
