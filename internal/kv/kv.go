// Package kv defines the key-value boundary used to persist per-session
// favorites and selection, and the JSON encoding of id lists stored there.
package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/MrSnakeDoc/showcase/internal/logger"
)

// Store is a string key-value store. A missing key is reported as
// ("", false, nil), never as an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Keys names the two entries one inbox persists
type Keys struct {
	Favorites string
	Selected  string
}

// DefaultKeys are the key names of a single-user store such as the terminal UI database
func DefaultKeys() Keys {
	return Keys{
		Favorites: "email-favorites",
		Selected:  "email-selected",
	}
}

// LoadIDs reads a JSON array of ids stored under key.
//
// found is false when the key is absent or its value is not a valid id list.
// A malformed value is logged at warn level and treated as absent so a
// corrupt entry never blocks startup.
func LoadIDs(ctx context.Context, s Store, key string, log logger.Logger) (ids []int, found bool, err error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		log.Warn("discarding malformed persisted ids",
			logger.String("key", key),
			logger.Error(err))
		return nil, false, nil
	}
	return ids, true, nil
}

// SaveIDs stores ids under key as a JSON array in ascending order
func SaveIDs(ctx context.Context, s Store, key string, ids []int) error {
	sorted := slices.Clone(ids)
	if sorted == nil {
		sorted = []int{}
	}
	slices.Sort(sorted)

	data, err := json.Marshal(sorted)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
