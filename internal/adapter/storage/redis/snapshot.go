// Package redis caches the latest queue snapshot so dashboard frontends can
// poll without touching the dispatch engine.
package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/storage/redis/v3"
	"go.uber.org/zap"

	"github.com/likethemonth/Four-Seasons-Task-sub001/internal/core/port"
)

const (
	snapshotKey = "housekeeping:queue:snapshot"
	snapshotTTL = 30 * time.Second
)

type snapshotStore struct {
	storage *redis.Storage
	log     *zap.Logger
}

// NewSnapshotStore creates a snapshot cache over the given Redis storage.
// Entries expire after 30 seconds so a stalled sweeper never serves a stale
// queue forever.
func NewSnapshotStore(storage *redis.Storage, log *zap.Logger) port.SnapshotStore {
	return &snapshotStore{
		storage: storage,
		log:     log,
	}
}

func (s *snapshotStore) Store(ctx context.Context, status *port.QueueStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return s.storage.Set(snapshotKey, data, snapshotTTL)
}

// Load returns the cached snapshot, or nil when none is cached.
func (s *snapshotStore) Load(ctx context.Context) (*port.QueueStatus, error) {
	data, err := s.storage.Get(snapshotKey)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var status port.QueueStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
