package usecases

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"infobot/internal/entities"
	"infobot/internal/interfaces"
)

// Cache holds the content snapshot with a TTL. Reads are served from
// memory while the snapshot is valid; the snapshot is replaced
// atomically on refresh so concurrent readers never see a partial
// build. Concurrent refreshes collapse into a single fetch.
type Cache struct {
	source interfaces.RowSource
	ttl    time.Duration
	log    *zap.Logger

	group singleflight.Group

	mu        sync.RWMutex
	snapshot  entities.Snapshot
	fetchedAt time.Time
}

func NewCache(source interfaces.RowSource, ttl time.Duration, log *zap.Logger) *Cache {
	return &Cache{source: source, ttl: ttl, log: log}
}

// Get returns the cached snapshot, fetching from the source when the
// cache is empty, expired, or forceRefresh is set. Fetch errors
// propagate to the caller; there is no retry here.
func (c *Cache) Get(ctx context.Context, forceRefresh bool) (entities.Snapshot, error) {
	if !forceRefresh {
		c.mu.RLock()
		if c.valid() {
			snap := c.snapshot
			c.mu.RUnlock()
			return snap, nil
		}
		c.mu.RUnlock()
	}

	v, err, _ := c.group.Do("refresh", func() (interface{}, error) {
		return c.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(entities.Snapshot), nil
}

// Invalidate clears the snapshot and timestamp; the next Get fetches
// regardless of TTL.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}

// Age reports how old the snapshot is and whether it is still valid.
func (c *Cache) Age() (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fetchedAt.IsZero() {
		return 0, false
	}
	return time.Since(c.fetchedAt), c.valid()
}

// valid must be called with at least a read lock held
func (c *Cache) valid() bool {
	return !c.fetchedAt.IsZero() && time.Since(c.fetchedAt) < c.ttl
}

func (c *Cache) refresh(ctx context.Context) (entities.Snapshot, error) {
	rows, err := c.source.FetchRows(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := make(entities.Snapshot, 0, len(rows))
	dropped := 0
	for i, row := range rows {
		if i == 0 {
			continue // row 0 is always the header
		}
		item, ok := entities.ItemFromRow(row)
		if !ok {
			dropped++
			continue
		}
		snapshot = append(snapshot, item)
	}

	c.mu.Lock()
	c.snapshot = snapshot
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	c.log.Info("content cache refreshed",
		zap.Int("items", len(snapshot)),
		zap.Int("dropped_rows", dropped))
	return snapshot, nil
}
