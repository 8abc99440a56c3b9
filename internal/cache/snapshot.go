package cache

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"chovatel/internal/core"
)

// SnapshotCache caches calculator snapshots per user. Concurrent misses for
// the same user collapse into one store read via singleflight.
type SnapshotCache struct {
	lru   *LRUCache[core.Snapshot]
	group singleflight.Group
}

func NewSnapshotCache(maxSize int, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		lru: NewLRUCache[core.Snapshot](maxSize, ttl),
	}
}

// Get returns the cached snapshot for userID, loading it through load on a
// miss. Load errors are not cached.
func (c *SnapshotCache) Get(ctx context.Context, userID string, load func(context.Context) (core.Snapshot, error)) (core.Snapshot, error) {
	if snap, ok := c.lru.Get(userID); ok {
		return snap, nil
	}

	v, err, _ := c.group.Do(userID, func() (any, error) {
		// Another flight member may have populated the entry already.
		if snap, ok := c.lru.Get(userID); ok {
			return snap, nil
		}
		snap, err := load(ctx)
		if err != nil {
			return core.EmptySnapshot(), err
		}
		c.lru.Set(userID, snap)
		return snap, nil
	})
	if err != nil {
		return core.EmptySnapshot(), err
	}
	return v.(core.Snapshot), nil
}

// Invalidate drops the cached snapshot after a mutation.
func (c *SnapshotCache) Invalidate(userID string) {
	c.lru.Delete(userID)
}

// Prime stores a freshly loaded snapshot.
func (c *SnapshotCache) Prime(userID string, snap core.Snapshot) {
	c.lru.Set(userID, snap)
}

// Size returns the number of cached snapshots.
func (c *SnapshotCache) Size() int {
	return c.lru.Size()
}

// StartCleanup evicts expired entries every interval until ctx is cancelled.
func (c *SnapshotCache) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := c.lru.CleanExpired(); removed > 0 {
					slog.Debug("Cleaned expired snapshots", "removed", removed, "remaining", c.lru.Size())
				}
			}
		}
	}()
}
