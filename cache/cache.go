package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/verazapp/authkit/state"
)

// DefaultTTL is the canonical snapshot time-to-live. One TTL governs the
// whole entry; there is no per-field aging.
const DefaultTTL = 24 * time.Hour

// entry is the persisted envelope. Field names match the wire format the
// auth backend's other consumers already use for this cache key.
type entry struct {
	Status        state.Status `json:"authStatus"`
	User          *state.User  `json:"user"`
	Token         string       `json:"token"`
	LastCheckedAt int64        `json:"lastAuthCheck"` // unix milliseconds
}

// Cache reads and writes the persisted session snapshot with TTL
// enforcement. Every failure mode of the underlying store (missing key,
// unreadable backend, corrupt payload) is folded into a cache miss, so
// callers only ever see a snapshot or nil.
type Cache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// New creates a Cache over store. A non-positive ttl selects [DefaultTTL].
func New(store Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: store, ttl: ttl, now: time.Now}
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the persisted snapshot regardless of age, or nil on miss.
// A payload that no longer deserializes is deleted before returning nil,
// so one corrupt write cannot wedge every later read.
func (c *Cache) Get(ctx context.Context) *state.Snapshot {
	data, err := c.store.Get(ctx, SnapshotKey)
	if err != nil {
		return nil
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		if delErr := c.store.Delete(ctx, SnapshotKey); delErr != nil {
			log.Print("authkit: corrupt snapshot cleanup failed")
		}
		return nil
	}

	return &state.Snapshot{
		Status:        e.Status,
		User:          e.User,
		Token:         e.Token,
		LastCheckedAt: time.UnixMilli(e.LastCheckedAt),
	}
}

// IsValid reports whether the snapshot is still inside its TTL window.
func (c *Cache) IsValid(snap *state.Snapshot) bool {
	if snap == nil {
		return false
	}
	return c.now().Before(snap.LastCheckedAt.Add(c.ttl))
}

// GetValid returns the persisted snapshot only when it is still valid.
func (c *Cache) GetValid(ctx context.Context) *state.Snapshot {
	snap := c.Get(ctx)
	if !c.IsValid(snap) {
		return nil
	}
	return snap
}

// Save persists the snapshot, stamping it with the current time. The
// caller's LastCheckedAt is ignored; the write instant is what ages the
// entry.
func (c *Cache) Save(ctx context.Context, snap state.Snapshot) error {
	e := entry{
		Status:        snap.Status,
		User:          snap.User,
		Token:         snap.Token,
		LastCheckedAt: c.now().UnixMilli(),
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, SnapshotKey, data, c.ttl)
}

// Clear deletes the persisted snapshot. Idempotent.
func (c *Cache) Clear(ctx context.Context) error {
	return c.store.Delete(ctx, SnapshotKey)
}
