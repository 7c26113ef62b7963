package lookup

import (
	"context"
	"time"
)

// Entry is one memoized lookup result. Negative entries record a confirmed
// not-found and carry a short TTL so repeated misses do not hammer the
// source; they are still surfaced to callers as not-found.
type Entry struct {
	Payload   []byte        `json:"payload,omitempty"`
	Negative  bool          `json:"negative,omitempty"`
	FetchedAt time.Time     `json:"fetched_at"`
	TTL       time.Duration `json:"ttl"`
}

// Expired reports whether the entry has outlived its TTL at the given time.
func (e Entry) Expired(now time.Time) bool {
	return now.After(e.FetchedAt.Add(e.TTL))
}

// Store persists cache entries keyed by (source, query key, as-of date).
// Implementations: MemoryStore for single-process deployments, RedisStore
// when the cache must be shared across replicas.
type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	Set(ctx context.Context, key string, e Entry) error
}
