// Package lookup implements the temporal lookup cache: a process-wide
// memoization layer in front of the regulatory sources, keyed by
// (source, query key, as-of date). Rate-limit backoff, negative caching, and
// single-flight deduplication live here so evaluators never reimplement them.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"invoiceguard/internal/lookup/metrics"
	"invoiceguard/internal/regulatory"
)

const (
	defaultTTL          = 15 * time.Minute
	defaultNegativeTTL  = 1 * time.Minute
	defaultFetchTimeout = 5 * time.Second
	defaultMaxAttempts  = 3
	defaultBaseDelay    = 100 * time.Millisecond
)

// Cache memoizes regulatory query results. It is safe for concurrent use and
// shared across validation runs; only TTL expiry evicts entries.
type Cache struct {
	store        Store
	group        singleflight.Group
	ttl          time.Duration
	negativeTTL  time.Duration
	fetchTimeout time.Duration
	maxAttempts  int
	baseDelay    time.Duration
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the success-entry TTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithNegativeTTL sets the TTL for cached not-found results.
func WithNegativeTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.negativeTTL = ttl }
}

// WithFetchTimeout bounds a single upstream fetch attempt.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Cache) { c.fetchTimeout = d }
}

// WithRetry sets the rate-limit retry budget and base backoff delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(c *Cache) {
		c.maxAttempts = maxAttempts
		c.baseDelay = baseDelay
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// WithMetrics sets the cache metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// New constructs a Cache over the given store.
func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:        store,
		ttl:          defaultTTL,
		negativeTTL:  defaultNegativeTTL,
		fetchTimeout: defaultFetchTimeout,
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key builds the cache key. The as-of date is part of the key: rate tables
// are time-versioned and the same code queried at different dates must not
// share an entry.
func Key(source regulatory.Source, queryKey string, asOf time.Time) string {
	return fmt.Sprintf("%s|%s|%s", source, queryKey, asOf.Format("2006-01-02"))
}

// Fetch returns the memoized value for (source, queryKey, asOf), calling fn
// at most once per key across concurrent callers when no live entry exists.
//
// Failure handling follows the fetch classification:
//   - not-found is stored as a short-TTL negative and surfaced as not-found
//   - rate-limited is retried with exponential backoff (honoring the server
//     hint) up to the attempt budget, then surfaced
//   - unavailable (including timeouts) is surfaced immediately and never
//     cached; retry policy above this layer belongs to the caller
func Fetch[T any](ctx context.Context, c *Cache, source regulatory.Source, queryKey string, asOf time.Time, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	key := Key(source, queryKey, asOf)

	if v, ok, err := cached[T](ctx, c, source, key); ok {
		return v, err
	}

	ch := c.group.DoChan(key, func() (any, error) {
		return c.fill(ctx, source, key, func(fctx context.Context) ([]byte, error) {
			v, err := fn(fctx)
			if err != nil {
				return nil, err
			}
			return json.Marshal(v)
		})
	})

	select {
	case <-ctx.Done():
		// The flight keeps running on a detached context; its result stays
		// cached for future runs.
		return zero, regulatory.NewLookupError(regulatory.ErrorUnavailable, source, "lookup abandoned", ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		return decode[T](r.Val.([]byte))
	}
}

// cached checks the store for a live entry. The second return reports whether
// the lookup was answered from cache (positively or negatively).
func cached[T any](ctx context.Context, c *Cache, source regulatory.Source, key string) (T, bool, error) {
	var zero T
	e, err := c.store.Get(ctx, key)
	if err != nil {
		c.metrics.ObserveCacheLookup(string(source), "miss")
		return zero, false, nil
	}
	if e.Negative {
		c.metrics.ObserveCacheLookup(string(source), "negative_hit")
		return zero, true, regulatory.NewLookupError(regulatory.ErrorNotFound, source, "not found (cached)", nil)
	}
	c.metrics.ObserveCacheLookup(string(source), "hit")
	v, err := decode[T](e.Payload)
	return v, true, err
}

// fill performs the upstream fetch with rate-limit backoff and stores the
// outcome. It runs inside the single flight for the key, detached from any
// one caller's cancellation so a completed fetch benefits future runs.
func (c *Cache) fill(ctx context.Context, source regulatory.Source, key string, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	ctx = context.WithoutCancel(ctx)

	// A concurrent flight may have filled the entry between the caller's
	// cache check and this flight starting.
	if e, err := c.store.Get(ctx, key); err == nil {
		if e.Negative {
			return nil, regulatory.NewLookupError(regulatory.ErrorNotFound, source, "not found (cached)", nil)
		}
		return e.Payload, nil
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			c.metrics.IncrementRetry(string(source))
			if err := c.backoff(ctx, attempt, regulatory.RetryAfterHint(lastErr)); err != nil {
				return nil, regulatory.NewLookupError(regulatory.ErrorUnavailable, source, "backoff interrupted", err)
			}
		}

		start := time.Now()
		payload, err := c.attempt(ctx, fetch)
		if err == nil {
			c.metrics.ObserveFetch(string(source), "success", time.Since(start))
			c.storeEntry(ctx, key, Entry{Payload: payload, FetchedAt: time.Now(), TTL: c.ttl})
			return payload, nil
		}

		category := classify(err, source)
		c.metrics.ObserveFetch(string(source), string(category.Category), time.Since(start))

		switch category.Category {
		case regulatory.ErrorNotFound:
			c.storeEntry(ctx, key, Entry{Negative: true, FetchedAt: time.Now(), TTL: c.negativeTTL})
			return nil, category
		case regulatory.ErrorRateLimited:
			lastErr = category
			continue
		default:
			return nil, category
		}
	}

	if c.logger != nil {
		c.logger.Warn("lookup exhausted rate-limit retries",
			"source", source,
			"key", key,
			"attempts", c.maxAttempts,
		)
	}
	return nil, lastErr
}

// attempt runs one bounded fetch.
func (c *Cache) attempt(ctx context.Context, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	fctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()
	return fetch(fctx)
}

// backoff sleeps for the exponential delay, preferring a server-provided hint
// when it is longer.
func (c *Cache) backoff(ctx context.Context, attempt int, hint time.Duration) error {
	delay := c.baseDelay << (attempt - 1)
	if hint > delay {
		delay = hint
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *Cache) storeEntry(ctx context.Context, key string, e Entry) {
	if err := c.store.Set(ctx, key, e); err != nil && c.logger != nil {
		c.logger.Error("cache store failed", "key", key, "error", err)
	}
}

// classify normalizes fetch errors: anything that is not already a
// LookupError (notably context deadlines from the per-fetch timeout) counts
// as unavailable.
func classify(err error, source regulatory.Source) *regulatory.LookupError {
	var le *regulatory.LookupError
	if errors.As(err, &le) {
		return le
	}
	return regulatory.NewLookupError(regulatory.ErrorUnavailable, source, "fetch failed", err)
}

func decode[T any](payload []byte) (T, error) {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return v, fmt.Errorf("decode cached value: %w", err)
	}
	return v, nil
}
