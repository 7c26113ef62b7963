package lookup

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"invoiceguard/internal/regulatory"
)

const testSource = regulatory.Source("test_source")

type payload struct {
	Value string `json:"value"`
}

type CacheSuite struct {
	suite.Suite
	cache *Cache
	ctx   context.Context
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupTest() {
	s.cache = New(NewMemoryStore(),
		WithTTL(time.Minute),
		WithNegativeTTL(time.Minute),
		WithRetry(3, time.Millisecond),
	)
	s.ctx = context.Background()
}

func (s *CacheSuite) asOf(day string) time.Time {
	t, err := time.Parse("2006-01-02", day)
	s.Require().NoError(err)
	return t
}

func (s *CacheSuite) TestSuccessIsMemoized() {
	var calls atomic.Int64
	fetch := func(context.Context) (payload, error) {
		calls.Add(1)
		return payload{Value: "v"}, nil
	}

	for range 3 {
		got, err := Fetch(s.ctx, s.cache, testSource, "k", s.asOf("2024-10-01"), fetch)
		s.Require().NoError(err)
		s.Equal("v", got.Value)
	}
	s.Equal(int64(1), calls.Load())
}

func (s *CacheSuite) TestDistinctAsOfDatesAreDistinctEntries() {
	var calls atomic.Int64
	fetch := func(context.Context) (payload, error) {
		calls.Add(1)
		return payload{Value: "v"}, nil
	}

	_, err := Fetch(s.ctx, s.cache, testSource, "k", s.asOf("2019-03-31"), fetch)
	s.Require().NoError(err)
	_, err = Fetch(s.ctx, s.cache, testSource, "k", s.asOf("2019-04-01"), fetch)
	s.Require().NoError(err)
	s.Equal(int64(2), calls.Load())
}

func (s *CacheSuite) TestExpiredEntryIsRefetched() {
	cache := New(NewMemoryStore(), WithTTL(time.Nanosecond))
	var calls atomic.Int64
	fetch := func(context.Context) (payload, error) {
		calls.Add(1)
		return payload{Value: "v"}, nil
	}

	_, err := Fetch(s.ctx, cache, testSource, "k", s.asOf("2024-10-01"), fetch)
	s.Require().NoError(err)
	time.Sleep(5 * time.Millisecond)
	_, err = Fetch(s.ctx, cache, testSource, "k", s.asOf("2024-10-01"), fetch)
	s.Require().NoError(err)
	s.Equal(int64(2), calls.Load())
}

func (s *CacheSuite) TestNotFoundIsCachedNegatively() {
	var calls atomic.Int64
	fetch := func(context.Context) (payload, error) {
		calls.Add(1)
		return payload{}, regulatory.NewLookupError(regulatory.ErrorNotFound, testSource, "missing", nil)
	}

	for range 3 {
		_, err := Fetch(s.ctx, s.cache, testSource, "k", s.asOf("2024-10-01"), fetch)
		s.Require().Error(err)
		s.Equal(regulatory.ErrorNotFound, regulatory.CategoryOf(err))
	}
	// One upstream call; the negative entry answers the rest.
	s.Equal(int64(1), calls.Load())
}

func (s *CacheSuite) TestExpiredNegativeIsRetried() {
	cache := New(NewMemoryStore(), WithNegativeTTL(time.Nanosecond))
	var calls atomic.Int64
	fetch := func(context.Context) (payload, error) {
		calls.Add(1)
		return payload{}, regulatory.NewLookupError(regulatory.ErrorNotFound, testSource, "missing", nil)
	}

	_, err := Fetch(s.ctx, cache, testSource, "k", s.asOf("2024-10-01"), fetch)
	s.Require().Error(err)
	time.Sleep(5 * time.Millisecond)
	_, err = Fetch(s.ctx, cache, testSource, "k", s.asOf("2024-10-01"), fetch)
	s.Require().Error(err)
	s.Equal(int64(2), calls.Load())
}

func (s *CacheSuite) TestRateLimitedRetriesThenSucceeds() {
	var calls atomic.Int64
	fetch := func(context.Context) (payload, error) {
		if calls.Add(1) <= 2 {
			return payload{}, regulatory.NewRateLimited(testSource, time.Millisecond)
		}
		return payload{Value: "v"}, nil
	}

	got, err := Fetch(s.ctx, s.cache, testSource, "k", s.asOf("2024-10-01"), fetch)
	s.Require().NoError(err)
	s.Equal("v", got.Value)
	s.Equal(int64(3), calls.Load())
}

func (s *CacheSuite) TestRateLimitedExhaustsRetryBudget() {
	var calls atomic.Int64
	fetch := func(context.Context) (payload, error) {
		calls.Add(1)
		return payload{}, regulatory.NewRateLimited(testSource, time.Millisecond)
	}

	_, err := Fetch(s.ctx, s.cache, testSource, "k", s.asOf("2024-10-01"), fetch)
	s.Require().Error(err)
	s.Equal(regulatory.ErrorRateLimited, regulatory.CategoryOf(err))
	s.Equal(int64(3), calls.Load())

	// Rate-limit failures are never cached: the next lookup fetches again.
	_, err = Fetch(s.ctx, s.cache, testSource, "k", s.asOf("2024-10-01"), fetch)
	s.Require().Error(err)
	s.Equal(int64(6), calls.Load())
}

func (s *CacheSuite) TestUnavailableIsNotCached() {
	var calls atomic.Int64
	fetch := func(context.Context) (payload, error) {
		calls.Add(1)
		return payload{}, regulatory.NewLookupError(regulatory.ErrorUnavailable, testSource, "down", nil)
	}

	_, err := Fetch(s.ctx, s.cache, testSource, "k", s.asOf("2024-10-01"), fetch)
	s.Require().Error(err)
	s.Equal(regulatory.ErrorUnavailable, regulatory.CategoryOf(err))
	_, err = Fetch(s.ctx, s.cache, testSource, "k", s.asOf("2024-10-01"), fetch)
	s.Require().Error(err)
	s.Equal(int64(2), calls.Load())
}

func (s *CacheSuite) TestUnclassifiedErrorCountsAsUnavailable() {
	fetch := func(context.Context) (payload, error) {
		return payload{}, errors.New("connection reset")
	}
	_, err := Fetch(s.ctx, s.cache, testSource, "k", s.asOf("2024-10-01"), fetch)
	s.Require().Error(err)
	s.Equal(regulatory.ErrorUnavailable, regulatory.CategoryOf(err))
}

func (s *CacheSuite) TestSingleFlight() {
	const workers = 16
	var calls atomic.Int64
	gate := make(chan struct{})
	fetch := func(context.Context) (payload, error) {
		calls.Add(1)
		<-gate
		return payload{Value: "v"}, nil
	}

	var wg sync.WaitGroup
	results := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Fetch(s.ctx, s.cache, testSource, "k", s.asOf("2024-10-01"), fetch)
			results[i] = err
		}()
	}

	// Let all workers pile onto the in-flight fetch before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	for _, err := range results {
		s.NoError(err)
	}
	s.Equal(int64(1), calls.Load(), "concurrent lookups for one key must share one fetch")
}

func (s *CacheSuite) TestCallerCancellationAbandonsLookup() {
	ctx, cancel := context.WithCancel(s.ctx)
	started := make(chan struct{})
	done := make(chan struct{})
	fetch := func(context.Context) (payload, error) {
		close(started)
		<-done
		return payload{Value: "v"}, nil
	}

	errCh := make(chan error, 1)
	go func() {
		_, err := Fetch(ctx, s.cache, testSource, "k", s.asOf("2024-10-01"), fetch)
		errCh <- err
	}()

	<-started
	cancel()
	err := <-errCh
	s.Require().Error(err)
	s.Equal(regulatory.ErrorUnavailable, regulatory.CategoryOf(err))

	// The detached flight completes and its entry serves future runs.
	close(done)
	s.Eventually(func() bool {
		got, err := Fetch(s.ctx, s.cache, testSource, "k", s.asOf("2024-10-01"), func(context.Context) (payload, error) {
			return payload{}, errors.New("should be cached")
		})
		return err == nil && got.Value == "v"
	}, time.Second, 10*time.Millisecond)
}
