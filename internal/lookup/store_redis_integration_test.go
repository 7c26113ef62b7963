//go:build integration

package lookup_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"invoiceguard/internal/lookup"
	"invoiceguard/internal/regulatory"
	"invoiceguard/pkg/sentinel"
	"invoiceguard/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *lookup.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = lookup.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()

	_, err := s.store.Get(ctx, "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)

	e := lookup.Entry{Payload: []byte(`{"v":1}`), FetchedAt: time.Now(), TTL: time.Minute}
	s.Require().NoError(s.store.Set(ctx, "k", e))

	got, err := s.store.Get(ctx, "k")
	s.Require().NoError(err)
	s.Equal(e.Payload, got.Payload)
	s.False(got.Negative)
}

func (s *RedisStoreSuite) TestNegativeEntry() {
	ctx := context.Background()

	e := lookup.Entry{Negative: true, FetchedAt: time.Now(), TTL: time.Minute}
	s.Require().NoError(s.store.Set(ctx, "k", e))

	got, err := s.store.Get(ctx, "k")
	s.Require().NoError(err)
	s.True(got.Negative)
}

func (s *RedisStoreSuite) TestExpiry() {
	ctx := context.Background()

	e := lookup.Entry{Payload: []byte(`{}`), FetchedAt: time.Now(), TTL: 50 * time.Millisecond}
	s.Require().NoError(s.store.Set(ctx, "k", e))

	s.Eventually(func() bool {
		_, err := s.store.Get(ctx, "k")
		return err != nil
	}, 2*time.Second, 25*time.Millisecond)
}

func (s *RedisStoreSuite) TestSharedAcrossCaches() {
	ctx := context.Background()

	c1 := lookup.New(s.store)
	c2 := lookup.New(s.store)
	asOf := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)

	calls := 0
	fetch := func(context.Context) (string, error) {
		calls++
		return "v", nil
	}

	got, err := lookup.Fetch(ctx, c1, regulatory.SourceGSTINRegistry, "k", asOf, fetch)
	s.Require().NoError(err)
	s.Equal("v", got)

	got, err = lookup.Fetch(ctx, c2, regulatory.SourceGSTINRegistry, "k", asOf, fetch)
	s.Require().NoError(err)
	s.Equal("v", got)
	s.Equal(1, calls, "second cache instance must be served from redis")
}
