package bucket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lotolink/internal/ratelimit/models"
)

type InMemoryBucketSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	limit models.Limit
	t0    time.Time
}

func TestInMemoryBucketSuite(t *testing.T) {
	suite.Run(t, new(InMemoryBucketSuite))
}

func (s *InMemoryBucketSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
	s.limit = models.Limit{Requests: 3, Window: time.Minute}
	s.t0 = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
}

func (s *InMemoryBucketSuite) allow(key string, at time.Duration) *models.RateLimitResult {
	res, err := s.store.Allow(s.ctx, key, s.limit, s.t0.Add(at))
	s.Require().NoError(err)
	return res
}

func (s *InMemoryBucketSuite) TestRejectsOnceWindowIsFull() {
	for i, at := range []time.Duration{0, 10 * time.Second, 20 * time.Second} {
		res := s.allow("ip:1", at)
		s.True(res.Allowed, "request %d", i+1)
		s.Equal(2-i, res.Remaining)
	}

	res := s.allow("ip:1", 30*time.Second)
	s.False(res.Allowed)
	s.Equal(0, res.Remaining)
	s.Equal(3, res.Limit)
	s.Equal(s.t0.Add(time.Minute), res.ResetAt)
}

func (s *InMemoryBucketSuite) TestWindowSlides() {
	s.allow("ip:1", 0)
	s.allow("ip:1", 30*time.Second)
	s.allow("ip:1", 40*time.Second)
	s.False(s.allow("ip:1", 50*time.Second).Allowed)

	res := s.allow("ip:1", time.Minute+time.Second)
	s.True(res.Allowed, "the first request left the window")
	s.Equal(s.t0.Add(90*time.Second), res.ResetAt)
}

func (s *InMemoryBucketSuite) TestKeysAreIndependent() {
	for range 3 {
		s.allow("ip:1", 0)
	}
	s.False(s.allow("ip:1", 0).Allowed)
	s.True(s.allow("ip:2", 0).Allowed)
}

func (s *InMemoryBucketSuite) TestSweepDropsIdleBuckets() {
	s.allow("ip:1", 0)
	s.allow("ip:2", 50*time.Second)

	removed, err := s.store.Sweep(s.ctx, s.t0.Add(70*time.Second))
	s.Require().NoError(err)
	s.Equal(1, removed)
	s.Len(s.store.buckets, 1)
}

func (s *InMemoryBucketSuite) TestReset() {
	for range 3 {
		s.allow("ip:1", 0)
	}
	s.Require().NoError(s.store.Reset(s.ctx, "ip:1"))
	s.True(s.allow("ip:1", 0).Allowed)
}

func (s *InMemoryBucketSuite) TestConcurrentRequestsNeverExceedLimit() {
	s.limit = models.Limit{Requests: 10, Window: time.Minute}
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.store.Allow(s.ctx, "ip:1", s.limit, s.t0)
			if err == nil && res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.Equal(10, allowed)
}
