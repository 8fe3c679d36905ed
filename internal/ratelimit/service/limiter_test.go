package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"lotolink/internal/ratelimit/metrics"
	"lotolink/internal/ratelimit/models"
	"lotolink/internal/ratelimit/store/attempts"
	dErrors "lotolink/pkg/domain-errors"
	"lotolink/pkg/platform/audit"
	"lotolink/pkg/platform/audit/publisher"
	auditmemory "lotolink/pkg/platform/audit/store/memory"
	"lotolink/pkg/requestcontext"
)

type LimiterSuite struct {
	suite.Suite
	store    *attempts.InMemoryStore
	auditLog *auditmemory.InMemoryStore
	metrics  *metrics.Metrics
	limiter  *Limiter
	t0       time.Time
}

func TestLimiterSuite(t *testing.T) {
	suite.Run(t, new(LimiterSuite))
}

func (s *LimiterSuite) SetupTest() {
	s.store = attempts.NewInMemoryStore()
	s.auditLog = auditmemory.NewInMemoryStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.t0 = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	var err error
	s.limiter, err = New(s.store,
		WithAuditPublisher(publisher.NewPublisher(s.auditLog)),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
}

func (s *LimiterSuite) at(d time.Duration) context.Context {
	return requestcontext.WithTime(context.Background(), s.t0.Add(d))
}

func (s *LimiterSuite) TestLocksOnThirdAttempt() {
	for i, offset := range []time.Duration{0, time.Minute} {
		d, err := s.limiter.Check(s.at(offset), "u1")
		s.Require().NoError(err)
		s.True(d.Allowed, "attempt %d", i+1)
	}

	d, err := s.limiter.Check(s.at(2*time.Minute), "u1")
	s.Require().NoError(err)
	s.False(d.Allowed)
	s.True(d.NewlyLocked)
	s.Equal(s.t0.Add(17*time.Minute), d.LockedUntil)

	d, err = s.limiter.Check(s.at(10*time.Minute), "u1")
	s.Require().NoError(err)
	s.False(d.Allowed)
	s.False(d.NewlyLocked)
	s.Equal(7*time.Minute, d.RetryAfter(s.t0.Add(10*time.Minute)))

	rec, err := s.store.Get(context.Background(), "u1")
	s.Require().NoError(err)
	s.Equal(3, rec.Attempts)
	s.Equal(s.t0.Add(2*time.Minute), rec.LastAttempt)

	s.Equal(4.0, testutil.ToFloat64(s.metrics.AdminCodeAttempts))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.AdminCodeLockouts))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.AdminCodeRejected))

	events, err := s.auditLog.ListBySubject(context.Background(), "u1")
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(string(audit.EventAdminCodeLocked), events[0].Action)
	s.Equal(audit.CategorySecurity, events[0].Category)
}

func (s *LimiterSuite) TestAllowedAgainAfterLockExpires() {
	for _, offset := range []time.Duration{0, time.Second, 2 * time.Second} {
		_, err := s.limiter.Check(s.at(offset), "u1")
		s.Require().NoError(err)
	}
	d, err := s.limiter.Check(s.at(16*time.Minute), "u1")
	s.Require().NoError(err)
	s.True(d.Allowed)
	s.Equal(1, d.Attempts)
}

func (s *LimiterSuite) TestUsersAreIndependent() {
	for _, offset := range []time.Duration{0, time.Second, 2 * time.Second} {
		_, err := s.limiter.Check(s.at(offset), "u1")
		s.Require().NoError(err)
	}
	d, err := s.limiter.Check(s.at(3*time.Second), "u2")
	s.Require().NoError(err)
	s.True(d.Allowed)
}

func (s *LimiterSuite) TestClearResetsCounter() {
	_, err := s.limiter.Check(s.at(0), "u1")
	s.Require().NoError(err)
	_, err = s.limiter.Check(s.at(time.Second), "u1")
	s.Require().NoError(err)

	s.Require().NoError(s.limiter.Clear(s.at(2*time.Second), "u1"))

	d, err := s.limiter.Check(s.at(3*time.Second), "u1")
	s.Require().NoError(err)
	s.True(d.Allowed)
	s.Equal(1, d.Attempts)
}

func (s *LimiterSuite) TestSweepAt() {
	_, err := s.limiter.Check(s.at(0), "old")
	s.Require().NoError(err)
	_, err = s.limiter.Check(s.at(20*time.Minute), "fresh")
	s.Require().NoError(err)

	removed, err := s.limiter.SweepAt(context.Background(), s.t0.Add(21*time.Minute))
	s.Require().NoError(err)
	s.Equal(1, removed)
	s.Equal(1, s.store.Len())
	s.Equal(1.0, testutil.ToFloat64(s.metrics.SweptRecords))
}

func (s *LimiterSuite) TestCustomPolicy() {
	limiter, err := New(attempts.NewInMemoryStore(), WithPolicy(models.Policy{MaxAttempts: 5}))
	s.Require().NoError(err)
	s.Equal(5, limiter.Policy().MaxAttempts)
	s.Equal(models.DefaultWindow, limiter.Policy().Window)
}

type failingStore struct{}

func (failingStore) Update(context.Context, string, attempts.UpdateFunc) error {
	return errors.New("redis: connection refused")
}
func (failingStore) Delete(context.Context, string) error {
	return errors.New("redis: connection refused")
}
func (failingStore) Sweep(context.Context, time.Time, time.Duration) (int, error) {
	return 0, errors.New("redis: connection refused")
}

func TestStoreFailureIsInternal(t *testing.T) {
	limiter, err := New(failingStore{})
	require.NoError(t, err)

	_, err = limiter.Check(context.Background(), "u1")
	require.Error(t, err)
	require.True(t, dErrors.HasCode(err, dErrors.CodeInternal))

	require.True(t, dErrors.HasCode(limiter.Clear(context.Background(), "u1"), dErrors.CodeInternal))
}

func TestRunStopsOnCancel(t *testing.T) {
	limiter, err := New(failingStore{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- limiter.Run(ctx, time.Millisecond) }()

	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}
