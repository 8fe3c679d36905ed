package requestlimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"lotolink/internal/ratelimit/metrics"
	"lotolink/internal/ratelimit/models"
	"lotolink/internal/ratelimit/service/requestlimit/mocks"
	"lotolink/internal/ratelimit/store/bucket"
	dErrors "lotolink/pkg/domain-errors"
	"lotolink/pkg/requestcontext"
)

type RequestLimitSuite struct {
	suite.Suite
	metrics *metrics.Metrics
	service *Service
	t0      time.Time
}

func TestRequestLimitSuite(t *testing.T) {
	suite.Run(t, new(RequestLimitSuite))
}

func (s *RequestLimitSuite) SetupTest() {
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.t0 = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	var err error
	s.service, err = New(bucket.New(),
		WithLimit(models.ClassAuth, models.Limit{Requests: 2, Window: time.Minute}),
		WithLimit(models.ClassLogin, models.Limit{Requests: 1, Window: 15 * time.Minute}),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
}

func (s *RequestLimitSuite) at(d time.Duration) context.Context {
	return requestcontext.WithTime(context.Background(), s.t0.Add(d))
}

func (s *RequestLimitSuite) TestBudgetsPerClassAndIdentifier() {
	for range 2 {
		res, err := s.service.Check(s.at(0), models.ClassAuth, "10.0.0.1")
		s.Require().NoError(err)
		s.True(res.Allowed)
	}
	res, err := s.service.Check(s.at(time.Second), models.ClassAuth, "10.0.0.1")
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.Equal(59*time.Second, res.RetryAfter(s.t0.Add(time.Second)))

	res, err = s.service.Check(s.at(time.Second), models.ClassAuth, "10.0.0.2")
	s.Require().NoError(err)
	s.True(res.Allowed, "other IPs keep their own budget")

	res, err = s.service.Check(s.at(time.Second), models.ClassLogin, "10.0.0.1")
	s.Require().NoError(err)
	s.True(res.Allowed, "classes do not share buckets")

	s.Equal(float64(1), testutil.ToFloat64(s.metrics.RequestsRejected.WithLabelValues("auth")))
}

func (s *RequestLimitSuite) TestUnconfiguredClassIsDenied() {
	res, err := s.service.Check(s.at(0), models.EndpointClass("export"), "10.0.0.1")
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.Equal(time.Minute, res.RetryAfter(s.t0))
}

func (s *RequestLimitSuite) TestInvalidLimitsAreIgnored() {
	svc, err := New(bucket.New(), WithLimit(models.ClassAuth, models.Limit{Requests: 0, Window: time.Minute}))
	s.Require().NoError(err)
	_, ok := svc.Limit(models.ClassAuth)
	s.False(ok)
}

func (s *RequestLimitSuite) TestRunStopsOnCancel() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.service.Run(ctx, time.Millisecond) }()
	cancel()
	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(time.Second):
		s.Fail("Run did not return after cancel")
	}
}

func TestNewRequiresStore(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil store")
	}
}

func TestStoreFailureIsInternal(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().
		Allow(gomock.Any(), models.RequestKey(models.ClassAuth, "10.0.0.1"), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("redis: connection refused"))

	svc, err := New(store, WithLimit(models.ClassAuth, models.Limit{Requests: 5, Window: time.Minute}))
	if err != nil {
		t.Fatal(err)
	}
	_, err = svc.Check(context.Background(), models.ClassAuth, "10.0.0.1")
	if !dErrors.HasCode(err, dErrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
