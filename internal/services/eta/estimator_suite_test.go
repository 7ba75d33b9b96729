package eta

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	cachemocks "github.com/BearBump/DeliveryBox/internal/cache/mocks"
	"github.com/BearBump/DeliveryBox/internal/integrations/routing"
	routingmocks "github.com/BearBump/DeliveryBox/internal/integrations/routing/mocks"
	"github.com/BearBump/DeliveryBox/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var (
	from = models.Location{Lat: 37.7, Lon: -122.4}
	to   = models.Location{Lat: 37.8, Lon: -122.3}
)

type EstimatorSuite struct {
	suite.Suite

	router *routingmocks.MockRouter
	cache  *cachemocks.MockBytesCache
	rl     *cachemocks.MockLimiter
	est    *Estimator
}

func (s *EstimatorSuite) SetupTest() {
	s.router = &routingmocks.MockRouter{}
	s.cache = &cachemocks.MockBytesCache{}
	s.rl = &cachemocks.MockLimiter{}

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.est = New(s.router).
		WithCache(s.cache, time.Minute).
		WithRateLimit(s.rl, 10).
		WithClock(func() time.Time { return fixed })
}

func (s *EstimatorSuite) TestEstimate_CacheMiss_CallsRouterAndStores() {
	key := routeKey(from, to)
	s.cache.On("Get", mock.Anything, key).Return(nil, false, nil).Once()
	s.rl.On("Allow", mock.Anything, "rl:routing:202601020304", int64(10), 70*time.Second).
		Return(true, int64(1), nil).Once()
	s.router.On("Route", mock.Anything, from, to).
		Return(routing.RouteResult{DurationSeconds: 600, DistanceMeters: 4000}, nil).Once()
	s.cache.On("Set", mock.Anything, key, mock.Anything, time.Minute).
		Run(func(args mock.Arguments) {
			var cr cachedRoute
			s.Require().NoError(json.Unmarshal(args.Get(2).([]byte), &cr))
			s.Require().Equal(600.0, cr.DurationSeconds)
		}).
		Return(nil).Once()

	minutes, err := s.est.Estimate(context.Background(), from, to)
	s.Require().NoError(err)
	s.Require().Equal(10.0, minutes)

	s.router.AssertExpectations(s.T())
	s.cache.AssertExpectations(s.T())
	s.rl.AssertExpectations(s.T())
}

func (s *EstimatorSuite) TestEstimate_CacheHit_NoRouter() {
	b, _ := json.Marshal(cachedRoute{DurationSeconds: 90})
	s.cache.On("Get", mock.Anything, routeKey(from, to)).Return(b, true, nil).Once()

	minutes, err := s.est.Estimate(context.Background(), from, to)
	s.Require().NoError(err)
	s.Require().Equal(1.5, minutes)

	s.router.AssertNotCalled(s.T(), "Route", mock.Anything, mock.Anything, mock.Anything)
	s.rl.AssertNotCalled(s.T(), "Allow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.Require().Equal(int64(1), s.est.Stats().CacheHits)
}

func (s *EstimatorSuite) TestEstimate_CacheErrorsAreIgnored() {
	s.cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, errors.New("redis down")).Once()
	s.rl.On("Allow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, int64(1), nil).Once()
	s.router.On("Route", mock.Anything, from, to).Return(routing.RouteResult{DurationSeconds: 60}, nil).Once()
	s.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

	minutes, err := s.est.Estimate(context.Background(), from, to)
	s.Require().NoError(err)
	s.Require().Equal(1.0, minutes)
}

func (s *EstimatorSuite) TestEstimate_QuotaExceeded() {
	s.cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, nil).Once()
	s.rl.On("Allow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, int64(11), nil).Once()

	_, err := s.est.Estimate(context.Background(), from, to)
	s.Require().ErrorIs(err, models.ErrRouteServiceUnavailable)
	s.router.AssertNotCalled(s.T(), "Route", mock.Anything, mock.Anything, mock.Anything)
	s.cache.AssertNotCalled(s.T(), "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *EstimatorSuite) TestEstimate_RouterError_NotCached() {
	s.cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, nil).Once()
	s.rl.On("Allow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, int64(1), nil).Once()
	s.router.On("Route", mock.Anything, from, to).Return(routing.RouteResult{}, models.ErrNoRoute).Once()

	_, err := s.est.Estimate(context.Background(), from, to)
	s.Require().ErrorIs(err, models.ErrNoRoute)
	s.Require().ErrorIs(err, models.ErrRouteServiceUnavailable)
	s.cache.AssertNotCalled(s.T(), "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	st := s.est.Stats()
	s.Require().Equal(int64(1), st.TotalErrors)
	s.Require().NotEmpty(st.LastError)
}

func (s *EstimatorSuite) TestEstimate_NoCacheNoLimiter() {
	est := New(s.router)
	s.router.On("Route", mock.Anything, from, to).Return(routing.RouteResult{DurationSeconds: 30}, nil).Once()

	minutes, err := est.Estimate(context.Background(), from, to)
	s.Require().NoError(err)
	s.Require().Equal(0.5, minutes)
	s.cache.AssertNotCalled(s.T(), "Get", mock.Anything, mock.Anything)
}

func TestEstimatorSuite(t *testing.T) {
	suite.Run(t, new(EstimatorSuite))
}
