package eta

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BearBump/DeliveryBox/internal/cache"
	"github.com/BearBump/DeliveryBox/internal/integrations/routing"
	"github.com/BearBump/DeliveryBox/internal/models"
	"github.com/mmcloughlin/geohash"
)

// Points closer than ~150m share a cache entry.
const geohashPrecision = 7

type Estimator struct {
	router routing.Router

	cache    cache.BytesCache
	cacheTTL time.Duration

	rl                 cache.Limiter
	rateLimitPerMinute int64

	now func() time.Time

	startedAtUnixNano  int64
	totalRequests      atomic.Int64
	totalCacheHits     atomic.Int64
	totalProviderCalls atomic.Int64
	totalErrors        atomic.Int64
	lastErrorMu        sync.Mutex
	lastError          string
}

func New(router routing.Router) *Estimator {
	return &Estimator{
		router:            router,
		now:               time.Now,
		startedAtUnixNano: time.Now().UTC().UnixNano(),
	}
}

// WithCache enables the route cache. A nil cache or non-positive ttl disables it.
func (e *Estimator) WithCache(c cache.BytesCache, ttl time.Duration) *Estimator {
	e.cache = c
	e.cacheTTL = ttl
	return e
}

// WithRateLimit caps provider calls per minute across all instances sharing rl.
func (e *Estimator) WithRateLimit(rl cache.Limiter, perMinute int64) *Estimator {
	e.rl = rl
	e.rateLimitPerMinute = perMinute
	return e
}

func (e *Estimator) WithClock(now func() time.Time) *Estimator {
	e.now = now
	return e
}

type cachedRoute struct {
	DurationSeconds float64 `json:"duration_seconds"`
	DistanceMeters  float64 `json:"distance_meters"`
}

// Estimate returns the driving time from start to end in minutes.
func (e *Estimator) Estimate(ctx context.Context, from, to models.Location) (float64, error) {
	e.totalRequests.Add(1)

	res, err := e.route(ctx, from, to)
	if err != nil {
		e.recordError(err)
		return 0, err
	}
	return res.DurationSeconds / 60, nil
}

func (e *Estimator) route(ctx context.Context, from, to models.Location) (routing.RouteResult, error) {
	key := routeKey(from, to)

	if e.cacheEnabled() {
		b, ok, err := e.cache.Get(ctx, key)
		if err != nil {
			slog.Warn("eta cache get", "key", key, "error", err.Error())
		}
		if ok {
			var cr cachedRoute
			if json.Unmarshal(b, &cr) == nil {
				e.totalCacheHits.Add(1)
				return routing.RouteResult{DurationSeconds: cr.DurationSeconds, DistanceMeters: cr.DistanceMeters}, nil
			}
		}
	}

	if err := e.checkQuota(ctx); err != nil {
		return routing.RouteResult{}, err
	}

	e.totalProviderCalls.Add(1)
	res, err := e.router.Route(ctx, from, to)
	if err != nil {
		return routing.RouteResult{}, err
	}

	if e.cacheEnabled() {
		b, _ := json.Marshal(cachedRoute{DurationSeconds: res.DurationSeconds, DistanceMeters: res.DistanceMeters})
		if err := e.cache.Set(ctx, key, b, e.cacheTTL); err != nil {
			slog.Warn("eta cache set", "key", key, "error", err.Error())
		}
	}
	return res, nil
}

func (e *Estimator) checkQuota(ctx context.Context) error {
	if e.rl == nil || e.rateLimitPerMinute <= 0 {
		return nil
	}

	minuteKey := fmt.Sprintf("rl:routing:%s", e.now().UTC().Format("200601021504"))
	allowed, n, err := e.rl.Allow(ctx, minuteKey, e.rateLimitPerMinute, 70*time.Second)
	if err != nil {
		// Quota storage is best-effort; the provider call still goes out.
		slog.Warn("routing rate limit check", "error", err.Error())
		return nil
	}
	if !allowed {
		slog.Warn("routing rate limit exceeded", "count", n, "limit", e.rateLimitPerMinute)
		return fmt.Errorf("%w: routing quota of %d/min exceeded", models.ErrRouteServiceUnavailable, e.rateLimitPerMinute)
	}
	return nil
}

func (e *Estimator) cacheEnabled() bool {
	return e.cache != nil && e.cacheTTL > 0
}

func (e *Estimator) recordError(err error) {
	e.totalErrors.Add(1)
	e.lastErrorMu.Lock()
	e.lastError = err.Error()
	e.lastErrorMu.Unlock()
}

func routeKey(from, to models.Location) string {
	return fmt.Sprintf("eta:%s:%s",
		geohash.EncodeWithPrecision(from.Lat, from.Lon, geohashPrecision),
		geohash.EncodeWithPrecision(to.Lat, to.Lon, geohashPrecision),
	)
}

type Stats struct {
	StartedAt     time.Time `json:"startedAt"`
	TotalRequests int64     `json:"totalRequests"`
	CacheHits     int64     `json:"cacheHits"`
	ProviderCalls int64     `json:"providerCalls"`
	TotalErrors   int64     `json:"totalErrors"`
	LastError     string    `json:"lastError,omitempty"`
}

func (e *Estimator) Stats() Stats {
	st := Stats{
		StartedAt:     time.Unix(0, e.startedAtUnixNano).UTC(),
		TotalRequests: e.totalRequests.Load(),
		CacheHits:     e.totalCacheHits.Load(),
		ProviderCalls: e.totalProviderCalls.Load(),
		TotalErrors:   e.totalErrors.Load(),
	}
	e.lastErrorMu.Lock()
	st.LastError = e.lastError
	e.lastErrorMu.Unlock()
	return st
}
