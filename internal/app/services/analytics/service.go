// Package analytics derives revenue and order-count series from the
// order ledger. It owns no entities: every read is a projection over the
// OrderStore.
package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cafeops/orderdesk/internal/app/domain/analytics"
	"github.com/cafeops/orderdesk/internal/app/domain/order"
	"github.com/cafeops/orderdesk/internal/app/metrics"
	"github.com/cafeops/orderdesk/internal/app/storage"
	"github.com/cafeops/orderdesk/pkg/logger"
)

// Cache stores computed series under a string key. Implementations must
// treat failures as misses; a broken cache never fails a read.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// Service computes analytics series.
type Service struct {
	store storage.OrderStore
	cache Cache
	log   *logger.Logger
	now   func() time.Time
}

// New constructs an analytics service.
func New(store storage.OrderStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("analytics")
	}
	return &Service{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// WithCache attaches a read-through cache for computed series.
func (s *Service) WithCache(cache Cache) *Service {
	s.cache = cache
	return s
}

// Revenue returns one point per bucket of the period. Only completed
// orders contribute; empty buckets carry a zero total.
func (s *Service) Revenue(ctx context.Context, period analytics.Period) ([]analytics.RevenuePoint, error) {
	key := "revenue:" + string(period)
	if cached, ok := s.cacheGet(ctx, key); ok {
		var points []analytics.RevenuePoint
		if err := json.Unmarshal(cached, &points); err == nil {
			return points, nil
		}
	}

	buckets := period.Buckets(s.now())
	orders, err := s.store.ListOrdersSince(ctx, buckets[0].Start)
	if err != nil {
		return nil, err
	}

	points := make([]analytics.RevenuePoint, len(buckets))
	for i, b := range buckets {
		points[i] = analytics.RevenuePoint{TimeUnit: b.Label}
	}
	for _, o := range orders {
		if o.Status != order.StatusCompleted {
			continue
		}
		if i, ok := bucketIndex(buckets, o.CreatedAt); ok {
			points[i].Total += o.Total
		}
	}

	metrics.RecordAnalyticsQuery("revenue", string(period))
	s.cacheSet(ctx, key, points)
	return points, nil
}

// OrderCounts returns one point per bucket of the period. Orders of any
// status count; empty buckets carry a zero count.
func (s *Service) OrderCounts(ctx context.Context, period analytics.Period) ([]analytics.CountPoint, error) {
	key := "order_counts:" + string(period)
	if cached, ok := s.cacheGet(ctx, key); ok {
		var points []analytics.CountPoint
		if err := json.Unmarshal(cached, &points); err == nil {
			return points, nil
		}
	}

	buckets := period.Buckets(s.now())
	orders, err := s.store.ListOrdersSince(ctx, buckets[0].Start)
	if err != nil {
		return nil, err
	}

	points := make([]analytics.CountPoint, len(buckets))
	for i, b := range buckets {
		points[i] = analytics.CountPoint{TimeUnit: b.Label}
	}
	for _, o := range orders {
		if i, ok := bucketIndex(buckets, o.CreatedAt); ok {
			points[i].Count++
		}
	}

	metrics.RecordAnalyticsQuery("order_counts", string(period))
	s.cacheSet(ctx, key, points)
	return points, nil
}

func bucketIndex(buckets []analytics.Bucket, ts time.Time) (int, bool) {
	ts = ts.UTC()
	for i, b := range buckets {
		if b.Contains(ts) {
			return i, true
		}
	}
	return 0, false
}

func (s *Service) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(ctx, key)
}

func (s *Service) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	s.cache.Set(ctx, key, raw)
}
