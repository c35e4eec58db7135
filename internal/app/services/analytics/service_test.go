package analytics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cafeops/orderdesk/internal/app/domain/analytics"
	"github.com/cafeops/orderdesk/internal/app/domain/order"
	"github.com/cafeops/orderdesk/internal/app/storage/memory"
	"github.com/cafeops/orderdesk/internal/errors"
)

func seedOrder(t *testing.T, store *memory.Store, total float64, status order.Status, createdAt time.Time) {
	t.Helper()
	_, err := store.CreateOrder(context.Background(), order.Order{
		Lines:     []order.Line{{MenuItemID: "m1", Quantity: 1}},
		Total:     total,
		Status:    status,
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
}

func TestRevenueCountsOnlyCompletedOrders(t *testing.T) {
	store := memory.New()
	now := time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)

	seedOrder(t, store, 7.0, order.StatusCompleted, now.Add(-10*time.Minute))
	seedOrder(t, store, 5.0, order.StatusCancelled, now.Add(-10*time.Minute))
	seedOrder(t, store, 3.0, order.StatusPending, now.Add(-10*time.Minute))

	svc := New(store, nil)
	svc.now = func() time.Time { return now }

	points, err := svc.Revenue(context.Background(), analytics.PeriodDay)
	require.NoError(t, err)
	require.Len(t, points, 24)

	var total float64
	for _, p := range points {
		total += p.Total
	}
	require.Equal(t, 7.0, total, "cancelled and pending orders must not inflate revenue")
	require.Equal(t, 7.0, points[23].Total, "the order falls in the final bucket")
}

func TestRevenueEmptyWindowStillReturnsFullSeries(t *testing.T) {
	svc := New(memory.New(), nil)

	points, err := svc.Revenue(context.Background(), analytics.PeriodDay)
	require.NoError(t, err)
	require.Len(t, points, 24)
	for i, p := range points {
		require.Zero(t, p.Total, "bucket %d must be zero", i)
		require.NotEmpty(t, p.TimeUnit)
	}

	for i := 1; i < len(points); i++ {
		require.NotEqual(t, points[i-1].TimeUnit, points[i].TimeUnit, "labels must advance")
	}
}

func TestOrderCountsIncludeAllStatuses(t *testing.T) {
	store := memory.New()
	now := time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)

	seedOrder(t, store, 7.0, order.StatusCompleted, now.Add(-5*time.Minute))
	seedOrder(t, store, 5.0, order.StatusCancelled, now.Add(-5*time.Minute))
	seedOrder(t, store, 3.0, order.StatusPending, now.Add(-25*time.Hour)) // outside the window

	svc := New(store, nil)
	svc.now = func() time.Time { return now }

	points, err := svc.OrderCounts(context.Background(), analytics.PeriodDay)
	require.NoError(t, err)
	require.Len(t, points, 24)

	var count int
	for _, p := range points {
		count += p.Count
	}
	require.Equal(t, 2, count, "orders of any status inside the window count")
}

func TestWeeklySeriesBucketsByDay(t *testing.T) {
	store := memory.New()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	seedOrder(t, store, 4.0, order.StatusCompleted, now.AddDate(0, 0, -2))
	seedOrder(t, store, 6.0, order.StatusCompleted, now.AddDate(0, 0, -2))
	seedOrder(t, store, 9.0, order.StatusCompleted, now)

	svc := New(store, nil)
	svc.now = func() time.Time { return now }

	points, err := svc.Revenue(context.Background(), analytics.PeriodWeek)
	require.NoError(t, err)
	require.Len(t, points, 7)
	require.Equal(t, "2024-03-08", points[4].TimeUnit)
	require.Equal(t, 10.0, points[4].Total)
	require.Equal(t, 9.0, points[6].Total)
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	hits    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return raw, ok
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func TestRevenueReadThroughCache(t *testing.T) {
	store := memory.New()
	now := time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)
	seedOrder(t, store, 7.0, order.StatusCompleted, now.Add(-time.Minute))

	cache := newFakeCache()
	svc := New(store, nil).WithCache(cache)
	svc.now = func() time.Time { return now }

	first, err := svc.Revenue(context.Background(), analytics.PeriodDay)
	require.NoError(t, err)
	require.Zero(t, cache.hits)

	second, err := svc.Revenue(context.Background(), analytics.PeriodDay)
	require.NoError(t, err)
	require.Equal(t, 1, cache.hits)
	require.Equal(t, first, second)
}

func TestInvalidPeriodRejectedBeforeStorage(t *testing.T) {
	_, err := analytics.ParsePeriod("fortnight")
	require.True(t, errors.IsValidation(err))
}
