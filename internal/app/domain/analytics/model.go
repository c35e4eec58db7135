// Package analytics defines the read-side projection types: lookback
// periods, time buckets and the derived series points.
package analytics

import (
	"time"

	"github.com/cafeops/orderdesk/internal/errors"
)

// Period selects the lookback window and bucket granularity of a series.
type Period string

const (
	PeriodDay   Period = "day"   // 24 buckets of one hour
	PeriodWeek  Period = "week"  // 7 buckets of one day
	PeriodMonth Period = "month" // 30 buckets of one day
	PeriodYear  Period = "year"  // 12 buckets of one calendar month
)

// ParsePeriod validates a client-supplied period string.
func ParsePeriod(raw string) (Period, error) {
	switch Period(raw) {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return Period(raw), nil
	}
	return "", errors.Validation("invalid period %q: must be one of day, week, month, year", raw)
}

// Bucket is one contiguous interval of a series. Start is inclusive,
// End exclusive.
type Bucket struct {
	Start time.Time
	End   time.Time
	Label string
}

// Contains reports whether ts falls inside the bucket.
func (b Bucket) Contains(ts time.Time) bool {
	return !ts.Before(b.Start) && ts.Before(b.End)
}

// Buckets returns the period's bucket sequence in chronological order.
// Buckets are aligned to calendar boundaries in UTC and the final bucket
// contains now.
func (p Period) Buckets(now time.Time) []Bucket {
	now = now.UTC()

	switch p {
	case PeriodDay:
		last := now.Truncate(time.Hour)
		return hourlyBuckets(last.Add(-23*time.Hour), 24)
	case PeriodWeek:
		return dailyBuckets(startOfDay(now).AddDate(0, 0, -6), 7)
	case PeriodMonth:
		return dailyBuckets(startOfDay(now).AddDate(0, 0, -29), 30)
	case PeriodYear:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
		buckets := make([]Bucket, 0, 12)
		for i := 0; i < 12; i++ {
			start := first.AddDate(0, i, 0)
			buckets = append(buckets, Bucket{
				Start: start,
				End:   start.AddDate(0, 1, 0),
				Label: start.Format("2006-01"),
			})
		}
		return buckets
	}
	return nil
}

func hourlyBuckets(first time.Time, n int) []Bucket {
	buckets := make([]Bucket, 0, n)
	for i := 0; i < n; i++ {
		start := first.Add(time.Duration(i) * time.Hour)
		buckets = append(buckets, Bucket{
			Start: start,
			End:   start.Add(time.Hour),
			Label: start.Format("15:04"),
		})
	}
	return buckets
}

func dailyBuckets(first time.Time, n int) []Bucket {
	buckets := make([]Bucket, 0, n)
	for i := 0; i < n; i++ {
		start := first.AddDate(0, 0, i)
		buckets = append(buckets, Bucket{
			Start: start,
			End:   start.AddDate(0, 0, 1),
			Label: start.Format("2006-01-02"),
		})
	}
	return buckets
}

func startOfDay(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}

// RevenuePoint is one bucket of a revenue series.
type RevenuePoint struct {
	TimeUnit string  `json:"time_unit"`
	Total    float64 `json:"total"`
}

// CountPoint is one bucket of an order-count series.
type CountPoint struct {
	TimeUnit string `json:"time_unit"`
	Count    int    `json:"count"`
}
