package analytics

import (
	"testing"
	"time"

	"github.com/cafeops/orderdesk/internal/errors"
)

func TestParsePeriod(t *testing.T) {
	for _, raw := range []string{"day", "week", "month", "year"} {
		if _, err := ParsePeriod(raw); err != nil {
			t.Fatalf("%s should parse: %v", raw, err)
		}
	}
	if _, err := ParsePeriod("quarter"); !errors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := ParsePeriod(""); !errors.IsValidation(err) {
		t.Fatalf("expected validation error for empty period, got %v", err)
	}
}

func TestDayBuckets(t *testing.T) {
	now := time.Date(2024, 3, 10, 14, 37, 12, 0, time.UTC)
	buckets := PeriodDay.Buckets(now)

	if len(buckets) != 24 {
		t.Fatalf("expected 24 buckets, got %d", len(buckets))
	}
	if !buckets[23].Contains(now) {
		t.Fatalf("last bucket must contain now: %v", buckets[23])
	}
	if buckets[23].Label != "14:00" {
		t.Fatalf("expected label 14:00, got %s", buckets[23].Label)
	}
	if buckets[0].Label != "15:00" {
		t.Fatalf("expected first label 15:00 (previous day), got %s", buckets[0].Label)
	}
	for i := 1; i < len(buckets); i++ {
		if !buckets[i].Start.Equal(buckets[i-1].End) {
			t.Fatalf("buckets must be contiguous at index %d", i)
		}
	}
}

func TestWeekAndMonthBuckets(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	week := PeriodWeek.Buckets(now)
	if len(week) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(week))
	}
	if week[6].Label != "2024-03-10" || week[0].Label != "2024-03-04" {
		t.Fatalf("unexpected week labels: %s .. %s", week[0].Label, week[6].Label)
	}

	month := PeriodMonth.Buckets(now)
	if len(month) != 30 {
		t.Fatalf("expected 30 buckets, got %d", len(month))
	}
	if !month[29].Contains(now) {
		t.Fatalf("last month bucket must contain now")
	}
}

func TestYearBucketsAlignToCalendarMonths(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	buckets := PeriodYear.Buckets(now)

	if len(buckets) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(buckets))
	}
	if buckets[0].Label != "2023-04" || buckets[11].Label != "2024-03" {
		t.Fatalf("unexpected year labels: %s .. %s", buckets[0].Label, buckets[11].Label)
	}
	// February bucket must span the leap month exactly.
	feb := buckets[10]
	if feb.Label != "2024-02" {
		t.Fatalf("expected 2024-02 at index 10, got %s", feb.Label)
	}
	if feb.End.Sub(feb.Start) != 29*24*time.Hour {
		t.Fatalf("leap February should span 29 days, got %v", feb.End.Sub(feb.Start))
	}
}

func TestBucketContainsBoundaries(t *testing.T) {
	b := Bucket{
		Start: time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 10, 11, 0, 0, 0, time.UTC),
	}
	if !b.Contains(b.Start) {
		t.Fatalf("start is inclusive")
	}
	if b.Contains(b.End) {
		t.Fatalf("end is exclusive")
	}
}
