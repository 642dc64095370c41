package analytics

import (
	"fmt"
	"time"
)

// Granularity selects the calendar bucket used when grouping by a date
// field.
type Granularity string

const (
	GranularityDay     Granularity = "day"
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
	GranularityYear    Granularity = "year"
)

// TimeRange filters records to [Start, End) on the source's canonical date
// and carries the bucketing granularity for date-keyed grouping.
type TimeRange struct {
	Start       time.Time
	End         time.Time
	Granularity Granularity
}

// Contains reports whether t falls in the half-open interval [Start, End).
func (tr *TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.Start) && t.Before(tr.End)
}

// Time range preset keys, as accepted by the chart data endpoint.
const (
	RangeToday      = "today"
	RangeLast7Days  = "last_7_days"
	RangeLast30Days = "last_30_days"
	RangeThisMonth  = "this_month"
	RangeLastMonth  = "last_month"
	RangeThisYear   = "this_year"
	RangeAllTime    = "all_time"
)

// RangeFromPreset builds the concrete time range for a named preset,
// evaluated relative to now. The all-time preset (and the empty string)
// return nil: no filtering, records bucketed by month when grouped by date.
func RangeFromPreset(preset string, now time.Time) (*TimeRange, error) {
	day := truncateDay(now)
	switch preset {
	case "", RangeAllTime:
		return nil, nil
	case RangeToday:
		return &TimeRange{Start: day, End: day.AddDate(0, 0, 1), Granularity: GranularityDay}, nil
	case RangeLast7Days:
		return &TimeRange{Start: day.AddDate(0, 0, -6), End: day.AddDate(0, 0, 1), Granularity: GranularityDay}, nil
	case RangeLast30Days:
		return &TimeRange{Start: day.AddDate(0, 0, -29), End: day.AddDate(0, 0, 1), Granularity: GranularityDay}, nil
	case RangeThisMonth:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return &TimeRange{Start: start, End: start.AddDate(0, 1, 0), Granularity: GranularityDay}, nil
	case RangeLastMonth:
		thisMonth := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return &TimeRange{Start: thisMonth.AddDate(0, -1, 0), End: thisMonth, Granularity: GranularityDay}, nil
	case RangeThisYear:
		start := time.Date(day.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return &TimeRange{Start: start, End: start.AddDate(1, 0, 0), Granularity: GranularityMonth}, nil
	}
	return nil, fmt.Errorf("unknown time range preset: %s", preset)
}

// dateBucket truncates t to its calendar bucket and returns the bucket's
// display key and start instant. Week buckets start on Monday.
func dateBucket(t time.Time, g Granularity) (string, time.Time) {
	day := truncateDay(t)
	switch g {
	case GranularityWeek:
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return start.Format("2006-01-02"), start
	case GranularityMonth:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start.Format("2006-01"), start
	case GranularityQuarter:
		quarter := (int(day.Month()) - 1) / 3
		start := time.Date(day.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, time.UTC)
		return fmt.Sprintf("%d-Q%d", start.Year(), quarter+1), start
	case GranularityYear:
		start := time.Date(day.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		return start.Format("2006"), start
	default:
		return day.Format("2006-01-02"), day
	}
}
