package analytics_test

import (
	"testing"
	"time"

	"backend/internal/analytics"
)

func TestRangeFromPreset(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		preset          string
		wantStart       time.Time
		wantEnd         time.Time
		wantGranularity analytics.Granularity
	}{
		{analytics.RangeToday, day(2025, 6, 15), day(2025, 6, 16), analytics.GranularityDay},
		{analytics.RangeLast7Days, day(2025, 6, 9), day(2025, 6, 16), analytics.GranularityDay},
		{analytics.RangeLast30Days, day(2025, 5, 17), day(2025, 6, 16), analytics.GranularityDay},
		{analytics.RangeThisMonth, day(2025, 6, 1), day(2025, 7, 1), analytics.GranularityDay},
		{analytics.RangeLastMonth, day(2025, 5, 1), day(2025, 6, 1), analytics.GranularityDay},
		{analytics.RangeThisYear, day(2025, 1, 1), day(2026, 1, 1), analytics.GranularityMonth},
	}

	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			tr, err := analytics.RangeFromPreset(tt.preset, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tr == nil {
				t.Fatal("expected a range, got nil")
			}
			if !tr.Start.Equal(tt.wantStart) || !tr.End.Equal(tt.wantEnd) {
				t.Errorf("expected [%s, %s), got [%s, %s)", tt.wantStart, tt.wantEnd, tr.Start, tr.End)
			}
			if tr.Granularity != tt.wantGranularity {
				t.Errorf("expected granularity %s, got %s", tt.wantGranularity, tr.Granularity)
			}
		})
	}
}

func TestRangeFromPresetAllTime(t *testing.T) {
	for _, preset := range []string{"", analytics.RangeAllTime} {
		tr, err := analytics.RangeFromPreset(preset, time.Now())
		if err != nil {
			t.Fatalf("preset %q: unexpected error: %v", preset, err)
		}
		if tr != nil {
			t.Errorf("preset %q: expected nil range, got %+v", preset, tr)
		}
	}
}

func TestRangeFromPresetUnknown(t *testing.T) {
	if _, err := analytics.RangeFromPreset("fortnight", time.Now()); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestTimeRangeContains(t *testing.T) {
	tr := analytics.TimeRange{Start: day(2025, 6, 1), End: day(2025, 7, 1)}

	tests := []struct {
		t    time.Time
		want bool
	}{
		{day(2025, 5, 31), false},
		{day(2025, 6, 1), true},
		{day(2025, 6, 30), true},
		{day(2025, 7, 1), false},
	}
	for _, tt := range tests {
		if got := tr.Contains(tt.t); got != tt.want {
			t.Errorf("Contains(%s): expected %v, got %v", tt.t.Format("2006-01-02"), tt.want, got)
		}
	}
}

func TestFieldsForSource(t *testing.T) {
	fields := analytics.FieldsForSource("sales")
	want := map[string]bool{"platform": true, "soldPrice": true, "fees": true, "buyer": true, "dateSold": true}
	if len(fields) != len(want) {
		t.Fatalf("expected %d fields, got %v", len(want), fields)
	}
	for _, f := range fields {
		if !want[f] {
			t.Errorf("unexpected field %s", f)
		}
	}

	combined := analytics.FieldsForSource("combined")
	found := map[string]bool{}
	for _, f := range combined {
		found[f] = true
	}
	for _, f := range []string{"date", "amount", "type", "soldPrice", "cost", "purchasePrice"} {
		if !found[f] {
			t.Errorf("combined source missing field %s", f)
		}
	}
}
