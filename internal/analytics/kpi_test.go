package analytics_test

import (
	"testing"
	"time"

	"backend/internal/analytics"
	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var kpiNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func kpiByKey(t *testing.T, kpis []model.DashboardKPI, key string) model.DashboardKPI {
	t.Helper()
	for _, k := range kpis {
		if k.MetricKey == key {
			return k
		}
	}
	t.Fatalf("no KPI with key %s", key)
	return model.DashboardKPI{}
}

func TestCalculateKPIsCompleteness(t *testing.T) {
	// Always exactly six, in fixed order, even over an empty snapshot.
	kpis := analytics.CalculateKPIs(&analytics.Snapshot{}, kpiNow)

	wantOrder := []string{
		model.MetricInventoryValue,
		model.MetricItemsInStock,
		model.MetricItemsListed,
		model.MetricItemsSoldMonth,
		model.MetricRevenueMonth,
		model.MetricProfitMonth,
	}
	if len(kpis) != len(wantOrder) {
		t.Fatalf("expected %d KPIs, got %d", len(wantOrder), len(kpis))
	}
	for i, key := range wantOrder {
		if kpis[i].MetricKey != key {
			t.Errorf("position %d: expected %s, got %s", i, key, kpis[i].MetricKey)
		}
		if kpis[i].SortOrder != i {
			t.Errorf("position %d: expected sort order %d, got %d", i, i, kpis[i].SortOrder)
		}
	}

	if v := kpiByKey(t, kpis, model.MetricInventoryValue).Value; v != "$0.00" {
		t.Errorf("empty inventory value: expected $0.00, got %s", v)
	}
	if v := kpiByKey(t, kpis, model.MetricItemsInStock).Value; v != "0" {
		t.Errorf("empty stock count: expected 0, got %s", v)
	}
}

func TestInventoryValueExcludesSoldItems(t *testing.T) {
	// Two items: 10×2 in stock and 5×1 sold. Only held stock counts.
	snap := &analytics.Snapshot{
		Items: []model.Item{
			item("A", "", model.ItemStatusInStock, 10, 2, day(2025, 6, 1)),
			item("B", "", model.ItemStatusSold, 5, 1, day(2025, 6, 1)),
		},
	}
	kpis := analytics.CalculateKPIs(snap, kpiNow)
	if v := kpiByKey(t, kpis, model.MetricInventoryValue).Value; v != "$20.00" {
		t.Errorf("expected $20.00, got %s", v)
	}
}

func TestProfitJoinsSaleToItem(t *testing.T) {
	it := item("Jacket", "", model.ItemStatusSold, 40, 1, day(2025, 6, 1))
	s := sale("A", 100, 10, day(2025, 6, 10))
	s.ItemID = it.ID

	snap := &analytics.Snapshot{Items: []model.Item{it}, Sales: []model.Sale{s}}
	kpis := analytics.CalculateKPIs(snap, kpiNow)

	// 100 − 10 − 40 = 50
	if v := kpiByKey(t, kpis, model.MetricProfitMonth).Value; v != "$50.00" {
		t.Errorf("expected $50.00, got %s", v)
	}
}

func TestProfitSkipsDanglingSales(t *testing.T) {
	// A sale referencing a missing item contributes nothing and raises no
	// error; the profit sum is identical with or without the orphan.
	it := item("Jacket", "", model.ItemStatusSold, 40, 1, day(2025, 6, 1))
	linked := sale("A", 100, 10, day(2025, 6, 10))
	linked.ItemID = it.ID
	orphan := sale("B", 500, 0, day(2025, 6, 11)) // random ItemID, no referent

	withOrphan := &analytics.Snapshot{Items: []model.Item{it}, Sales: []model.Sale{linked, orphan}}
	withoutOrphan := &analytics.Snapshot{Items: []model.Item{it}, Sales: []model.Sale{linked}}

	a := kpiByKey(t, analytics.CalculateKPIs(withOrphan, kpiNow), model.MetricProfitMonth).Value
	b := kpiByKey(t, analytics.CalculateKPIs(withoutOrphan, kpiNow), model.MetricProfitMonth).Value
	if a != b || a != "$50.00" {
		t.Errorf("expected $50.00 in both cases, got %s and %s", a, b)
	}
}

func TestMonthlyKPIsFilterByCalendarMonth(t *testing.T) {
	// Revenue and profit carry monthly labels and are filtered to the
	// current calendar month, as is the sold count.
	it := item("Jacket", "", model.ItemStatusSold, 40, 1, day(2025, 1, 1))

	inMonth := sale("A", 100, 10, day(2025, 6, 5))
	inMonth.ItemID = it.ID
	lastMonth := sale("A", 999, 0, day(2025, 5, 20))
	lastMonth.ItemID = it.ID

	snap := &analytics.Snapshot{Items: []model.Item{it}, Sales: []model.Sale{inMonth, lastMonth}}
	kpis := analytics.CalculateKPIs(snap, kpiNow)

	if v := kpiByKey(t, kpis, model.MetricItemsSoldMonth).Value; v != "1" {
		t.Errorf("sold this month: expected 1, got %s", v)
	}
	if v := kpiByKey(t, kpis, model.MetricRevenueMonth).Value; v != "$100.00" {
		t.Errorf("revenue this month: expected $100.00, got %s", v)
	}
	if v := kpiByKey(t, kpis, model.MetricProfitMonth).Value; v != "$50.00" {
		t.Errorf("profit this month: expected $50.00, got %s", v)
	}
}

func TestStatusCounts(t *testing.T) {
	snap := &analytics.Snapshot{
		Items: []model.Item{
			item("A", "", model.ItemStatusInStock, 1, 1, day(2025, 6, 1)),
			item("B", "", model.ItemStatusInStock, 1, 1, day(2025, 6, 1)),
			item("C", "", model.ItemStatusListed, 1, 1, day(2025, 6, 1)),
			item("D", "", model.ItemStatusDraft, 1, 1, day(2025, 6, 1)),
		},
	}
	kpis := analytics.CalculateKPIs(snap, kpiNow)

	if v := kpiByKey(t, kpis, model.MetricItemsInStock).Value; v != "2" {
		t.Errorf("items in stock: expected 2, got %s", v)
	}
	if v := kpiByKey(t, kpis, model.MetricItemsListed).Value; v != "1" {
		t.Errorf("items listed: expected 1, got %s", v)
	}
}

func TestTotalNetProfitAllTime(t *testing.T) {
	it := item("Jacket", "", model.ItemStatusSold, 40, 1, day(2024, 1, 1))
	s1 := sale("A", 100, 10, day(2024, 3, 1))
	s1.ItemID = it.ID
	s2 := sale("B", 60, 0, day(2025, 2, 1))
	s2.ItemID = it.ID

	snap := &analytics.Snapshot{Items: []model.Item{it}, Sales: []model.Sale{s1, s2}}
	// (100−10−40) + (60−0−40) = 70
	if got := analytics.TotalNetProfit(snap); !got.Equal(decimal.NewFromInt(70)) {
		t.Errorf("expected 70, got %s", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"5", "$5.00"},
		{"1234.5", "$1,234.50"},
		{"1234567.89", "$1,234,567.89"},
		{"-12.3", "-$12.30"},
	}
	for _, tt := range tests {
		d, _ := decimal.NewFromString(tt.in)
		if got := analytics.FormatCurrency(d); got != tt.want {
			t.Errorf("FormatCurrency(%s): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestItemIndexLookups(t *testing.T) {
	items := []model.Item{
		item("A", "", model.ItemStatusInStock, 1, 1, day(2025, 6, 1)),
		item("B", "", model.ItemStatusListed, 2, 1, day(2025, 6, 2)),
	}
	snap := &analytics.Snapshot{Items: items}

	index := snap.ItemIndex()
	if len(index) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(index))
	}
	if got := index[items[1].ID]; got == nil || got.Title != "B" {
		t.Errorf("expected item B, got %+v", got)
	}
	if _, ok := index[uuid.New()]; ok {
		t.Error("unexpected hit for random id")
	}
}
