package analytics_test

import (
	"testing"
	"time"

	"backend/internal/analytics"
	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sale(platform string, price, fees float64, sold time.Time) model.Sale {
	return model.Sale{
		ID:        uuid.New(),
		ItemID:    uuid.New(),
		Platform:  platform,
		SoldPrice: decimal.NewFromFloat(price),
		Fees:      decimal.NewFromFloat(fees),
		DateSold:  sold,
	}
}

func item(title, category, status string, price float64, qty int, added time.Time) model.Item {
	return model.Item{
		ID:            uuid.New(),
		Title:         title,
		Category:      category,
		Status:        status,
		PurchasePrice: decimal.NewFromFloat(price),
		Quantity:      qty,
		DateAdded:     added,
	}
}

func TestEvaluateGroupedSumByPlatform(t *testing.T) {
	// Scenario: sum of soldPrice grouped by platform, largest group first.
	snap := &analytics.Snapshot{
		Sales: []model.Sale{
			sale("A", 10, 0, day(2025, 6, 1)),
			sale("A", 20, 0, day(2025, 6, 2)),
			sale("B", 5, 0, day(2025, 6, 3)),
		},
	}
	def := model.ChartDefinition{
		DataSource:  model.DataSourceSales,
		YField:      "soldPrice",
		Aggregation: model.AggregationSum,
		GroupBy:     "platform",
	}

	result, err := analytics.Evaluate(def, snap, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Grouped || len(result.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %+v", result)
	}
	if result.Groups[0].Key != "A" || !result.Groups[0].Value.Equal(decimal.NewFromInt(30)) {
		t.Errorf("expected first group A=30, got %s=%s", result.Groups[0].Key, result.Groups[0].Value)
	}
	if result.Groups[1].Key != "B" || !result.Groups[1].Value.Equal(decimal.NewFromInt(5)) {
		t.Errorf("expected second group B=5, got %s=%s", result.Groups[1].Key, result.Groups[1].Value)
	}
}

func TestEvaluateUngroupedSumInvariant(t *testing.T) {
	// With no grouping the single result equals the arithmetic sum over the
	// whole filtered set.
	snap := &analytics.Snapshot{
		Sales: []model.Sale{
			sale("A", 10.25, 0, day(2025, 6, 1)),
			sale("B", 20.50, 0, day(2025, 6, 2)),
			sale("C", 0.25, 0, day(2025, 6, 3)),
		},
	}
	def := model.ChartDefinition{
		DataSource:  model.DataSourceSales,
		YField:      "soldPrice",
		Aggregation: model.AggregationSum,
	}

	result, err := analytics.Evaluate(def, snap, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Grouped {
		t.Fatalf("expected scalar result")
	}
	if want := decimal.NewFromFloat(31.00); !result.ScalarValue().Equal(want) {
		t.Errorf("expected %s, got %s", want, result.ScalarValue())
	}
}

func TestEvaluateEmptyInput(t *testing.T) {
	tests := []struct {
		name        string
		aggregation string
		wantGroups  int
		wantValue   string
	}{
		{"sum of nothing is zero", model.AggregationSum, 1, "0"},
		{"average of nothing is zero, not NaN", model.AggregationAverage, 1, "0"},
		{"count of nothing is zero", model.AggregationCount, 1, "0"},
		{"min of nothing is omitted", model.AggregationMin, 0, ""},
		{"max of nothing is omitted", model.AggregationMax, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := model.ChartDefinition{
				DataSource:  model.DataSourceSales,
				YField:      "soldPrice",
				Aggregation: tt.aggregation,
			}
			result, err := analytics.Evaluate(def, &analytics.Snapshot{}, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(result.Groups) != tt.wantGroups {
				t.Fatalf("expected %d groups, got %d", tt.wantGroups, len(result.Groups))
			}
			if tt.wantGroups == 1 && result.Groups[0].Value.String() != tt.wantValue {
				t.Errorf("expected %s, got %s", tt.wantValue, result.Groups[0].Value)
			}
		})
	}
}

func TestEvaluateDivideByZeroContributesZero(t *testing.T) {
	// fees / soldPrice where one record has soldPrice=0: that record
	// contributes 0 and the rest of the aggregate is unaffected.
	snap := &analytics.Snapshot{
		Sales: []model.Sale{
			sale("A", 100, 10, day(2025, 6, 1)), // 10/100 = 0.1
			sale("B", 0, 7, day(2025, 6, 2)),    // zero divisor → 0
			sale("C", 50, 5, day(2025, 6, 3)),   // 5/50 = 0.1
		},
	}
	def := model.ChartDefinition{
		DataSource:  model.DataSourceSales,
		YField:      "fees",
		Aggregation: model.AggregationSum,
		Formula: &model.FormulaConfig{
			Operation: model.FormulaDivide,
			Field1:    "fees",
			Field2:    "soldPrice",
		},
	}

	result, err := analytics.Evaluate(def, snap, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := decimal.NewFromFloat(0.2); !result.ScalarValue().Equal(want) {
		t.Errorf("expected %s, got %s", want, result.ScalarValue())
	}
}

func TestEvaluateFormulaOperations(t *testing.T) {
	snap := &analytics.Snapshot{
		Sales: []model.Sale{sale("A", 100, 10, day(2025, 6, 1))},
	}

	tests := []struct {
		op   string
		want string
	}{
		{model.FormulaAdd, "110"},
		{model.FormulaSubtract, "90"},
		{model.FormulaMultiply, "1000"},
		{model.FormulaDivide, "10"},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			def := model.ChartDefinition{
				DataSource:  model.DataSourceSales,
				YField:      "soldPrice",
				Aggregation: model.AggregationSum,
				Formula: &model.FormulaConfig{
					Operation: tt.op,
					Field1:    "soldPrice",
					Field2:    "fees",
				},
			}
			result, err := analytics.Evaluate(def, snap, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.ScalarValue().String() != tt.want {
				t.Errorf("%s: expected %s, got %s", tt.op, tt.want, result.ScalarValue())
			}
		})
	}
}

func TestEvaluateTimeRangeIsHalfOpen(t *testing.T) {
	snap := &analytics.Snapshot{
		Sales: []model.Sale{
			sale("A", 1, 0, day(2025, 5, 31)), // before start
			sale("A", 2, 0, day(2025, 6, 1)),  // on start, included
			sale("A", 4, 0, day(2025, 6, 30)), // inside
			sale("A", 8, 0, day(2025, 7, 1)),  // on end, excluded
		},
	}
	def := model.ChartDefinition{
		DataSource:  model.DataSourceSales,
		YField:      "soldPrice",
		Aggregation: model.AggregationSum,
	}
	tr := &analytics.TimeRange{
		Start:       day(2025, 6, 1),
		End:         day(2025, 7, 1),
		Granularity: analytics.GranularityDay,
	}

	result, err := analytics.Evaluate(def, snap, tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := decimal.NewFromInt(6); !result.ScalarValue().Equal(want) {
		t.Errorf("expected %s, got %s", want, result.ScalarValue())
	}
}

func TestEvaluateGroupingPartition(t *testing.T) {
	// Every record inside the time range lands in exactly one group: the
	// per-group counts sum to the number of surviving records.
	snap := &analytics.Snapshot{
		Sales: []model.Sale{
			sale("A", 1, 0, day(2025, 6, 1)),
			sale("B", 2, 0, day(2025, 6, 2)),
			sale("A", 3, 0, day(2025, 6, 3)),
			sale("C", 4, 0, day(2025, 6, 4)),
			sale("B", 5, 0, day(2025, 8, 1)), // filtered out
		},
	}
	def := model.ChartDefinition{
		DataSource:  model.DataSourceSales,
		YField:      "soldPrice",
		Aggregation: model.AggregationCount,
		GroupBy:     "platform",
	}
	tr := &analytics.TimeRange{Start: day(2025, 6, 1), End: day(2025, 7, 1), Granularity: analytics.GranularityDay}

	result, err := analytics.Evaluate(def, snap, tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	total := decimal.Zero
	for _, g := range result.Groups {
		total = total.Add(g.Value)
	}
	if !total.Equal(decimal.NewFromInt(4)) {
		t.Errorf("expected group counts to sum to 4, got %s", total)
	}
}

func TestEvaluateDateGroupsSortAscending(t *testing.T) {
	snap := &analytics.Snapshot{
		Sales: []model.Sale{
			sale("A", 30, 0, day(2025, 3, 10)),
			sale("A", 10, 0, day(2025, 1, 5)),
			sale("A", 20, 0, day(2025, 2, 7)),
		},
	}
	def := model.ChartDefinition{
		DataSource:  model.DataSourceSales,
		YField:      "soldPrice",
		Aggregation: model.AggregationSum,
		GroupBy:     "dateSold",
	}
	tr := &analytics.TimeRange{
		Start:       day(2025, 1, 1),
		End:         day(2026, 1, 1),
		Granularity: analytics.GranularityMonth,
	}

	result, err := analytics.Evaluate(def, snap, tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantKeys := []string{"2025-01", "2025-02", "2025-03"}
	if len(result.Groups) != len(wantKeys) {
		t.Fatalf("expected %d groups, got %d", len(wantKeys), len(result.Groups))
	}
	for i, want := range wantKeys {
		if result.Groups[i].Key != want {
			t.Errorf("group %d: expected key %s, got %s", i, want, result.Groups[i].Key)
		}
	}
}

func TestEvaluateDateBucketGranularities(t *testing.T) {
	// 2025-06-18 is a Wednesday; its week bucket starts Monday 2025-06-16.
	ts := day(2025, 6, 18)
	snap := &analytics.Snapshot{Sales: []model.Sale{sale("A", 1, 0, ts)}}
	def := model.ChartDefinition{
		DataSource:  model.DataSourceSales,
		YField:      "soldPrice",
		Aggregation: model.AggregationSum,
		GroupBy:     "dateSold",
	}

	tests := []struct {
		granularity analytics.Granularity
		wantKey     string
	}{
		{analytics.GranularityDay, "2025-06-18"},
		{analytics.GranularityWeek, "2025-06-16"},
		{analytics.GranularityMonth, "2025-06"},
		{analytics.GranularityQuarter, "2025-Q2"},
		{analytics.GranularityYear, "2025"},
	}

	for _, tt := range tests {
		t.Run(string(tt.granularity), func(t *testing.T) {
			tr := &analytics.TimeRange{Start: day(2025, 1, 1), End: day(2026, 1, 1), Granularity: tt.granularity}
			result, err := analytics.Evaluate(def, snap, tr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(result.Groups) != 1 || result.Groups[0].Key != tt.wantKey {
				t.Errorf("expected key %s, got %+v", tt.wantKey, result.Groups)
			}
		})
	}
}

func TestEvaluateCombinedSource(t *testing.T) {
	// The combined union exposes the virtual amount/type fields; grouping by
	// type partitions by origin source.
	snap := &analytics.Snapshot{
		Items:     []model.Item{item("Jacket", "Outerwear", model.ItemStatusInStock, 40, 1, day(2025, 6, 1))},
		Sales:     []model.Sale{sale("A", 100, 0, day(2025, 6, 2))},
		Purchases: []model.Purchase{{ID: uuid.New(), Supplier: "S", Cost: decimal.NewFromInt(25), DatePurchased: day(2025, 6, 3)}},
	}
	def := model.ChartDefinition{
		DataSource:  model.DataSourceCombined,
		YField:      "amount",
		Aggregation: model.AggregationSum,
		GroupBy:     "type",
	}

	result, err := analytics.Evaluate(def, snap, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	values := map[string]string{}
	for _, g := range result.Groups {
		values[g.Key] = g.Value.String()
	}
	if values["sales"] != "100" || values["purchases"] != "25" || values["inventory"] != "40" {
		t.Errorf("unexpected group values: %v", values)
	}
}

func TestEvaluateCombinedFallbackSkipsForeignRecords(t *testing.T) {
	// soldPrice only exists on sales; inventory and purchase rows in the
	// union are skipped rather than failing the whole evaluation.
	snap := &analytics.Snapshot{
		Items:     []model.Item{item("Jacket", "Outerwear", model.ItemStatusInStock, 40, 1, day(2025, 6, 1))},
		Sales:     []model.Sale{sale("A", 100, 0, day(2025, 6, 2))},
		Purchases: []model.Purchase{{ID: uuid.New(), Supplier: "S", Cost: decimal.NewFromInt(25), DatePurchased: day(2025, 6, 3)}},
	}
	def := model.ChartDefinition{
		DataSource:  model.DataSourceCombined,
		YField:      "soldPrice",
		Aggregation: model.AggregationSum,
	}

	result, err := analytics.Evaluate(def, snap, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := decimal.NewFromInt(100); !result.ScalarValue().Equal(want) {
		t.Errorf("expected %s, got %s", want, result.ScalarValue())
	}
}

func TestEvaluateUnknownFieldFails(t *testing.T) {
	tests := []struct {
		name string
		def  model.ChartDefinition
	}{
		{
			"unknown yField",
			model.ChartDefinition{DataSource: model.DataSourceSales, YField: "margin", Aggregation: model.AggregationSum},
		},
		{
			"unknown groupBy",
			model.ChartDefinition{DataSource: model.DataSourceSales, YField: "soldPrice", Aggregation: model.AggregationSum, GroupBy: "warehouse"},
		},
		{
			"unknown formula field",
			model.ChartDefinition{
				DataSource: model.DataSourceSales, YField: "soldPrice", Aggregation: model.AggregationSum,
				Formula: &model.FormulaConfig{Operation: model.FormulaAdd, Field1: "soldPrice", Field2: "shipping"},
			},
		},
		{
			"field from another source",
			model.ChartDefinition{DataSource: model.DataSourcePurchases, YField: "soldPrice", Aggregation: model.AggregationSum},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := analytics.Evaluate(tt.def, &analytics.Snapshot{}, nil)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !analytics.IsInvalidChartDefinition(err) {
				t.Errorf("expected InvalidChartDefinitionError, got %v", err)
			}
		})
	}
}

func TestEvaluateCountIgnoresYField(t *testing.T) {
	// The default "Sales by Category" chart counts rows with yField "id",
	// which is not a resolvable field. Count never reads contribution
	// values, so this must work.
	snap := &analytics.Snapshot{
		Items: []model.Item{
			item("Jacket", "Outerwear", model.ItemStatusInStock, 40, 1, day(2025, 6, 1)),
			item("Boots", "Footwear", model.ItemStatusListed, 60, 1, day(2025, 6, 2)),
			item("Parka", "Outerwear", model.ItemStatusListed, 80, 1, day(2025, 6, 3)),
		},
	}
	def := model.ChartDefinition{
		DataSource:  model.DataSourceInventory,
		YField:      "id",
		Aggregation: model.AggregationCount,
		GroupBy:     "category",
	}

	result, err := analytics.Evaluate(def, snap, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(result.Groups))
	}
	if result.Groups[0].Key != "Outerwear" || result.Groups[0].Value.String() != "2" {
		t.Errorf("expected Outerwear=2 first, got %s=%s", result.Groups[0].Key, result.Groups[0].Value)
	}
}

func TestEvaluateMinMaxAggregations(t *testing.T) {
	snap := &analytics.Snapshot{
		Sales: []model.Sale{
			sale("A", 10, 0, day(2025, 6, 1)),
			sale("A", 30, 0, day(2025, 6, 2)),
			sale("A", 20, 0, day(2025, 6, 3)),
		},
	}

	for _, tt := range []struct {
		aggregation string
		want        string
	}{
		{model.AggregationMin, "10"},
		{model.AggregationMax, "30"},
		{model.AggregationAverage, "20"},
	} {
		def := model.ChartDefinition{DataSource: model.DataSourceSales, YField: "soldPrice", Aggregation: tt.aggregation}
		result, err := analytics.Evaluate(def, snap, nil)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.aggregation, err)
		}
		if result.ScalarValue().String() != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.aggregation, tt.want, result.ScalarValue())
		}
	}
}
