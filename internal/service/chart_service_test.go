package service_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"backend/internal/analytics"
	"backend/internal/model"
	"backend/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository fakes. Only the behavior the chart service relies on
// is implemented.

type fakeChartRepo struct {
	charts map[uuid.UUID]*model.ChartDefinition
}

func newFakeChartRepo() *fakeChartRepo {
	return &fakeChartRepo{charts: make(map[uuid.UUID]*model.ChartDefinition)}
}

func (r *fakeChartRepo) Create(_ context.Context, chart *model.ChartDefinition) error {
	if chart.ID == uuid.Nil {
		chart.ID = uuid.New()
	}
	clone := *chart
	r.charts[chart.ID] = &clone
	return nil
}

func (r *fakeChartRepo) Update(_ context.Context, chart *model.ChartDefinition) error {
	clone := *chart
	r.charts[chart.ID] = &clone
	return nil
}

func (r *fakeChartRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.charts, id)
	return nil
}

func (r *fakeChartRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ChartDefinition, error) {
	chart, ok := r.charts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *chart
	return &clone, nil
}

func (r *fakeChartRepo) ListAll(_ context.Context) ([]model.ChartDefinition, error) {
	charts := make([]model.ChartDefinition, 0, len(r.charts))
	for _, chart := range r.charts {
		charts = append(charts, *chart)
	}
	sort.Slice(charts, func(i, j int) bool {
		return charts[i].SortOrder < charts[j].SortOrder
	})
	return charts, nil
}

func (r *fakeChartRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.charts)), nil
}

func (r *fakeChartRepo) UpdateOrder(_ context.Context, orderedIDs []uuid.UUID) error {
	for position, id := range orderedIDs {
		chart, ok := r.charts[id]
		if !ok {
			return gorm.ErrRecordNotFound
		}
		chart.SortOrder = position
	}
	return nil
}

type fakeItemRepo struct {
	items []model.Item
}

func (r *fakeItemRepo) Create(_ context.Context, item *model.Item) error {
	r.items = append(r.items, *item)
	return nil
}

func (r *fakeItemRepo) Update(_ context.Context, item *model.Item) error {
	for i := range r.items {
		if r.items[i].ID == item.ID {
			r.items[i] = *item
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeItemRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Item, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			item := r.items[i]
			return &item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeItemRepo) List(_ context.Context, _, _ int, _, _ string) ([]model.Item, int64, error) {
	return r.items, int64(len(r.items)), nil
}

func (r *fakeItemRepo) ListAll(_ context.Context, statuses ...string) ([]model.Item, error) {
	if len(statuses) == 0 {
		return r.items, nil
	}
	var out []model.Item
	for _, item := range r.items {
		for _, s := range statuses {
			if item.Status == s {
				out = append(out, item)
				break
			}
		}
	}
	return out, nil
}

type fakeSaleRepo struct {
	sales []model.Sale
}

func (r *fakeSaleRepo) Create(_ context.Context, sale *model.Sale) error {
	r.sales = append(r.sales, *sale)
	return nil
}

func (r *fakeSaleRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range r.sales {
		if r.sales[i].ID == id {
			r.sales = append(r.sales[:i], r.sales[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	for i := range r.sales {
		if r.sales[i].ID == id {
			sale := r.sales[i]
			return &sale, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSaleRepo) List(_ context.Context, _, _ int, _ string) ([]model.Sale, int64, error) {
	return r.sales, int64(len(r.sales)), nil
}

func (r *fakeSaleRepo) ListAll(_ context.Context) ([]model.Sale, error) {
	return r.sales, nil
}

func (r *fakeSaleRepo) ListByItem(_ context.Context, itemID uuid.UUID) ([]model.Sale, error) {
	var out []model.Sale
	for _, sale := range r.sales {
		if sale.ItemID == itemID {
			out = append(out, sale)
		}
	}
	return out, nil
}

type fakePurchaseRepo struct {
	purchases []model.Purchase
}

func (r *fakePurchaseRepo) Create(_ context.Context, purchase *model.Purchase) error {
	r.purchases = append(r.purchases, *purchase)
	return nil
}

func (r *fakePurchaseRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range r.purchases {
		if r.purchases[i].ID == id {
			r.purchases = append(r.purchases[:i], r.purchases[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakePurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Purchase, error) {
	for i := range r.purchases {
		if r.purchases[i].ID == id {
			purchase := r.purchases[i]
			return &purchase, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePurchaseRepo) List(_ context.Context, _, _ int, _ string) ([]model.Purchase, int64, error) {
	return r.purchases, int64(len(r.purchases)), nil
}

func (r *fakePurchaseRepo) ListAll(_ context.Context) ([]model.Purchase, error) {
	return r.purchases, nil
}

func newChartService(chartRepo *fakeChartRepo, items *fakeItemRepo, sales *fakeSaleRepo) service.ChartService {
	return service.NewChartService(chartRepo, items, sales, &fakePurchaseRepo{})
}

func TestEnsureDefaultsSeedsFreshInstall(t *testing.T) {
	repo := newFakeChartRepo()
	svc := newChartService(repo, &fakeItemRepo{}, &fakeSaleRepo{})

	if err := svc.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}

	charts, _ := svc.ListCharts(context.Background())
	if len(charts) != 3 {
		t.Fatalf("expected 3 seeded charts, got %d", len(charts))
	}
	if charts[0].Title != "Revenue Trend" || charts[1].Title != "Sales by Category" || charts[2].Title != "Top Products" {
		t.Fatalf("unexpected seed order: %q, %q, %q", charts[0].Title, charts[1].Title, charts[2].Title)
	}

	// A second call must not duplicate the seeds.
	if err := svc.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("EnsureDefaults (second call): %v", err)
	}
	charts, _ = svc.ListCharts(context.Background())
	if len(charts) != 3 {
		t.Fatalf("expected seeding to be idempotent, got %d charts", len(charts))
	}
}

func TestCreateChartValidatesEnums(t *testing.T) {
	svc := newChartService(newFakeChartRepo(), &fakeItemRepo{}, &fakeSaleRepo{})

	base := service.ChartRequest{
		Title:       "Custom",
		ChartType:   model.ChartTypeBar,
		DataSource:  model.DataSourceSales,
		XField:      "platform",
		YField:      "soldPrice",
		Aggregation: model.AggregationSum,
	}

	tests := []struct {
		name   string
		mutate func(*service.ChartRequest)
	}{
		{"bad chart type", func(r *service.ChartRequest) { r.ChartType = "sparkline" }},
		{"bad data source", func(r *service.ChartRequest) { r.DataSource = "orders" }},
		{"bad aggregation", func(r *service.ChartRequest) { r.Aggregation = "median" }},
		{"bad formula op", func(r *service.ChartRequest) {
			r.Formula = &service.FormulaRequest{Operation: "modulo", Field1: "soldPrice", Field2: "fees"}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			if _, err := svc.CreateChart(context.Background(), req); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}

	chart, err := svc.CreateChart(context.Background(), base)
	if err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if chart.ColorPalette != "default" {
		t.Fatalf("expected default palette, got %q", chart.ColorPalette)
	}
}

func TestDuplicateChart(t *testing.T) {
	repo := newFakeChartRepo()
	svc := newChartService(repo, &fakeItemRepo{}, &fakeSaleRepo{})

	original, err := svc.CreateChart(context.Background(), service.ChartRequest{
		Title:       "Revenue by Platform",
		ChartType:   model.ChartTypeBar,
		DataSource:  model.DataSourceSales,
		XField:      "platform",
		YField:      "soldPrice",
		Aggregation: model.AggregationSum,
		GroupBy:     "platform",
		Formula:     &service.FormulaRequest{Operation: model.FormulaSubtract, Field1: "soldPrice", Field2: "fees"},
	})
	if err != nil {
		t.Fatalf("CreateChart: %v", err)
	}

	clone, err := svc.DuplicateChart(context.Background(), original.ID.String())
	if err != nil {
		t.Fatalf("DuplicateChart: %v", err)
	}

	if clone.ID == original.ID {
		t.Fatal("duplicate must get a fresh id")
	}
	if clone.Title != "Revenue by Platform (Copy)" {
		t.Fatalf("unexpected duplicate title %q", clone.Title)
	}
	if clone.SortOrder != 1 {
		t.Fatalf("duplicate should append at end, got sort order %d", clone.SortOrder)
	}
	if clone.Formula == nil || clone.Formula == original.Formula {
		t.Fatal("formula must be deep-copied")
	}
	if clone.Formula.Operation != model.FormulaSubtract {
		t.Fatalf("formula content lost: %+v", clone.Formula)
	}
}

func TestReorderCharts(t *testing.T) {
	repo := newFakeChartRepo()
	svc := newChartService(repo, &fakeItemRepo{}, &fakeSaleRepo{})

	if err := svc.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}
	charts, _ := svc.ListCharts(context.Background())

	reversed := []string{charts[2].ID.String(), charts[1].ID.String(), charts[0].ID.String()}
	if err := svc.ReorderCharts(context.Background(), service.ReorderChartsRequest{ChartIDs: reversed}); err != nil {
		t.Fatalf("ReorderCharts: %v", err)
	}

	reordered, _ := svc.ListCharts(context.Background())
	if reordered[0].Title != "Top Products" || reordered[2].Title != "Revenue Trend" {
		t.Fatalf("reorder not applied: %q ... %q", reordered[0].Title, reordered[2].Title)
	}

	if err := svc.ReorderCharts(context.Background(), service.ReorderChartsRequest{ChartIDs: []string{"not-a-uuid"}}); err == nil {
		t.Fatal("expected error for malformed chart id")
	}
}

func TestGetChartDataEvaluatesSnapshot(t *testing.T) {
	repo := newFakeChartRepo()
	sales := &fakeSaleRepo{sales: []model.Sale{
		{ID: uuid.New(), ItemID: uuid.New(), SoldPrice: decimal.NewFromInt(100), Platform: "eBay", DateSold: time.Now().UTC()},
		{ID: uuid.New(), ItemID: uuid.New(), SoldPrice: decimal.NewFromInt(40), Platform: "eBay", DateSold: time.Now().UTC()},
		{ID: uuid.New(), ItemID: uuid.New(), SoldPrice: decimal.NewFromInt(60), Platform: "Depop", DateSold: time.Now().UTC()},
	}}
	svc := newChartService(repo, &fakeItemRepo{}, sales)

	chart, err := svc.CreateChart(context.Background(), service.ChartRequest{
		Title:        "Revenue by Platform",
		ChartType:    model.ChartTypeBar,
		DataSource:   model.DataSourceSales,
		XField:       "platform",
		YField:       "soldPrice",
		Aggregation:  model.AggregationSum,
		GroupBy:      "platform",
		ColorPalette: "blue",
	})
	if err != nil {
		t.Fatalf("CreateChart: %v", err)
	}

	data, err := svc.GetChartData(context.Background(), chart.ID.String(), "")
	if err != nil {
		t.Fatalf("GetChartData: %v", err)
	}

	if !data.Grouped {
		t.Fatal("expected a grouped result")
	}
	if len(data.Points) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(data.Points))
	}
	// Categorical groups come largest first.
	if data.Points[0].Label != "eBay" || data.Points[0].Value != "140" {
		t.Fatalf("unexpected first point %+v", data.Points[0])
	}
	if data.Points[1].Label != "Depop" || data.Points[1].Value != "60" {
		t.Fatalf("unexpected second point %+v", data.Points[1])
	}
	if len(data.Colors) == 0 || data.Colors[0] != "#3498DB" {
		t.Fatalf("expected blue palette colors, got %v", data.Colors)
	}
}

func TestGetChartDataUnknownFieldSurfacesDefinitionError(t *testing.T) {
	repo := newFakeChartRepo()
	svc := newChartService(repo, &fakeItemRepo{}, &fakeSaleRepo{})

	chart, err := svc.CreateChart(context.Background(), service.ChartRequest{
		Title:       "Broken",
		ChartType:   model.ChartTypeBar,
		DataSource:  model.DataSourceSales,
		XField:      "platform",
		YField:      "margin", // not a sales field
		Aggregation: model.AggregationSum,
	})
	if err != nil {
		t.Fatalf("CreateChart: %v", err)
	}

	_, err = svc.GetChartData(context.Background(), chart.ID.String(), "")
	if err == nil {
		t.Fatal("expected evaluation error")
	}
	if !analytics.IsInvalidChartDefinition(err) {
		t.Fatalf("expected invalid chart definition error, got %v", err)
	}
}

func TestGetChartDataRejectsUnknownRangePreset(t *testing.T) {
	repo := newFakeChartRepo()
	svc := newChartService(repo, &fakeItemRepo{}, &fakeSaleRepo{})

	chart, err := svc.CreateChart(context.Background(), service.ChartRequest{
		Title:       "Revenue",
		ChartType:   model.ChartTypeBar,
		DataSource:  model.DataSourceSales,
		XField:      "platform",
		YField:      "soldPrice",
		Aggregation: model.AggregationSum,
	})
	if err != nil {
		t.Fatalf("CreateChart: %v", err)
	}

	if _, err := svc.GetChartData(context.Background(), chart.ID.String(), "fortnight"); err == nil {
		t.Fatal("expected error for unknown range preset")
	}
}
