package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/analytics"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type FormulaRequest struct {
	Operation string `json:"operation" binding:"required"`
	Field1    string `json:"field1" binding:"required"`
	Field2    string `json:"field2" binding:"required"`
}

type ChartRequest struct {
	Title        string          `json:"title" binding:"required"`
	ChartType    string          `json:"chart_type" binding:"required"`
	DataSource   string          `json:"data_source" binding:"required"`
	XField       string          `json:"x_field" binding:"required"`
	YField       string          `json:"y_field" binding:"required"`
	Aggregation  string          `json:"aggregation" binding:"required"`
	GroupBy      string          `json:"group_by"`
	Formula      *FormulaRequest `json:"formula"`
	ColorPalette string          `json:"color_palette"`
}

type ReorderChartsRequest struct {
	ChartIDs []string `json:"chart_ids" binding:"required,min=1"`
}

// ChartPoint is one rendered data point of an evaluated chart.
type ChartPoint struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ChartDataResponse is the render-ready result of evaluating a chart
// definition over the current data.
type ChartDataResponse struct {
	ChartID   string       `json:"chart_id"`
	Title     string       `json:"title"`
	ChartType string       `json:"chart_type"`
	Grouped   bool         `json:"grouped"`
	Points    []ChartPoint `json:"points"`
	Colors    []string     `json:"colors"`
}

var ErrChartNotFound = errors.New("chart not found")

// --- Interface ---

type ChartService interface {
	ListCharts(ctx context.Context) ([]model.ChartDefinition, error)
	GetChart(ctx context.Context, id string) (*model.ChartDefinition, error)
	CreateChart(ctx context.Context, req ChartRequest) (*model.ChartDefinition, error)
	UpdateChart(ctx context.Context, id string, req ChartRequest) (*model.ChartDefinition, error)
	DeleteChart(ctx context.Context, id string) error
	DuplicateChart(ctx context.Context, id string) (*model.ChartDefinition, error)
	ReorderCharts(ctx context.Context, req ReorderChartsRequest) error
	GetChartData(ctx context.Context, id string, rangePreset string) (*ChartDataResponse, error)
	EnsureDefaults(ctx context.Context) error
}

type chartService struct {
	chartRepo repository.ChartRepository
	snapshots snapshotLoader
}

func NewChartService(
	chartRepo repository.ChartRepository,
	itemRepo repository.ItemRepository,
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
) ChartService {
	return &chartService{
		chartRepo: chartRepo,
		snapshots: snapshotLoader{itemRepo: itemRepo, saleRepo: saleRepo, purchaseRepo: purchaseRepo},
	}
}

// --- Implementation ---

func (s *chartService) ListCharts(ctx context.Context) ([]model.ChartDefinition, error) {
	return s.chartRepo.ListAll(ctx)
}

func (s *chartService) GetChart(ctx context.Context, id string) (*model.ChartDefinition, error) {
	chartID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid chart id: %w", err)
	}
	chart, err := s.chartRepo.FindByID(ctx, chartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChartNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return chart, nil
}

func (s *chartService) CreateChart(ctx context.Context, req ChartRequest) (*model.ChartDefinition, error) {
	chart, err := chartFromRequest(req)
	if err != nil {
		return nil, err
	}

	// New charts append to the end of the dashboard.
	count, err := s.chartRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count charts: %w", err)
	}
	chart.SortOrder = int(count)

	if err := s.chartRepo.Create(ctx, chart); err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}
	return chart, nil
}

func (s *chartService) UpdateChart(ctx context.Context, id string, req ChartRequest) (*model.ChartDefinition, error) {
	existing, err := s.GetChart(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := chartFromRequest(req)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.SortOrder = existing.SortOrder
	updated.CreatedAt = existing.CreatedAt

	if err := s.chartRepo.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update chart: %w", err)
	}
	return updated, nil
}

func (s *chartService) DeleteChart(ctx context.Context, id string) error {
	chart, err := s.GetChart(ctx, id)
	if err != nil {
		return err
	}
	if err := s.chartRepo.Delete(ctx, chart.ID); err != nil {
		return fmt.Errorf("failed to delete chart: %w", err)
	}
	return nil
}

func (s *chartService) DuplicateChart(ctx context.Context, id string) (*model.ChartDefinition, error) {
	chart, err := s.GetChart(ctx, id)
	if err != nil {
		return nil, err
	}

	clone := chart.Duplicated()
	count, err := s.chartRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count charts: %w", err)
	}
	clone.SortOrder = int(count)

	if err := s.chartRepo.Create(ctx, &clone); err != nil {
		return nil, fmt.Errorf("failed to duplicate chart: %w", err)
	}
	return &clone, nil
}

func (s *chartService) ReorderCharts(ctx context.Context, req ReorderChartsRequest) error {
	orderedIDs := make([]uuid.UUID, 0, len(req.ChartIDs))
	for _, raw := range req.ChartIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid chart id %q: %w", raw, err)
		}
		orderedIDs = append(orderedIDs, id)
	}
	return s.chartRepo.UpdateOrder(ctx, orderedIDs)
}

// GetChartData evaluates a chart over the current snapshot. The preset
// names a relative time window ("this_month", "last_7_days", ...); empty
// or "all_time" evaluates over everything.
func (s *chartService) GetChartData(ctx context.Context, id string, rangePreset string) (*ChartDataResponse, error) {
	chart, err := s.GetChart(ctx, id)
	if err != nil {
		return nil, err
	}

	timeRange, err := analytics.RangeFromPreset(rangePreset, time.Now())
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, err
	}

	result, err := analytics.Evaluate(*chart, snap, timeRange)
	if err != nil {
		return nil, err
	}

	points := make([]ChartPoint, 0, len(result.Groups))
	for _, g := range result.Groups {
		points = append(points, ChartPoint{Label: g.Key, Value: g.Value.String()})
	}

	return &ChartDataResponse{
		ChartID:   chart.ID.String(),
		Title:     chart.Title,
		ChartType: chart.ChartType,
		Grouped:   result.Grouped,
		Points:    points,
		Colors:    model.PaletteColors(chart.ColorPalette),
	}, nil
}

// EnsureDefaults seeds the built-in chart definitions on a fresh install.
func (s *chartService) EnsureDefaults(ctx context.Context) error {
	count, err := s.chartRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count charts: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, def := range model.DefaultChartDefinitions() {
		chart := def
		if err := s.chartRepo.Create(ctx, &chart); err != nil {
			return fmt.Errorf("failed to seed default chart %q: %w", def.Title, err)
		}
	}
	return nil
}

func chartFromRequest(req ChartRequest) (*model.ChartDefinition, error) {
	if !model.IsValidChartType(req.ChartType) {
		return nil, fmt.Errorf("invalid chart type: %s", req.ChartType)
	}
	if !model.IsValidDataSource(req.DataSource) {
		return nil, fmt.Errorf("invalid data source: %s", req.DataSource)
	}
	if !model.IsValidAggregation(req.Aggregation) {
		return nil, fmt.Errorf("invalid aggregation: %s", req.Aggregation)
	}

	chart := &model.ChartDefinition{
		Title:        req.Title,
		ChartType:    req.ChartType,
		DataSource:   req.DataSource,
		XField:       req.XField,
		YField:       req.YField,
		Aggregation:  req.Aggregation,
		GroupBy:      req.GroupBy,
		ColorPalette: req.ColorPalette,
	}
	if chart.ColorPalette == "" {
		chart.ColorPalette = "default"
	}
	if req.Formula != nil {
		if !model.IsValidFormulaOperation(req.Formula.Operation) {
			return nil, fmt.Errorf("invalid formula operation: %s", req.Formula.Operation)
		}
		chart.Formula = &model.FormulaConfig{
			Operation: req.Formula.Operation,
			Field1:    req.Formula.Field1,
			Field2:    req.Formula.Field2,
		}
	}
	return chart, nil
}
