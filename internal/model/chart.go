package model

import (
	"time"

	"github.com/google/uuid"
)

// ChartType Enum Simulation
const (
	ChartTypeNone  = "none"
	ChartTypeBar   = "bar"
	ChartTypeLine  = "line"
	ChartTypeArea  = "area"
	ChartTypeDonut = "donut"
	ChartTypeTable = "table"
)

// ChartDataSource constants select which entity collection a chart reads.
const (
	DataSourceInventory = "inventory"
	DataSourceSales     = "sales"
	DataSourcePurchases = "purchases"
	DataSourceCombined  = "combined"
)

// ChartAggregation constants
const (
	AggregationSum     = "sum"
	AggregationAverage = "average"
	AggregationCount   = "count"
	AggregationMin     = "min"
	AggregationMax     = "max"
)

// FormulaOperation constants
const (
	FormulaAdd      = "add"
	FormulaSubtract = "subtract"
	FormulaMultiply = "multiply"
	FormulaDivide   = "divide"
)

// IsValidChartType reports whether t is a known chart type.
func IsValidChartType(t string) bool {
	switch t {
	case ChartTypeNone, ChartTypeBar, ChartTypeLine, ChartTypeArea, ChartTypeDonut, ChartTypeTable:
		return true
	}
	return false
}

// IsValidDataSource reports whether s is a known chart data source.
func IsValidDataSource(s string) bool {
	switch s {
	case DataSourceInventory, DataSourceSales, DataSourcePurchases, DataSourceCombined:
		return true
	}
	return false
}

// IsValidAggregation reports whether a is a known aggregation function.
func IsValidAggregation(a string) bool {
	switch a {
	case AggregationSum, AggregationAverage, AggregationCount, AggregationMin, AggregationMax:
		return true
	}
	return false
}

// IsValidFormulaOperation reports whether op is a known formula operation.
func IsValidFormulaOperation(op string) bool {
	switch op {
	case FormulaAdd, FormulaSubtract, FormulaMultiply, FormulaDivide:
		return true
	}
	return false
}

// FormulaConfig is a user-authored two-field arithmetic expression
// applied per record before aggregation: Field1 <Operation> Field2.
type FormulaConfig struct {
	Operation string `json:"operation"`
	Field1    string `json:"field1"`
	Field2    string `json:"field2"`
}

// ChartDefinition is a user-authored chart configuration. Field names are
// validated against the data source schema at evaluation time, not here,
// since a saved definition can outlive a schema change.
type ChartDefinition struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title        string         `gorm:"type:varchar(255);not null" json:"title"`
	ChartType    string         `gorm:"type:varchar(20);not null;default:'bar'" json:"chart_type"`
	DataSource   string         `gorm:"type:varchar(20);not null" json:"data_source"`
	XField       string         `gorm:"type:varchar(100);not null" json:"x_field"`
	YField       string         `gorm:"type:varchar(100);not null" json:"y_field"`
	Aggregation  string         `gorm:"type:varchar(20);not null;default:'sum'" json:"aggregation"`
	GroupBy      string         `gorm:"type:varchar(100)" json:"group_by,omitempty"`
	Formula      *FormulaConfig `gorm:"serializer:json" json:"formula,omitempty"`
	ColorPalette string         `gorm:"type:varchar(50);not null;default:'default'" json:"color_palette"`
	SortOrder    int            `gorm:"type:int;not null;default:0" json:"sort_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Duplicated clones the definition with a fresh id and a "(Copy)" title.
func (d ChartDefinition) Duplicated() ChartDefinition {
	clone := d
	clone.ID = uuid.New()
	clone.Title = d.Title + " (Copy)"
	clone.CreatedAt = time.Time{}
	clone.UpdatedAt = time.Time{}
	if d.Formula != nil {
		f := *d.Formula
		clone.Formula = &f
	}
	return clone
}

// DefaultChartDefinitions returns the built-in charts seeded for a fresh
// install.
func DefaultChartDefinitions() []ChartDefinition {
	return []ChartDefinition{
		{
			Title:        "Revenue Trend",
			ChartType:    ChartTypeBar,
			DataSource:   DataSourceSales,
			XField:       "dateSold",
			YField:       "soldPrice",
			Aggregation:  AggregationSum,
			GroupBy:      "dateSold",
			ColorPalette: "default",
			SortOrder:    0,
		},
		{
			Title:        "Sales by Category",
			ChartType:    ChartTypeDonut,
			DataSource:   DataSourceInventory,
			XField:       "category",
			YField:       "id",
			Aggregation:  AggregationCount,
			GroupBy:      "category",
			ColorPalette: "default",
			SortOrder:    1,
		},
		{
			Title:        "Top Products",
			ChartType:    ChartTypeBar,
			DataSource:   DataSourceSales,
			XField:       "platform",
			YField:       "soldPrice",
			Aggregation:  AggregationSum,
			GroupBy:      "platform",
			ColorPalette: "default",
			SortOrder:    2,
		},
	}
}

// ChartColorPalettes maps a palette name to its hex color rotation.
var ChartColorPalettes = map[string][]string{
	"default": {"#FFFFFF", "#3DDC97", "#F2A93B", "#3498DB", "#E74C3C"},
	"blue":    {"#3498DB", "#5DADE2", "#85C1E9", "#AED6F1", "#D6EAF8"},
	"green":   {"#27AE60", "#52BE80", "#7DCEA0", "#A9DFBF", "#D5F4E6"},
	"purple":  {"#8E44AD", "#A569BD", "#BB8FCE", "#D2B4DE", "#E8DAEF"},
	"orange":  {"#E67E22", "#EB984E", "#F0B27A", "#F5CBA7", "#FAE5D3"},
}

// PaletteColors returns the color rotation for a named palette, falling
// back to the default palette for unknown names.
func PaletteColors(name string) []string {
	if colors, ok := ChartColorPalettes[name]; ok {
		return colors
	}
	return ChartColorPalettes["default"]
}
