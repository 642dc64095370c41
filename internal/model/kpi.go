package model

// KPI metric keys. The dashboard always shows exactly these six, in this
// order.
const (
	MetricInventoryValue = "inventory_value"
	MetricItemsInStock   = "items_in_stock"
	MetricItemsListed    = "items_listed"
	MetricItemsSoldMonth = "items_sold_month"
	MetricRevenueMonth   = "revenue_month"
	MetricProfitMonth    = "profit_month"
)

// DashboardKPI is a single computed dashboard metric. It is produced fresh
// on every request and never persisted.
type DashboardKPI struct {
	Title         string `json:"title"`
	Value         string `json:"value"`
	SecondaryText string `json:"secondary_text,omitempty"`
	MetricKey     string `json:"metric_key"`
	SortOrder     int    `json:"sort_order"`
}
