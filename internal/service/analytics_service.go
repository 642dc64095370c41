package service

import (
	"context"
	"sort"
	"time"

	"backend/internal/analytics"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/shopspring/decimal"
)

// lowStockThreshold: in-stock items below this quantity show up in alerts.
const lowStockThreshold = 3

// DTOs
type DashboardSummary struct {
	TotalInventoryValue string         `json:"total_inventory_value"`
	TotalSalesRevenue   string         `json:"total_sales_revenue"`
	TotalNetProfit      string         `json:"total_net_profit"`
	ItemCount           int            `json:"item_count"`
	ItemCountByStatus   map[string]int `json:"item_count_by_status"`
	SaleCount           int            `json:"sale_count"`
	SalesLast7Days      int            `json:"sales_last_7_days"`
	ItemsAddedLast24h   int            `json:"items_added_last_24h"`
}

type ActivityEntry struct {
	Type     string    `json:"type"` // "item_added" or "sale"
	Title    string    `json:"title"`
	Detail   string    `json:"detail,omitempty"`
	Occurred time.Time `json:"occurred"`
}

type LowStockItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	SKU      string `json:"sku,omitempty"`
	Quantity int    `json:"quantity"`
}

type DailyRevenuePoint struct {
	Date    string `json:"date"` // YYYY-MM-DD
	Revenue string `json:"revenue"`
}

type AnalyticsService interface {
	GetSummary(ctx context.Context) (*DashboardSummary, error)
	GetRecentActivity(ctx context.Context) ([]ActivityEntry, error)
	GetLowStockItems(ctx context.Context) ([]LowStockItem, error)
	GetWeeklySalesChart(ctx context.Context) ([]DailyRevenuePoint, error)
	GetRecentItems(ctx context.Context, limit int) ([]ItemResponse, error)
}

type analyticsService struct {
	snapshots snapshotLoader
	itemRepo  repository.ItemRepository
}

func NewAnalyticsService(
	itemRepo repository.ItemRepository,
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
) AnalyticsService {
	return &analyticsService{
		snapshots: snapshotLoader{itemRepo: itemRepo, saleRepo: saleRepo, purchaseRepo: purchaseRepo},
		itemRepo:  itemRepo,
	}
}

func (s *analyticsService) GetSummary(ctx context.Context) (*DashboardSummary, error) {
	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	addedCutoff := now.Add(-24 * time.Hour)
	salesCutoff := now.AddDate(0, 0, -7)

	added := 0
	byStatus := make(map[string]int)
	for i := range snap.Items {
		if snap.Items[i].DateAdded.After(addedCutoff) {
			added++
		}
		byStatus[snap.Items[i].Status]++
	}

	recentSales := 0
	for i := range snap.Sales {
		if snap.Sales[i].DateSold.After(salesCutoff) {
			recentSales++
		}
	}

	return &DashboardSummary{
		TotalInventoryValue: analytics.FormatCurrency(analytics.TotalInventoryValue(snap)),
		TotalSalesRevenue:   analytics.FormatCurrency(analytics.TotalSalesRevenue(snap)),
		TotalNetProfit:      analytics.FormatCurrency(analytics.TotalNetProfit(snap)),
		ItemCount:           len(snap.Items),
		ItemCountByStatus:   byStatus,
		SaleCount:           len(snap.Sales),
		SalesLast7Days:      recentSales,
		ItemsAddedLast24h:   added,
	}, nil
}

// GetRecentActivity interleaves the latest item additions and sales into a
// single feed, newest first, capped at ten entries.
func (s *analyticsService) GetRecentActivity(ctx context.Context) ([]ActivityEntry, error) {
	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]ActivityEntry, 0, 10)
	for i := range snap.Items {
		if i >= 5 {
			break
		}
		entries = append(entries, ActivityEntry{
			Type:     "item_added",
			Title:    snap.Items[i].Title,
			Detail:   snap.Items[i].Category,
			Occurred: snap.Items[i].DateAdded,
		})
	}

	index := snap.ItemIndex()
	for i := range snap.Sales {
		if i >= 5 {
			break
		}
		title := snap.Sales[i].Platform
		if item, ok := index[snap.Sales[i].ItemID]; ok {
			title = item.Title
		}
		entries = append(entries, ActivityEntry{
			Type:     "sale",
			Title:    title,
			Detail:   snap.Sales[i].Platform,
			Occurred: snap.Sales[i].DateSold,
		})
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Occurred.After(entries[b].Occurred)
	})
	if len(entries) > 10 {
		entries = entries[:10]
	}
	return entries, nil
}

// GetLowStockItems returns in-stock items whose quantity has dropped below
// the restock threshold, lowest quantity first.
func (s *analyticsService) GetLowStockItems(ctx context.Context) ([]LowStockItem, error) {
	items, err := s.itemRepo.ListAll(ctx, model.ItemStatusInStock)
	if err != nil {
		return nil, err
	}

	low := make([]LowStockItem, 0)
	for i := range items {
		if items[i].Quantity < lowStockThreshold {
			low = append(low, LowStockItem{
				ID:       items[i].ID.String(),
				Title:    items[i].Title,
				SKU:      items[i].SKU,
				Quantity: items[i].Quantity,
			})
		}
	}
	sort.SliceStable(low, func(a, b int) bool {
		return low[a].Quantity < low[b].Quantity
	})
	return low, nil
}

// GetWeeklySalesChart returns daily revenue for the trailing seven days,
// today included. Days with no sales report zero so the chart axis never
// has gaps.
func (s *analyticsService) GetWeeklySalesChart(ctx context.Context) ([]DailyRevenuePoint, error) {
	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -6)

	totals := make(map[string]decimal.Decimal, 7)
	for d := 0; d < 7; d++ {
		day := start.AddDate(0, 0, d)
		totals[day.Format("2006-01-02")] = decimal.Zero
	}

	for i := range snap.Sales {
		key := snap.Sales[i].DateSold.UTC().Format("2006-01-02")
		sum, ok := totals[key]
		if !ok {
			continue
		}
		totals[key] = sum.Add(snap.Sales[i].SoldPrice)
	}

	points := make([]DailyRevenuePoint, 0, 7)
	for d := 0; d < 7; d++ {
		key := start.AddDate(0, 0, d).Format("2006-01-02")
		points = append(points, DailyRevenuePoint{
			Date:    key,
			Revenue: totals[key].StringFixed(2),
		})
	}
	return points, nil
}

func (s *analyticsService) GetRecentItems(ctx context.Context, limit int) ([]ItemResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	items, _, err := s.itemRepo.List(ctx, 1, limit, "", "")
	if err != nil {
		return nil, err
	}

	res := make([]ItemResponse, 0, len(items))
	for i := range items {
		res = append(res, itemToResponse(&items[i]))
	}
	return res, nil
}
