package analytics

import (
	"fmt"
	"log"
	"sync"
	"time"

	"backend/internal/model"

	"github.com/shopspring/decimal"
)

// kpiPlaceholder is shown for a metric whose computation failed. The other
// five metrics still render; the dashboard never goes blank because one
// metric misbehaved.
const kpiPlaceholder = "N/A"

type kpiSpec struct {
	title     string
	metricKey string
	compute   func(snap *Snapshot, now time.Time) (value, secondary string)
}

var kpiSpecs = []kpiSpec{
	{"Inventory Value", model.MetricInventoryValue, inventoryValueKPI},
	{"Items in Stock", model.MetricItemsInStock, itemsInStockKPI},
	{"Items Listed", model.MetricItemsListed, itemsListedKPI},
	{"Sold This Month", model.MetricItemsSoldMonth, soldThisMonthKPI},
	{"Revenue (Month)", model.MetricRevenueMonth, revenueMonthKPI},
	{"Profit (Month)", model.MetricProfitMonth, profitMonthKPI},
}

// CalculateKPIs computes the six fixed dashboard metrics over a snapshot.
// The metrics are independent read-only passes, so each runs in its own
// goroutine and the fixed-order list is assembled after all complete. A
// metric that panics is recovered into a placeholder entry; the result
// always has exactly six KPIs.
func CalculateKPIs(snap *Snapshot, now time.Time) []model.DashboardKPI {
	results := make([]model.DashboardKPI, len(kpiSpecs))

	var wg sync.WaitGroup
	for i, spec := range kpiSpecs {
		wg.Add(1)
		go func(i int, spec kpiSpec) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("KPI %s failed: %v", spec.metricKey, r)
					results[i] = model.DashboardKPI{
						Title:         spec.title,
						Value:         kpiPlaceholder,
						SecondaryText: "Unavailable",
						MetricKey:     spec.metricKey,
						SortOrder:     i,
					}
				}
			}()
			value, secondary := spec.compute(snap, now)
			results[i] = model.DashboardKPI{
				Title:         spec.title,
				Value:         value,
				SecondaryText: secondary,
				MetricKey:     spec.metricKey,
				SortOrder:     i,
			}
		}(i, spec)
	}
	wg.Wait()

	return results
}

// inventoryValueKPI sums purchasePrice × quantity over items currently held
// for sale (in stock or listed). Sold, reserved, archived and draft items
// carry no inventory value.
func inventoryValueKPI(snap *Snapshot, _ time.Time) (string, string) {
	total := decimal.Zero
	for i := range snap.Items {
		switch snap.Items[i].Status {
		case model.ItemStatusInStock, model.ItemStatusListed:
			qty := decimal.NewFromInt(int64(snap.Items[i].Quantity))
			total = total.Add(snap.Items[i].PurchasePrice.Mul(qty))
		}
	}
	return FormatCurrency(total), "Total value of inventory"
}

func itemsInStockKPI(snap *Snapshot, _ time.Time) (string, string) {
	count := 0
	for i := range snap.Items {
		if snap.Items[i].Status == model.ItemStatusInStock {
			count++
		}
	}
	return fmt.Sprintf("%d", count), "Items available"
}

func itemsListedKPI(snap *Snapshot, _ time.Time) (string, string) {
	count := 0
	for i := range snap.Items {
		if snap.Items[i].Status == model.ItemStatusListed {
			count++
		}
	}
	return fmt.Sprintf("%d", count), "Items listed for sale"
}

func soldThisMonthKPI(snap *Snapshot, now time.Time) (string, string) {
	start := startOfMonth(now)
	count := 0
	for i := range snap.Sales {
		if !snap.Sales[i].DateSold.Before(start) {
			count++
		}
	}
	return fmt.Sprintf("%d", count), "This month"
}

// revenueMonthKPI sums sold prices for the current calendar month. The
// month filter matches the metric's label.
func revenueMonthKPI(snap *Snapshot, now time.Time) (string, string) {
	start := startOfMonth(now)
	total := decimal.Zero
	for i := range snap.Sales {
		if !snap.Sales[i].DateSold.Before(start) {
			total = total.Add(snap.Sales[i].SoldPrice)
		}
	}
	return FormatCurrency(total), "This month"
}

// profitMonthKPI sums soldPrice − fees − costBasis over the current month's
// sales, where costBasis is the referenced item's purchase price looked up
// through the snapshot's id index. A sale whose item is missing from the
// snapshot contributes nothing instead of failing the metric.
func profitMonthKPI(snap *Snapshot, now time.Time) (string, string) {
	start := startOfMonth(now)
	index := snap.ItemIndex()
	total := decimal.Zero
	for i := range snap.Sales {
		sale := &snap.Sales[i]
		if sale.DateSold.Before(start) {
			continue
		}
		item, ok := index[sale.ItemID]
		if !ok {
			continue
		}
		total = total.Add(sale.SoldPrice.Sub(sale.Fees).Sub(item.PurchasePrice))
	}
	return FormatCurrency(total), "This month"
}

// TotalNetProfit is the all-time profit over a snapshot: for every sale,
// soldPrice − fees − item purchase price via the prebuilt item index.
// Dangling sales are excluded from the sum.
func TotalNetProfit(snap *Snapshot) decimal.Decimal {
	index := snap.ItemIndex()
	total := decimal.Zero
	for i := range snap.Sales {
		sale := &snap.Sales[i]
		item, ok := index[sale.ItemID]
		if !ok {
			continue
		}
		total = total.Add(sale.SoldPrice.Sub(sale.Fees).Sub(item.PurchasePrice))
	}
	return total
}

// TotalInventoryValue sums purchasePrice × quantity over in-stock and
// listed items.
func TotalInventoryValue(snap *Snapshot) decimal.Decimal {
	total := decimal.Zero
	for i := range snap.Items {
		switch snap.Items[i].Status {
		case model.ItemStatusInStock, model.ItemStatusListed:
			qty := decimal.NewFromInt(int64(snap.Items[i].Quantity))
			total = total.Add(snap.Items[i].PurchasePrice.Mul(qty))
		}
	}
	return total
}

// TotalSalesRevenue sums every sale's sold price.
func TotalSalesRevenue(snap *Snapshot) decimal.Decimal {
	total := decimal.Zero
	for i := range snap.Sales {
		total = total.Add(snap.Sales[i].SoldPrice)
	}
	return total
}

func startOfMonth(now time.Time) time.Time {
	u := now.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}
