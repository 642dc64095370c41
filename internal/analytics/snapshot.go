package analytics

import (
	"sync"

	"backend/internal/model"

	"github.com/google/uuid"
)

// Snapshot is an immutable, already-fetched set of entity records for one
// computation request. The engine never queries storage itself; callers load
// the snapshot through the repository layer and hand it in.
type Snapshot struct {
	Items     []model.Item
	Sales     []model.Sale
	Purchases []model.Purchase

	indexOnce sync.Once
	itemIndex map[uuid.UUID]*model.Item
}

// ItemIndex returns an id→item lookup built once per snapshot. Profit
// calculations join every sale to its item through this index instead of
// scanning the item slice per sale.
func (s *Snapshot) ItemIndex() map[uuid.UUID]*model.Item {
	s.indexOnce.Do(func() {
		s.itemIndex = make(map[uuid.UUID]*model.Item, len(s.Items))
		for i := range s.Items {
			s.itemIndex[s.Items[i].ID] = &s.Items[i]
		}
	})
	return s.itemIndex
}

// records flattens the selected data source into pipeline rows. The
// combined source concatenates sales, purchases and inventory into one
// tagged sequence.
func (s *Snapshot) records(dataSource string) []record {
	switch dataSource {
	case model.DataSourceInventory:
		rows := make([]record, 0, len(s.Items))
		for i := range s.Items {
			rows = append(rows, record{source: model.DataSourceInventory, item: &s.Items[i]})
		}
		return rows
	case model.DataSourceSales:
		rows := make([]record, 0, len(s.Sales))
		for i := range s.Sales {
			rows = append(rows, record{source: model.DataSourceSales, sale: &s.Sales[i]})
		}
		return rows
	case model.DataSourcePurchases:
		rows := make([]record, 0, len(s.Purchases))
		for i := range s.Purchases {
			rows = append(rows, record{source: model.DataSourcePurchases, purchase: &s.Purchases[i]})
		}
		return rows
	case model.DataSourceCombined:
		rows := make([]record, 0, len(s.Sales)+len(s.Purchases)+len(s.Items))
		rows = append(rows, s.records(model.DataSourceSales)...)
		rows = append(rows, s.records(model.DataSourcePurchases)...)
		rows = append(rows, s.records(model.DataSourceInventory)...)
		return rows
	}
	return nil
}
