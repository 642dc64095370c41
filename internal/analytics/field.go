package analytics

import (
	"time"

	"backend/internal/model"
)

// record is one row flowing through the aggregation pipeline: an entity
// pointer tagged with its origin data source. Exactly one of the entity
// pointers is set.
type record struct {
	source   string
	item     *model.Item
	sale     *model.Sale
	purchase *model.Purchase
}

// date returns the record's canonical date: dateAdded for inventory,
// dateSold for sales, datePurchased for purchases.
func (r record) date() time.Time {
	switch r.source {
	case model.DataSourceSales:
		return r.sale.DateSold
	case model.DataSourcePurchases:
		return r.purchase.DatePurchased
	default:
		return r.item.DateAdded
	}
}

func resolveItemField(it *model.Item, field string) (Scalar, bool) {
	switch field {
	case "title":
		return StringScalar(it.Title), true
	case "sku":
		return StringScalar(it.SKU), true
	case "category":
		return StringScalar(it.Category), true
	case "purchasePrice":
		return NumberScalar(it.PurchasePrice), true
	case "quantity":
		return IntScalar(it.Quantity), true
	case "status":
		return StringScalar(it.Status), true
	case "dateAdded":
		return DateScalar(it.DateAdded), true
	}
	return Scalar{}, false
}

func resolveSaleField(s *model.Sale, field string) (Scalar, bool) {
	switch field {
	case "platform":
		return StringScalar(s.Platform), true
	case "soldPrice":
		return NumberScalar(s.SoldPrice), true
	case "fees":
		return NumberScalar(s.Fees), true
	case "buyer":
		return StringScalar(s.Buyer), true
	case "dateSold":
		return DateScalar(s.DateSold), true
	}
	return Scalar{}, false
}

func resolvePurchaseField(p *model.Purchase, field string) (Scalar, bool) {
	switch field {
	case "batchName":
		return StringScalar(p.BatchName), true
	case "supplier":
		return StringScalar(p.Supplier), true
	case "cost":
		return NumberScalar(p.Cost), true
	case "datePurchased":
		return DateScalar(p.DatePurchased), true
	}
	return Scalar{}, false
}

// amount is the combined source's unified money field: purchase price for
// inventory, sold price for sales, cost for purchases.
func (r record) amount() Scalar {
	switch r.source {
	case model.DataSourceSales:
		return NumberScalar(r.sale.SoldPrice)
	case model.DataSourcePurchases:
		return NumberScalar(r.purchase.Cost)
	default:
		return NumberScalar(r.item.PurchasePrice)
	}
}

// resolveOwn resolves a field against the record's own source schema.
func (r record) resolveOwn(field string) (Scalar, bool) {
	switch r.source {
	case model.DataSourceSales:
		return resolveSaleField(r.sale, field)
	case model.DataSourcePurchases:
		return resolvePurchaseField(r.purchase, field)
	default:
		return resolveItemField(r.item, field)
	}
}

var sourceFields = map[string][]string{
	model.DataSourceInventory: {"title", "sku", "category", "purchasePrice", "quantity", "status", "dateAdded"},
	model.DataSourceSales:     {"platform", "soldPrice", "fees", "buyer", "dateSold"},
	model.DataSourcePurchases: {"batchName", "supplier", "cost", "datePurchased"},
}

var combinedVirtualFields = []string{"date", "amount", "type"}

// FieldsForSource lists the field names a chart may reference for a data
// source. The combined source exposes its unified virtual fields plus the
// union of the per-source schemas.
func FieldsForSource(dataSource string) []string {
	if dataSource == model.DataSourceCombined {
		fields := append([]string{}, combinedVirtualFields...)
		for _, src := range []string{model.DataSourceInventory, model.DataSourceSales, model.DataSourcePurchases} {
			fields = append(fields, sourceFields[src]...)
		}
		return fields
	}
	return append([]string{}, sourceFields[dataSource]...)
}

func fieldKnown(dataSource, field string) bool {
	if dataSource == model.DataSourceCombined {
		for _, f := range combinedVirtualFields {
			if f == field {
				return true
			}
		}
		for _, src := range []string{model.DataSourceInventory, model.DataSourceSales, model.DataSourcePurchases} {
			if fieldKnown(src, field) {
				return true
			}
		}
		return false
	}
	for _, f := range sourceFields[dataSource] {
		if f == field {
			return true
		}
	}
	return false
}

// resolveField resolves a field for one record within a data source
// context. ok=false without an error means the field belongs to another
// source in the combined union and this record simply does not carry it;
// the record is then excluded from that part of the computation. An unknown
// field name is a configuration error, not a data error.
func resolveField(dataSource string, r record, field string) (Scalar, bool, error) {
	if dataSource == model.DataSourceCombined {
		switch field {
		case "date":
			return DateScalar(r.date()), true, nil
		case "amount":
			return r.amount(), true, nil
		case "type":
			return StringScalar(r.source), true, nil
		}
		if s, ok := r.resolveOwn(field); ok {
			return s, true, nil
		}
		if fieldKnown(model.DataSourceCombined, field) {
			return Scalar{}, false, nil
		}
		return Scalar{}, false, &InvalidChartDefinitionError{DataSource: dataSource, Field: field}
	}

	if s, ok := r.resolveOwn(field); ok {
		return s, true, nil
	}
	return Scalar{}, false, &InvalidChartDefinitionError{DataSource: dataSource, Field: field}
}
