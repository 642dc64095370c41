package analytics

import (
	"sort"
	"time"

	"backend/internal/model"

	"github.com/shopspring/decimal"
)

// GroupValue is one ordered entry of an aggregation result.
type GroupValue struct {
	Key   string          `json:"key"`
	Value decimal.Decimal `json:"value"`
}

// AggregationResult is the pipeline output: an ordered series of group
// values, or a single scalar (Grouped=false) when the definition has no
// grouping.
type AggregationResult struct {
	Grouped bool         `json:"grouped"`
	Groups  []GroupValue `json:"groups"`
}

// ScalarValue returns the single reduced value of an ungrouped result,
// or zero when the result is empty.
func (r AggregationResult) ScalarValue() decimal.Decimal {
	if len(r.Groups) == 0 {
		return decimal.Zero
	}
	return r.Groups[0].Value
}

// bucket accumulates one group's reduction state in a single pass.
type bucket struct {
	key      string
	isDate   bool
	sortTime time.Time
	count    int
	sum      decimal.Decimal
	min      decimal.Decimal
	max      decimal.Decimal
	hasValue bool
}

func (b *bucket) add(v decimal.Decimal) {
	if !b.hasValue {
		b.min, b.max = v, v
		b.hasValue = true
	} else {
		if v.LessThan(b.min) {
			b.min = v
		}
		if v.GreaterThan(b.max) {
			b.max = v
		}
	}
	b.sum = b.sum.Add(v)
}

// Evaluate runs the aggregation pipeline for one chart definition over a
// snapshot: select source, filter by time range, compute per-record
// contributions, group, reduce, order. Empty input yields an empty result,
// never an error; the only error is a misconfigured definition.
func Evaluate(def model.ChartDefinition, snap *Snapshot, tr *TimeRange) (AggregationResult, error) {
	if !model.IsValidDataSource(def.DataSource) {
		return AggregationResult{}, &InvalidChartDefinitionError{
			DataSource: def.DataSource,
			Reason:     "unknown data source",
		}
	}
	if !model.IsValidAggregation(def.Aggregation) {
		return AggregationResult{}, &InvalidChartDefinitionError{
			DataSource: def.DataSource,
			Field:      def.YField,
			Reason:     "unknown aggregation " + def.Aggregation,
		}
	}

	// Field names are validated up front so a misconfigured chart fails the
	// same way on an empty snapshot as on a populated one. Only fields the
	// pipeline actually consumes are checked: count never reads yField.
	needsValues := def.Aggregation != model.AggregationCount
	if def.GroupBy != "" && !fieldKnown(def.DataSource, def.GroupBy) {
		return AggregationResult{}, &InvalidChartDefinitionError{DataSource: def.DataSource, Field: def.GroupBy}
	}
	if needsValues {
		for _, f := range valueFields(def) {
			if !fieldKnown(def.DataSource, f) {
				return AggregationResult{}, &InvalidChartDefinitionError{DataSource: def.DataSource, Field: f}
			}
		}
	}

	granularity := GranularityMonth
	if tr != nil && tr.Granularity != "" {
		granularity = tr.Granularity
	}

	buckets := make(map[string]*bucket)
	order := make([]string, 0)

	for _, rec := range snap.records(def.DataSource) {
		if tr != nil && !tr.Contains(rec.date()) {
			continue
		}

		key, isDate, sortTime, ok, err := groupKey(def, rec, granularity)
		if err != nil {
			return AggregationResult{}, err
		}
		if !ok {
			continue
		}

		var value decimal.Decimal
		if needsValues {
			v, ok, err := contribution(def.DataSource, rec, def)
			if err != nil {
				return AggregationResult{}, err
			}
			if !ok {
				continue
			}
			value = v
		}

		b, exists := buckets[key]
		if !exists {
			b = &bucket{key: key, isDate: isDate, sortTime: sortTime}
			buckets[key] = b
			order = append(order, key)
		}
		b.count++
		if needsValues {
			b.add(value)
		}
	}

	grouped := def.GroupBy != ""
	if !grouped && len(order) == 0 {
		// Implicit single group over an empty filtered set. Sum, average and
		// count are all defined as zero; min/max of nothing is omitted.
		switch def.Aggregation {
		case model.AggregationMin, model.AggregationMax:
			return AggregationResult{Grouped: false}, nil
		}
		return AggregationResult{Grouped: false, Groups: []GroupValue{{Key: "total", Value: decimal.Zero}}}, nil
	}

	groups := make([]GroupValue, 0, len(order))
	sortTimes := make(map[string]time.Time, len(order))
	dateKeyed := false
	for _, key := range order {
		b := buckets[key]
		groups = append(groups, GroupValue{Key: key, Value: reduce(b, def.Aggregation)})
		sortTimes[key] = b.sortTime
		if b.isDate {
			dateKeyed = true
		}
	}

	// Date-keyed series read left to right in time; categorical series lead
	// with the largest value.
	if dateKeyed {
		sort.Slice(groups, func(i, j int) bool {
			return sortTimes[groups[i].Key].Before(sortTimes[groups[j].Key])
		})
	} else if grouped {
		sort.Slice(groups, func(i, j int) bool {
			if !groups[i].Value.Equal(groups[j].Value) {
				return groups[i].Value.GreaterThan(groups[j].Value)
			}
			return groups[i].Key < groups[j].Key
		})
	}

	return AggregationResult{Grouped: grouped, Groups: groups}, nil
}

// valueFields lists the fields a definition reads per record for its
// contribution value.
func valueFields(def model.ChartDefinition) []string {
	if def.Formula != nil {
		return []string{def.Formula.Field1, def.Formula.Field2}
	}
	return []string{def.YField}
}

// groupKey buckets one record. Without a groupBy every record lands in the
// implicit "total" group; date-valued groupBy fields bucket by the time
// range's calendar granularity, everything else groups by string equality.
func groupKey(def model.ChartDefinition, rec record, g Granularity) (key string, isDate bool, sortTime time.Time, ok bool, err error) {
	if def.GroupBy == "" {
		return "total", false, time.Time{}, true, nil
	}

	s, ok, err := resolveField(def.DataSource, rec, def.GroupBy)
	if err != nil || !ok {
		return "", false, time.Time{}, ok, err
	}

	switch s.Kind {
	case KindDate:
		key, start := dateBucket(s.Date, g)
		return key, true, start, true, nil
	case KindNumber:
		return s.Number.String(), false, time.Time{}, true, nil
	default:
		return s.Str, false, time.Time{}, true, nil
	}
}

func reduce(b *bucket, aggregation string) decimal.Decimal {
	switch aggregation {
	case model.AggregationAverage:
		if b.count == 0 {
			return decimal.Zero
		}
		return b.sum.Div(decimal.NewFromInt(int64(b.count)))
	case model.AggregationCount:
		return decimal.NewFromInt(int64(b.count))
	case model.AggregationMin:
		return b.min
	case model.AggregationMax:
		return b.max
	default:
		return b.sum
	}
}
