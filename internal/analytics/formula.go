package analytics

import (
	"backend/internal/model"

	"github.com/shopspring/decimal"
)

// contribution computes a record's numeric contribution to its group. With
// no formula this is the resolved yField; with a formula it is
// field1 <op> field2 in decimal arithmetic.
//
// A zero divisor makes the record contribute 0 instead of propagating an
// infinity or aborting the aggregate. ok=false means the record does not
// carry the needed fields (combined-source union) and is skipped.
func contribution(dataSource string, r record, def model.ChartDefinition) (decimal.Decimal, bool, error) {
	if def.Formula == nil {
		v, ok, err := resolveNumeric(dataSource, r, def.YField)
		if err != nil || !ok {
			return decimal.Zero, ok, err
		}
		return v, true, nil
	}

	f := def.Formula
	v1, ok, err := resolveNumeric(dataSource, r, f.Field1)
	if err != nil || !ok {
		return decimal.Zero, ok, err
	}
	v2, ok, err := resolveNumeric(dataSource, r, f.Field2)
	if err != nil || !ok {
		return decimal.Zero, ok, err
	}

	switch f.Operation {
	case model.FormulaAdd:
		return v1.Add(v2), true, nil
	case model.FormulaSubtract:
		return v1.Sub(v2), true, nil
	case model.FormulaMultiply:
		return v1.Mul(v2), true, nil
	case model.FormulaDivide:
		if v2.IsZero() {
			return decimal.Zero, true, nil
		}
		return v1.Div(v2), true, nil
	}
	return decimal.Zero, false, &InvalidChartDefinitionError{
		DataSource: dataSource,
		Field:      f.Field1,
		Reason:     "unknown formula operation " + f.Operation,
	}
}

// resolveNumeric resolves a field and requires a numeric scalar.
func resolveNumeric(dataSource string, r record, field string) (decimal.Decimal, bool, error) {
	s, ok, err := resolveField(dataSource, r, field)
	if err != nil || !ok {
		return decimal.Zero, ok, err
	}
	if s.Kind != KindNumber {
		return decimal.Zero, false, &InvalidChartDefinitionError{
			DataSource: dataSource,
			Field:      field,
			Reason:     "field is not numeric",
		}
	}
	return s.Number, true, nil
}
