package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScalarKind tags the variant held by a Scalar.
type ScalarKind int

const (
	KindNumber ScalarKind = iota
	KindString
	KindDate
)

// Scalar is a typed field value resolved from an entity record. Numeric
// fields use fixed-point decimals so currency sums never accumulate
// floating-point drift; date fields are truncated to the calendar day.
type Scalar struct {
	Kind   ScalarKind
	Number decimal.Decimal
	Str    string
	Date   time.Time
}

// NumberScalar wraps a decimal value.
func NumberScalar(d decimal.Decimal) Scalar {
	return Scalar{Kind: KindNumber, Number: d}
}

// IntScalar wraps an integer count as a numeric scalar.
func IntScalar(n int) Scalar {
	return Scalar{Kind: KindNumber, Number: decimal.NewFromInt(int64(n))}
}

// StringScalar wraps a categorical value.
func StringScalar(s string) Scalar {
	return Scalar{Kind: KindString, Str: s}
}

// DateScalar wraps a timestamp, truncated to its UTC calendar day.
func DateScalar(t time.Time) Scalar {
	return Scalar{Kind: KindDate, Date: truncateDay(t)}
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
