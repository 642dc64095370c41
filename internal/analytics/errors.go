package analytics

import (
	"errors"
	"fmt"
)

// InvalidChartDefinitionError reports a chart definition that references a
// field name the selected data source cannot resolve. It is the only engine
// error surfaced to callers; all other anomalies (dangling sale references,
// zero divisors, empty min/max groups) are absorbed into defined numeric
// policies so a single bad record never aborts a dashboard render.
type InvalidChartDefinitionError struct {
	DataSource string
	Field      string
	Reason     string
}

func (e *InvalidChartDefinitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid chart definition: field %q (%s): %s", e.Field, e.DataSource, e.Reason)
	}
	return fmt.Sprintf("invalid chart definition: unknown field %q for data source %s", e.Field, e.DataSource)
}

// IsInvalidChartDefinition reports whether err wraps an
// InvalidChartDefinitionError.
func IsInvalidChartDefinition(err error) bool {
	var target *InvalidChartDefinitionError
	return errors.As(err, &target)
}
