package pipeline

import (
	"errors"
	"fmt"
)

// ErrNoData marks a pass where filtering or grouping produced zero rows.
// It is a reportable outcome, not a failure: callers branch on it to render
// a "no data" state instead of an empty chart.
var ErrNoData = errors.New("no data for the requested slice")

// SchemaError reports a required source column missing from a fetch result.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("required column %q is missing from the source", e.Column)
}

// FetchError reports an unavailable external data source. Previously cached
// results remain valid for display.
type FetchError struct {
	Query string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("warehouse fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// InvalidGroupingError reports a grouping spec without a time bucket. Every
// report must declare at least the time bucket as its first grouping key.
type InvalidGroupingError struct {
	Reason string
}

func (e *InvalidGroupingError) Error() string {
	return fmt.Sprintf("invalid grouping: %s", e.Reason)
}
