package domain

import "time"

// DateField selects which of the two record dates a date filter applies to.
type DateField string

const (
	DateFieldEvent       DateField = "Event Date"
	DateFieldTransaction DateField = "Transaction Date"
)

// DateRange is an inclusive [Start, End] window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// FilterSpec describes one pass of record filtering. A nil Range with
// DefaultLastMonth set substitutes the most recent month ending now.
// Fields absent from Categories are not filtered; an empty accepted-value
// set means no filtering on that field either.
type FilterSpec struct {
	DateField        DateField
	Range            *DateRange
	DefaultLastMonth bool
	Categories       map[Field][]string
}

// TimeBucket is the leading grouping key of every report.
type TimeBucket string

const (
	BucketDay       TimeBucket = "day"
	BucketMonth     TimeBucket = "month"
	BucketSeason    TimeBucket = "season"
	BucketSeasonDay TimeBucket = "season_day"
)

// Columns returns the display columns a bucket contributes to output tables.
func (b TimeBucket) Columns() []string {
	switch b {
	case BucketDay:
		return []string{"Date"}
	case BucketMonth:
		return []string{"YearMonth"}
	case BucketSeason:
		return []string{"YearSeason"}
	case BucketSeasonDay:
		return []string{"YearSeason", "DayOfWeek"}
	}
	return nil
}

// GroupingSpec is an ordered, duplicate-free list of grouping keys. The time
// bucket is always first; Keys holds the categorical dimensions after it.
type GroupingSpec struct {
	Bucket TimeBucket
	Keys   []Field
}

// Metric enumerates the fixed metric families every report draws from.
type Metric string

const (
	MetricValue            Metric = "value"
	MetricGuests           Metric = "guests"
	MetricQuantity         Metric = "quantity"
	MetricTransactionCount Metric = "transaction_count"
	MetricPercentageSale   Metric = "percentage_sale"
	MetricStock            Metric = "stock"
)
