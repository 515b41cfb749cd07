package domain

// BucketValue is the resolved time bucket of a summary row: the label parts
// aligned with TimeBucket.Columns plus a sort key encoding calendar
// progression (YearSeason cycles Spring, Summer, Fall, Winter within a year;
// weekdays run Monday through Sunday).
type BucketValue struct {
	Parts   []string
	SortKey [3]int
}

// Label joins the bucket parts for chart axes.
func (b BucketValue) Label() string {
	if len(b.Parts) == 1 {
		return b.Parts[0]
	}
	label := b.Parts[0]
	for _, p := range b.Parts[1:] {
		label += " - " + p
	}
	return label
}

// Less orders bucket values by calendar progression, not lexicographically.
func (b BucketValue) Less(other BucketValue) bool {
	for i := range b.SortKey {
		if b.SortKey[i] != other.SortKey[i] {
			return b.SortKey[i] < other.SortKey[i]
		}
	}
	return false
}

// SummaryRow is one aggregated group: the bucket, the categorical key values
// aligned with GroupingSpec.Keys, and the metric aggregates. Means are nil
// unless requested; StockMax and PercentageSale are nil outside inventory
// reports, and PercentageSale stays nil when peak stock is zero.
type SummaryRow struct {
	Bucket BucketValue
	Keys   []string

	ValueSum    float64
	GuestsSum   float64
	QuantitySum float64

	ValueMean    *float64
	GuestsMean   *float64
	QuantityMean *float64

	TransactionCount int

	StockMax       *int
	PercentageSale *float64
}

// Table is one named export table: ordered columns and a column-name to
// ordered-values mapping, ready for CSV serialization or display.
type Table struct {
	Name    string
	Columns []string
	Values  map[string][]string
}

// Series is one chart-ready line: bucket labels in sorted order, numeric
// values, and a name derived from the active grouping-key values.
type Series struct {
	Name string
	X    []string
	Y    []float64
}

// ReportResult is the terminal state of one successful pipeline pass.
type ReportResult struct {
	Report  string
	Rows    []SummaryRow
	Tables  []Table
	Series  []Series
	Dropped int
}
