package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/nitshaW/sales-analytics/pkg/models/domain"
)

// AggregateOptions tunes one aggregation pass. WantMeans adds per-group
// means next to the sums; Inventory adds peak stock and percentage-sale.
type AggregateOptions struct {
	WantMeans bool
	Inventory bool
}

// groupSeparator joins tuple components into a map key. The unit separator
// cannot occur in warehouse categorical values.
const groupSeparator = "\x1f"

type accumulator struct {
	bucket domain.BucketValue
	keys   []string

	count       int
	valueSum    float64
	guestsSum   float64
	quantitySum float64
	stockMax    int
	carts       map[string]struct{}
}

// Aggregate groups records by the exact tuple of grouping-key values and
// computes the fixed metric set per group. Output rows are sorted ascending
// by time bucket (calendar progression, not lexicographic), then by the
// remaining key values. Returns ErrNoData when no groups result, and
// InvalidGroupingError when the grouping declares no time bucket or repeats
// a key.
func Aggregate(
	records []domain.TransactionRecord,
	grouping domain.GroupingSpec,
	opts AggregateOptions,
) ([]domain.SummaryRow, error) {
	if err := validateGrouping(grouping); err != nil {
		return nil, err
	}

	groups := make(map[string]*accumulator)
	for _, rec := range records {
		bucket := bucketValue(rec, grouping.Bucket)
		keys := make([]string, len(grouping.Keys))
		for i, f := range grouping.Keys {
			keys[i] = rec.FieldValue(f)
		}

		id := strings.Join(append(append([]string{}, bucket.Parts...), keys...), groupSeparator)
		acc, ok := groups[id]
		if !ok {
			acc = &accumulator{
				bucket: bucket,
				keys:   keys,
				carts:  make(map[string]struct{}),
			}
			groups[id] = acc
		}

		acc.count++
		acc.valueSum += rec.Value
		acc.guestsSum += float64(rec.Guests)
		acc.quantitySum += float64(rec.Quantity)
		if rec.Stock > acc.stockMax {
			acc.stockMax = rec.Stock
		}
		acc.carts[rec.CartID] = struct{}{}
	}

	if len(groups) == 0 {
		return nil, ErrNoData
	}

	rows := make([]domain.SummaryRow, 0, len(groups))
	for _, acc := range groups {
		row := domain.SummaryRow{
			Bucket:           acc.bucket,
			Keys:             acc.keys,
			ValueSum:         acc.valueSum,
			GuestsSum:        acc.guestsSum,
			QuantitySum:      acc.quantitySum,
			TransactionCount: len(acc.carts),
		}
		if opts.WantMeans {
			n := float64(acc.count)
			row.ValueMean = ptr(acc.valueSum / n)
			row.GuestsMean = ptr(acc.guestsSum / n)
			row.QuantityMean = ptr(acc.quantitySum / n)
		}
		if opts.Inventory {
			stockMax := acc.stockMax
			row.StockMax = &stockMax
			// Percentage of peak stock sold; undefined when the group never
			// had stock, so the pointer stays nil rather than reporting 0.
			if stockMax > 0 {
				row.PercentageSale = ptr(round2(100 * acc.quantitySum / float64(stockMax)))
			}
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Bucket.Less(rows[j].Bucket) {
			return true
		}
		if rows[j].Bucket.Less(rows[i].Bucket) {
			return false
		}
		for k := range rows[i].Keys {
			if rows[i].Keys[k] != rows[j].Keys[k] {
				return rows[i].Keys[k] < rows[j].Keys[k]
			}
		}
		return false
	})

	return rows, nil
}

func validateGrouping(grouping domain.GroupingSpec) error {
	if grouping.Bucket == "" {
		return &InvalidGroupingError{Reason: "a report must declare at least a time bucket"}
	}
	switch grouping.Bucket {
	case domain.BucketDay, domain.BucketMonth, domain.BucketSeason, domain.BucketSeasonDay:
	default:
		return &InvalidGroupingError{Reason: fmt.Sprintf("unknown time bucket %q", grouping.Bucket)}
	}
	seen := make(map[domain.Field]struct{}, len(grouping.Keys))
	for _, f := range grouping.Keys {
		if _, dup := seen[f]; dup {
			return &InvalidGroupingError{Reason: fmt.Sprintf("duplicate grouping key %q", f)}
		}
		seen[f] = struct{}{}
	}
	return nil
}

func bucketValue(rec domain.TransactionRecord, bucket domain.TimeBucket) domain.BucketValue {
	switch bucket {
	case domain.BucketDay:
		return domain.BucketValue{
			Parts:   []string{rec.EventDate.Format("2006-01-02")},
			SortKey: [3]int{rec.Year, rec.EventDate.YearDay(), 0},
		}
	case domain.BucketMonth:
		return domain.BucketValue{
			Parts:   []string{rec.EventDate.Format("2006-01")},
			SortKey: [3]int{rec.Year, int(rec.EventDate.Month()), 0},
		}
	case domain.BucketSeason:
		return domain.BucketValue{
			Parts:   []string{rec.YearSeason},
			SortKey: [3]int{rec.Year, seasonIndex(rec.Season), 0},
		}
	case domain.BucketSeasonDay:
		return domain.BucketValue{
			Parts:   []string{rec.YearSeason, rec.DayOfWeek},
			SortKey: [3]int{rec.Year, seasonIndex(rec.Season), dayIndex(rec.DayOfWeek)},
		}
	}
	return domain.BucketValue{}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr(v float64) *float64 {
	return &v
}
