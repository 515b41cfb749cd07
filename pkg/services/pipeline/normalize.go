package pipeline

import (
	"context"

	"github.com/nitshaW/sales-analytics/pkg/models/domain"
	"github.com/nitshaW/sales-analytics/pkg/models/store"
	"github.com/rs/zerolog"
)

// NormalizeResult carries the canonical records plus diagnostics about what
// normalization removed.
type NormalizeResult struct {
	Records    []domain.TransactionRecord
	Dropped    int // rows excluded for a null event or transaction date
	Duplicates int // exact-duplicate rows removed
}

// Normalize maps a raw fetch result into canonical transaction records.
// Exact-duplicate rows are removed once, rows lacking either date are
// dropped, and null categorical fields become "Unknown". Fails with
// SchemaError when a required source column is absent from the recordset.
// Running it again over its own output removes nothing further.
func Normalize(ctx context.Context, rs store.Recordset) (NormalizeResult, error) {
	logger := zerolog.Ctx(ctx)

	present := make(map[string]struct{}, len(rs.Columns))
	for _, c := range rs.Columns {
		present[c] = struct{}{}
	}
	for _, required := range store.RequiredColumns {
		if _, ok := present[required]; !ok {
			return NormalizeResult{}, &SchemaError{Column: required}
		}
	}

	var result NormalizeResult
	seen := make(map[store.TransactionRow]struct{}, len(rs.Rows))
	records := make([]domain.TransactionRecord, 0, len(rs.Rows))

	for _, row := range rs.Rows {
		if _, dup := seen[row]; dup {
			result.Duplicates++
			continue
		}
		seen[row] = struct{}{}

		if !row.EventDate.Valid || !row.TransactionDate.Valid {
			result.Dropped++
			continue
		}

		rec := domain.TransactionRecord{
			VenueName:       stringOrUnknown(row.VenueName.String, row.VenueName.Valid),
			VenueType:       stringOrUnknown(row.VenueType.String, row.VenueType.Valid),
			PayType:         stringOrUnknown(row.PayType.String, row.PayType.Valid),
			EventName:       stringOrUnknown(row.EventName.String, row.EventName.Valid),
			ItemName:        stringOrUnknown(row.ItemName.String, row.ItemName.Valid),
			Quantity:        int(row.Quantity.Int64),
			Stock:           int(row.Stock.Int64),
			Value:           row.Value.Float64,
			Guests:          int(row.Guests.Int64),
			CartID:          row.CartID.String,
			EventDate:       row.EventDate.Time,
			TransactionDate: row.TransactionDate.Time,
		}
		if row.AddTierYield.Valid {
			v := row.AddTierYield.Float64
			rec.AddTierYield = &v
		}
		if row.TierYield.Valid {
			v := row.TierYield.Float64
			rec.TierYield = &v
		}
		records = append(records, rec)
	}

	result.Records = records
	if result.Dropped > 0 || result.Duplicates > 0 {
		logger.Debug().
			Int("dropped_null_dates", result.Dropped).
			Int("duplicates", result.Duplicates).
			Int("records", len(records)).
			Msg("normalized warehouse rows")
	}

	return result, nil
}

func stringOrUnknown(s string, valid bool) string {
	if !valid || s == "" {
		return domain.Unknown
	}
	return s
}
