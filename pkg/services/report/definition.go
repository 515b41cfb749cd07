package report

import (
	"github.com/nitshaW/sales-analytics/pkg/models/domain"
)

// FilterMode describes how a report exposes its categorical filters.
type FilterMode string

const (
	// FilterCascade chains the filter fields in order: each stage narrows
	// both the records and the next stage's candidate values.
	FilterCascade FilterMode = "cascade"
	// FilterSingle allows selections on at most one of the filter fields.
	FilterSingle FilterMode = "single"
)

// Definition is the full configuration of one analysis report. The same
// pipeline serves every definition; only the query, bucket, and filter
// wiring differ.
type Definition struct {
	Name  string
	Title string
	// Query is the broad warehouse query this report is built over. It is
	// also the fetch cache key.
	Query  string
	Bucket domain.TimeBucket
	Mode   FilterMode
	// FilterFields in cascade order for FilterCascade, or the set of
	// mutually exclusive choices for FilterSingle.
	FilterFields []domain.Field
	// AlwaysGroup keys are part of the grouping regardless of selections.
	AlwaysGroup []domain.Field
	// DefaultLastMonth substitutes the most recent month ending now when no
	// date range is given. Deliberately per-report: the product applied the
	// fallback on some pages and left others unfiltered.
	DefaultLastMonth bool
	// Inventory reports additionally aggregate peak stock and percentage-sale.
	Inventory  bool
	AllowMeans bool
	Metrics    []domain.Metric
}

const (
	transactionsQuery = `
	SELECT
		*
	FROM
		SALES_ANALYTICS.PUBLIC.MGM_TRANSACTIONS
	WHERE
		TB_ACTION = 'charge'`

	poolTransactionsQuery = `
	SELECT
		*
	FROM
		SALES_ANALYTICS.PUBLIC.MGM_UVE_PAY_GXN_ALL_TRANSACTIONS
	WHERE
		TB_ACTION = 'charge' AND
		VT_NAME = 'Pool'`
)

var standardMetrics = []domain.Metric{
	domain.MetricValue,
	domain.MetricGuests,
	domain.MetricQuantity,
	domain.MetricTransactionCount,
}

var inventoryMetrics = append(append([]domain.Metric{}, standardMetrics...),
	domain.MetricStock,
	domain.MetricPercentageSale,
)

// DefaultDefinitions is the analysis catalog: every dashboard page of the
// product, expressed as configuration over the one shared pipeline.
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			Name:   "daily_inventory",
			Title:  "Daily Inventory Analysis",
			Query:  transactionsQuery,
			Bucket: domain.BucketDay,
			Mode:   FilterCascade,
			FilterFields: []domain.Field{
				domain.FieldVenueName,
				domain.FieldEventName,
				domain.FieldItemName,
			},
			AlwaysGroup:      []domain.Field{domain.FieldVenueName, domain.FieldItemName},
			DefaultLastMonth: true,
			Inventory:        true,
			Metrics:          inventoryMetrics,
		},
		{
			Name:   "transactions",
			Title:  "Transaction Analysis",
			Query:  transactionsQuery,
			Bucket: domain.BucketMonth,
			Mode:   FilterSingle,
			FilterFields: []domain.Field{
				domain.FieldVenueName,
				domain.FieldVenueType,
				domain.FieldPayType,
			},
			AllowMeans: true,
			Metrics:    standardMetrics,
		},
		{
			Name:   "transaction_type",
			Title:  "Transaction Type Analysis",
			Query:  transactionsQuery,
			Bucket: domain.BucketMonth,
			Mode:   FilterCascade,
			FilterFields: []domain.Field{
				domain.FieldVenueType,
				domain.FieldPayType,
			},
			AllowMeans: true,
			Metrics:    standardMetrics,
		},
		{
			Name:   "pool_yield",
			Title:  "Transaction Pool Yielding Analysis",
			Query:  poolTransactionsQuery,
			Bucket: domain.BucketMonth,
			Mode:   FilterCascade,
			FilterFields: []domain.Field{
				domain.FieldVenueName,
				domain.FieldEventName,
				domain.FieldItemName,
				domain.FieldYielding,
			},
			AllowMeans: true,
			Metrics:    standardMetrics,
		},
		{
			Name:   "seasonal",
			Title:  "Seasonal Analysis",
			Query:  transactionsQuery,
			Bucket: domain.BucketSeason,
			Mode:   FilterSingle,
			FilterFields: []domain.Field{
				domain.FieldVenueName,
				domain.FieldVenueType,
			},
			AllowMeans: true,
			Metrics:    standardMetrics,
		},
		{
			Name:   "seasonal_grouping",
			Title:  "Seasonal Grouping Analysis",
			Query:  transactionsQuery,
			Bucket: domain.BucketSeason,
			Mode:   FilterCascade,
			FilterFields: []domain.Field{
				domain.FieldVenueName,
				domain.FieldEventName,
				domain.FieldItemName,
			},
			AllowMeans: true,
			Metrics:    standardMetrics,
		},
		{
			Name:   "day_of_week",
			Title:  "Day of the Week Analysis",
			Query:  transactionsQuery,
			Bucket: domain.BucketSeasonDay,
			Mode:   FilterCascade,
			FilterFields: []domain.Field{
				domain.FieldVenueName,
				domain.FieldEventName,
				domain.FieldItemName,
			},
			AllowMeans: true,
			Metrics:    standardMetrics,
		},
	}
}
