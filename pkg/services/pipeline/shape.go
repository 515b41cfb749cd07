package pipeline

import (
	"strconv"
	"strings"

	"github.com/nitshaW/sales-analytics/pkg/models/domain"
)

type metricShape struct {
	table   string
	sumCol  string
	meanCol string
}

// Fixed export shapes per metric family. Table and column names never vary
// with the active filters, so downstream consumers can rely on them.
var metricShapes = map[domain.Metric]metricShape{
	domain.MetricValue:            {table: "transaction_value", sumCol: "Value_sum", meanCol: "Value_avg"},
	domain.MetricGuests:           {table: "guests", sumCol: "Guests_sum", meanCol: "Guests_avg"},
	domain.MetricQuantity:         {table: "quantity", sumCol: "Quantity_sum", meanCol: "Quantity_avg"},
	domain.MetricTransactionCount: {table: "transaction_counts", sumCol: "TRANSACTION_COUNT"},
	domain.MetricPercentageSale:   {table: "percentage_sale", sumCol: "PERCENTAGE_SALE"},
	domain.MetricStock:            {table: "stock", sumCol: "Stock_max"},
}

// Shape partitions summary rows into one named table per requested metric
// family. Columns are the grouping keys in grouping order, then the metric sum,
// then the mean when the rows carry one. An undefined percentage-sale is an
// empty cell, never 0.
func Shape(rows []domain.SummaryRow, grouping domain.GroupingSpec, metrics []domain.Metric) []domain.Table {
	keyColumns := append(append([]string{}, grouping.Bucket.Columns()...), fieldNames(grouping.Keys)...)

	tables := make([]domain.Table, 0, len(metrics))
	for _, metric := range metrics {
		shape, ok := metricShapes[metric]
		if !ok {
			continue
		}

		columns := append(append([]string{}, keyColumns...), shape.sumCol)
		withMean := shape.meanCol != "" && len(rows) > 0 && meanOf(rows[0], metric) != nil
		if withMean {
			columns = append(columns, shape.meanCol)
		}

		values := make(map[string][]string, len(columns))
		for _, c := range columns {
			values[c] = make([]string, 0, len(rows))
		}

		for _, row := range rows {
			cells := append(append([]string{}, row.Bucket.Parts...), row.Keys...)
			for i, c := range keyColumns {
				values[c] = append(values[c], cells[i])
			}
			values[shape.sumCol] = append(values[shape.sumCol], formatMetric(row, metric))
			if withMean {
				values[shape.meanCol] = append(values[shape.meanCol], formatFloat(*meanOf(row, metric)))
			}
		}

		tables = append(tables, domain.Table{
			Name:    shape.table,
			Columns: columns,
			Values:  values,
		})
	}
	return tables
}

// BuildSeries turns summary rows into chart-ready lines for one metric: one
// series per distinct grouping-key tuple, named by the key values joined
// with " - ". Rows are assumed already bucket-sorted, so x labels come out
// in bucket order. Groups with an undefined metric value are skipped.
func BuildSeries(rows []domain.SummaryRow, metric domain.Metric) []domain.Series {
	byKey := make(map[string]*domain.Series)
	order := make([]string, 0)

	for _, row := range rows {
		value, ok := metricOf(row, metric)
		if !ok {
			continue
		}
		name := strings.Join(row.Keys, " - ")
		if name == "" {
			name = metricShapes[metric].table
		}
		s, exists := byKey[name]
		if !exists {
			s = &domain.Series{Name: name}
			byKey[name] = s
			order = append(order, name)
		}
		s.X = append(s.X, row.Bucket.Label())
		s.Y = append(s.Y, value)
	}

	series := make([]domain.Series, 0, len(order))
	for _, name := range order {
		series = append(series, *byKey[name])
	}
	return series
}

func metricOf(row domain.SummaryRow, metric domain.Metric) (float64, bool) {
	switch metric {
	case domain.MetricValue:
		return row.ValueSum, true
	case domain.MetricGuests:
		return row.GuestsSum, true
	case domain.MetricQuantity:
		return row.QuantitySum, true
	case domain.MetricTransactionCount:
		return float64(row.TransactionCount), true
	case domain.MetricPercentageSale:
		if row.PercentageSale == nil {
			return 0, false
		}
		return *row.PercentageSale, true
	case domain.MetricStock:
		if row.StockMax == nil {
			return 0, false
		}
		return float64(*row.StockMax), true
	}
	return 0, false
}

func meanOf(row domain.SummaryRow, metric domain.Metric) *float64 {
	switch metric {
	case domain.MetricValue:
		return row.ValueMean
	case domain.MetricGuests:
		return row.GuestsMean
	case domain.MetricQuantity:
		return row.QuantityMean
	}
	return nil
}

func formatMetric(row domain.SummaryRow, metric domain.Metric) string {
	switch metric {
	case domain.MetricTransactionCount:
		return strconv.Itoa(row.TransactionCount)
	case domain.MetricPercentageSale:
		if row.PercentageSale == nil {
			return ""
		}
		return strconv.FormatFloat(*row.PercentageSale, 'f', 2, 64)
	case domain.MetricStock:
		if row.StockMax == nil {
			return ""
		}
		return strconv.Itoa(*row.StockMax)
	}
	v, _ := metricOf(row, metric)
	return formatFloat(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fieldNames(fields []domain.Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return names
}
