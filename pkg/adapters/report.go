package adapters

import (
	"github.com/nitshaW/sales-analytics/pkg/models/api"
	"github.com/nitshaW/sales-analytics/pkg/models/domain"
	"github.com/nitshaW/sales-analytics/pkg/services/report"
)

func MapDefinitionToApi(def report.Definition) api.Report {
	fields := make([]string, 0, len(def.FilterFields))
	for _, f := range def.FilterFields {
		fields = append(fields, string(f))
	}
	metrics := make([]string, 0, len(def.Metrics))
	for _, m := range def.Metrics {
		metrics = append(metrics, string(m))
	}
	return api.Report{
		Name:         def.Name,
		Title:        def.Title,
		Bucket:       string(def.Bucket),
		FilterMode:   string(def.Mode),
		FilterFields: fields,
		Metrics:      metrics,
		AllowMeans:   def.AllowMeans,
	}
}

func MapResultDomainToApi(result *domain.ReportResult) api.ReportResult {
	out := api.ReportResult{
		Report:      result.Report,
		DroppedRows: result.Dropped,
		Tables:      make([]api.Table, 0, len(result.Tables)),
		Series:      make([]api.Series, 0, len(result.Series)),
	}
	for _, t := range result.Tables {
		out.Tables = append(out.Tables, api.Table{
			Name:    t.Name,
			Columns: t.Columns,
			Values:  t.Values,
		})
	}
	for _, s := range result.Series {
		out.Series = append(out.Series, api.Series{Name: s.Name, X: s.X, Y: s.Y})
	}
	return out
}
