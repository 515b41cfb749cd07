package report

import (
	"context"
	"fmt"
	"time"

	"github.com/nitshaW/sales-analytics/pkg/models/domain"
	"github.com/nitshaW/sales-analytics/pkg/services/pipeline"
	"github.com/nitshaW/sales-analytics/pkg/store/fetchcache"
	"github.com/rs/zerolog"
)

// Request is one user interaction with a report: the date window, the
// per-field selections, and whether means should accompany the sums.
type Request struct {
	DateField  domain.DateField
	From, To   *time.Time
	Selections map[domain.Field][]string
	WantMeans  bool
}

// Runner executes one full pipeline pass per request. Every pass is fresh
// and idempotent; only the raw fetch is memoized.
type Runner interface {
	Run(ctx context.Context, name string, req Request) (*domain.ReportResult, error)
	// CandidateValues lists the values a filter field can take given the
	// selections already applied to the stages before it.
	CandidateValues(ctx context.Context, name string, field domain.Field, req Request) ([]string, error)
}

type runner struct {
	registry Registry
	cache    *fetchcache.Cache
	now      func() time.Time
}

func NewRunner(registry Registry, cache *fetchcache.Cache) Runner {
	return &runner{
		registry: registry,
		cache:    cache,
		now:      time.Now,
	}
}

func (r *runner) Run(ctx context.Context, name string, req Request) (*domain.ReportResult, error) {
	logger := zerolog.Ctx(ctx)

	def, err := r.registry.Get(name)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(def, req); err != nil {
		return nil, err
	}

	records, dropped, err := r.preparedRecords(ctx, def, req)
	if err != nil {
		return nil, err
	}
	records = pipeline.ApplyChain(records, chainStages(def, req, len(def.FilterFields)))

	grouping := domain.GroupingSpec{
		Bucket: def.Bucket,
		Keys:   groupingKeys(def, req),
	}

	opts := pipeline.AggregateOptions{
		WantMeans: req.WantMeans && def.AllowMeans,
		Inventory: def.Inventory,
	}
	rows, err := pipeline.Aggregate(records, grouping, opts)
	if err != nil {
		return nil, err
	}

	tables := pipeline.Shape(rows, grouping, def.Metrics)
	series := make([]domain.Series, 0)
	for _, metric := range def.Metrics {
		series = append(series, pipeline.BuildSeries(rows, metric)...)
	}

	logger.Debug().
		Str("report", name).
		Int("groups", len(rows)).
		Int("tables", len(tables)).
		Msg("report pass complete")

	return &domain.ReportResult{
		Report:  name,
		Rows:    rows,
		Tables:  tables,
		Series:  series,
		Dropped: dropped,
	}, nil
}

func (r *runner) CandidateValues(
	ctx context.Context,
	name string,
	field domain.Field,
	req Request,
) ([]string, error) {
	def, err := r.registry.Get(name)
	if err != nil {
		return nil, err
	}

	stageIdx := -1
	for i, f := range def.FilterFields {
		if f == field {
			stageIdx = i
			break
		}
	}
	if stageIdx < 0 {
		return nil, fmt.Errorf("report %q has no filter field %q", name, field)
	}

	records, _, err := r.preparedRecords(ctx, def, req)
	if err != nil {
		return nil, err
	}

	// Only stages before the requested one narrow the candidate domain;
	// the field's own selection must not hide its alternatives.
	records = pipeline.ApplyChain(records, chainStages(def, req, stageIdx))
	return pipeline.CandidateValues(records, field), nil
}

// preparedRecords runs the shared front of every pass: cached fetch,
// normalization, derivation, date filtering.
func (r *runner) preparedRecords(
	ctx context.Context,
	def Definition,
	req Request,
) ([]domain.TransactionRecord, int, error) {
	rs, err := r.cache.Get(ctx, def.Query)
	if err != nil {
		return nil, 0, err
	}

	norm, err := pipeline.Normalize(ctx, rs)
	if err != nil {
		return nil, 0, err
	}
	records := pipeline.Derive(norm.Records)

	spec := domain.FilterSpec{
		DateField:        req.DateField,
		DefaultLastMonth: def.DefaultLastMonth,
	}
	if spec.DateField == "" {
		spec.DateField = domain.DateFieldEvent
	}
	if req.From != nil && req.To != nil {
		spec.Range = &domain.DateRange{Start: *req.From, End: *req.To}
	}

	return pipeline.Filter(records, spec, r.now()), norm.Dropped, nil
}

func validateRequest(def Definition, req Request) error {
	allowed := make(map[domain.Field]struct{}, len(def.FilterFields))
	for _, f := range def.FilterFields {
		allowed[f] = struct{}{}
	}

	active := 0
	for field, selected := range req.Selections {
		if len(selected) == 0 {
			continue
		}
		if _, ok := allowed[field]; !ok {
			return fmt.Errorf("report %q does not filter on %q", def.Name, field)
		}
		active++
	}
	if def.Mode == FilterSingle && active > 1 {
		return fmt.Errorf("report %q accepts selections on at most one field", def.Name)
	}
	return nil
}

// chainStages builds the cascade for the first n filter fields, in
// definition order.
func chainStages(def Definition, req Request, n int) []pipeline.ChainStage {
	stages := make([]pipeline.ChainStage, 0, n)
	for _, f := range def.FilterFields[:n] {
		stages = append(stages, pipeline.ChainStage{Field: f, Selected: req.Selections[f]})
	}
	return stages
}

// groupingKeys derives the categorical grouping from the definition and the
// active selections: always-grouped keys first, then each selected filter
// field in cascade order, without repeats.
func groupingKeys(def Definition, req Request) []domain.Field {
	keys := make([]domain.Field, 0, len(def.AlwaysGroup)+len(def.FilterFields))
	seen := make(map[domain.Field]struct{})

	for _, f := range def.AlwaysGroup {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		keys = append(keys, f)
	}
	for _, f := range def.FilterFields {
		if len(req.Selections[f]) == 0 {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		keys = append(keys, f)
	}
	return keys
}
