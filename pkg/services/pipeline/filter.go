package pipeline

import (
	"sort"
	"time"

	"github.com/nitshaW/sales-analytics/pkg/models/domain"
)

// Filter applies a declarative filter spec and returns the surviving
// records. A zero-value spec is the identity; a pass that removes every
// record returns an empty (non-nil) slice, never an error.
func Filter(records []domain.TransactionRecord, spec domain.FilterSpec, now time.Time) []domain.TransactionRecord {
	dateRange := spec.Range
	if dateRange == nil && spec.DefaultLastMonth {
		dateRange = &domain.DateRange{Start: now.AddDate(0, -1, 0), End: now}
	}

	out := make([]domain.TransactionRecord, 0, len(records))
	for _, rec := range records {
		if dateRange != nil {
			d := rec.EventDate
			if spec.DateField == domain.DateFieldTransaction {
				d = rec.TransactionDate
			}
			if d.Before(dateRange.Start) || d.After(dateRange.End) {
				continue
			}
		}
		if !matchesCategories(rec, spec.Categories) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesCategories(rec domain.TransactionRecord, categories map[domain.Field][]string) bool {
	for field, accepted := range categories {
		if len(accepted) == 0 {
			continue
		}
		value := rec.FieldValue(field)
		found := false
		for _, a := range accepted {
			if a == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ChainStage is one link of a cascading filter: a field and the values the
// caller selected for it. An empty selection leaves the stage open.
type ChainStage struct {
	Field    domain.Field
	Selected []string
}

// ApplyChain folds an ordered filter chain over the record set. Each stage
// narrows the records the next stage sees, which is what makes downstream
// candidate-value lists correct.
func ApplyChain(records []domain.TransactionRecord, stages []ChainStage) []domain.TransactionRecord {
	out := records
	for _, stage := range stages {
		if len(stage.Selected) == 0 {
			continue
		}
		out = Filter(out, domain.FilterSpec{
			Categories: map[domain.Field][]string{stage.Field: stage.Selected},
		}, time.Time{})
	}
	return out
}

// CandidateValues lists the distinct values a field takes across the given
// records, sorted. For cascading filters, pass the record set already
// narrowed by the prior stages.
func CandidateValues(records []domain.TransactionRecord, field domain.Field) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, rec := range records {
		v := rec.FieldValue(field)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
