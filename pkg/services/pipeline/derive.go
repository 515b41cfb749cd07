package pipeline

import (
	"fmt"
	"time"

	"github.com/nitshaW/sales-analytics/pkg/models/domain"
)

// Seasons in calendar-cycle order within a year. YearSeason buckets sort by
// this cycle, so "2023 Winter" follows "2023 Fall" and precedes "2024 Spring".
var seasonOrder = []string{"Spring", "Summer", "Fall", "Winter"}

// Weekday display order, Monday first regardless of locale.
var dayOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// SeasonOf maps a date to its season: Dec-Feb Winter, Mar-May Spring,
// Jun-Aug Summer, Sep-Nov Fall.
func SeasonOf(t time.Time) string {
	switch t.Month() {
	case time.December, time.January, time.February:
		return "Winter"
	case time.March, time.April, time.May:
		return "Spring"
	case time.June, time.July, time.August:
		return "Summer"
	default:
		return "Fall"
	}
}

func seasonIndex(season string) int {
	for i, s := range seasonOrder {
		if s == season {
			return i
		}
	}
	return len(seasonOrder)
}

func dayIndex(day string) int {
	for i, d := range dayOrder {
		if d == day {
			return i
		}
	}
	return len(dayOrder)
}

// Derive computes the derived fields of every record and returns a new
// slice; inputs are never mutated. It is total over normalized records:
// both dates are guaranteed non-null by the normalizer's postcondition.
func Derive(records []domain.TransactionRecord) []domain.TransactionRecord {
	derived := make([]domain.TransactionRecord, len(records))
	for i, rec := range records {
		rec.Season = SeasonOf(rec.EventDate)
		rec.Year = rec.EventDate.Year()
		rec.YearSeason = fmt.Sprintf("%d %s", rec.Year, rec.Season)
		rec.DayOfWeek = rec.EventDate.Weekday().String()
		rec.Yielding = yielding(rec)
		derived[i] = rec
	}
	return derived
}

// yielding is "yes" when either yield indicator is present and positive.
func yielding(rec domain.TransactionRecord) string {
	if rec.AddTierYield != nil && *rec.AddTierYield > 0 {
		return "yes"
	}
	if rec.TierYield != nil && *rec.TierYield > 0 {
		return "yes"
	}
	return "no"
}
