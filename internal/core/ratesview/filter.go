package ratesview

import (
	"time"

	"github.com/SscSPs/printfleet_dashboard/internal/core/domain"
)

// predicate reports whether a record survives one criterion.
type predicate func(domain.ExchangeRateRecord) bool

// ApplyFilters returns the records of history satisfying every criterion, in history order.
// history is expected to be sorted already; it is never modified.
func ApplyFilters(history []domain.ExchangeRateRecord, c domain.FilterCriteria) []domain.ExchangeRateRecord {
	preds := predicatesFor(c)
	out := make([]domain.ExchangeRateRecord, 0, len(history))
	for _, rec := range history {
		if matchesAll(rec, preds) {
			out = append(out, rec)
		}
	}
	return out
}

// Matches reports whether rec satisfies every criterion in c.
func Matches(rec domain.ExchangeRateRecord, c domain.FilterCriteria) bool {
	return matchesAll(rec, predicatesFor(c))
}

func matchesAll(rec domain.ExchangeRateRecord, preds []predicate) bool {
	for _, p := range preds {
		if !p(rec) {
			return false
		}
	}
	return true
}

func predicatesFor(c domain.FilterCriteria) []predicate {
	var preds []predicate

	if !sourceIsAll(c.Source) {
		source := c.Source
		preds = append(preds, func(r domain.ExchangeRateRecord) bool {
			return r.Source == source
		})
	}
	if c.OnlyManual {
		preds = append(preds, func(r domain.ExchangeRateRecord) bool {
			return r.IsManualOverride
		})
	}
	if c.DateFrom != nil {
		from := StartOfDay(*c.DateFrom)
		preds = append(preds, func(r domain.ExchangeRateRecord) bool {
			return !r.RecordedAt.Before(from)
		})
	}
	if c.DateTo != nil {
		to := EndOfDay(*c.DateTo)
		preds = append(preds, func(r domain.ExchangeRateRecord) bool {
			return !r.RecordedAt.After(to)
		})
	}
	if c.MinRate != nil {
		minRate := *c.MinRate
		preds = append(preds, func(r domain.ExchangeRateRecord) bool {
			return r.RateValue.GreaterThanOrEqual(minRate)
		})
	}
	if c.MaxRate != nil {
		maxRate := *c.MaxRate
		preds = append(preds, func(r domain.ExchangeRateRecord) bool {
			return r.RateValue.LessThanOrEqual(maxRate)
		})
	}
	return preds
}

// An empty source is treated like "all".
func sourceIsAll(source string) bool {
	return source == "" || source == domain.SourceAll
}

// StartOfDay is midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay is the last representable instant of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// IsActive reports whether c narrows the history at all.
func IsActive(c domain.FilterCriteria) bool {
	return ActiveFilterCount(c) > 0
}

// ActiveFilterCount is the number of criteria that differ from the defaults, for the filter badge.
func ActiveFilterCount(c domain.FilterCriteria) int {
	n := 0
	if !sourceIsAll(c.Source) {
		n++
	}
	if c.DateFrom != nil {
		n++
	}
	if c.DateTo != nil {
		n++
	}
	if c.MinRate != nil {
		n++
	}
	if c.MaxRate != nil {
		n++
	}
	if c.OnlyManual {
		n++
	}
	return n
}

// ResetCriteria returns the defaults: every source, no bounds, manual and automatic rows.
func ResetCriteria() domain.FilterCriteria {
	return domain.DefaultFilterCriteria()
}

// Sources lists the distinct sources present in history, in first-seen order.
func Sources(history []domain.ExchangeRateRecord) []string {
	seen := make(map[string]struct{}, 4)
	var out []string
	for _, r := range history {
		if _, ok := seen[r.Source]; ok {
			continue
		}
		seen[r.Source] = struct{}{}
		out = append(out, r.Source)
	}
	return out
}
