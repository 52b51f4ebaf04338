// Package ratesview derives the exchange-rate history page from fetched records:
// recency ordering, conjunctive filtering, peso-per-dollar interpretation and row capping.
// Everything here is pure; fetching lives in the services layer.
package ratesview

import (
	"slices"

	"github.com/SscSPs/printfleet_dashboard/internal/core/domain"
)

// SortHistory returns a copy of records ordered by RecordedAt, most recent first.
// Records with equal timestamps keep their incoming relative order.
func SortHistory(records []domain.ExchangeRateRecord) []domain.ExchangeRateRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b domain.ExchangeRateRecord) int {
		return b.RecordedAt.Compare(a.RecordedAt)
	})
	return sorted
}
