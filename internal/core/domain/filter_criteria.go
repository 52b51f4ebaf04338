package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceAll disables the source filter.
const SourceAll = "all"

// FilterCriteria is the transient set of constraints applied to the history view.
// It is never persisted. DateFrom and DateTo are calendar days bounding RecordedAt,
// interpreted in their own location.
type FilterCriteria struct {
	Source     string           `json:"source"`
	DateFrom   *time.Time       `json:"dateFrom,omitempty"`
	DateTo     *time.Time       `json:"dateTo,omitempty"`
	MinRate    *decimal.Decimal `json:"minRate,omitempty"`
	MaxRate    *decimal.Decimal `json:"maxRate,omitempty"`
	OnlyManual bool             `json:"onlyManual"`
}

// DefaultFilterCriteria returns the criteria a freshly loaded page starts with.
func DefaultFilterCriteria() FilterCriteria {
	return FilterCriteria{Source: SourceAll}
}
