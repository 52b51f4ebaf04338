package ratesview

import (
	"github.com/SscSPs/printfleet_dashboard/internal/core/domain"
	"github.com/SscSPs/printfleet_dashboard/internal/utils"
	"github.com/shopspring/decimal"
)

// DirectRateThreshold separates the two regimes of an untagged rate value:
// at or above it the value is already pesos per dollar, below it the value is
// dollars per peso and gets inverted.
var DirectRateThreshold = decimal.NewFromInt(100)

// UnavailableRate is displayed for values that cannot be interpreted (zero or negative).
const UnavailableRate = "N/D"

var one = decimal.NewFromInt(1)

// PesosPerDollar converts value to pesos per US dollar. An explicit unit wins over
// the magnitude heuristic. ok is false for non-positive values.
func PesosPerDollar(value decimal.Decimal, unit domain.RateUnit) (decimal.Decimal, bool) {
	if !value.IsPositive() {
		return decimal.Decimal{}, false
	}
	switch unit {
	case domain.RateUnitARSPerUSD:
		return value, true
	case domain.RateUnitUSDPerARS:
		return one.Div(value), true
	}
	if value.GreaterThanOrEqual(DirectRateThreshold) {
		return value, true
	}
	return one.Div(value), true
}

// Interpret formats an untagged rate value as pesos per dollar with two grouped decimals.
func Interpret(value decimal.Decimal) string {
	return interpretWithUnit(value, domain.RateUnitUnknown)
}

// DisplayRate formats a record's rate as pesos per dollar.
func DisplayRate(rec domain.ExchangeRateRecord) string {
	return interpretWithUnit(rec.RateValue, rec.Unit)
}

func interpretWithUnit(value decimal.Decimal, unit domain.RateUnit) string {
	v, ok := PesosPerDollar(value, unit)
	if !ok {
		return UnavailableRate
	}
	return utils.FormatGrouped(v)
}

// Headline is the formatted buy/sell pair shown above the table.
// The figures are displayed as supplied; no inversion is applied.
type Headline struct {
	Buy    string `json:"buy"`
	Sell   string `json:"sell"`
	Schema string `json:"schema"`
	Source string `json:"source,omitempty"`
}

// FormatHeadline formats the snapshot's headline figures. ok is false when none is present.
func FormatHeadline(s domain.CurrentRateSnapshot) (Headline, bool) {
	buy, sell, ok := s.Headline()
	if !ok {
		return Headline{}, false
	}
	return Headline{
		Buy:    utils.FormatGrouped(buy),
		Sell:   utils.FormatGrouped(sell),
		Schema: string(s.Schema),
		Source: s.Source,
	}, true
}
