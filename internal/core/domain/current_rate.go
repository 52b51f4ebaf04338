package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrentRateSchema identifies which backend schema produced a snapshot.
type CurrentRateSchema string

const (
	// CurrentRateSchemaLegacy only carries USD_to_ARS.
	CurrentRateSchemaLegacy CurrentRateSchema = "v1"
	// CurrentRateSchemaBuySell carries dolar_compra / dolar_venta.
	CurrentRateSchemaBuySell CurrentRateSchema = "v2"
)

// CurrentRateSnapshot is the headline rate shown above the history table.
type CurrentRateSnapshot struct {
	Schema      CurrentRateSchema `json:"schema"`
	Buy         *decimal.Decimal  `json:"buy,omitempty"`
	Sell        *decimal.Decimal  `json:"sell,omitempty"`
	USDToARS    *decimal.Decimal  `json:"usdToArs,omitempty"`
	Source      string            `json:"source,omitempty"`
	LastUpdated *time.Time        `json:"lastUpdated,omitempty"`
}

// Headline returns the buy and sell figures to display. For the legacy schema both
// fall back to USD_to_ARS. ok is false when the snapshot carries no figure at all.
func (s CurrentRateSnapshot) Headline() (buy, sell decimal.Decimal, ok bool) {
	fallback := s.USDToARS
	pick := func(d *decimal.Decimal) (decimal.Decimal, bool) {
		if d != nil {
			return *d, true
		}
		if fallback != nil {
			return *fallback, true
		}
		return decimal.Decimal{}, false
	}
	buy, okBuy := pick(s.Buy)
	sell, okSell := pick(s.Sell)
	return buy, sell, okBuy || okSell
}
