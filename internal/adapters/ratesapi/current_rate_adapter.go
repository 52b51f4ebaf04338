package ratesapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/printfleet_dashboard/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Field names of the current-rate payload across backend schema versions.
const (
	fieldBuy      = "dolar_compra"
	fieldSell     = "dolar_venta"
	fieldLegacy   = "USD_to_ARS"
	fieldSource   = "source"
	fieldUpdated  = "last_updated"
	fieldDate     = "date"
	fieldCreateAt = "created_at"
)

var errNoRateFields = errors.New("current rate carries neither dolar_compra/dolar_venta nor USD_to_ARS")

// AdaptCurrentRate maps any known version of the current-rate payload onto a snapshot.
// dolar_compra/dolar_venta (v2) take precedence; USD_to_ARS (v1) is kept as the fallback.
func AdaptCurrentRate(raw map[string]json.RawMessage, loc *time.Location) (*domain.CurrentRateSnapshot, error) {
	buy, err := decimalField(raw, fieldBuy)
	if err != nil {
		return nil, err
	}
	sell, err := decimalField(raw, fieldSell)
	if err != nil {
		return nil, err
	}
	legacy, err := decimalField(raw, fieldLegacy)
	if err != nil {
		return nil, err
	}

	snap := &domain.CurrentRateSnapshot{Buy: buy, Sell: sell, USDToARS: legacy}
	switch {
	case buy != nil || sell != nil:
		snap.Schema = domain.CurrentRateSchemaBuySell
	case legacy != nil:
		snap.Schema = domain.CurrentRateSchemaLegacy
	default:
		return nil, errNoRateFields
	}

	if s, ok := stringField(raw, fieldSource); ok {
		snap.Source = s
	}
	for _, key := range []string{fieldUpdated, fieldDate, fieldCreateAt} {
		s, ok := stringField(raw, key)
		if !ok || s == "" {
			continue
		}
		if t, err := domain.ParseTimestamp(s, loc); err == nil {
			snap.LastUpdated = &t
			break
		}
	}
	return snap, nil
}

// decimalField returns nil for absent or null fields.
func decimalField(raw map[string]json.RawMessage, key string) (*decimal.Decimal, error) {
	v, ok := raw[key]
	if !ok || string(v) == "null" {
		return nil, nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(v, &d); err != nil {
		return nil, fmt.Errorf("field %s: %w", key, err)
	}
	return &d, nil
}

func stringField(raw map[string]json.RawMessage, key string) (string, bool) {
	v, ok := raw[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, true
}
