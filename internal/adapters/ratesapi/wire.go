package ratesapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/printfleet_dashboard/internal/core/domain"
	"github.com/shopspring/decimal"
)

// rateRecordWire is an exchange-rate record as the backend serialises it.
type rateRecordWire struct {
	ID               int64           `json:"id"`
	Date             string          `json:"date"`
	CreatedAt        string          `json:"created_at"`
	BaseCurrency     string          `json:"base_currency"`
	TargetCurrency   string          `json:"target_currency"`
	Rate             decimal.Decimal `json:"rate"`
	RateUnit         string          `json:"rate_unit"`
	Source           string          `json:"source"`
	IsManualOverride bool            `json:"is_manual_override"`
	ConfidenceLevel  *float64        `json:"confidence_level"`
	Notes            *string         `json:"notes"`
	CreatedBy        *string         `json:"created_by"`
}

func (w rateRecordWire) toDomain(loc *time.Location) (domain.ExchangeRateRecord, error) {
	recordedAt, err := domain.ParseTimestamp(w.CreatedAt, loc)
	if err != nil {
		return domain.ExchangeRateRecord{}, fmt.Errorf("created_at: %w", err)
	}
	effective, err := domain.ParseTimestamp(w.Date, loc)
	if err != nil {
		return domain.ExchangeRateRecord{}, fmt.Errorf("date: %w", err)
	}

	confidence := 0.0
	if w.ConfidenceLevel != nil {
		confidence = *w.ConfidenceLevel
	} else if w.IsManualOverride {
		confidence = domain.ManualConfidence
	}

	return domain.ExchangeRateRecord{
		ID:               w.ID,
		RecordedAt:       recordedAt,
		EffectiveDate:    effective,
		BaseCurrency:     w.BaseCurrency,
		TargetCurrency:   w.TargetCurrency,
		RateValue:        w.Rate,
		Unit:             domain.ParseRateUnit(w.RateUnit),
		Source:           w.Source,
		IsManualOverride: w.IsManualOverride,
		ConfidenceLevel:  confidence,
		Notes:            w.Notes,
		CreatedBy:        w.CreatedBy,
	}, nil
}

// ratePayloadWire is the POST/PUT body. rate is sent as a JSON number.
type ratePayloadWire struct {
	Date             string      `json:"date"`
	BaseCurrency     string      `json:"base_currency"`
	TargetCurrency   string      `json:"target_currency"`
	Rate             json.Number `json:"rate"`
	Source           string      `json:"source"`
	IsManualOverride bool        `json:"is_manual_override"`
	ConfidenceLevel  float64     `json:"confidence_level"`
	Notes            string      `json:"notes"`
	CreatedBy        string      `json:"created_by"`
}

// isoMillis matches the ISO-8601 form the dashboard has always sent: UTC with milliseconds.
const isoMillis = "2006-01-02T15:04:05.000Z"

func newRatePayloadWire(p domain.RatePayload) ratePayloadWire {
	return ratePayloadWire{
		Date:             p.Date.UTC().Format(isoMillis),
		BaseCurrency:     p.BaseCurrency,
		TargetCurrency:   p.TargetCurrency,
		Rate:             json.Number(p.Rate.String()),
		Source:           p.Source,
		IsManualOverride: p.IsManualOverride,
		ConfidenceLevel:  p.ConfidenceLevel,
		Notes:            p.Notes,
		CreatedBy:        p.CreatedBy,
	}
}

// providerSummaryWire covers the shapes update-from-api has answered with.
type providerSummaryWire struct {
	Message string                         `json:"message"`
	Results map[string]providerOutcomeWire `json:"results"`
}

type providerOutcomeWire struct {
	Success *bool            `json:"success"`
	Status  string           `json:"status"`
	Rate    *decimal.Decimal `json:"rate"`
	Error   string           `json:"error"`
}

// parseProviderSummary keeps raw verbatim and decodes the per-provider results when present.
func parseProviderSummary(raw json.RawMessage) *domain.ProviderUpdateSummary {
	summary := &domain.ProviderUpdateSummary{Raw: []byte(raw)}

	var w providerSummaryWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return summary
	}
	summary.Message = w.Message

	names := make([]string, 0, len(w.Results))
	for name := range w.Results {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		o := w.Results[name]
		ok := o.Error == ""
		if o.Success != nil {
			ok = *o.Success
		} else if o.Status != "" {
			ok = o.Status == "success" || o.Status == "ok"
		}
		summary.Providers = append(summary.Providers, domain.ProviderResult{
			Provider: name,
			Success:  ok,
			Rate:     o.Rate,
			Error:    o.Error,
		})
	}
	return summary
}
