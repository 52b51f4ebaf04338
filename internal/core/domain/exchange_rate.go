package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Known values for ExchangeRateRecord.Source. The set is open: any string is accepted.
const (
	SourceManual   = "manual"
	SourceDolarAPI = "DolarAPI"
	SourceCriptoYa = "CriptoYa"
)

// Currency pair every record in this dashboard is priced in.
const (
	BaseCurrency   = "USD"
	TargetCurrency = "ARS"
)

// ManualConfidence is the confidence level stamped on operator-entered rates.
const ManualConfidence = 1.0

// RateUnit says which direction a stored rate value is denominated in.
type RateUnit string

const (
	// RateUnitUnknown means the backend did not say; the magnitude heuristic decides.
	RateUnitUnknown RateUnit = ""
	// RateUnitARSPerUSD is pesos per one US dollar.
	RateUnitARSPerUSD RateUnit = "ARS_PER_USD"
	// RateUnitUSDPerARS is dollars per one peso.
	RateUnitUSDPerARS RateUnit = "USD_PER_ARS"
)

// ParseRateUnit accepts the wire spelling of a unit. Unrecognised values map to RateUnitUnknown.
func ParseRateUnit(s string) RateUnit {
	switch RateUnit(s) {
	case RateUnitARSPerUSD, RateUnitUSDPerARS:
		return RateUnit(s)
	default:
		return RateUnitUnknown
	}
}

// ExchangeRateRecord is one persisted observation of the USD/ARS rate.
type ExchangeRateRecord struct {
	ID               int64           `json:"id"`
	RecordedAt       time.Time       `json:"recordedAt"`    // created_at on the wire
	EffectiveDate    time.Time       `json:"effectiveDate"` // date on the wire
	BaseCurrency     string          `json:"baseCurrency"`
	TargetCurrency   string          `json:"targetCurrency"`
	RateValue        decimal.Decimal `json:"rateValue"`
	Unit             RateUnit        `json:"unit,omitempty"`
	Source           string          `json:"source"`
	IsManualOverride bool            `json:"isManualOverride"`
	ConfidenceLevel  float64         `json:"confidenceLevel"`
	Notes            *string         `json:"notes,omitempty"`
	CreatedBy        *string         `json:"createdBy,omitempty"`
}

// RatePayload is the body accepted by the backend when creating or updating a record.
type RatePayload struct {
	Date             time.Time
	BaseCurrency     string
	TargetCurrency   string
	Rate             decimal.Decimal
	Source           string
	IsManualOverride bool
	ConfidenceLevel  float64
	Notes            string
	CreatedBy        string
}

// NewManualRatePayload builds the payload for an operator-entered rate.
// The effective date is the submit time and is not user-selectable.
func NewManualRatePayload(rate decimal.Decimal, notes, createdBy string, now time.Time) RatePayload {
	return RatePayload{
		Date:             now,
		BaseCurrency:     BaseCurrency,
		TargetCurrency:   TargetCurrency,
		Rate:             rate,
		Source:           SourceManual,
		IsManualOverride: true,
		ConfidenceLevel:  ManualConfidence,
		Notes:            notes,
		CreatedBy:        createdBy,
	}
}

// UpdatePayload builds the payload that amends r. Only the rate value and notes change;
// effective date, source, manual flag, confidence and author are carried over.
func (r ExchangeRateRecord) UpdatePayload(rate decimal.Decimal, notes string) RatePayload {
	base, target := r.BaseCurrency, r.TargetCurrency
	if base == "" {
		base = BaseCurrency
	}
	if target == "" {
		target = TargetCurrency
	}
	createdBy := ""
	if r.CreatedBy != nil {
		createdBy = *r.CreatedBy
	}
	return RatePayload{
		Date:             r.EffectiveDate,
		BaseCurrency:     base,
		TargetCurrency:   target,
		Rate:             rate,
		Source:           r.Source,
		IsManualOverride: r.IsManualOverride,
		ConfidenceLevel:  r.ConfidenceLevel,
		Notes:            notes,
		CreatedBy:        createdBy,
	}
}

// ProviderResult is one upstream provider's outcome in an update-from-api run.
type ProviderResult struct {
	Provider string           `json:"provider"`
	Success  bool             `json:"success"`
	Rate     *decimal.Decimal `json:"rate,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// ProviderUpdateSummary is the backend's answer to update-from-api.
// Raw holds the body verbatim; Providers is filled when the body has a recognisable results map.
type ProviderUpdateSummary struct {
	Message   string           `json:"message,omitempty"`
	Providers []ProviderResult `json:"providers,omitempty"`
	Raw       []byte           `json:"-"`
}
