package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/printfleet_dashboard/internal/apperrors"
	"github.com/SscSPs/printfleet_dashboard/internal/core/domain"
	"github.com/SscSPs/printfleet_dashboard/internal/core/ratesview"
	"github.com/shopspring/decimal"
)

// CreateManualRateRequest defines the structure for recording an operator-entered rate.
// The effective date is always the submit time.
type CreateManualRateRequest struct {
	Rate  decimal.Decimal `json:"rate" binding:"required,gt=0"`
	Notes string          `json:"notes" binding:"max=500"`
}

// UpdateRateRequest defines the fields an operator may change on an existing rate.
type UpdateRateRequest struct {
	Rate  decimal.Decimal `json:"rate" binding:"required,gt=0"`
	Notes string          `json:"notes" binding:"max=500"`
}

// UpdateRateParams are the query parameters of an update. Days is the history window the
// record was displayed in; zero means the default window.
type UpdateRateParams struct {
	Days int `form:"days" binding:"omitempty,min=1,max=365"`
}

// ExchangeRateViewParams are the query parameters of the history view.
type ExchangeRateViewParams struct {
	Source     string `form:"source"`
	DateFrom   string `form:"dateFrom" binding:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"dateTo" binding:"omitempty,datetime=2006-01-02"`
	MinRate    string `form:"minRate" binding:"omitempty,numeric"`
	MaxRate    string `form:"maxRate" binding:"omitempty,numeric"`
	OnlyManual bool   `form:"onlyManual"`
	Reset      bool   `form:"reset"`
	Days       int    `form:"days" binding:"omitempty,min=1,max=365"`
	Refresh    bool   `form:"refresh"`
}

// Criteria converts the query into filter criteria. Calendar days are read in loc.
func (p ExchangeRateViewParams) Criteria(loc *time.Location) (domain.FilterCriteria, error) {
	c := domain.DefaultFilterCriteria()
	if s := strings.TrimSpace(p.Source); s != "" {
		c.Source = s
	}
	c.OnlyManual = p.OnlyManual

	if p.DateFrom != "" {
		t, err := domain.ParseDay(p.DateFrom, loc)
		if err != nil {
			return c, fmt.Errorf("%w: dateFrom: %v", apperrors.ErrValidation, err)
		}
		c.DateFrom = &t
	}
	if p.DateTo != "" {
		t, err := domain.ParseDay(p.DateTo, loc)
		if err != nil {
			return c, fmt.Errorf("%w: dateTo: %v", apperrors.ErrValidation, err)
		}
		c.DateTo = &t
	}
	if p.MinRate != "" {
		d, err := decimal.NewFromString(p.MinRate)
		if err != nil {
			return c, fmt.Errorf("%w: minRate: %v", apperrors.ErrValidation, err)
		}
		c.MinRate = &d
	}
	if p.MaxRate != "" {
		d, err := decimal.NewFromString(p.MaxRate)
		if err != nil {
			return c, fmt.Errorf("%w: maxRate: %v", apperrors.ErrValidation, err)
		}
		c.MaxRate = &d
	}
	return c, nil
}

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	ID               int64           `json:"id"`
	RecordedAt       time.Time       `json:"recordedAt"`
	EffectiveDate    time.Time       `json:"effectiveDate"`
	RateValue        decimal.Decimal `json:"rateValue"`
	DisplayRate      string          `json:"displayRate"`
	Unit             string          `json:"unit,omitempty"`
	Source           string          `json:"source"`
	IsManualOverride bool            `json:"isManualOverride"`
	ConfidenceLevel  float64         `json:"confidenceLevel"`
	Notes            *string         `json:"notes,omitempty"`
	CreatedBy        *string         `json:"createdBy,omitempty"`
}

// ToExchangeRateResponse converts a domain.ExchangeRateRecord to ExchangeRateResponse DTO
func ToExchangeRateResponse(rec domain.ExchangeRateRecord) ExchangeRateResponse {
	return ExchangeRateResponse{
		ID:               rec.ID,
		RecordedAt:       rec.RecordedAt,
		EffectiveDate:    rec.EffectiveDate,
		RateValue:        rec.RateValue,
		DisplayRate:      ratesview.DisplayRate(rec),
		Unit:             string(rec.Unit),
		Source:           rec.Source,
		IsManualOverride: rec.IsManualOverride,
		ConfidenceLevel:  rec.ConfidenceLevel,
		Notes:            rec.Notes,
		CreatedBy:        rec.CreatedBy,
	}
}

// CurrentRateResponse is the headline block of the page.
type CurrentRateResponse struct {
	ratesview.Headline
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

// ToCurrentRateResponse returns nil when the snapshot is absent or carries no figure.
func ToCurrentRateResponse(s *domain.CurrentRateSnapshot) *CurrentRateResponse {
	if s == nil {
		return nil
	}
	h, ok := ratesview.FormatHeadline(*s)
	if !ok {
		return nil
	}
	return &CurrentRateResponse{Headline: h, LastUpdated: s.LastUpdated}
}

// ExchangeRateViewResponse is the whole exchange-rate page as rendered for one set of criteria.
type ExchangeRateViewResponse struct {
	Current           *CurrentRateResponse   `json:"current"`
	CurrentError      string                 `json:"currentError,omitempty"`
	Rows              []ExchangeRateResponse `json:"rows"`
	Shown             int                    `json:"shown"`
	FilteredTotal     int                    `json:"filteredTotal"`
	HistoryTotal      int                    `json:"historyTotal"`
	Truncated         bool                   `json:"truncated"`
	Summary           string                 `json:"summary"`
	TruncationNotice  string                 `json:"truncationNotice,omitempty"`
	FiltersActive     bool                   `json:"filtersActive"`
	ActiveFilterCount int                    `json:"activeFilterCount"`
	Criteria          domain.FilterCriteria  `json:"criteria"`
	Sources           []string               `json:"sources"`
	Updating          bool                   `json:"updating"`
}

// ToExchangeRateViewResponse renders state capped at limit rows.
func ToExchangeRateViewResponse(state ratesview.State, limit int) ExchangeRateViewResponse {
	view := state.View(limit)

	rows := make([]ExchangeRateResponse, len(view.Rows))
	for i, row := range view.Rows {
		rows[i] = ToExchangeRateResponse(row.Record)
		rows[i].DisplayRate = row.DisplayRate
	}

	resp := ExchangeRateViewResponse{
		Current:           ToCurrentRateResponse(state.Current),
		CurrentError:      state.CurrentErr,
		Rows:              rows,
		Shown:             view.Shown,
		FilteredTotal:     view.FilteredTotal,
		HistoryTotal:      view.HistoryTotal,
		Truncated:         view.Truncated,
		Summary:           view.Summary,
		TruncationNotice:  view.TruncationNotice,
		FiltersActive:     state.FiltersActive(),
		ActiveFilterCount: ratesview.ActiveFilterCount(state.Criteria),
		Criteria:          state.Criteria,
		Sources:           ratesview.Sources(state.History),
		Updating:          state.Updating,
	}
	if resp.Sources == nil {
		resp.Sources = []string{}
	}
	if resp.Current == nil && resp.CurrentError == "" {
		resp.CurrentError = "No hay cotización actual disponible"
	}
	return resp
}

// ProviderUpdateResponse relays the backend's update-from-api summary.
type ProviderUpdateResponse struct {
	Message   string                  `json:"message,omitempty"`
	Providers []domain.ProviderResult `json:"providers,omitempty"`
	Raw       json.RawMessage         `json:"raw,omitempty"`
}

// ToProviderUpdateResponse converts a domain.ProviderUpdateSummary to its response DTO.
func ToProviderUpdateResponse(s *domain.ProviderUpdateSummary) ProviderUpdateResponse {
	if s == nil {
		return ProviderUpdateResponse{}
	}
	return ProviderUpdateResponse{
		Message:   s.Message,
		Providers: s.Providers,
		Raw:       json.RawMessage(s.Raw),
	}
}
