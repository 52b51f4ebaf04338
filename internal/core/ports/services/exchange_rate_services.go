package services

import (
	"context"

	"github.com/SscSPs/printfleet_dashboard/internal/core/domain"
	"github.com/SscSPs/printfleet_dashboard/internal/core/ratesview"
	"github.com/SscSPs/printfleet_dashboard/internal/dto"
)

// ExchangeRateReaderSvc defines read operations for the exchange rate page
type ExchangeRateReaderSvc interface {
	// LoadPage returns the page state for a days window, fetching current rate and
	// history concurrently unless a fresh snapshot is cached. Fetch failures are
	// absorbed into the state and never returned.
	LoadPage(ctx context.Context, days int, forceRefresh bool) ratesview.State
}

// ExchangeRateWriterSvc defines write operations for exchange rate data.
// Every successful write reloads the page from the backend.
type ExchangeRateWriterSvc interface {
	// CreateManualRate records an operator-entered rate.
	CreateManualRate(ctx context.Context, req dto.CreateManualRateRequest, operator string) (*domain.ExchangeRateRecord, error)

	// UpdateRate changes the rate value and notes of an existing record, looked up in the
	// days history window (zero means the default window).
	UpdateRate(ctx context.Context, id int64, days int, req dto.UpdateRateRequest) (*domain.ExchangeRateRecord, error)

	// DeleteRate removes a record; confirmed must be true.
	DeleteRate(ctx context.Context, id int64, confirmed bool) error

	// UpdateFromAPI triggers the backend refresh from upstream providers.
	UpdateFromAPI(ctx context.Context) (*domain.ProviderUpdateSummary, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}
