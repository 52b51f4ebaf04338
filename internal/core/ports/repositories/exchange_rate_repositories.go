package repositories

import (
	"context"

	"github.com/SscSPs/printfleet_dashboard/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// GetCurrentRate retrieves the headline rate snapshot.
	GetCurrentRate(ctx context.Context) (*domain.CurrentRateSnapshot, error)

	// GetHistory retrieves records whose effective date falls within the trailing days window.
	GetHistory(ctx context.Context, days int) ([]domain.ExchangeRateRecord, error)
}

// ExchangeRateWriter defines write operations for exchange rate data.
// Writers may return a nil record when the backend answers without echoing it.
type ExchangeRateWriter interface {
	// CreateRate persists a new exchange rate.
	CreateRate(ctx context.Context, payload domain.RatePayload) (*domain.ExchangeRateRecord, error)

	// UpdateRate amends an existing exchange rate.
	UpdateRate(ctx context.Context, id int64, payload domain.RatePayload) (*domain.ExchangeRateRecord, error)

	// DeleteRate removes an exchange rate.
	DeleteRate(ctx context.Context, id int64) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
// This is a facade for clients that need access to all operations
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}

// RateRefresher asks the backend to pull fresh rates from its upstream providers.
type RateRefresher interface {
	UpdateFromAPI(ctx context.Context) (*domain.ProviderUpdateSummary, error)
}
