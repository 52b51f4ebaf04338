package ratesapi

import (
	"log/slog"
	"net/http"

	portsrepo "github.com/SscSPs/printfleet_dashboard/internal/core/ports/repositories"
	"github.com/SscSPs/printfleet_dashboard/internal/platform/config"
)

// NewRepositoryProvider builds the backend client from configuration and exposes it
// through every repository port it implements.
func NewRepositoryProvider(cfg *config.Config, logger *slog.Logger) portsrepo.RepositoryProvider {
	client := NewClient(cfg.BackendAPIURL,
		WithHTTPClient(&http.Client{Timeout: cfg.BackendTimeout}),
		WithBearerToken(cfg.BackendAPIToken),
		WithDefaultHistoryDays(cfg.HistoryDays),
		WithLocation(cfg.Location),
		WithLogger(logger),
	)
	return portsrepo.RepositoryProvider{
		ExchangeRateRepo: client,
		RateRefresher:    client,
	}
}
