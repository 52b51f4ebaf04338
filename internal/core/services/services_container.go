package services

import (
	"log/slog"

	portsrepo "github.com/SscSPs/printfleet_dashboard/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/printfleet_dashboard/internal/core/ports/services"
	"github.com/SscSPs/printfleet_dashboard/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, logger *slog.Logger) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		ExchangeRate: NewExchangeRateService(repos.ExchangeRateRepo, repos.RateRefresher,
			WithHistoryDays(cfg.HistoryDays),
			WithSnapshotTTL(cfg.CacheTTL),
			WithLogger(logger),
		),
	}
}
