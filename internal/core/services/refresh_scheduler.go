package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/printfleet_dashboard/internal/core/ports/services"
	"github.com/robfig/cron/v3"
)

// RefreshScheduler periodically asks the backend to update rates from its providers.
type RefreshScheduler struct {
	cron    *cron.Cron
	writer  portssvc.ExchangeRateWriterSvc
	logger  *slog.Logger
	timeout time.Duration
}

// NewRefreshScheduler registers an update-from-api job on spec (standard 5-field cron syntax).
func NewRefreshScheduler(spec string, writer portssvc.ExchangeRateWriterSvc, logger *slog.Logger) (*RefreshScheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &RefreshScheduler{
		cron:    cron.New(),
		writer:  writer,
		logger:  logger.With(slog.String("component", "refresh_scheduler")),
		timeout: 2 * time.Minute,
	}
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the schedule in the background.
func (s *RefreshScheduler) Start() {
	s.logger.Info("Starting scheduled exchange rate refresh", slog.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
}

// Stop halts the schedule and waits for a running job to finish.
func (s *RefreshScheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce performs one update-from-api call and logs the provider summary.
func (s *RefreshScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	summary, err := s.writer.UpdateFromAPI(ctx)
	if err != nil {
		s.logger.Error("Scheduled exchange rate refresh failed", slog.String("error", err.Error()))
		return
	}
	for _, p := range summary.Providers {
		s.logger.Info("Provider refreshed",
			slog.String("provider", p.Provider),
			slog.Bool("success", p.Success),
			slog.String("error", p.Error),
		)
	}
	s.logger.Info("Scheduled exchange rate refresh completed", slog.String("message", summary.Message))
}
