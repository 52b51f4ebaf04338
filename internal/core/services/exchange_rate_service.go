package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SscSPs/printfleet_dashboard/internal/apperrors"
	"github.com/SscSPs/printfleet_dashboard/internal/core/domain"
	portsrepo "github.com/SscSPs/printfleet_dashboard/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/printfleet_dashboard/internal/core/ports/services"
	"github.com/SscSPs/printfleet_dashboard/internal/core/ratesview"
	"github.com/SscSPs/printfleet_dashboard/internal/dto"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultSnapshotTTL is how long a loaded page is reused when no TTL is configured.
const DefaultSnapshotTTL = 30 * time.Second

// ExchangeRateService provides the exchange rate page: loading, and manual rate maintenance.
type ExchangeRateService struct {
	BaseService
	rateRepo    portsrepo.ExchangeRateRepositoryFacade
	refresher   portsrepo.RateRefresher
	snapshots   *cache.Cache
	historyDays int
	now         func() time.Time

	seq      atomic.Uint64
	updating atomic.Bool
	mu       sync.Mutex
	applied  map[string]uint64 // days window -> newest load sequence stored
}

// ExchangeRateServiceOption configures an ExchangeRateService.
type ExchangeRateServiceOption func(*ExchangeRateService)

// WithSnapshotTTL sets how long a loaded page is served from memory.
func WithSnapshotTTL(ttl time.Duration) ExchangeRateServiceOption {
	return func(s *ExchangeRateService) {
		if ttl > 0 {
			s.snapshots = cache.New(ttl, 2*ttl)
		}
	}
}

// WithHistoryDays sets the default history window.
func WithHistoryDays(days int) ExchangeRateServiceOption {
	return func(s *ExchangeRateService) {
		if days > 0 {
			s.historyDays = days
		}
	}
}

// WithLogger sets the logger used outside of a request.
func WithLogger(logger *slog.Logger) ExchangeRateServiceOption {
	return func(s *ExchangeRateService) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// WithClock replaces time.Now, used to stamp manual rates.
func WithClock(now func() time.Time) ExchangeRateServiceOption {
	return func(s *ExchangeRateService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewExchangeRateService creates a new ExchangeRateService.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, refresher portsrepo.RateRefresher, opts ...ExchangeRateServiceOption) *ExchangeRateService {
	s := &ExchangeRateService{
		BaseService: BaseService{Logger: slog.Default()},
		rateRepo:    rateRepo,
		refresher:   refresher,
		snapshots:   cache.New(DefaultSnapshotTTL, 2*DefaultSnapshotTTL),
		historyDays: 30,
		now:         time.Now,
		applied:     make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.ExchangeRateSvcFacade = (*ExchangeRateService)(nil)

func snapshotKey(days int) string {
	return "page:" + strconv.Itoa(days)
}

// LoadPage returns the page for the days window. Current rate and history are fetched
// concurrently; each failure is logged and absorbed independently. When loads overlap,
// the newest issued load is the one kept.
func (s *ExchangeRateService) LoadPage(ctx context.Context, days int, forceRefresh bool) ratesview.State {
	if days <= 0 {
		days = s.historyDays
	}
	key := snapshotKey(days)
	if !forceRefresh {
		if cached, ok := s.snapshots.Get(key); ok {
			return s.withProgress(cached.(ratesview.State))
		}
	}

	seq := s.seq.Add(1)
	state := ratesview.Reduce(ratesview.NewState(), ratesview.LoadStarted{Seq: seq})

	var (
		current    *domain.CurrentRateSnapshot
		currentErr string
		history    []domain.ExchangeRateRecord
	)

	var g errgroup.Group
	g.Go(func() error {
		snap, err := s.rateRepo.GetCurrentRate(ctx)
		if err != nil {
			s.LogError(ctx, err, "Failed to fetch current exchange rate")
			currentErr = apperrors.UserMessage(err)
			return nil
		}
		current = snap
		return nil
	})
	g.Go(func() error {
		records, err := s.rateRepo.GetHistory(ctx, days)
		if err != nil {
			s.LogError(ctx, err, "Failed to fetch exchange rate history", slog.Int("days", days))
			history = []domain.ExchangeRateRecord{}
			return nil
		}
		history = records
		return nil
	})
	_ = g.Wait()

	state = ratesview.Reduce(state, ratesview.CurrentLoaded{Seq: seq, Snapshot: current, Err: currentErr})
	state = ratesview.Reduce(state, ratesview.HistoryLoaded{Seq: seq, Records: history})

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.applied[key] {
		s.LogDebug(ctx, "Discarding stale exchange rate load", slog.Uint64("seq", seq), slog.Uint64("applied", s.applied[key]))
		if cached, ok := s.snapshots.Get(key); ok {
			return s.withProgress(cached.(ratesview.State))
		}
		return s.withProgress(state)
	}
	s.applied[key] = seq
	s.snapshots.Set(key, state, cache.DefaultExpiration)
	return s.withProgress(state)
}

// withProgress marks the page as updating while an update-from-api call is in flight.
func (s *ExchangeRateService) withProgress(state ratesview.State) ratesview.State {
	if s.updating.Load() {
		return ratesview.Reduce(state, ratesview.UpdateStarted{})
	}
	return ratesview.Reduce(state, ratesview.UpdateFinished{})
}

// reload drops every cached page and fetches the default window again.
func (s *ExchangeRateService) reload(ctx context.Context) {
	s.snapshots.Flush()
	s.LoadPage(ctx, s.historyDays, true)
}

// CreateManualRate records an operator-entered rate stamped with the current time.
func (s *ExchangeRateService) CreateManualRate(ctx context.Context, req dto.CreateManualRateRequest, operator string) (*domain.ExchangeRateRecord, error) {
	if err := validateRate(req.Rate); err != nil {
		return nil, err
	}

	payload := domain.NewManualRatePayload(req.Rate, req.Notes, operator, s.now())
	rec, err := s.rateRepo.CreateRate(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create manual rate in service: %w", err)
	}

	s.reload(ctx)
	return rec, nil
}

// UpdateRate changes only the rate value and notes of record id, as shown in the days window.
func (s *ExchangeRateService) UpdateRate(ctx context.Context, id int64, days int, req dto.UpdateRateRequest) (*domain.ExchangeRateRecord, error) {
	if err := validateRate(req.Rate); err != nil {
		return nil, err
	}

	existing, ok := s.findRecord(ctx, id, days)
	if !ok {
		return nil, fmt.Errorf("%w: exchange rate %d is not in the loaded history", apperrors.ErrNotFound, id)
	}

	rec, err := s.rateRepo.UpdateRate(ctx, id, existing.UpdatePayload(req.Rate, req.Notes))
	if err != nil {
		return nil, fmt.Errorf("failed to update exchange rate in service: %w", err)
	}

	s.reload(ctx)
	return rec, nil
}

// DeleteRate removes record id. Nothing is sent unless the caller confirmed.
func (s *ExchangeRateService) DeleteRate(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("%w: deleting exchange rate %d cannot be undone", apperrors.ErrConfirmationRequired, id)
	}
	if err := s.rateRepo.DeleteRate(ctx, id); err != nil {
		return fmt.Errorf("failed to delete exchange rate in service: %w", err)
	}

	s.reload(ctx)
	return nil
}

// UpdateFromAPI asks the backend to pull fresh rates from its providers.
// Only one update runs at a time; a second call while one is in flight is refused.
func (s *ExchangeRateService) UpdateFromAPI(ctx context.Context) (*domain.ProviderUpdateSummary, error) {
	if !s.updating.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("%w: rates are already being updated", apperrors.ErrInProgress)
	}
	defer s.updating.Store(false)

	summary, err := s.refresher.UpdateFromAPI(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update rates from providers: %w", err)
	}

	s.reload(ctx)
	return summary, nil
}

// findRecord looks for id in the cached page of the days window, then in every other cached
// page, and finally in a fresh load of the days window.
func (s *ExchangeRateService) findRecord(ctx context.Context, id int64, days int) (domain.ExchangeRateRecord, bool) {
	if days <= 0 {
		days = s.historyDays
	}
	if cached, ok := s.snapshots.Get(snapshotKey(days)); ok {
		if rec, ok := cached.(ratesview.State).FindRecord(id); ok {
			return rec, true
		}
	}
	for _, item := range s.snapshots.Items() {
		if state, ok := item.Object.(ratesview.State); ok {
			if rec, ok := state.FindRecord(id); ok {
				return rec, true
			}
		}
	}
	return s.LoadPage(ctx, days, true).FindRecord(id)
}

func validateRate(rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	return nil
}
