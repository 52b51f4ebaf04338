package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/printfleet_dashboard/internal/apperrors"
	"github.com/SscSPs/printfleet_dashboard/internal/core/domain"
	portssvc "github.com/SscSPs/printfleet_dashboard/internal/core/ports/services"
	"github.com/SscSPs/printfleet_dashboard/internal/core/ratesview"
	"github.com/SscSPs/printfleet_dashboard/internal/dto"
	"github.com/SscSPs/printfleet_dashboard/internal/handlers"
	"github.com/SscSPs/printfleet_dashboard/internal/middleware"
	"github.com/SscSPs/printfleet_dashboard/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/posthog/posthog-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

func (m *MockExchangeRateService) LoadPage(ctx context.Context, days int, forceRefresh bool) ratesview.State {
	args := m.Called(ctx, days, forceRefresh)
	return args.Get(0).(ratesview.State)
}

func (m *MockExchangeRateService) CreateManualRate(ctx context.Context, req dto.CreateManualRateRequest, operator string) (*domain.ExchangeRateRecord, error) {
	args := m.Called(ctx, req, operator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRateRecord), args.Error(1)
}

func (m *MockExchangeRateService) UpdateRate(ctx context.Context, id int64, days int, req dto.UpdateRateRequest) (*domain.ExchangeRateRecord, error) {
	args := m.Called(ctx, id, days, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRateRecord), args.Error(1)
}

func (m *MockExchangeRateService) DeleteRate(ctx context.Context, id int64, confirmed bool) error {
	args := m.Called(ctx, id, confirmed)
	return args.Error(0)
}

func (m *MockExchangeRateService) UpdateFromAPI(ctx context.Context) (*domain.ProviderUpdateSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderUpdateSummary), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.ExchangeRateSvcFacade = (*MockExchangeRateService)(nil)

// --- Test Suite ---
type ExchangeRateHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockExchangeRateService
}

func (suite *ExchangeRateHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockService = new(MockExchangeRateService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterExchangeRateRoutes(v1, suite.mockService, handlers.ExchangeRateRouteConfig{
		DisplayCap:      2,
		Location:        time.UTC,
		DefaultOperator: "admin",
	})
}

func (suite *ExchangeRateHandlerTestSuite) serve(method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func loadedState(current *domain.CurrentRateSnapshot, currentErr string, records []domain.ExchangeRateRecord) ratesview.State {
	s := ratesview.Reduce(ratesview.NewState(), ratesview.LoadStarted{Seq: 1})
	s = ratesview.Reduce(s, ratesview.CurrentLoaded{Seq: 1, Snapshot: current, Err: currentErr})
	return ratesview.Reduce(s, ratesview.HistoryLoaded{Seq: 1, Records: records})
}

func record(id int64, day int, rate, source string, manual bool) domain.ExchangeRateRecord {
	at := time.Date(2025, 3, day, 12, 0, 0, 0, time.UTC)
	return domain.ExchangeRateRecord{
		ID: id, RecordedAt: at, EffectiveDate: at,
		RateValue: decimal.RequireFromString(rate), Source: source, IsManualOverride: manual,
	}
}

func sampleRecords() []domain.ExchangeRateRecord {
	return []domain.ExchangeRateRecord{
		record(1, 1, "1000", domain.SourceDolarAPI, false),
		record(2, 2, "1010", domain.SourceManual, true),
		record(3, 3, "0.001", domain.SourceCriptoYa, false),
		record(4, 4, "1020", domain.SourceDolarAPI, false),
	}
}

func buySell(buy, sell string) *domain.CurrentRateSnapshot {
	b, s := decimal.RequireFromString(buy), decimal.RequireFromString(sell)
	return &domain.CurrentRateSnapshot{Schema: domain.CurrentRateSchemaBuySell, Buy: &b, Sell: &s}
}

// --- Test Cases ---

func (suite *ExchangeRateHandlerTestSuite) TestGetView_CapsAndSummarises() {
	suite.mockService.On("LoadPage", mock.Anything, 0, false).
		Return(loadedState(buySell("1400", "1445.5"), "", sampleRecords())).Once()

	w := suite.serve(http.MethodGet, "/api/v1/exchange-rates/view", "", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ExchangeRateViewResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Rows, 2)
	suite.Equal(int64(4), resp.Rows[0].ID)
	suite.Equal(int64(3), resp.Rows[1].ID)
	suite.Equal("1,000.00", resp.Rows[1].DisplayRate)
	suite.Equal(4, resp.FilteredTotal)
	suite.Equal(4, resp.HistoryTotal)
	suite.True(resp.Truncated)
	suite.Equal("Mostrando 2 de 4 registros", resp.Summary)
	suite.NotEmpty(resp.TruncationNotice)
	suite.False(resp.FiltersActive)
	suite.Require().NotNil(resp.Current)
	suite.Equal("1,445.50", resp.Current.Sell)
	suite.ElementsMatch([]string{domain.SourceDolarAPI, domain.SourceManual, domain.SourceCriptoYa}, resp.Sources)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ExchangeRateHandlerTestSuite) TestGetView_AppliesFilters() {
	suite.mockService.On("LoadPage", mock.Anything, 7, true).
		Return(loadedState(nil, "", sampleRecords())).Once()

	w := suite.serve(http.MethodGet, "/api/v1/exchange-rates/view?source=DolarAPI&minRate=1010&days=7&refresh=true", "", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ExchangeRateViewResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Rows, 1)
	suite.Equal(int64(4), resp.Rows[0].ID)
	suite.True(resp.FiltersActive)
	suite.Equal(2, resp.ActiveFilterCount)
	suite.Equal("Mostrando 1 de 1 registros (filtrados de 4 en total)", resp.Summary)
	suite.Nil(resp.Current)
	suite.Equal(handlers.MsgNoCurrentRate, resp.CurrentError)
}

func (suite *ExchangeRateHandlerTestSuite) TestGetView_ResetIgnoresFilters() {
	suite.mockService.On("LoadPage", mock.Anything, 0, false).
		Return(loadedState(nil, "", sampleRecords())).Once()

	w := suite.serve(http.MethodGet, "/api/v1/exchange-rates/view?reset=true&onlyManual=true&source=manual", "", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ExchangeRateViewResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.FiltersActive)
	suite.Equal(4, resp.FilteredTotal)
	suite.Equal(domain.SourceAll, resp.Criteria.Source)
}

func (suite *ExchangeRateHandlerTestSuite) TestGetView_InvalidQuery() {
	for _, target := range []string{
		"/api/v1/exchange-rates/view?dateFrom=01/03/2025",
		"/api/v1/exchange-rates/view?minRate=abc",
		"/api/v1/exchange-rates/view?days=400",
	} {
		w := suite.serve(http.MethodGet, target, "", nil)
		suite.Equal(http.StatusBadRequest, w.Code, target)
	}
	suite.mockService.AssertNotCalled(suite.T(), "LoadPage", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeRateHandlerTestSuite) TestGetCurrent() {
	suite.mockService.On("LoadPage", mock.Anything, 0, false).
		Return(loadedState(buySell("1400", "1445.5"), "", nil)).Once()

	w := suite.serve(http.MethodGet, "/api/v1/exchange-rates/current", "", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"buy":"1,400.00"`)
}

func (suite *ExchangeRateHandlerTestSuite) TestGetCurrent_UnavailableShowsErrorPanel() {
	suite.mockService.On("LoadPage", mock.Anything, 0, false).
		Return(loadedState(nil, apperrors.MsgCannotReachServer, nil)).Once()

	w := suite.serve(http.MethodGet, "/api/v1/exchange-rates/current", "", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(w.Body.String(), apperrors.MsgCannotReachServer)
}

func (suite *ExchangeRateHandlerTestSuite) TestCreateManualRate_DefaultOperator() {
	req := dto.CreateManualRateRequest{Rate: decimal.RequireFromString("1100.5"), Notes: "cierre"}
	created := record(9, 9, "1100.5", domain.SourceManual, true)
	suite.mockService.On("CreateManualRate", mock.Anything, mock.MatchedBy(func(r dto.CreateManualRateRequest) bool {
		return r.Rate.Equal(req.Rate) && r.Notes == req.Notes
	}), "admin").Return(&created, nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/exchange-rates", `{"rate": 1100.5, "notes": "cierre"}`, nil)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.ExchangeRateResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(9), resp.ID)
	suite.True(resp.IsManualOverride)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ExchangeRateHandlerTestSuite) TestCreateManualRate_OperatorFromToken() {
	const secret = "handler-test-secret"
	router := gin.New()
	v1 := router.Group("/api/v1", middleware.AuthMiddleware(secret, ""))
	handlers.RegisterExchangeRateRoutes(v1, suite.mockService, handlers.ExchangeRateRouteConfig{DefaultOperator: "admin"})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "maria",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	suite.Require().NoError(err)

	suite.mockService.On("CreateManualRate", mock.Anything, mock.Anything, "maria").Return(nil, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/exchange-rates", strings.NewReader(`{"rate": "1200"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)
	suite.Contains(w.Body.String(), "Exchange rate created")
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ExchangeRateHandlerTestSuite) TestCreateManualRate_InvalidBody() {
	for _, body := range []string{`{"rate": 0}`, `{"rate": -3}`, `{"notes": "no rate"}`, `{"rate": "abc"}`, `not json`} {
		w := suite.serve(http.MethodPost, "/api/v1/exchange-rates", body, nil)
		suite.Equal(http.StatusBadRequest, w.Code, body)
	}
	suite.mockService.AssertNotCalled(suite.T(), "CreateManualRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeRateHandlerTestSuite) TestCreateManualRate_BackendErrors() {
	cases := []struct {
		err        error
		wantStatus int
		wantBody   string
	}{
		{fmt.Errorf("create rate: %w: connection refused", apperrors.ErrUnavailable), http.StatusServiceUnavailable, apperrors.MsgCannotReachServer},
		{fmt.Errorf("create rate: %w", &apperrors.APIError{StatusCode: 422, Detail: "Tasa inválida"}), http.StatusBadRequest, "Tasa inválida"},
		{fmt.Errorf("create rate: %w", &apperrors.APIError{StatusCode: 500, Detail: apperrors.MsgUnexpectedServerErr}), http.StatusBadGateway, apperrors.MsgUnexpectedServerErr},
	}
	for _, tc := range cases {
		suite.mockService.On("CreateManualRate", mock.Anything, mock.Anything, "admin").Return(nil, tc.err).Once()

		w := suite.serve(http.MethodPost, "/api/v1/exchange-rates", `{"rate": 1000}`, nil)

		suite.Equal(tc.wantStatus, w.Code)
		suite.Contains(w.Body.String(), tc.wantBody)
	}
}

func (suite *ExchangeRateHandlerTestSuite) TestUpdateRate() {
	updated := record(4, 4, "1030", domain.SourceDolarAPI, false)
	suite.mockService.On("UpdateRate", mock.Anything, int64(4), 0, mock.AnythingOfType("dto.UpdateRateRequest")).Return(&updated, nil).Once()

	w := suite.serve(http.MethodPut, "/api/v1/exchange-rates/4", `{"rate": 1030, "notes": "corregido"}`, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"displayRate":"1,030.00"`)
}

func (suite *ExchangeRateHandlerTestSuite) TestUpdateRate_NotFoundAndBadID() {
	suite.mockService.On("UpdateRate", mock.Anything, int64(77), 0, mock.Anything).
		Return(nil, fmt.Errorf("%w: exchange rate 77 is not in the loaded history", apperrors.ErrNotFound)).Once()

	w := suite.serve(http.MethodPut, "/api/v1/exchange-rates/77", `{"rate": 1}`, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.serve(http.MethodPut, "/api/v1/exchange-rates/abc", `{"rate": 1}`, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ExchangeRateHandlerTestSuite) TestUpdateRate_PassesHistoryWindow() {
	updated := record(9, 9, "1015", domain.SourceCriptoYa, false)
	suite.mockService.On("UpdateRate", mock.Anything, int64(9), 90, mock.AnythingOfType("dto.UpdateRateRequest")).Return(&updated, nil).Once()

	w := suite.serve(http.MethodPut, "/api/v1/exchange-rates/9?days=90", `{"rate": 1015}`, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.serve(http.MethodPut, "/api/v1/exchange-rates/9?days=400", `{"rate": 1015}`, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNumberOfCalls(suite.T(), "UpdateRate", 1)
}

func (suite *ExchangeRateHandlerTestSuite) TestDeleteRate_RequiresConfirmation() {
	suite.mockService.On("DeleteRate", mock.Anything, int64(5), false).
		Return(fmt.Errorf("%w: deleting exchange rate 5 cannot be undone", apperrors.ErrConfirmationRequired)).Once()

	w := suite.serve(http.MethodDelete, "/api/v1/exchange-rates/5", "", nil)

	suite.Equal(http.StatusPreconditionRequired, w.Code)
	suite.Contains(w.Body.String(), "confirm=true")
}

func (suite *ExchangeRateHandlerTestSuite) TestDeleteRate_Confirmed() {
	suite.mockService.On("DeleteRate", mock.Anything, int64(5), true).Return(nil).Once()

	w := suite.serve(http.MethodDelete, "/api/v1/exchange-rates/5?confirm=true", "", nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ExchangeRateHandlerTestSuite) TestUpdateFromAPI() {
	summary := &domain.ProviderUpdateSummary{
		Message:   "Exchange rates updated",
		Providers: []domain.ProviderResult{{Provider: domain.SourceDolarAPI, Success: true}},
		Raw:       []byte(`{"message":"Exchange rates updated","results":{"DolarAPI":{"success":true}}}`),
	}
	suite.mockService.On("UpdateFromAPI", mock.Anything).Return(summary, nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/exchange-rates/update-from-api", "", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Exchange rates updated", resp["message"])
	suite.Contains(resp, "raw")
}

func (suite *ExchangeRateHandlerTestSuite) TestUpdateFromAPI_AlreadyRunning() {
	suite.mockService.On("UpdateFromAPI", mock.Anything).
		Return(nil, fmt.Errorf("%w: rates are already being updated", apperrors.ErrInProgress)).Once()

	w := suite.serve(http.MethodPost, "/api/v1/exchange-rates/update-from-api", "", nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *ExchangeRateHandlerTestSuite) TestMutationsAreRateLimited() {
	lim, err := middleware.NewRateLimiter("1-M")
	suite.Require().NoError(err)
	router := gin.New()
	handlers.RegisterExchangeRateRoutes(router.Group("/api/v1"), suite.mockService, handlers.ExchangeRateRouteConfig{MutationLimiter: lim})
	suite.mockService.On("DeleteRate", mock.Anything, int64(1), true).Return(nil).Once()
	suite.mockService.On("LoadPage", mock.Anything, 0, false).Return(loadedState(nil, "", nil))

	codes := make([]int, 0, 3)
	for _, r := range []*http.Request{
		httptest.NewRequest(http.MethodDelete, "/api/v1/exchange-rates/1?confirm=true", nil),
		httptest.NewRequest(http.MethodDelete, "/api/v1/exchange-rates/1?confirm=true", nil),
		httptest.NewRequest(http.MethodGet, "/api/v1/exchange-rates/view", nil),
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		codes = append(codes, w.Code)
	}
	suite.Equal([]int{http.StatusNoContent, http.StatusTooManyRequests, http.StatusOK}, codes)
}

func (suite *ExchangeRateHandlerTestSuite) TestMutationsSendAnalyticsEvents() {
	events := &recordingPosthog{}
	router := gin.New()
	handlers.RegisterExchangeRateRoutes(router.Group("/api/v1"), suite.mockService, handlers.ExchangeRateRouteConfig{
		DefaultOperator: "admin",
		Analytics:       utils.NewPosthogClientWrapper(events, nil),
	})

	created := record(11, 9, "1100", domain.SourceManual, true)
	suite.mockService.On("CreateManualRate", mock.Anything, mock.Anything, "admin").Return(&created, nil).Once()
	suite.mockService.On("DeleteRate", mock.Anything, int64(11), true).Return(nil).Once()
	suite.mockService.On("DeleteRate", mock.Anything, int64(12), false).
		Return(fmt.Errorf("%w: deleting exchange rate 12 cannot be undone", apperrors.ErrConfirmationRequired)).Once()
	suite.mockService.On("UpdateFromAPI", mock.Anything).Return(&domain.ProviderUpdateSummary{
		Providers: []domain.ProviderResult{{Provider: domain.SourceDolarAPI, Success: true}, {Provider: domain.SourceCriptoYa}},
	}, nil).Once()

	for _, r := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/api/v1/exchange-rates", strings.NewReader(`{"rate": 1100}`)),
		httptest.NewRequest(http.MethodDelete, "/api/v1/exchange-rates/11?confirm=true", nil),
		httptest.NewRequest(http.MethodDelete, "/api/v1/exchange-rates/12", nil),
		httptest.NewRequest(http.MethodPost, "/api/v1/exchange-rates/update-from-api", nil),
	} {
		r.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(httptest.NewRecorder(), r)
	}

	captured := events.captured()
	suite.Require().Len(captured, 3)

	suite.Equal("exchange_rate_created", captured[0].Event)
	suite.Equal(int64(11), captured[0].Properties["rate_id"])
	suite.Equal(domain.SourceManual, captured[0].Properties["source"])
	suite.Equal("ip:192.0.2.1", captured[0].DistinctId)

	suite.Equal("exchange_rate_deleted", captured[1].Event)
	suite.Equal(int64(11), captured[1].Properties["rate_id"])

	suite.Equal("exchange_rates_refreshed", captured[2].Event)
	suite.Equal(2, captured[2].Properties["providers"])
	suite.Equal(1, captured[2].Properties["providers_failed"])
}

// recordingPosthog keeps every captured event in memory.
type recordingPosthog struct {
	posthog.Client
	mu     sync.Mutex
	events []posthog.Capture
}

func (r *recordingPosthog) Enqueue(msg posthog.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := msg.(posthog.Capture); ok {
		r.events = append(r.events, c)
	}
	return nil
}

func (r *recordingPosthog) Close() error { return nil }

func (r *recordingPosthog) captured() []posthog.Capture {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]posthog.Capture(nil), r.events...)
}

// --- Run Test Suite ---
func TestExchangeRateHandler(t *testing.T) {
	suite.Run(t, new(ExchangeRateHandlerTestSuite))
}
