package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/printfleet_dashboard/internal/apperrors"
	"github.com/SscSPs/printfleet_dashboard/internal/core/domain"
	portssvc "github.com/SscSPs/printfleet_dashboard/internal/core/ports/services"
	"github.com/SscSPs/printfleet_dashboard/internal/core/ratesview"
	"github.com/SscSPs/printfleet_dashboard/internal/dto"
	"github.com/SscSPs/printfleet_dashboard/internal/middleware"
	"github.com/SscSPs/printfleet_dashboard/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// MsgNoCurrentRate is shown when the backend has no headline rate to offer.
const MsgNoCurrentRate = "No hay cotización actual disponible"

// ExchangeRateRouteConfig carries the presentation settings of the exchange-rate routes.
type ExchangeRateRouteConfig struct {
	DisplayCap      int
	Location        *time.Location
	DefaultOperator string
	// MutationLimiter throttles writes and update-from-api; nil disables throttling.
	MutationLimiter *limiter.Limiter
	// Analytics receives one event per successful mutation; nil drops them.
	Analytics *utils.PosthogClientWrapper
}

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
	displayCap          int
	location            *time.Location
	defaultOperator     string
	analytics           *utils.PosthogClientWrapper
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade, cfg ExchangeRateRouteConfig) *exchangeRateHandler {
	h := &exchangeRateHandler{
		exchangeRateService: ers,
		displayCap:          cfg.DisplayCap,
		location:            cfg.Location,
		defaultOperator:     cfg.DefaultOperator,
		analytics:           cfg.Analytics,
	}
	if h.displayCap <= 0 {
		h.displayCap = ratesview.DefaultDisplayCap
	}
	if h.location == nil {
		h.location = time.Local
	}
	if h.defaultOperator == "" {
		h.defaultOperator = "admin"
	}
	return h
}

// RegisterExchangeRateRoutes registers routes related to exchange rates.
func RegisterExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade, cfg ExchangeRateRouteConfig) {
	registerDecimalValidation()
	h := newExchangeRateHandler(exchangeRateService, cfg)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.GET("/view", h.getExchangeRateView)
		exchangeRates.GET("/current", h.getCurrentRate)

		writes := exchangeRates.Group("")
		if cfg.MutationLimiter != nil {
			writes.Use(middleware.RateLimit(cfg.MutationLimiter))
		}
		writes.POST("", h.createManualRate)
		writes.POST("/update-from-api", h.updateFromAPI)
		writes.PUT("/:id", h.updateRate)
		writes.DELETE("/:id", h.deleteRate)
	}
}

// getExchangeRateView godoc
// @Summary Exchange rate page
// @Description Loads current rate and history, applies the filters and caps the rows shown
// @Tags exchange rates
// @Produce  json
// @Param   source     query string false "Source filter, 'all' disables it"
// @Param   dateFrom   query string false "First calendar day (YYYY-MM-DD), inclusive"
// @Param   dateTo     query string false "Last calendar day (YYYY-MM-DD), inclusive"
// @Param   minRate    query number false "Minimum stored rate value"
// @Param   maxRate    query number false "Maximum stored rate value"
// @Param   onlyManual query bool   false "Only manual overrides"
// @Param   reset      query bool   false "Ignore every filter"
// @Param   days       query int    false "History window in days" minimum(1) maximum(365)
// @Param   refresh    query bool   false "Bypass the cached page"
// @Success 200 {object} dto.ExchangeRateViewResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Security BearerAuth
// @Router /exchange-rates/view [get]
func (h *exchangeRateHandler) getExchangeRateView(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ExchangeRateViewParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for exchange rate view", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	var action ratesview.Action = ratesview.CriteriaReset{}
	if !params.Reset {
		criteria, err := params.Criteria(h.location)
		if err != nil {
			logger.Warn("Invalid exchange rate filter", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		action = ratesview.CriteriaChanged{Criteria: criteria}
	}

	state := h.exchangeRateService.LoadPage(c.Request.Context(), params.Days, params.Refresh)
	state = ratesview.Reduce(state, action)

	resp := dto.ToExchangeRateViewResponse(state, h.displayCap)
	logger.Debug("Exchange rate view rendered",
		slog.Int("shown", resp.Shown),
		slog.Int("filtered_total", resp.FilteredTotal),
		slog.Int("history_total", resp.HistoryTotal),
	)
	c.JSON(http.StatusOK, resp)
}

// getCurrentRate godoc
// @Summary Current exchange rate
// @Description Returns the headline buy/sell figures
// @Tags exchange rates
// @Produce  json
// @Success 200 {object} dto.CurrentRateResponse
// @Failure 404 {object} map[string]string "No current rate available"
// @Security BearerAuth
// @Router /exchange-rates/current [get]
func (h *exchangeRateHandler) getCurrentRate(c *gin.Context) {
	state := h.exchangeRateService.LoadPage(c.Request.Context(), 0, false)

	current := dto.ToCurrentRateResponse(state.Current)
	if current == nil {
		msg := state.CurrentErr
		if msg == "" {
			msg = MsgNoCurrentRate
		}
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, current)
}

// createManualRate godoc
// @Summary Record a manual exchange rate
// @Description Stores an operator-entered USD/ARS rate effective now
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateManualRateRequest true "Rate and optional notes"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 503 {object} map[string]string "Backend unreachable"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createManualRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateManualRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateManualRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	operator := h.operator(c)
	logger = logger.With(slog.String("operator", operator))
	logger.Info("Received request to create manual exchange rate", slog.String("rate", req.Rate.String()))

	rec, err := h.exchangeRateService.CreateManualRate(c.Request.Context(), req, operator)
	if err != nil {
		respondServiceError(c, logger, err, "create manual exchange rate")
		return
	}

	logger.Info("Manual exchange rate created successfully")
	props := map[string]any{"source": domain.SourceManual, "rate": req.Rate.String(), "operator": operator}
	if rec != nil {
		props["rate_id"] = rec.ID
	}
	middleware.PosthogEvent(c, h.analytics, "exchange_rate_created", props)

	if rec == nil {
		c.JSON(http.StatusCreated, gin.H{"message": "Exchange rate created"})
		return
	}
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(*rec))
}

// updateRate godoc
// @Summary Update an exchange rate
// @Description Changes the rate value and notes; every other field is kept
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   id   path  int                   true  "Exchange rate ID"
// @Param   days query int                   false "History window the record was shown in" minimum(1) maximum(365)
// @Param   rate body  dto.UpdateRateRequest true  "New rate and notes"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Exchange rate not found"
// @Security BearerAuth
// @Router /exchange-rates/{id} [put]
func (h *exchangeRateHandler) updateRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseRateID(c)
	if !ok {
		return
	}

	var params dto.UpdateRateParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for UpdateRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	var req dto.UpdateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.Int64("rate_id", id))
	rec, err := h.exchangeRateService.UpdateRate(c.Request.Context(), id, params.Days, req)
	if err != nil {
		respondServiceError(c, logger, err, "update exchange rate")
		return
	}

	logger.Info("Exchange rate updated successfully")
	props := map[string]any{"rate_id": id, "rate": req.Rate.String()}
	if rec != nil {
		props["source"] = rec.Source
	}
	middleware.PosthogEvent(c, h.analytics, "exchange_rate_updated", props)

	if rec == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Exchange rate updated"})
		return
	}
	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(*rec))
}

// deleteRate godoc
// @Summary Delete an exchange rate
// @Description Permanently removes a record. Requires confirm=true.
// @Tags exchange rates
// @Param   id      path  int  true "Exchange rate ID"
// @Param   confirm query bool true "Explicit confirmation"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Exchange rate not found"
// @Failure 428 {object} map[string]string "Confirmation required"
// @Security BearerAuth
// @Router /exchange-rates/{id} [delete]
func (h *exchangeRateHandler) deleteRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseRateID(c)
	if !ok {
		return
	}
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))

	logger = logger.With(slog.Int64("rate_id", id))
	if err := h.exchangeRateService.DeleteRate(c.Request.Context(), id, confirmed); err != nil {
		respondServiceError(c, logger, err, "delete exchange rate")
		return
	}

	logger.Info("Exchange rate deleted successfully")
	middleware.PosthogEvent(c, h.analytics, "exchange_rate_deleted", map[string]any{"rate_id": id})
	c.Status(http.StatusNoContent)
}

// updateFromAPI godoc
// @Summary Refresh rates from providers
// @Description Asks the backend to fetch fresh rates; the provider summary is returned as received
// @Tags exchange rates
// @Produce  json
// @Success 200 {object} dto.ProviderUpdateResponse
// @Failure 409 {object} map[string]string "An update is already running"
// @Failure 503 {object} map[string]string "Backend unreachable"
// @Security BearerAuth
// @Router /exchange-rates/update-from-api [post]
func (h *exchangeRateHandler) updateFromAPI(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to update exchange rates from providers")

	summary, err := h.exchangeRateService.UpdateFromAPI(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "update exchange rates from providers")
		return
	}

	props := map[string]any{"trigger": "manual"}
	if summary != nil {
		failed := 0
		for _, p := range summary.Providers {
			if !p.Success {
				failed++
			}
		}
		props["providers"] = len(summary.Providers)
		props["providers_failed"] = failed
	}
	middleware.PosthogEvent(c, h.analytics, "exchange_rates_refreshed", props)

	c.JSON(http.StatusOK, dto.ToProviderUpdateResponse(summary))
}

// operator is the authenticated user, or the configured default when auth is off.
func (h *exchangeRateHandler) operator(c *gin.Context) string {
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		return userID
	}
	return h.defaultOperator
}

func parseRateID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Exchange rate ID must be a positive integer"})
		return 0, false
	}
	return id, true
}

// respondServiceError maps service errors onto HTTP statuses. Backend details are relayed verbatim.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, action string) {
	var apiErr *apperrors.APIError
	switch {
	case errors.Is(err, apperrors.ErrConfirmationRequired):
		logger.Warn("Confirmation missing to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": "Confirmation required: repeat the request with confirm=true"})
	case errors.Is(err, apperrors.ErrInProgress):
		logger.Warn("Rejected concurrent request to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": "An update is already in progress"})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Exchange rate not found to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.UserMessage(err)})
	case errors.Is(err, apperrors.ErrUnavailable):
		logger.Error("Backend unreachable to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": apperrors.MsgCannotReachServer})
	case errors.As(err, &apiErr):
		logger.Error("Backend failed to "+action, slog.Int("backend_status", apiErr.StatusCode), slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": apiErr.Detail})
	default:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.MsgUnexpectedServerErr})
	}
}

// validationMessage prefers the backend's own detail over the wrapped chain.
func validationMessage(err error) string {
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return err.Error()
}
