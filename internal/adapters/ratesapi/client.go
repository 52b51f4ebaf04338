// Package ratesapi is the client for the printer-fleet backend's exchange-rate endpoints.
package ratesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/printfleet_dashboard/internal/apperrors"
	"github.com/SscSPs/printfleet_dashboard/internal/core/domain"
	"github.com/SscSPs/printfleet_dashboard/internal/middleware"
	portsrepo "github.com/SscSPs/printfleet_dashboard/internal/core/ports/repositories"
)

// DefaultHistoryDays is the trailing window requested when callers pass no day count.
const DefaultHistoryDays = 30

// Client talks to the backend REST API. It sends no Authorization header unless a
// bearer token is configured.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	bearerToken string
	historyDays int
	location    *time.Location
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBearerToken attaches "Authorization: Bearer <token>" to every request.
func WithBearerToken(token string) Option {
	return func(c *Client) { c.bearerToken = token }
}

// WithDefaultHistoryDays sets the window used when GetHistory is called with days <= 0.
func WithDefaultHistoryDays(days int) Option {
	return func(c *Client) {
		if days > 0 {
			c.historyDays = days
		}
	}
}

// WithLocation sets the location used for backend timestamps that carry no offset.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithLogger sets the logger used when no request-scoped logger is in the context.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client rooted at baseURL (e.g. "http://localhost:8000").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{},
		historyDays: DefaultHistoryDays,
		location:    time.Local,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	_ portsrepo.ExchangeRateRepositoryFacade = (*Client)(nil)
	_ portsrepo.RateRefresher                = (*Client)(nil)
)

// GetCurrentRate fetches GET /exchange-rates/current.
func (c *Client) GetCurrentRate(ctx context.Context) (*domain.CurrentRateSnapshot, error) {
	var raw map[string]json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/exchange-rates/current", nil, &raw); err != nil {
		return nil, fmt.Errorf("get current rate: %w", err)
	}
	snap, err := AdaptCurrentRate(raw, c.location)
	if err != nil {
		return nil, fmt.Errorf("get current rate: %w", err)
	}
	return snap, nil
}

// GetHistory fetches GET /exchange-rates/history?days=n. The backend filters on effective date.
// Records whose timestamps cannot be read are logged and left out.
func (c *Client) GetHistory(ctx context.Context, days int) ([]domain.ExchangeRateRecord, error) {
	if days <= 0 {
		days = c.historyDays
	}
	path := "/exchange-rates/history?" + url.Values{"days": {strconv.Itoa(days)}}.Encode()

	var wire []rateRecordWire
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	records := make([]domain.ExchangeRateRecord, 0, len(wire))
	for _, w := range wire {
		r, err := w.toDomain(c.location)
		if err != nil {
			c.loggerFor(ctx).Warn("Skipping unreadable exchange rate record",
				slog.Int64("record_id", w.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// CreateRate issues POST /exchange-rates/.
func (c *Client) CreateRate(ctx context.Context, p domain.RatePayload) (*domain.ExchangeRateRecord, error) {
	rec, err := c.writeRate(ctx, http.MethodPost, "/exchange-rates/", p)
	if err != nil {
		return nil, fmt.Errorf("create rate: %w", err)
	}
	return rec, nil
}

// UpdateRate issues PUT /exchange-rates/{id}. The backend decides which fields are mutable.
func (c *Client) UpdateRate(ctx context.Context, id int64, p domain.RatePayload) (*domain.ExchangeRateRecord, error) {
	rec, err := c.writeRate(ctx, http.MethodPut, "/exchange-rates/"+strconv.FormatInt(id, 10), p)
	if err != nil {
		return nil, fmt.Errorf("update rate %d: %w", id, err)
	}
	return rec, nil
}

// DeleteRate issues DELETE /exchange-rates/{id}.
func (c *Client) DeleteRate(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, "/exchange-rates/"+strconv.FormatInt(id, 10), nil, nil); err != nil {
		return fmt.Errorf("delete rate %d: %w", id, err)
	}
	return nil
}

// UpdateFromAPI issues POST /exchange-rates/update-from-api and returns the provider summary.
func (c *Client) UpdateFromAPI(ctx context.Context) (*domain.ProviderUpdateSummary, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/exchange-rates/update-from-api", nil, &raw); err != nil {
		return nil, fmt.Errorf("update from api: %w", err)
	}
	return parseProviderSummary(raw), nil
}

func (c *Client) loggerFor(ctx context.Context) *slog.Logger {
	if logger, ok := middleware.LoggerFromCtx(ctx); ok {
		return logger
	}
	return c.logger
}

func (c *Client) writeRate(ctx context.Context, method, path string, p domain.RatePayload) (*domain.ExchangeRateRecord, error) {
	var raw json.RawMessage
	if err := c.do(ctx, method, path, newRatePayloadWire(p), &raw); err != nil {
		return nil, err
	}
	// Some backend versions answer writes with a bare message instead of the record.
	var w rateRecordWire
	if len(bytes.TrimSpace(raw)) == 0 || json.Unmarshal(raw, &w) != nil || w.ID == 0 {
		return nil, nil
	}
	rec, err := w.toDomain(c.location)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// do performs one request. A nil out discards the body. Transport failures wrap
// apperrors.ErrUnavailable; non-2xx answers become *apperrors.APIError.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", apperrors.ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apperrors.APIError{StatusCode: resp.StatusCode, Detail: parseDetail(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseDetail extracts the `detail` field of an error body. FastAPI validation errors
// carry a list of {msg} objects instead of a string.
func parseDetail(data []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return apperrors.MsgUnexpectedServerErr
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil && s != "" {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return apperrors.MsgUnexpectedServerErr
}
