package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-06-02T10:00:00Z", time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)},
		{"2024-06-02T10:00:00.123456", time.Date(2024, 6, 2, 10, 0, 0, 123456000, loc)},
		{"2024-06-02T10:00", time.Date(2024, 6, 2, 10, 0, 0, 0, loc)},
		{"2024-06-02 10:00:00", time.Date(2024, 6, 2, 10, 0, 0, 0, loc)},
		{"2024-06-02", time.Date(2024, 6, 2, 0, 0, 0, 0, loc)},
	}
	for _, tc := range cases {
		got, err := ParseTimestamp(tc.in, loc)
		require.NoError(t, err, tc.in)
		assert.True(t, tc.want.Equal(got), "%s: got %s want %s", tc.in, got, tc.want)
	}

	zero, err := ParseTimestamp("  ", loc)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = ParseTimestamp("yesterday", loc)
	assert.Error(t, err)
}

func TestNewManualRatePayload(t *testing.T) {
	now := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
	p := NewManualRatePayload(decimal.NewFromInt(1460), "test", "admin", now)

	assert.Equal(t, now, p.Date)
	assert.Equal(t, SourceManual, p.Source)
	assert.True(t, p.IsManualOverride)
	assert.Equal(t, 1.0, p.ConfidenceLevel)
	assert.Equal(t, "USD", p.BaseCurrency)
	assert.Equal(t, "ARS", p.TargetCurrency)
	assert.True(t, decimal.NewFromInt(1460).Equal(p.Rate))
}

func TestUpdatePayloadPreservesImmutableFields(t *testing.T) {
	author := "cron"
	effective := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rec := ExchangeRateRecord{
		ID:               7,
		EffectiveDate:    effective,
		RateValue:        decimal.NewFromInt(1440),
		Source:           SourceDolarAPI,
		IsManualOverride: false,
		ConfidenceLevel:  0.8,
		CreatedBy:        &author,
	}

	p := rec.UpdatePayload(decimal.NewFromInt(1445), "corrected")

	assert.Equal(t, effective, p.Date)
	assert.Equal(t, SourceDolarAPI, p.Source)
	assert.False(t, p.IsManualOverride)
	assert.Equal(t, 0.8, p.ConfidenceLevel)
	assert.Equal(t, "cron", p.CreatedBy)
	assert.Equal(t, "corrected", p.Notes)
	assert.True(t, decimal.NewFromInt(1445).Equal(p.Rate))
	assert.Equal(t, BaseCurrency, p.BaseCurrency)
}

func TestCurrentRateHeadline(t *testing.T) {
	buy := decimal.NewFromFloat(1420.5)
	sell := decimal.NewFromFloat(1460)
	legacy := decimal.NewFromFloat(1440)

	b, s, ok := CurrentRateSnapshot{Schema: CurrentRateSchemaBuySell, Buy: &buy, Sell: &sell, USDToARS: &legacy}.Headline()
	require.True(t, ok)
	assert.True(t, buy.Equal(b))
	assert.True(t, sell.Equal(s))

	b, s, ok = CurrentRateSnapshot{Schema: CurrentRateSchemaLegacy, USDToARS: &legacy}.Headline()
	require.True(t, ok)
	assert.True(t, legacy.Equal(b))
	assert.True(t, legacy.Equal(s))

	_, _, ok = CurrentRateSnapshot{}.Headline()
	assert.False(t, ok)
}

func TestParseRateUnit(t *testing.T) {
	assert.Equal(t, RateUnitARSPerUSD, ParseRateUnit("ARS_PER_USD"))
	assert.Equal(t, RateUnitUSDPerARS, ParseRateUnit("USD_PER_ARS"))
	assert.Equal(t, RateUnitUnknown, ParseRateUnit("ars_per_usd"))
	assert.Equal(t, RateUnitUnknown, ParseRateUnit(""))
}
