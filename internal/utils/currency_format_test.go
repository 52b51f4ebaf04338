package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatGrouped(t *testing.T) {
	cases := map[string]string{
		"1445.5":    "1,445.50",
		"1445.505":  "1,445.51",
		"100":       "100.00",
		"0.014":     "0.01",
		"1234567.8": "1,234,567.80",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatGrouped(decimal.RequireFromString(in)), in)
	}
}
