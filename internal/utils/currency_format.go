package utils

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatGrouped formats amount with two decimals and comma thousands separators.
// Example: 1445.5 returns "1,445.50"
// Example: 0.014 returns "0.01"
func FormatGrouped(amount decimal.Decimal) string {
	return humanize.FormatFloat("#,###.##", amount.Round(2).InexactFloat64())
}
