package ratesview

import (
	"fmt"

	"github.com/SscSPs/printfleet_dashboard/internal/core/domain"
)

// DefaultDisplayCap is the number of rows rendered when no other cap is configured.
const DefaultDisplayCap = 15

// Row is one rendered history line.
type Row struct {
	Record      domain.ExchangeRateRecord
	DisplayRate string
}

// HistoryView is the capped history table plus the counts shown beneath it.
// Filtered keeps the full filtered list; Rows is only a slice of it.
type HistoryView struct {
	Rows             []Row
	Filtered         []domain.ExchangeRateRecord
	Shown            int
	FilteredTotal    int
	HistoryTotal     int
	Truncated        bool
	Summary          string
	TruncationNotice string
}

// CapHistory renders at most limit rows of filtered, in order. historyTotal is the
// unfiltered history size, reported when it differs from the filtered count.
// A non-positive limit falls back to DefaultDisplayCap.
func CapHistory(filtered []domain.ExchangeRateRecord, historyTotal, limit int) HistoryView {
	if limit <= 0 {
		limit = DefaultDisplayCap
	}
	shown := min(len(filtered), limit)

	rows := make([]Row, shown)
	for i, rec := range filtered[:shown] {
		rows[i] = Row{Record: rec, DisplayRate: DisplayRate(rec)}
	}

	v := HistoryView{
		Rows:          rows,
		Filtered:      filtered,
		Shown:         shown,
		FilteredTotal: len(filtered),
		HistoryTotal:  historyTotal,
		Truncated:     len(filtered) > limit,
	}
	v.Summary = fmt.Sprintf("Mostrando %d de %d registros", v.Shown, v.FilteredTotal)
	if v.FilteredTotal != v.HistoryTotal {
		v.Summary += fmt.Sprintf(" (filtrados de %d en total)", v.HistoryTotal)
	}
	if v.Truncated {
		v.TruncationNotice = fmt.Sprintf("Se muestran solo los %d registros más recientes. Ajuste los filtros para acotar la búsqueda.", limit)
	}
	return v
}
