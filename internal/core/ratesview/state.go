package ratesview

import (
	"github.com/SscSPs/printfleet_dashboard/internal/core/domain"
)

// State is the whole exchange-rate page: fetched data, criteria and progress flags.
// It is a value; Reduce returns a new State and never mutates the slices it was given.
type State struct {
	Current    *domain.CurrentRateSnapshot
	CurrentErr string
	History    []domain.ExchangeRateRecord // sorted, most recent first
	Filtered   []domain.ExchangeRateRecord
	Criteria   domain.FilterCriteria
	Loading    bool
	Updating   bool
	LoadSeq    uint64

	currentPending bool
	historyPending bool
}

// NewState is the page as first rendered: nothing loaded, default criteria.
func NewState() State {
	return State{Criteria: domain.DefaultFilterCriteria()}
}

// Action is a discrete event that moves the page from one State to the next.
type Action interface {
	apply(State) State
}

// Reduce applies a to s.
func Reduce(s State, a Action) State {
	return a.apply(s)
}

// View caps the filtered history to limit rows.
func (s State) View(limit int) HistoryView {
	return CapHistory(s.Filtered, len(s.History), limit)
}

// FiltersActive reports whether the current criteria narrow the history.
func (s State) FiltersActive() bool {
	return IsActive(s.Criteria)
}

// FindRecord looks a record up by id in the loaded history.
func (s State) FindRecord(id int64) (domain.ExchangeRateRecord, bool) {
	for _, r := range s.History {
		if r.ID == id {
			return r, true
		}
	}
	return domain.ExchangeRateRecord{}, false
}

// LoadStarted begins fetch number Seq. Responses belonging to older fetches are ignored afterwards.
type LoadStarted struct{ Seq uint64 }

func (a LoadStarted) apply(s State) State {
	if a.Seq < s.LoadSeq {
		return s
	}
	s.LoadSeq = a.Seq
	s.Loading = true
	s.currentPending = true
	s.historyPending = true
	return s
}

// CurrentLoaded delivers the current-rate fetch. A nil Snapshot means it failed;
// Err is the message shown in the error panel.
type CurrentLoaded struct {
	Seq      uint64
	Snapshot *domain.CurrentRateSnapshot
	Err      string
}

func (a CurrentLoaded) apply(s State) State {
	if a.Seq != s.LoadSeq {
		return s
	}
	s.Current = a.Snapshot
	s.CurrentErr = ""
	if a.Snapshot == nil {
		s.CurrentErr = a.Err
	}
	s.currentPending = false
	s.Loading = s.currentPending || s.historyPending
	return s
}

// HistoryLoaded delivers the history fetch. Records are sorted here, once per fetch.
type HistoryLoaded struct {
	Seq     uint64
	Records []domain.ExchangeRateRecord
}

func (a HistoryLoaded) apply(s State) State {
	if a.Seq != s.LoadSeq {
		return s
	}
	s.History = SortHistory(a.Records)
	s.Filtered = ApplyFilters(s.History, s.Criteria)
	s.historyPending = false
	s.Loading = s.currentPending || s.historyPending
	return s
}

// CriteriaChanged replaces the criteria and re-filters the full history.
type CriteriaChanged struct{ Criteria domain.FilterCriteria }

func (a CriteriaChanged) apply(s State) State {
	s.Criteria = a.Criteria
	s.Filtered = ApplyFilters(s.History, s.Criteria)
	return s
}

// CriteriaReset restores default criteria in one step and re-filters.
type CriteriaReset struct{}

func (CriteriaReset) apply(s State) State {
	return CriteriaChanged{Criteria: ResetCriteria()}.apply(s)
}

// UpdateStarted marks an update-from-api request as in flight.
type UpdateStarted struct{}

func (UpdateStarted) apply(s State) State {
	s.Updating = true
	return s
}

// UpdateFinished clears the in-flight update flag.
type UpdateFinished struct{}

func (UpdateFinished) apply(s State) State {
	s.Updating = false
	return s
}
