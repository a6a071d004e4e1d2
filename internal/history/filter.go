package history

import (
	"strings"
	"time"
)

// Filter combines a free-text query with an optional inclusive date range.
// The query is matched as a substring against each record's precomputed
// search index, so matching is case-insensitive and O(1) per field lookup.
type Filter struct {
	Query string
	Start *time.Time
	End   *time.Time
}

// DayRange widens [start, end] to full days: start is floored to 00:00:00
// and end ceiled to 23:59:59, both in the timestamps' own locations.
func DayRange(start, end time.Time) (time.Time, time.Time) {
	floored := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	ceiled := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location())
	return floored, ceiled
}

// Predicate returns the match function installed on the presentation sink.
// The function closes over a normalized copy of the filter, so a Filter can
// be mutated and re-installed without affecting predicates already handed
// out.
func (f Filter) Predicate() func(BalanceChange) bool {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	start, end := f.Start, f.End
	return func(r BalanceChange) bool {
		if start != nil && r.Date.Before(*start) {
			return false
		}
		if end != nil && r.Date.After(*end) {
			return false
		}
		if query == "" {
			return true
		}
		return strings.Contains(r.SearchIndex, query)
	}
}
