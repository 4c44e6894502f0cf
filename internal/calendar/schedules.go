package calendar

import (
	"sort"
	"strings"
)

// ScheduleStore keeps one ordered event list per calendar date
type ScheduleStore struct {
	entries map[Date][]string
}

// NewScheduleStore creates a store seeded with entries. entries may be nil.
func NewScheduleStore(entries map[Date][]string) *ScheduleStore {
	s := &ScheduleStore{entries: make(map[Date][]string, len(entries))}
	for d, items := range entries {
		s.entries[d] = append([]string(nil), items...)
	}
	return s
}

// Get returns the events stored for date in insertion order
func (s *ScheduleStore) Get(date Date) ([]string, bool) {
	items, ok := s.entries[date]
	if !ok {
		return nil, false
	}
	return append([]string(nil), items...), true
}

// Dates returns every date with a schedule in ascending order
func (s *ScheduleStore) Dates() []Date {
	dates := make([]Date, 0, len(s.entries))
	for d := range s.entries {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Entries returns a deep copy of all schedules
func (s *ScheduleStore) Entries() map[Date][]string {
	out := make(map[Date][]string, len(s.entries))
	for d, items := range s.entries {
		out[d] = append([]string(nil), items...)
	}
	return out
}

// Len returns the number of dates with a schedule
func (s *ScheduleStore) Len() int {
	return len(s.entries)
}

// replace overwrites the schedule for date
func (s *ScheduleStore) replace(date Date, items []string) {
	s.entries[date] = items
}

// NormalizeItems trims every item and drops blank ones, keeping order
func NormalizeItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// SplitItems splits multi-line text into schedule items, one per line
func SplitItems(text string) []string {
	return NormalizeItems(strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"))
}
