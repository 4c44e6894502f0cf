package calendar

import (
	"sort"
	"time"
)

// fixedHolidays is the built-in annual holiday table
var fixedHolidays = map[HolidayKey]string{
	{Day: 1, Month: time.January}:   "Новый год 🎉",
	{Day: 23, Month: time.February}: "День защитника Отечества ⚔️",
	{Day: 8, Month: time.March}:     "Международный женский день 🌸",
	{Day: 1, Month: time.May}:       "Праздник весны и труда 🍃",
	{Day: 9, Month: time.May}:       "День Победы 🌟",
	{Day: 12, Month: time.June}:     "День России 🇷🇺",
	{Day: 4, Month: time.November}:  "День народного единства 🕊️",
}

// FixedHolidays returns a copy of the built-in annual holiday table
func FixedHolidays() map[HolidayKey]string {
	out := make(map[HolidayKey]string, len(fixedHolidays))
	for k, v := range fixedHolidays {
		out[k] = v
	}
	return out
}

// DayHolidays lists the holidays of one day in a MonthView
type DayHolidays struct {
	Day   int      `json:"day"`
	Names []string `json:"names"`
}

// MonthView holds the days of one month that have at least one holiday,
// ordered by ascending day
type MonthView struct {
	Year  int           `json:"year"`
	Month time.Month    `json:"month"`
	Days  []DayHolidays `json:"days"`
}

// HolidayRegistry merges the fixed table with user holidays. The two layers
// stay independent and are merged at query time.
type HolidayRegistry struct {
	fixed map[HolidayKey]string
	user  map[HolidayKey]string
}

// NewHolidayRegistry creates a registry over fixed and user. user may be nil.
func NewHolidayRegistry(fixed, user map[HolidayKey]string) *HolidayRegistry {
	r := &HolidayRegistry{
		fixed: fixed,
		user:  make(map[HolidayKey]string, len(user)),
	}
	for k, v := range user {
		r.user[k] = v
	}
	return r
}

// On returns the fixed name followed by the user name for key
func (r *HolidayRegistry) On(key HolidayKey) []string {
	var names []string
	if name, ok := r.fixed[key]; ok {
		names = append(names, name)
	}
	if name, ok := r.user[key]; ok {
		names = append(names, name)
	}
	return names
}

// Month builds the MonthView for year and month. Days that do not exist in
// that month are skipped.
func (r *HolidayRegistry) Month(year int, month time.Month) MonthView {
	view := MonthView{Year: year, Month: month, Days: []DayHolidays{}}
	for day := 1; day <= 31; day++ {
		date, err := NewDate(year, month, day)
		if err != nil {
			continue
		}
		if names := r.On(date.Key()); len(names) > 0 {
			view.Days = append(view.Days, DayHolidays{Day: day, Names: names})
		}
	}
	return view
}

// UserHolidays returns a copy of the user layer
func (r *HolidayRegistry) UserHolidays() map[HolidayKey]string {
	out := make(map[HolidayKey]string, len(r.user))
	for k, v := range r.user {
		out[k] = v
	}
	return out
}

// set stores name under key, replacing any earlier user entry
func (r *HolidayRegistry) set(key HolidayKey, name string) {
	r.user[key] = name
}

// SortedKeys returns the keys of m in calendar order
func SortedKeys(m map[HolidayKey]string) []HolidayKey {
	keys := make([]HolidayKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Month != keys[j].Month {
			return keys[i].Month < keys[j].Month
		}
		return keys[i].Day < keys[j].Day
	})
	return keys
}
