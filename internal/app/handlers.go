package app

import (
	"encoding/json"
	"net/http"

	"github.com/klabast/wb-services/holiday-planner/internal/calendar"
)

// holidayEntry is one row of the fixed holiday table
type holidayEntry struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// GetConfig returns the fixed holiday table and the current date
func (s *Server) GetConfig(w http.ResponseWriter, r *http.Request) {
	fixed := calendar.FixedHolidays()
	entries := make([]holidayEntry, 0, len(fixed))
	for _, key := range calendar.SortedKeys(fixed) {
		entries = append(entries, holidayEntry{Key: key.String(), Name: fixed[key]})
	}

	today := s.cal.Today()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"today":         today,
		"currentYear":   today.Year,
		"fixedHolidays": entries,
		"authRequired":  s.auth.Enabled(),
	})
}

// HandleHolidays returns the holidays on one date
// Query param: date (YYYY-MM-DD, required)
func (s *Server) HandleHolidays(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	date, ok := parseDateParam(r, "date")
	if !ok {
		http.Error(w, ErrInvalidDateFormat, http.StatusBadRequest)
		return
	}

	names := s.cal.HolidaysOn(date)
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"date": date, "names": names})
}

// HandleCalendar returns the month view, or all twelve months when month is
// omitted
// Query params: year (optional, defaults to current year), month (optional)
func (s *Server) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	year, ok := parseYearParam(r, s.cal.Today().Year)
	if !ok {
		http.Error(w, ErrInvalidYear, http.StatusBadRequest)
		return
	}
	month, set, ok := parseMonthParam(r)
	if !ok {
		http.Error(w, ErrInvalidMonth, http.StatusBadRequest)
		return
	}

	if set {
		s.writeJSON(w, http.StatusOK, s.cal.MonthView(year, month))
		return
	}
	s.writeJSON(w, http.StatusOK, s.cal.YearView(year))
}

// HandleSchedule returns the schedule stored for one date
// Query param: date (YYYY-MM-DD, required)
func (s *Server) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	date, ok := parseDateParam(r, "date")
	if !ok {
		http.Error(w, ErrInvalidDateFormat, http.StatusBadRequest)
		return
	}

	items, found := s.cal.GetSchedule(date)
	if !found {
		http.Error(w, ErrScheduleNotFound, http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"date": date, "items": items})
}

// AddHoliday adds a user holiday
func (s *Server) AddHoliday(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Date string `json:"date"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrInvalidBody, http.StatusBadRequest)
		return
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		http.Error(w, ErrInvalidDateFormat, http.StatusBadRequest)
		return
	}

	err = s.cal.AddUserHoliday(date, req.Name)
	s.metrics.Observe(KindHoliday, err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.refreshState()
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AddSchedule creates or replaces the schedule for a date. Items come either
// as a list or as multi-line text.
func (s *Server) AddSchedule(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Date  string   `json:"date"`
		Items []string `json:"items"`
		Text  string   `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrInvalidBody, http.StatusBadRequest)
		return
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		http.Error(w, ErrInvalidDateFormat, http.StatusBadRequest)
		return
	}

	items := req.Items
	if req.Text != "" {
		items = append(items, calendar.SplitItems(req.Text)...)
	}

	err = s.cal.CreateSchedule(date, items)
	s.metrics.Observe(KindSchedule, err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.refreshState()
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleDownload handles export downloads in ICS, CSV or JSON format
// Query params: year (optional), format (ics|csv|json)
func (s *Server) HandleDownload(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYearParam(r, s.cal.Today().Year)
	if !ok {
		http.Error(w, ErrInvalidYear, http.StatusBadRequest)
		return
	}

	events := CollectYear(s.cal, year)

	switch r.URL.Query().Get("format") {
	case "ics":
		s.GenerateICS(w, year, events)
	case "csv":
		s.GenerateCSV(w, year, events)
	case "json":
		s.GenerateJSON(w, year, events)
	default:
		http.Error(w, ErrInvalidFormat, http.StatusBadRequest)
	}
}
