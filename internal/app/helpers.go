package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/klabast/wb-services/holiday-planner/internal/calendar"
)

// RequireMethod validates that the request uses the specified HTTP method
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// writeJSON encodes v as the response body
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Errorf("Error encoding response: %v", err)
	}
}

// writeError maps core errors to HTTP status codes
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var vErr *calendar.ValidationError
	if errors.As(err, &vErr) {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"status": "invalid", "reason": vErr.Reason})
		return
	}
	s.log.Errorf("Error saving calendar: %v", err)
	http.Error(w, ErrFailedToSave, http.StatusInternalServerError)
}

// errorReason labels err for metrics
func errorReason(err error) string {
	var vErr *calendar.ValidationError
	var pErr *calendar.PersistenceError
	switch {
	case errors.As(err, &vErr):
		return vErr.Reason
	case errors.As(err, &pErr):
		return "persistence"
	default:
		return "internal"
	}
}

// parseDateParam reads a YYYY-MM-DD query parameter
func parseDateParam(r *http.Request, name string) (calendar.Date, bool) {
	d, err := calendar.ParseDate(r.URL.Query().Get(name))
	return d, err == nil
}

// parseYearParam reads the year query parameter, defaulting to fallback
func parseYearParam(r *http.Request, fallback int) (int, bool) {
	yearStr := r.URL.Query().Get("year")
	if yearStr == "" {
		return fallback, true
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1 || year > 9999 {
		return 0, false
	}
	return year, true
}

// parseMonthParam reads the optional month query parameter. ok is false for
// an invalid value; set is false when the parameter is absent.
func parseMonthParam(r *http.Request) (month time.Month, set, ok bool) {
	monthStr := r.URL.Query().Get("month")
	if monthStr == "" {
		return 0, false, true
	}
	m, err := strconv.Atoi(monthStr)
	if err != nil || m < 1 || m > 12 {
		return 0, true, false
	}
	return time.Month(m), true, true
}
