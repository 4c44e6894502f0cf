package app

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/klabast/wb-services/holiday-planner/internal/calendar"
)

// Calendar is the core the web shell delegates to
type Calendar interface {
	Today() calendar.Date
	AddUserHoliday(date calendar.Date, name string) error
	HolidaysOn(date calendar.Date) []string
	MonthView(year int, month time.Month) calendar.MonthView
	YearView(year int) []calendar.MonthView
	CreateSchedule(date calendar.Date, items []string) error
	GetSchedule(date calendar.Date) ([]string, bool)
	ScheduleDates() []calendar.Date
	Snapshot() calendar.Snapshot
}

// Server is the web shell: a JSON API over a Calendar
type Server struct {
	cal     Calendar
	auth    *Authenticator
	metrics *Metrics
	log     *zap.SugaredLogger
}

// NewServer wires the web shell
func NewServer(cal Calendar, auth *Authenticator, metrics *Metrics, log *zap.SugaredLogger) *Server {
	s := &Server{cal: cal, auth: auth, metrics: metrics, log: log}
	s.refreshState()
	return s
}

// Routes returns the HTTP handler with all routes registered
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/config", s.GetConfig)
	mux.HandleFunc("/api/holidays", s.HandleHolidays)
	mux.HandleFunc("/api/calendar", s.HandleCalendar)
	mux.HandleFunc("/api/schedules", s.HandleSchedule)
	mux.HandleFunc("/api/download", s.HandleDownload)

	// Mutating routes (protected with Basic Auth)
	mux.HandleFunc("/api/holidays/add", s.auth.RequireAuth(s.AddHoliday))
	mux.HandleFunc("/api/schedules/add", s.auth.RequireAuth(s.AddSchedule))

	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	return mux
}

// refreshState updates the state gauges from the current snapshot
func (s *Server) refreshState() {
	snap := s.cal.Snapshot()
	s.metrics.SetState(len(snap.UserHolidays), len(snap.Schedules))
}
