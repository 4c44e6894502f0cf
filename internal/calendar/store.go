package calendar

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Snapshot is the full persisted state: user holidays and schedules
type Snapshot struct {
	UserHolidays map[HolidayKey]string `json:"user_holidays"`
	Schedules    map[Date][]string     `json:"schedules"`
}

// NewSnapshot returns a snapshot with empty, non-nil maps
func NewSnapshot() Snapshot {
	return Snapshot{
		UserHolidays: make(map[HolidayKey]string),
		Schedules:    make(map[Date][]string),
	}
}

// Gateway loads and saves whole snapshots. Load returns an empty snapshot
// when nothing has been saved yet.
type Gateway interface {
	Load() (Snapshot, error)
	Save(Snapshot) error
}

// Option configures a Store
type Option func(*Store)

// WithClock sets the function used to determine today's date
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// Store owns the holiday registry and the schedule store and writes every
// mutation through to the gateway before applying it in memory.
type Store struct {
	mu        sync.Mutex
	gateway   Gateway
	now       func() time.Time
	log       *zap.SugaredLogger
	holidays  *HolidayRegistry
	schedules *ScheduleStore
}

// NewStore loads the last snapshot from gateway and returns the store
func NewStore(gateway Gateway, opts ...Option) (*Store, error) {
	s := &Store{
		gateway: gateway,
		now:     time.Now,
		log:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}

	snap, err := gateway.Load()
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}

	s.sanitize(&snap)
	s.holidays = NewHolidayRegistry(fixedHolidays, snap.UserHolidays)
	s.schedules = NewScheduleStore(snap.Schedules)
	s.log.Infof("Loaded %d user holidays and %d schedules", len(snap.UserHolidays), s.schedules.Len())
	return s, nil
}

// Today returns the current local calendar date
func (s *Store) Today() Date {
	return DateOf(s.now())
}

// AddUserHoliday stores name as a user holiday on date's day and month.
// A later add on the same key replaces the earlier name.
func (s *Store) AddUserHoliday(date Date, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkNotPast(date); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Reason: ReasonEmptyName}
	}

	key := date.Key()
	snap := s.snapshotLocked()
	snap.UserHolidays[key] = name
	if err := s.gateway.Save(snap); err != nil {
		s.log.Errorf("Error saving user holiday %s: %v", key, err)
		return &PersistenceError{Op: "save", Err: err}
	}

	s.holidays.set(key, name)
	s.log.Infof("Added user holiday %s: %s", key, name)
	return nil
}

// HolidaysOn returns the fixed and user holidays falling on date, fixed first
func (s *Store) HolidaysOn(date Date) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holidays.On(date.Key())
}

// MonthView returns the holidays of every existing day in month
func (s *Store) MonthView(year int, month time.Month) MonthView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holidays.Month(year, month)
}

// YearView returns twelve month views in calendar order
func (s *Store) YearView(year int) []MonthView {
	s.mu.Lock()
	defer s.mu.Unlock()

	months := make([]MonthView, 0, 12)
	for m := time.January; m <= time.December; m++ {
		months = append(months, s.holidays.Month(year, m))
	}
	return months
}

// CreateSchedule replaces the schedule for date with the non-blank,
// trimmed items
func (s *Store) CreateSchedule(date Date, items []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkNotPast(date); err != nil {
		return err
	}
	items = NormalizeItems(items)
	if len(items) == 0 {
		return &ValidationError{Reason: ReasonEmptySchedule}
	}

	snap := s.snapshotLocked()
	snap.Schedules[date] = items
	if err := s.gateway.Save(snap); err != nil {
		s.log.Errorf("Error saving schedule for %s: %v", date, err)
		return &PersistenceError{Op: "save", Err: err}
	}

	s.schedules.replace(date, items)
	s.log.Infof("Saved schedule for %s (%d items)", date, len(items))
	return nil
}

// GetSchedule returns the events for date. ok is false when no schedule
// exists for that exact date.
func (s *Store) GetSchedule(date Date) (items []string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedules.Get(date)
}

// ScheduleDates returns all dates with a schedule in ascending order
func (s *Store) ScheduleDates() []Date {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedules.Dates()
}

// Snapshot returns a deep copy of the persisted state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// snapshotLocked copies state (caller must hold lock)
func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		UserHolidays: s.holidays.UserHolidays(),
		Schedules:    s.schedules.Entries(),
	}
}

// sanitize applies the write-path rules to a loaded snapshot. Names and
// items are trimmed; entries left empty are dropped.
func (s *Store) sanitize(snap *Snapshot) {
	for key, name := range snap.UserHolidays {
		name = strings.TrimSpace(name)
		if name == "" {
			s.log.Warnf("Dropping user holiday %s with empty name", key)
			delete(snap.UserHolidays, key)
			continue
		}
		snap.UserHolidays[key] = name
	}
	for date, items := range snap.Schedules {
		items = NormalizeItems(items)
		if len(items) == 0 {
			s.log.Warnf("Dropping empty schedule for %s", date)
			delete(snap.Schedules, date)
			continue
		}
		snap.Schedules[date] = items
	}
}

func (s *Store) checkNotPast(date Date) error {
	if date.Before(s.Today()) {
		return &ValidationError{Reason: ReasonDateInPast}
	}
	return nil
}
