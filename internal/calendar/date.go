package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Date layouts used at the system boundary
const (
	ISODateLayout     = "2006-01-02"
	InputDateLayout   = "02-01-2006"
	DisplayDateLayout = "02.01.2006"
)

// leapYear is used to validate HolidayKeys so that 29-02 is accepted
const leapYear = 2000

// ErrInvalidDate is returned when a day/month/year combination does not exist
var ErrInvalidDate = errors.New("invalid calendar date")

// Date is an absolute calendar date without time of day or timezone
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate validates and returns the date for year, month and day
func NewDate(year int, month time.Month, day int) (Date, error) {
	t := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, int(month), day)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// DateOf returns the calendar date of t in t's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (Date, error) {
	return parseLayout(ISODateLayout, s)
}

// ParseInputDate parses the DD-MM-YYYY format the shells ask users for
func ParseInputDate(s string) (Date, error) {
	return parseLayout(InputDateLayout, s)
}

func parseLayout(layout, s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// Time returns the date at noon UTC
func (d Date) Time() time.Time {
	// Use noon to avoid timezone issues when formatting
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
}

// Before reports whether d is strictly earlier than other
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// AddDays returns the date n days after d
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Key returns the year-independent holiday key of d
func (d Date) Key() HolidayKey {
	return HolidayKey{Day: d.Day, Month: d.Month}
}

// String formats d as YYYY-MM-DD
func (d Date) String() string {
	return d.Time().Format(ISODateLayout)
}

// Display formats d as DD.MM.YYYY
func (d Date) Display() string {
	return d.Time().Format(DisplayDateLayout)
}

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// HolidayKey identifies a recurring annual holiday by day and month
type HolidayKey struct {
	Day   int
	Month time.Month
}

// NewHolidayKey validates day and month against a leap year
func NewHolidayKey(day int, month time.Month) (HolidayKey, error) {
	if _, err := NewDate(leapYear, month, day); err != nil {
		return HolidayKey{}, fmt.Errorf("%w: %02d-%02d", ErrInvalidDate, day, int(month))
	}
	return HolidayKey{Day: day, Month: month}, nil
}

// ParseHolidayKey parses a DD-MM key
func ParseHolidayKey(s string) (HolidayKey, error) {
	if len(s) != 5 || s[2] != '-' || !isDigits(s[:2]) || !isDigits(s[3:]) {
		return HolidayKey{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	day, _ := strconv.Atoi(s[:2])
	month, _ := strconv.Atoi(s[3:])
	return NewHolidayKey(day, time.Month(month))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// In returns the concrete date of k in year. ok is false when the day does
// not exist in that year (29-02 outside leap years).
func (k HolidayKey) In(year int) (Date, bool) {
	d, err := NewDate(year, k.Month, k.Day)
	return d, err == nil
}

// String formats k as DD-MM
func (k HolidayKey) String() string {
	return fmt.Sprintf("%02d-%02d", k.Day, int(k.Month))
}

// MarshalText implements encoding.TextMarshaler
func (k HolidayKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *HolidayKey) UnmarshalText(text []byte) error {
	parsed, err := ParseHolidayKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
