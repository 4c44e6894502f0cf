package app

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/klabast/wb-services/holiday-planner/internal/calendar"
)

// Export event kinds
const (
	KindHoliday  = "holiday"
	KindSchedule = "schedule"
)

// uidNamespace seeds the name-based UUIDs of exported events so that
// re-exports keep stable UIDs
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/klabast/wb-services/holiday-planner"))

// ExportEvent is one all-day entry of a yearly export
type ExportEvent struct {
	Date    calendar.Date `json:"date"`
	Kind    string        `json:"kind"`
	Summary string        `json:"summary"`
	Items   []string      `json:"items,omitempty"`
}

// UID returns the stable identifier of e
func (e ExportEvent) UID() string {
	return uuid.NewSHA1(uidNamespace, []byte(e.Date.String()+"|"+e.Kind+"|"+e.Summary)).String() + "@holiday-planner"
}

// CollectYear gathers the holidays and schedules of year in date order.
// Holidays come before a schedule on the same day.
func CollectYear(cal Calendar, year int) []ExportEvent {
	var events []ExportEvent
	for _, month := range cal.YearView(year) {
		for _, day := range month.Days {
			date, err := calendar.NewDate(year, month.Month, day.Day)
			if err != nil {
				continue
			}
			for _, name := range day.Names {
				events = append(events, ExportEvent{Date: date, Kind: KindHoliday, Summary: name})
			}
		}
	}

	var schedules []ExportEvent
	for _, date := range cal.ScheduleDates() {
		if date.Year != year {
			continue
		}
		items, ok := cal.GetSchedule(date)
		if !ok {
			continue
		}
		schedules = append(schedules, ExportEvent{
			Date:    date,
			Kind:    KindSchedule,
			Summary: fmt.Sprintf("Расписание (%d)", len(items)),
			Items:   items,
		})
	}

	return mergeByDate(events, schedules)
}

// mergeByDate merges two date-ordered lists, preferring a on ties
func mergeByDate(a, b []ExportEvent) []ExportEvent {
	out := make([]ExportEvent, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if b[j].Date.Before(a[i].Date) {
			out = append(out, b[j])
			j++
		} else {
			out = append(out, a[i])
			i++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// GenerateICS writes an iCalendar file with one all-day event per entry
func (s *Server) GenerateICS(w http.ResponseWriter, year int, events []ExportEvent) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=holiday_planner_%d.ics", year))
	if err := WriteICS(w, year, events, time.Now()); err != nil {
		s.log.Errorf("Error writing ICS export: %v", err)
	}
}

// WriteICS renders the calendar body
func WriteICS(w io.Writer, year int, events []ExportEvent, stamp time.Time) error {
	var b strings.Builder

	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString(fmt.Sprintf("PRODID:%s\r\n", ICSProductID))
	contentLine(&b, "X-WR-CALNAME", escapeText(fmt.Sprintf("Календарь %d", year)))
	b.WriteString("CALSCALE:GREGORIAN\r\n")

	for _, event := range events {
		start := event.Date.Time()
		b.WriteString("BEGIN:VEVENT\r\n")
		b.WriteString(fmt.Sprintf("UID:%s\r\n", event.UID()))
		b.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp.UTC().Format("20060102T150405Z")))
		b.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", start.Format("20060102")))
		b.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", start.AddDate(0, 0, 1).Format("20060102")))
		contentLine(&b, "SUMMARY", escapeText(event.Summary))
		if len(event.Items) > 0 {
			contentLine(&b, "DESCRIPTION", escapeText(numbered(event.Items)))
		}
		b.WriteString(fmt.Sprintf("CATEGORIES:%s\r\n", strings.ToUpper(event.Kind)))
		b.WriteString("END:VEVENT\r\n")
	}

	b.WriteString("END:VCALENDAR\r\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// maxLineOctets is the content line limit before folding
const maxLineOctets = 75

// contentLine writes name:value folded to maxLineOctets
func contentLine(b *strings.Builder, name, value string) {
	b.WriteString(foldLine(name + ":" + value))
	b.WriteString("\r\n")
}

// foldLine splits line into chunks of at most maxLineOctets bytes joined by
// CRLF and a space. Multi-byte runes are never split.
func foldLine(line string) string {
	if len(line) <= maxLineOctets {
		return line
	}

	var b strings.Builder
	n := 0
	for len(line) > 0 {
		_, size := utf8.DecodeRuneInString(line)
		if n+size > maxLineOctets {
			b.WriteString("\r\n ")
			n = 1
		}
		b.WriteString(line[:size])
		n += size
		line = line[size:]
	}
	return b.String()
}

func numbered(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%d. %s", i+1, item)
	}
	return strings.Join(lines, "\n")
}

func escapeText(text string) string {
	text = strings.ReplaceAll(text, "\\", "\\\\")
	text = strings.ReplaceAll(text, ";", "\\;")
	text = strings.ReplaceAll(text, ",", "\\,")
	text = strings.ReplaceAll(text, "\n", "\\n")
	return text
}

// csvRow is one CSV line: a holiday name or a single schedule item
type csvRow struct {
	Date     string `csv:"date"`
	Kind     string `csv:"kind"`
	Position int    `csv:"position"`
	Text     string `csv:"text"`
}

// WriteCSV renders events as CSV, one row per holiday or schedule item
func WriteCSV(w io.Writer, events []ExportEvent) error {
	rows := []*csvRow{}
	for _, event := range events {
		if event.Kind == KindHoliday {
			rows = append(rows, &csvRow{Date: event.Date.String(), Kind: event.Kind, Text: event.Summary})
			continue
		}
		for i, item := range event.Items {
			rows = append(rows, &csvRow{Date: event.Date.String(), Kind: event.Kind, Position: i + 1, Text: item})
		}
	}
	return gocsv.Marshal(&rows, w)
}

// GenerateCSV writes a CSV download
func (s *Server) GenerateCSV(w http.ResponseWriter, year int, events []ExportEvent) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=holiday_planner_%d.csv", year))
	if err := WriteCSV(w, events); err != nil {
		s.log.Errorf("Error encoding CSV export: %v", err)
	}
}

// GenerateJSON writes a JSON download
func (s *Server) GenerateJSON(w http.ResponseWriter, year int, events []ExportEvent) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=holiday_planner_%d.json", year))

	data := map[string]interface{}{
		"year":   year,
		"events": events,
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Error encoding JSON export: %v", err)
		http.Error(w, ErrFailedToGenerateJSON, http.StatusInternalServerError)
	}
}
