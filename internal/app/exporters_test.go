package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/klabast/wb-services/holiday-planner/internal/calendar"
	"github.com/klabast/wb-services/holiday-planner/internal/storage"
)

var testNow = time.Date(2026, time.October, 18, 10, 0, 0, 0, time.Local)

// newTestServer builds a server over a file-backed store in a temp dir
func newTestServer(t *testing.T, auth *Authenticator) (*Server, *calendar.Store) {
	t.Helper()
	log := zap.NewNop().Sugar()
	gw := storage.NewFileGateway(filepath.Join(t.TempDir(), "data.json"), log)
	store, err := calendar.NewStore(gw, calendar.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	if auth == nil {
		auth = &Authenticator{log: log}
	}
	return NewServer(store, auth, NewMetrics(), log), store
}

func seedExport(t *testing.T, store *calendar.Store) {
	t.Helper()
	require.NoError(t, store.AddUserHoliday(calendar.Date{Year: 2027, Month: time.May, Day: 9}, "Парад, салют"))
	require.NoError(t, store.CreateSchedule(calendar.Date{Year: 2027, Month: time.May, Day: 9}, []string{"10:00 Парад", "22:00 Салют"}))
	require.NoError(t, store.CreateSchedule(calendar.Date{Year: 2027, Month: time.February, Day: 1}, []string{"Отчёт"}))
	require.NoError(t, store.CreateSchedule(calendar.Date{Year: 2028, Month: time.February, Day: 1}, []string{"next year"}))
}

func TestCollectYear(t *testing.T) {
	_, store := newTestServer(t, nil)
	seedExport(t, store)

	events := CollectYear(store, 2027)

	var got []string
	for _, e := range events {
		got = append(got, e.Date.String()+" "+e.Kind+" "+e.Summary)
	}
	assert.Equal(t, []string{
		"2027-01-01 holiday Новый год 🎉",
		"2027-02-01 schedule Расписание (1)",
		"2027-02-23 holiday День защитника Отечества ⚔️",
		"2027-03-08 holiday Международный женский день 🌸",
		"2027-05-01 holiday Праздник весны и труда 🍃",
		"2027-05-09 holiday День Победы 🌟",
		"2027-05-09 holiday Парад, салют",
		"2027-05-09 schedule Расписание (2)",
		"2027-06-12 holiday День России 🇷🇺",
		"2027-11-04 holiday День народного единства 🕊️",
	}, got)
}

func TestWriteICS(t *testing.T) {
	_, store := newTestServer(t, nil)
	seedExport(t, store)
	events := CollectYear(store, 2027)

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, 2027, events, testNow))
	body := buf.String()

	for _, field := range []string{
		"BEGIN:VCALENDAR\r\n",
		"VERSION:2.0\r\n",
		"PRODID:" + ICSProductID + "\r\n",
		"DTSTART;VALUE=DATE:20270509\r\n",
		"DTEND;VALUE=DATE:20270510\r\n",
		"SUMMARY:Парад\\, салют\r\n",
		"DESCRIPTION:1. 10:00 Парад\\n2. 22:00 Салют\r\n",
		"CATEGORIES:SCHEDULE\r\n",
		"END:VCALENDAR\r\n",
	} {
		assert.Contains(t, body, field)
	}
	assert.Equal(t, len(events), strings.Count(body, "BEGIN:VEVENT"))
}

func TestFoldLine(t *testing.T) {
	short := "SUMMARY:Новый год 🎉"
	assert.Equal(t, short, foldLine(short))

	long := "SUMMARY:" + strings.Repeat("Праздник весны и труда 🍃 ", 6)
	folded := foldLine(long)

	for _, line := range strings.Split(folded, "\r\n") {
		assert.LessOrEqual(t, len(line), maxLineOctets)
		assert.True(t, utf8.ValidString(line), "split inside a rune: %q", line)
	}
	assert.Equal(t, long, strings.ReplaceAll(folded, "\r\n ", ""))
}

func TestWriteICSFoldsLongLines(t *testing.T) {
	items := []string{
		"09:00 Встреча с командой по планированию праздничных мероприятий",
		"13:00 Обед",
		"18:00 Поздравление коллег и вручение подарков",
	}
	events := []ExportEvent{{
		Date:    calendar.Date{Year: 2027, Month: time.March, Day: 8},
		Kind:    KindSchedule,
		Summary: "Международный женский день 🌸 и корпоративное мероприятие",
		Items:   items,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, 2027, events, testNow))

	for _, line := range strings.Split(buf.String(), "\r\n") {
		assert.LessOrEqual(t, len(line), maxLineOctets, line)
	}
	unfolded := strings.ReplaceAll(buf.String(), "\r\n ", "")
	assert.Contains(t, unfolded, "SUMMARY:Международный женский день 🌸 и корпоративное мероприятие\r\n")
	assert.Contains(t, unfolded, "DESCRIPTION:1. "+items[0]+"\\n2. 13:00 Обед\\n3. "+items[2]+"\r\n")
}

func TestExportUIDStable(t *testing.T) {
	e := ExportEvent{Date: calendar.Date{Year: 2027, Month: time.May, Day: 9}, Kind: KindHoliday, Summary: "День Победы 🌟"}
	assert.Equal(t, e.UID(), e.UID())
	assert.True(t, strings.HasSuffix(e.UID(), "@holiday-planner"))

	other := e
	other.Date = calendar.Date{Year: 2028, Month: time.May, Day: 9}
	assert.NotEqual(t, e.UID(), other.UID())
}

func TestWriteCSV(t *testing.T) {
	events := []ExportEvent{
		{Date: calendar.Date{Year: 2027, Month: time.January, Day: 1}, Kind: KindHoliday, Summary: "Новый год 🎉"},
		{Date: calendar.Date{Year: 2027, Month: time.January, Day: 2}, Kind: KindSchedule, Items: []string{"a", "b, c"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, events))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"date,kind,position,text",
		"2027-01-01,holiday,0,Новый год 🎉",
		"2027-01-02,schedule,1,a",
		`2027-01-02,schedule,2,"b, c"`,
	}, lines)
}

func TestHandleDownload(t *testing.T) {
	srv, store := newTestServer(t, nil)
	seedExport(t, store)
	handler := srv.Routes()

	tests := []struct {
		query       string
		status      int
		contentType string
	}{
		{"?year=2027&format=ics", http.StatusOK, "text/calendar"},
		{"?year=2027&format=csv", http.StatusOK, "text/csv"},
		{"?year=2027&format=json", http.StatusOK, "application/json"},
		{"?year=2027&format=pdf", http.StatusBadRequest, ""},
		{"?year=abc&format=ics", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/download"+tt.query, nil))

			assert.Equal(t, tt.status, w.Code)
			if tt.contentType != "" {
				assert.Contains(t, w.Header().Get("Content-Type"), tt.contentType)
				assert.Contains(t, w.Header().Get("Content-Disposition"), "holiday_planner_2027")
			}
		})
	}
}

func TestGenerateJSON(t *testing.T) {
	srv, store := newTestServer(t, nil)
	seedExport(t, store)

	w := httptest.NewRecorder()
	srv.GenerateJSON(w, 2027, CollectYear(store, 2027))

	var body struct {
		Year   int           `json:"year"`
		Events []ExportEvent `json:"events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2027, body.Year)
	require.Len(t, body.Events, 10)
	assert.Equal(t, calendar.Date{Year: 2027, Month: time.January, Day: 1}, body.Events[0].Date)
}
