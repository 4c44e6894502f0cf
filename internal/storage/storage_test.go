package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/klabast/wb-services/holiday-planner/internal/calendar"
)

func testSnapshot() calendar.Snapshot {
	return calendar.Snapshot{
		UserHolidays: map[calendar.HolidayKey]string{
			{Day: 4, Month: time.July}:      "Team Day",
			{Day: 29, Month: time.February}: "Високосный 🐸",
		},
		Schedules: map[calendar.Date][]string{
			{Year: 2030, Month: time.July, Day: 4}:    {"09:00 Завтрак", "10:00  Парад", "Салют"},
			{Year: 2027, Month: time.January, Day: 1}: {"спать"},
		},
	}
}

func nopLog() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func TestFileGatewayRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")
	gw := NewFileGateway(path, nopLog())

	require.NoError(t, gw.Save(testSnapshot()))

	loaded, err := gw.Load()
	require.NoError(t, err)
	assert.Equal(t, testSnapshot(), loaded)
}

func TestFileGatewayWireFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	gw := NewFileGateway(path, nopLog())
	snap := calendar.NewSnapshot()
	snap.UserHolidays[calendar.HolidayKey{Day: 23, Month: time.February}] = "X"
	snap.Schedules[calendar.Date{Year: 2030, Month: time.July, Day: 4}] = []string{"a", "b"}

	require.NoError(t, gw.Save(snap))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_holidays":{"23-02":"X"},"schedules":{"2030-07-04":["a","b"]}}`, string(data))
}

func TestFileGatewayMissingFile(t *testing.T) {
	gw := NewFileGateway(filepath.Join(t.TempDir(), "data.json"), nopLog())

	snap, err := gw.Load()
	require.NoError(t, err)
	assert.NotNil(t, snap.UserHolidays)
	assert.NotNil(t, snap.Schedules)
	assert.Empty(t, snap.UserHolidays)
	assert.Empty(t, snap.Schedules)
}

func TestFileGatewayKeepsBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	gw := NewFileGateway(path, nopLog())

	first := calendar.NewSnapshot()
	first.UserHolidays[calendar.HolidayKey{Day: 1, Month: time.June}] = "first"
	require.NoError(t, gw.Save(first))
	require.NoError(t, gw.Save(testSnapshot()))

	_, err := os.Stat(path + TmpSuffix)
	assert.True(t, os.IsNotExist(err), "temp file must be renamed away")

	backup, err := NewFileGateway(path+BackupSuffix, nopLog()).Load()
	require.NoError(t, err)
	assert.Equal(t, first, backup)
}

func TestFileGatewayRecoversFromBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	data, err := Encode(testSnapshot())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path+BackupSuffix, data, FilePermissions))
	require.NoError(t, os.WriteFile(path+TmpSuffix, []byte(`{"user_hol`), FilePermissions))

	snap, err := NewFileGateway(path, nopLog()).Load()
	require.NoError(t, err)
	assert.Equal(t, testSnapshot(), snap)
}

func TestFileGatewayCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"user_holidays": {"31-02": "bad"}}`), FilePermissions))

	_, err := NewFileGateway(path, nopLog()).Load()
	assert.ErrorContains(t, err, "invalid calendar date")
}

func TestDecodeMissingSections(t *testing.T) {
	snap, err := Decode([]byte(`{"schedules": {"2030-01-02": ["x"]}}`))
	require.NoError(t, err)
	assert.Empty(t, snap.UserHolidays)
	assert.NotNil(t, snap.UserHolidays)
	assert.Equal(t, []string{"x"}, snap.Schedules[calendar.Date{Year: 2030, Month: time.January, Day: 2}])
}

func TestSQLiteGatewayRoundTrip(t *testing.T) {
	gw, err := OpenSQLite(":memory:", nopLog())
	require.NoError(t, err)
	t.Cleanup(func() { gw.Close() })

	empty, err := gw.Load()
	require.NoError(t, err)
	assert.Empty(t, empty.UserHolidays)
	assert.Empty(t, empty.Schedules)

	require.NoError(t, gw.Save(testSnapshot()))
	loaded, err := gw.Load()
	require.NoError(t, err)
	assert.Equal(t, testSnapshot(), loaded)

	// A second save replaces the snapshot entirely
	next := calendar.NewSnapshot()
	next.Schedules[calendar.Date{Year: 2030, Month: time.July, Day: 4}] = []string{"only"}
	require.NoError(t, gw.Save(next))
	loaded, err = gw.Load()
	require.NoError(t, err)
	assert.Equal(t, next, loaded)
}

func TestSQLiteGatewayFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.db")
	gw, err := OpenSQLite(path, nopLog())
	require.NoError(t, err)
	require.NoError(t, gw.Save(testSnapshot()))
	require.NoError(t, gw.Close())

	reopened, err := OpenSQLite(path, nopLog())
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })
	loaded, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, testSnapshot(), loaded)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	gw, err := Open(BackendJSON, filepath.Join(dir, "data.json"), nopLog())
	require.NoError(t, err)
	assert.NoError(t, gw.Close())

	gw, err = Open(BackendSQLite, filepath.Join(dir, "data.db"), nopLog())
	require.NoError(t, err)
	assert.NoError(t, gw.Close())

	_, err = Open("redis", "", nopLog())
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestStoreOverFileGateway(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	clock := calendar.WithClock(func() time.Time { return time.Date(2026, time.October, 18, 9, 0, 0, 0, time.Local) })

	store, err := calendar.NewStore(NewFileGateway(path, nopLog()), clock)
	require.NoError(t, err)
	date := calendar.Date{Year: 2030, Month: time.July, Day: 4}
	require.NoError(t, store.AddUserHoliday(date, "Team Day"))
	require.NoError(t, store.CreateSchedule(date, []string{"b", "a"}))

	reloaded, err := calendar.NewStore(NewFileGateway(path, nopLog()), clock)
	require.NoError(t, err)
	assert.Equal(t, []string{"Team Day"}, reloaded.HolidaysOn(date))
	items, ok := reloaded.GetSchedule(date)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, items)
}

func TestStoreSanitizesLoadedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	content := `{"user_holidays":{"05-05":"   "},"schedules":{"2030-01-01":[],"2030-01-02":["  x  ",""]}}`
	require.NoError(t, os.WriteFile(path, []byte(content), FilePermissions))

	store, err := calendar.NewStore(NewFileGateway(path, nopLog()))
	require.NoError(t, err)

	_, ok := store.GetSchedule(calendar.Date{Year: 2030, Month: time.January, Day: 1})
	assert.False(t, ok)
	items, ok := store.GetSchedule(calendar.Date{Year: 2030, Month: time.January, Day: 2})
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, items)
	assert.Empty(t, store.HolidaysOn(calendar.Date{Year: 2030, Month: time.May, Day: 5}))
}
