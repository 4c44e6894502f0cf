package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/klabast/wb-services/holiday-planner/internal/calendar"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS user_holiday (
	holiday_key TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS schedule_item (
	schedule_date TEXT NOT NULL,
	position INTEGER NOT NULL,
	text TEXT NOT NULL,
	PRIMARY KEY (schedule_date, position)
);
`

// SQLiteGateway persists snapshots in a SQLite database. Every save replaces
// the stored snapshot inside one transaction.
type SQLiteGateway struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// OpenSQLite opens (and creates if needed) the database at path. Use
// ":memory:" for a throwaway database.
func OpenSQLite(path string, log *zap.SugaredLogger) (*SQLiteGateway, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite prefers a single connection; it also keeps ":memory:" alive
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteGateway{db: db, log: log}, nil
}

// initSchema initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func initSchema(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (g *SQLiteGateway) Close() error {
	return g.db.Close()
}

// Load reads the stored snapshot. An empty database yields an empty snapshot.
func (g *SQLiteGateway) Load() (calendar.Snapshot, error) {
	snap := calendar.NewSnapshot()
	if err := g.loadHolidays(snap.UserHolidays); err != nil {
		return calendar.Snapshot{}, err
	}
	if err := g.loadSchedules(snap.Schedules); err != nil {
		return calendar.Snapshot{}, err
	}
	return snap, nil
}

// loadHolidays fills into; rows must be closed before the next query
// because the pool holds a single connection
func (g *SQLiteGateway) loadHolidays(into map[calendar.HolidayKey]string) error {
	rows, err := g.db.Query("SELECT holiday_key, name FROM user_holiday")
	if err != nil {
		return fmt.Errorf("failed to query user holidays: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rawKey, name string
		if err := rows.Scan(&rawKey, &name); err != nil {
			return err
		}
		key, err := calendar.ParseHolidayKey(rawKey)
		if err != nil {
			return fmt.Errorf("bad holiday key in database: %w", err)
		}
		into[key] = name
	}
	return rows.Err()
}

func (g *SQLiteGateway) loadSchedules(into map[calendar.Date][]string) error {
	rows, err := g.db.Query("SELECT schedule_date, text FROM schedule_item ORDER BY schedule_date, position")
	if err != nil {
		return fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rawDate, text string
		if err := rows.Scan(&rawDate, &text); err != nil {
			return err
		}
		date, err := calendar.ParseDate(rawDate)
		if err != nil {
			return fmt.Errorf("bad schedule date in database: %w", err)
		}
		into[date] = append(into[date], text)
	}
	return rows.Err()
}

// Save replaces the stored snapshot
func (g *SQLiteGateway) Save(snap calendar.Snapshot) (err error) {
	tx, err := g.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				g.log.Errorf("Error rolling back snapshot save: %v", rbErr)
			}
		}
	}()

	if _, err = tx.Exec("DELETE FROM user_holiday"); err != nil {
		return err
	}
	if _, err = tx.Exec("DELETE FROM schedule_item"); err != nil {
		return err
	}
	for key, name := range snap.UserHolidays {
		if _, err = tx.Exec("INSERT INTO user_holiday (holiday_key, name) VALUES (?, ?)", key.String(), name); err != nil {
			return err
		}
	}
	for date, list := range snap.Schedules {
		for i, text := range list {
			if _, err = tx.Exec("INSERT INTO schedule_item (schedule_date, position, text) VALUES (?, ?, ?)", date.String(), i, text); err != nil {
				return err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}
