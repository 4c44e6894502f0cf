package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/klabast/wb-services/holiday-planner/internal/calendar"
)

// File suffixes and permissions used by FileGateway
const (
	BackupSuffix    = ".backup"
	TmpSuffix       = ".tmp.json"
	FilePermissions = 0644
)

// FileGateway persists snapshots as a single JSON document
type FileGateway struct {
	path string
	log  *zap.SugaredLogger
}

// NewFileGateway returns a gateway writing to path
func NewFileGateway(path string, log *zap.SugaredLogger) *FileGateway {
	return &FileGateway{path: path, log: log}
}

// Load reads the snapshot. A missing file yields an empty snapshot. If the
// main file is missing but a backup exists (a save was interrupted between
// the backup rename and the final rename) the backup is loaded instead.
func (g *FileGateway) Load() (calendar.Snapshot, error) {
	if _, err := os.Stat(g.path + TmpSuffix); err == nil {
		g.log.Warnf("⚠️  Found unfinished snapshot write: %s (ignoring it)", g.path+TmpSuffix)
	}

	snap, err := g.loadFromFile(g.path)
	if err == nil {
		return snap, nil
	}
	if !os.IsNotExist(err) {
		return calendar.Snapshot{}, err
	}

	backupFile := g.path + BackupSuffix
	snap, err = g.loadFromFile(backupFile)
	if err == nil {
		g.log.Warnf("⚠️  Snapshot %s missing, recovered from %s", g.path, backupFile)
		return snap, nil
	}
	if !os.IsNotExist(err) {
		return calendar.Snapshot{}, err
	}

	g.log.Infof("No snapshot at %s, starting empty", g.path)
	return calendar.NewSnapshot(), nil
}

// loadFromFile loads a snapshot from a specific file
func (g *FileGateway) loadFromFile(filename string) (calendar.Snapshot, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return calendar.Snapshot{}, err
	}
	snap, err := Decode(data)
	if err != nil {
		return calendar.Snapshot{}, fmt.Errorf("failed to decode %s: %w", filename, err)
	}
	return snap, nil
}

// Save writes the snapshot: current file to backup, data to a temp file,
// temp file renamed into place
func (g *FileGateway) Save(snap calendar.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(g.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	// Write to temp file first
	tmpFile := g.path + TmpSuffix
	if err := os.WriteFile(tmpFile, data, FilePermissions); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpFile, err)
	}

	// Create backup
	if _, err := os.Stat(g.path); err == nil {
		if err := os.Rename(g.path, g.path+BackupSuffix); err != nil {
			g.log.Warnf("Warning: failed to create backup: %v", err)
		}
	}

	if err := os.Rename(tmpFile, g.path); err != nil {
		return fmt.Errorf("failed to commit %s: %w", g.path, err)
	}
	return nil
}

// Encode serialises a snapshot to the JSON wire format
func Encode(snap calendar.Snapshot) ([]byte, error) {
	if snap.UserHolidays == nil {
		snap.UserHolidays = map[calendar.HolidayKey]string{}
	}
	if snap.Schedules == nil {
		snap.Schedules = map[calendar.Date][]string{}
	}
	return json.MarshalIndent(snap, "", "  ")
}

// Decode parses the JSON wire format. Missing sections decode as empty maps.
func Decode(data []byte) (calendar.Snapshot, error) {
	var snap calendar.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return calendar.Snapshot{}, err
	}
	if snap.UserHolidays == nil {
		snap.UserHolidays = map[calendar.HolidayKey]string{}
	}
	if snap.Schedules == nil {
		snap.Schedules = map[calendar.Date][]string{}
	}
	return snap, nil
}
