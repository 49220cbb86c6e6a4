// Package sqlite persists operator settings between runs. Thresholds live
// in a key/value table so adding a knob never needs a migration.
package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3"

	"connectvision/internal/config"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Threshold keys. Values are stored as decimal strings; bools as 0/1.
const (
	keyYellowEnabled = "threshold.yellow.enabled"
	keyYellowMinM    = "threshold.yellow.min.minutes"
	keyYellowMinS    = "threshold.yellow.min.seconds"
	keyYellowMaxM    = "threshold.yellow.max.minutes"
	keyYellowMaxS    = "threshold.yellow.max.seconds"
	keyRedEnabled    = "threshold.red.enabled"
	keyRedMinM       = "threshold.red.min.minutes"
	keyRedMinS       = "threshold.red.min.seconds"
	keyBlueEnabled   = "threshold.blue.enabled"
	keyBreakMinM     = "threshold.break.min.minutes"
	keyBreakMinS     = "threshold.break.min.seconds"
	keyOrangeEnabled = "threshold.orange.enabled"
	keyLunchMinM     = "threshold.lunch.min.minutes"
	keyLunchMinS     = "threshold.lunch.min.seconds"
	keySchedMon      = "threshold.schedule.enabled"
	keyBufferM       = "threshold.schedule.buffer.minutes"
	keyBufferS       = "threshold.schedule.buffer.seconds"
)

// SaveThresholds validates th and then writes every key in one
// transaction. On any failure nothing previously stored changes.
func (s *Store) SaveThresholds(th config.Thresholds) error {
	if err := th.Validate(); err != nil {
		return fmt.Errorf("invalid thresholds: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range thresholdPairs(th) {
		if _, err := stmt.Exec(key, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadThresholds overlays whatever keys are stored onto the defaults, so a
// database written by an older build still loads cleanly.
func (s *Store) LoadThresholds() (config.Thresholds, error) {
	th := config.Defaults()

	rows, err := s.db.Query(`SELECT key, value FROM settings WHERE key LIKE 'threshold.%'`)
	if err != nil {
		return th, err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return th, err
		}
		applyThresholdKey(&th, key, value)
	}
	return th, rows.Err()
}

func thresholdPairs(th config.Thresholds) map[string]string {
	return map[string]string{
		keyYellowEnabled: boolVal(th.YellowEnabled),
		keyYellowMinM:    strconv.Itoa(th.YellowMinMinutes),
		keyYellowMinS:    strconv.Itoa(th.YellowMinSeconds),
		keyYellowMaxM:    strconv.Itoa(th.YellowMaxMinutes),
		keyYellowMaxS:    strconv.Itoa(th.YellowMaxSeconds),
		keyRedEnabled:    boolVal(th.RedEnabled),
		keyRedMinM:       strconv.Itoa(th.RedMinMinutes),
		keyRedMinS:       strconv.Itoa(th.RedMinSeconds),
		keyBlueEnabled:   boolVal(th.BlueEnabled),
		keyBreakMinM:     strconv.Itoa(th.BreakMinMinutes),
		keyBreakMinS:     strconv.Itoa(th.BreakMinSeconds),
		keyOrangeEnabled: boolVal(th.OrangeEnabled),
		keyLunchMinM:     strconv.Itoa(th.LunchMinMinutes),
		keyLunchMinS:     strconv.Itoa(th.LunchMinSeconds),
		keySchedMon:      boolVal(th.ScheduleMonitoring),
		keyBufferM:       strconv.Itoa(th.BufferMinutes),
		keyBufferS:       strconv.Itoa(th.BufferSeconds),
	}
}

func applyThresholdKey(th *config.Thresholds, key, value string) {
	switch key {
	case keyYellowEnabled:
		th.YellowEnabled = value == "1"
	case keyYellowMinM:
		th.YellowMinMinutes = atoi(value, th.YellowMinMinutes)
	case keyYellowMinS:
		th.YellowMinSeconds = atoi(value, th.YellowMinSeconds)
	case keyYellowMaxM:
		th.YellowMaxMinutes = atoi(value, th.YellowMaxMinutes)
	case keyYellowMaxS:
		th.YellowMaxSeconds = atoi(value, th.YellowMaxSeconds)
	case keyRedEnabled:
		th.RedEnabled = value == "1"
	case keyRedMinM:
		th.RedMinMinutes = atoi(value, th.RedMinMinutes)
	case keyRedMinS:
		th.RedMinSeconds = atoi(value, th.RedMinSeconds)
	case keyBlueEnabled:
		th.BlueEnabled = value == "1"
	case keyBreakMinM:
		th.BreakMinMinutes = atoi(value, th.BreakMinMinutes)
	case keyBreakMinS:
		th.BreakMinSeconds = atoi(value, th.BreakMinSeconds)
	case keyOrangeEnabled:
		th.OrangeEnabled = value == "1"
	case keyLunchMinM:
		th.LunchMinMinutes = atoi(value, th.LunchMinMinutes)
	case keyLunchMinS:
		th.LunchMinSeconds = atoi(value, th.LunchMinSeconds)
	case keySchedMon:
		th.ScheduleMonitoring = value == "1"
	case keyBufferM:
		th.BufferMinutes = atoi(value, th.BufferMinutes)
	case keyBufferS:
		th.BufferSeconds = atoi(value, th.BufferSeconds)
	}
}

func boolVal(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func atoi(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
