package migrations

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"task-timer/internal/logging"
)

func init() {
	RegisterGoMigration(2, Up_000002_normalize_legacy_rows, Down_000002_normalize_legacy_rows)
}

// Up_000002_normalize_legacy_rows cleans rows written by the earlier desktop
// application so every total_time is a whole number of seconds and every
// informational timestamp is RFC3339.
//   - REAL totals are floored, NULL totals become 0
//   - Python datetime strings ("2006-01-02 15:04:05.999999") are rewritten
//   - NULL statuses become "paused"
func Up_000002_normalize_legacy_rows(tx *sql.Tx) error {
	res, err := tx.Exec(`
		UPDATE tasks
		SET total_time = CASE
			WHEN total_time < 0 AND total_time <> CAST(total_time AS INTEGER)
				THEN CAST(total_time AS INTEGER) - 1
			ELSE CAST(total_time AS INTEGER)
		END
		WHERE typeof(total_time) = 'real'`)
	if err != nil {
		return fmt.Errorf("failed to floor fractional totals: %w", err)
	}
	floored, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count floored totals: %w", err)
	}

	if _, err := tx.Exec(`UPDATE tasks SET total_time = 0 WHERE total_time IS NULL`); err != nil {
		return fmt.Errorf("failed to zero missing totals: %w", err)
	}
	if _, err := tx.Exec(`UPDATE tasks SET status = 'paused' WHERE status IS NULL OR status = ''`); err != nil {
		return fmt.Errorf("failed to default statuses: %w", err)
	}

	// Read all rows into memory first to avoid locking issues
	type entry struct {
		id        int64
		startTime sql.NullString
		endTime   sql.NullString
	}
	var entries []entry

	rows, err := tx.Query("SELECT id, start_time, end_time FROM tasks WHERE start_time IS NOT NULL OR end_time IS NOT NULL")
	if err != nil {
		return fmt.Errorf("failed to query timestamps: %w", err)
	}
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.id, &e.startTime, &e.endTime); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan row: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating rows: %w", err)
	}
	rows.Close()

	updates, skipped := 0, 0
	for _, e := range entries {
		for column, value := range map[string]sql.NullString{"start_time": e.startTime, "end_time": e.endTime} {
			if !value.Valid || value.String == "" {
				continue
			}
			normalized, err := parseLegacyTime(value.String)
			if err != nil {
				logging.Debugf("migration 2: leaving %s of row %d as is: %v\n", column, e.id, err)
				skipped++
				continue
			}
			if normalized == value.String {
				continue
			}
			if _, err := tx.Exec("UPDATE tasks SET "+column+" = ? WHERE id = ?", normalized, e.id); err != nil {
				return fmt.Errorf("failed to update %s for id %d: %w", column, e.id, err)
			}
			updates++
		}
	}

	logging.Debugf("migration 2: floored %d totals, rewrote %d timestamps, skipped %d\n", floored, updates, skipped)
	return nil
}

// Down_000002_normalize_legacy_rows is a no-op: floored totals cannot be
// restored and RFC3339 timestamps are readable by every version.
func Down_000002_normalize_legacy_rows(tx *sql.Tx) error {
	return nil
}

// parseLegacyTime accepts the formats the desktop application and older
// builds wrote, returning the value as RFC3339 in local time.
func parseLegacyTime(s string) (string, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.Format(time.RFC3339), nil
	}

	layouts := []string{
		"2006-01-02 15:04:05.999999", // Python str(datetime)
		"2006-01-02T15:04:05.999999", // Python isoformat()
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.Format(time.RFC3339), nil
		}
	}

	return "", fmt.Errorf("could not parse time format: %s", s)
}
