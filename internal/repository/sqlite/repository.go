package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"task-timer/internal/errors"
	"task-timer/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Repository is the ledger store. Rows are only ever appended; totals are
// always computed by summing.
type Repository interface {
	// Write operations
	InsertEntry(ctx context.Context, entry *Entry) error
	InsertIfAbsent(ctx context.Context, entry *Entry) (bool, error)

	// Read operations
	SumDuration(ctx context.Context, name, date string) (int64, error)
	SelectDistinct(ctx context.Context, field string) ([]string, error)
	SelectEntries(ctx context.Context, filter EntryFilter) ([]*Entry, error)
	MonthlyTotals(ctx context.Context, month, year int) ([]*TaskTotal, error)

	// Utility
	Close() error
}

// Options tune how the database is opened.
type Options struct {
	// BusyTimeout is how long a write waits on a lock held by another
	// connection before failing with SQLITE_BUSY.
	BusyTimeout    time.Duration
	DirPermissions os.FileMode
}

// DefaultOptions returns the options used by New.
func DefaultOptions() Options {
	return Options{
		BusyTimeout:    10 * time.Second,
		DirPermissions: 0755,
	}
}

// distinctFields lists the columns SelectDistinct may read. Column names
// cannot be bound as parameters, so anything else is rejected.
var distinctFields = map[string]bool{
	"name":   true,
	"date":   true,
	"status": true,
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db *sql.DB
}

// New creates a new SQLite repository instance with default options
func New(dbPath string) (*SQLiteRepository, error) {
	return NewWithOptions(dbPath, DefaultOptions())
}

// NewWithOptions opens (creating if needed) the database at dbPath and
// brings its schema up to date.
func NewWithOptions(dbPath string, opts Options) (*SQLiteRepository, error) {
	inMemory := dbPath == ":memory:"
	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(dbPath), opts.DirPermissions); err != nil {
			return nil, errors.NewDatabaseError("create database directory", err)
		}
	}

	db, err := sql.Open("sqlite", dataSourceName(dbPath, opts))
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	// One connection: all writes come from a single logical writer and an
	// in-memory database only lives as long as its connection.
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if inMemory {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout = %d", opts.BusyTimeout.Milliseconds())); err != nil {
			db.Close()
			return nil, errors.NewDatabaseError("configure database", err)
		}
	}

	if err := migrations.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func dataSourceName(dbPath string, opts Options) string {
	if dbPath == ":memory:" {
		return dbPath
	}
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		dbPath, opts.BusyTimeout.Milliseconds())
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// InsertEntry appends a ledger row and sets entry.ID
func (r *SQLiteRepository) InsertEntry(ctx context.Context, entry *Entry) error {
	query := `
	INSERT INTO tasks (name, start_time, end_time, total_time, status, date)
	VALUES (?, ?, ?, ?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.db, query,
		entry.Name, FormatTimePtrForDB(entry.StartTime), FormatTimePtrForDB(entry.EndTime),
		entry.TotalTime, entry.Status, entry.Date)
	if err != nil {
		return err
	}

	entry.ID = id
	return nil
}

// InsertIfAbsent appends entry only when no row exists for its
// (name, date) pair. The check and the insert are one statement, so two
// callers cannot both insert. It reports whether a row was written.
func (r *SQLiteRepository) InsertIfAbsent(ctx context.Context, entry *Entry) (bool, error) {
	query := `
	INSERT INTO tasks (name, start_time, end_time, total_time, status, date)
	SELECT ?, ?, ?, ?, ?, ?
	WHERE NOT EXISTS (SELECT 1 FROM tasks WHERE name = ? AND date = ?)`

	result, inserted, err := ExecuteWithRowsAffected(ctx, r.db, query,
		entry.Name, FormatTimePtrForDB(entry.StartTime), FormatTimePtrForDB(entry.EndTime),
		entry.TotalTime, entry.Status, entry.Date,
		entry.Name, entry.Date)
	if err != nil {
		return false, err
	}
	if inserted == 0 {
		return false, nil
	}

	id, err := result.LastInsertId()
	if err != nil {
		return true, HandleDatabaseError("get last insert ID", err)
	}
	entry.ID = id
	return true, nil
}

// SumDuration returns the total seconds recorded for a task on a date
func (r *SQLiteRepository) SumDuration(ctx context.Context, name, date string) (int64, error) {
	query := `
	SELECT CAST(COALESCE(SUM(total_time), 0) AS INTEGER)
	FROM tasks
	WHERE name = ? AND date = ?`

	total, err := QuerySingle(ctx, r.db, query, scanInt64, "total", name+"@"+date, name, date)
	if err != nil {
		return 0, err
	}
	return *total, nil
}

// SelectDistinct returns the distinct non-empty values of a whitelisted
// column in ascending order
func (r *SQLiteRepository) SelectDistinct(ctx context.Context, field string) ([]string, error) {
	if !distinctFields[field] {
		return nil, errors.NewInvalidInputError("field", field, "must be one of name, date, status")
	}

	query := fmt.Sprintf(`
	SELECT DISTINCT %[1]s FROM tasks
	WHERE %[1]s IS NOT NULL AND %[1]s <> ''
	ORDER BY %[1]s ASC`, field)

	values, err := QueryMultiple(ctx, r.db, query, ScanStrings, "distinct "+field)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(values))
	for _, v := range values {
		result = append(result, *v)
	}
	return result, nil
}

// SelectEntries returns ledger rows matching the filter, oldest first
func (r *SQLiteRepository) SelectEntries(ctx context.Context, filter EntryFilter) ([]*Entry, error) {
	var conditions []string
	var args []interface{}

	if filter.Name != nil {
		conditions = append(conditions, "name = ?")
		args = append(args, *filter.Name)
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.From != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, *filter.To)
	}

	query := `
	SELECT id, name, start_time, end_time, total_time, status, date
	FROM tasks`
	if len(conditions) > 0 {
		query += "\n\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\tORDER BY date ASC, id ASC"

	return QueryMultiple(ctx, r.db, query, ScanEntries, "entries", args...)
}

// MonthlyTotals sums every task's entries dated within the month, ordered
// by task name
func (r *SQLiteRepository) MonthlyTotals(ctx context.Context, month, year int) ([]*TaskTotal, error) {
	from, to, err := MonthBounds(month, year)
	if err != nil {
		return nil, errors.NewInvalidInputError("month", fmt.Sprintf("%02d/%d", month, year), err.Error())
	}

	query := `
	SELECT name, CAST(SUM(total_time) AS INTEGER)
	FROM tasks
	WHERE date >= ? AND date < ?
	GROUP BY name
	ORDER BY name ASC`

	return QueryMultiple(ctx, r.db, query, ScanTaskTotals, "monthly totals", from, to)
}

func scanInt64(scanner Scanner) (*int64, error) {
	var v int64
	if err := scanner.Scan(&v); err != nil {
		return nil, err
	}
	return &v, nil
}
