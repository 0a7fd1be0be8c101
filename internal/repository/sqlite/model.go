package sqlite

import "time"

// Entry is one row of the tasks table: a signed duration delta for a task
// on an effective day.
type Entry struct {
	ID        int64
	Name      string
	StartTime *time.Time // informational, may be NULL
	EndTime   *time.Time // informational, may be NULL
	TotalTime int64
	Status    string
	Date      string
}

// EntryFilter restricts SelectEntries. Nil fields are not applied. From and
// To are inclusive YYYY-MM-DD bounds.
type EntryFilter struct {
	Name   *string
	Status *string
	From   *string
	To     *string
}

// TaskTotal is the summed duration of one task over a period.
type TaskTotal struct {
	Name    string
	Seconds int64
}
