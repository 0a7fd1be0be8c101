package domain

import (
	"task-timer/internal/repository/sqlite"
)

// LedgerEntryMapper handles conversion between domain and database ledger entries.
type LedgerEntryMapper struct{}

// NewLedgerEntryMapper creates a new LedgerEntryMapper instance.
func NewLedgerEntryMapper() *LedgerEntryMapper {
	return &LedgerEntryMapper{}
}

// ToDatabase converts a domain LedgerEntry to a database Entry.
func (m *LedgerEntryMapper) ToDatabase(entry LedgerEntry) sqlite.Entry {
	return sqlite.Entry{
		ID:        entry.ID,
		Name:      entry.Name,
		StartTime: entry.StartTime,
		EndTime:   entry.EndTime,
		TotalTime: entry.Seconds,
		Status:    entry.Status,
		Date:      entry.Date,
	}
}

// FromDatabase converts a database Entry to a domain LedgerEntry.
func (m *LedgerEntryMapper) FromDatabase(row sqlite.Entry) LedgerEntry {
	return LedgerEntry{
		ID:        row.ID,
		Name:      row.Name,
		StartTime: row.StartTime,
		EndTime:   row.EndTime,
		Seconds:   row.TotalTime,
		Status:    row.Status,
		Date:      row.Date,
	}
}

// FromDatabaseSlice converts database rows to domain entries.
func (m *LedgerEntryMapper) FromDatabaseSlice(rows []*sqlite.Entry) []LedgerEntry {
	entries := make([]LedgerEntry, len(rows))
	for i, row := range rows {
		entries[i] = m.FromDatabase(*row)
	}
	return entries
}

// EntryFilterMapper converts domain filters to database filters.
type EntryFilterMapper struct{}

// NewEntryFilterMapper creates a new EntryFilterMapper instance.
func NewEntryFilterMapper() *EntryFilterMapper {
	return &EntryFilterMapper{}
}

// ToDatabase converts a domain EntryFilter to a database EntryFilter.
func (m *EntryFilterMapper) ToDatabase(f EntryFilter) sqlite.EntryFilter {
	return sqlite.EntryFilter{
		Name:   f.Name,
		Status: f.Status,
		From:   f.From,
		To:     f.To,
	}
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Entry  *LedgerEntryMapper
	Filter *EntryFilterMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Entry:  NewLedgerEntryMapper(),
		Filter: NewEntryFilterMapper(),
	}
}
