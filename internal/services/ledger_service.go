package services

import (
	"context"
	"log/slog"
	"sync"

	"task-timer/internal/domain"
	"task-timer/internal/logging"
	"task-timer/internal/repository/sqlite"
)

type ledgerKey struct {
	name string
	date string
}

// ledgerServiceImpl implements the LedgerService interface
type ledgerServiceImpl struct {
	repo   sqlite.Repository
	mapper *domain.Mapper
	logger *slog.Logger

	mu        sync.Mutex
	persisted map[ledgerKey]int64
}

// NewLedgerService creates a new LedgerService instance
func NewLedgerService(repo sqlite.Repository, logger *slog.Logger) LedgerService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ledgerServiceImpl{
		repo:      repo,
		mapper:    domain.NewMapper(),
		logger:    logger,
		persisted: make(map[ledgerKey]int64),
	}
}

// RecordCreation writes the creation marker if (name, date) has no rows
func (l *ledgerServiceImpl) RecordCreation(ctx context.Context, name, date string) (bool, error) {
	entry := l.mapper.Entry.ToDatabase(domain.NewCreationEntry(name, date))
	inserted, err := l.repo.InsertIfAbsent(ctx, &entry)
	if err != nil {
		return false, err
	}
	if inserted {
		l.logger.Debug("created ledger marker", "task", name, "date", date)
	}
	return inserted, nil
}

// RecordSnapshot appends the unpersisted part of s.Total. On failure the
// baseline is left alone so the same seconds are retried next time.
func (l *ledgerServiceImpl) RecordSnapshot(ctx context.Context, s Snapshot) (int64, error) {
	baseline, ok := l.Persisted(s.Name, s.Date)
	if !ok {
		total, err := l.TotalFor(ctx, s.Name, s.Date)
		if err != nil {
			return 0, err
		}
		baseline = total
		l.Seed(s.Name, s.Date, total)
	}

	delta := s.Total - baseline
	if delta == 0 {
		return 0, nil
	}

	entry := &sqlite.Entry{
		Name:      s.Name,
		StartTime: s.Start,
		EndTime:   s.End,
		TotalTime: delta,
		Status:    s.Status,
		Date:      s.Date,
	}
	if err := l.repo.InsertEntry(ctx, entry); err != nil {
		l.logger.Warn("snapshot not persisted, will retry", "task", s.Name, "date", s.Date, "delta", delta, "error", err)
		return 0, err
	}

	l.Seed(s.Name, s.Date, s.Total)
	logging.Debugf("snapshot %s %s +%d (total %d)\n", s.Name, s.Date, delta, s.Total)
	return delta, nil
}

// RecordCorrection appends a signed correction. The baseline is measured
// against the caller's running total, which a correction does not change,
// so it is left alone; callers that refresh their total re-seed.
func (l *ledgerServiceImpl) RecordCorrection(ctx context.Context, name, date string, delta int64) error {
	entry := l.mapper.Entry.ToDatabase(domain.NewCorrectionEntry(name, date, delta))
	if err := l.repo.InsertEntry(ctx, &entry); err != nil {
		return err
	}

	l.logger.Info("correction recorded", "task", name, "date", date, "delta", delta)
	return nil
}

// TotalFor sums every row for (name, date)
func (l *ledgerServiceImpl) TotalFor(ctx context.Context, name, date string) (int64, error) {
	return l.repo.SumDuration(ctx, name, date)
}

// Seed sets the persisted baseline for (name, date)
func (l *ledgerServiceImpl) Seed(name, date string, persisted int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.persisted[ledgerKey{name, date}] = persisted
}

// Persisted returns the persisted baseline for (name, date)
func (l *ledgerServiceImpl) Persisted(name, date string) (int64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.persisted[ledgerKey{name, date}]
	return v, ok
}

// Forget drops every baseline for date
func (l *ledgerServiceImpl) Forget(date string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key := range l.persisted {
		if key.date == date {
			delete(l.persisted, key)
		}
	}
}
