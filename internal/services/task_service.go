package services

import (
	"context"
	"sort"

	"task-timer/internal/domain"
	"task-timer/internal/repository/sqlite"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo   sqlite.Repository
	mapper *domain.Mapper
}

// NewTaskService creates a new TaskService instance
func NewTaskService(repo sqlite.Repository) TaskService {
	return &taskServiceImpl{
		repo:   repo,
		mapper: domain.NewMapper(),
	}
}

// KnownTasks returns every task name in the ledger, sorted
func (s *taskServiceImpl) KnownTasks(ctx context.Context) ([]string, error) {
	names, err := s.repo.SelectDistinct(ctx, "name")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// DaySummary totals each task's entries for one date
func (s *taskServiceImpl) DaySummary(ctx context.Context, date string) ([]*TaskDay, error) {
	filter := domain.EntryFilter{From: &date, To: &date}
	rows, err := s.repo.SelectEntries(ctx, s.mapper.Filter.ToDatabase(filter))
	if err != nil {
		return nil, err
	}
	return groupEntries(s.mapper.Entry.FromDatabaseSlice(rows)), nil
}

// groupEntries folds entries into one TaskDay per (date, name), ordered by
// date then name.
func groupEntries(entries []domain.LedgerEntry) []*TaskDay {
	type key struct{ date, name string }
	byKey := make(map[key]*TaskDay)
	days := make([]*TaskDay, 0)

	for _, e := range entries {
		k := key{e.Date, e.Name}
		day, ok := byKey[k]
		if !ok {
			day = &TaskDay{Name: e.Name, Date: e.Date}
			byKey[k] = day
			days = append(days, day)
		}
		day.Seconds += e.Seconds
		day.Entries++
		if e.IsCorrection() {
			day.Corrections += e.Seconds
		}
	}

	sort.SliceStable(days, func(i, j int) bool {
		if days[i].Date != days[j].Date {
			return days[i].Date < days[j].Date
		}
		return days[i].Name < days[j].Name
	})
	return days
}
