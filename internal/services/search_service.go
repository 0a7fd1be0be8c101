package services

import (
	"context"
	"sort"

	"task-timer/internal/domain"
	"task-timer/internal/repository/sqlite"
)

// searchServiceImpl implements the SearchService interface
type searchServiceImpl struct {
	repo   sqlite.Repository
	mapper *domain.Mapper
}

// NewSearchService creates a new SearchService instance
func NewSearchService(repo sqlite.Repository) SearchService {
	return &searchServiceImpl{
		repo:   repo,
		mapper: domain.NewMapper(),
	}
}

// buildFilter builds the ledger filter from criteria. The name filter is
// applied afterwards because it matches substrings.
func (s *searchServiceImpl) buildFilter(criteria SearchCriteria) domain.EntryFilter {
	filter := domain.EntryFilter{}
	if criteria.From != "" {
		from := criteria.From
		filter.From = &from
	}
	if criteria.To != "" {
		to := criteria.To
		filter.To = &to
	}
	if criteria.CorrectionsOnly {
		status := domain.StatusCorrection
		filter.Status = &status
	}
	return filter
}

// SearchEntries returns the ledger rows matching criteria in date order
func (s *searchServiceImpl) SearchEntries(ctx context.Context, criteria SearchCriteria) ([]domain.LedgerEntry, error) {
	rows, err := s.repo.SelectEntries(ctx, s.mapper.Filter.ToDatabase(s.buildFilter(criteria)))
	if err != nil {
		return nil, err
	}

	result := make([]domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		if !matchesTextFilter(row.Name, criteria.Name) {
			continue
		}
		result = append(result, s.mapper.Entry.FromDatabase(*row))
	}
	return result, nil
}

// DailyTotals groups matching entries per task and day
func (s *searchServiceImpl) DailyTotals(ctx context.Context, criteria SearchCriteria, order SortOrder) ([]*TaskDay, error) {
	entries, err := s.SearchEntries(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return sortTaskDays(groupEntries(entries), order), nil
}

// sortTaskDays sorts days according to the specified order
func sortTaskDays(days []*TaskDay, order SortOrder) []*TaskDay {
	sorted := make([]*TaskDay, len(days))
	copy(sorted, days)

	switch order {
	case SortByName:
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Name != sorted[j].Name {
				return sorted[i].Name < sorted[j].Name
			}
			return sorted[i].Date < sorted[j].Date
		})
	case SortByDuration:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Seconds > sorted[j].Seconds
		})
	}
	return sorted
}
