package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSearch(t *testing.T) SearchService {
	repo := setupRepo(t)
	seedRows(t, repo, "Email", "2025-03-01", 100, -40)
	seedRows(t, repo, "Code review", "2025-03-01", 500)
	seedRows(t, repo, "Email", "2025-03-02", 30)
	seedRows(t, repo, "Review board", "2025-02-27", 900)
	return NewSearchService(repo)
}

func TestSearchService_SearchEntries(t *testing.T) {
	svc := setupSearch(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		criteria SearchCriteria
		want     int
	}{
		{"all", SearchCriteria{}, 5},
		{"date range", SearchCriteria{From: "2025-03-01", To: "2025-03-01"}, 3},
		{"name substring ignores case", SearchCriteria{Name: "REVIEW"}, 2},
		{"corrections only", SearchCriteria{CorrectionsOnly: true}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := svc.SearchEntries(ctx, tt.criteria)
			require.NoError(t, err)
			assert.Len(t, entries, tt.want)
		})
	}
}

func TestSearchService_DailyTotals(t *testing.T) {
	svc := setupSearch(t)
	ctx := context.Background()

	days, err := svc.DailyTotals(ctx, SearchCriteria{}, SortByDate)
	require.NoError(t, err)
	require.Len(t, days, 4)
	assert.Equal(t, "2025-02-27", days[0].Date)
	assert.Equal(t, "Code review", days[1].Name)
	assert.Equal(t, int64(60), days[2].Seconds)

	days, err = svc.DailyTotals(ctx, SearchCriteria{}, SortByDuration)
	require.NoError(t, err)
	assert.Equal(t, "Review board", days[0].Name)

	days, err = svc.DailyTotals(ctx, SearchCriteria{}, SortByName)
	require.NoError(t, err)
	assert.Equal(t, []string{"Code review", "Email", "Email", "Review board"},
		[]string{days[0].Name, days[1].Name, days[2].Name, days[3].Name})
}
