package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"task-timer/internal/repository/sqlite"
)

func setupRepo(t *testing.T) sqlite.Repository {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedRows(t *testing.T, repo sqlite.Repository, name, date string, seconds ...int64) {
	t.Helper()
	for _, s := range seconds {
		status := "paused"
		if s < 0 {
			status = "correction"
		}
		require.NoError(t, repo.InsertEntry(context.Background(), &sqlite.Entry{Name: name, TotalTime: s, Status: status, Date: date}))
	}
}

// mockRepository is a testify mock of sqlite.Repository
type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) InsertEntry(ctx context.Context, e *sqlite.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *mockRepository) InsertIfAbsent(ctx context.Context, e *sqlite.Entry) (bool, error) {
	args := m.Called(ctx, e)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) SumDuration(ctx context.Context, name, date string) (int64, error) {
	args := m.Called(ctx, name, date)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepository) SelectDistinct(ctx context.Context, field string) ([]string, error) {
	args := m.Called(ctx, field)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) SelectEntries(ctx context.Context, f sqlite.EntryFilter) ([]*sqlite.Entry, error) {
	args := m.Called(ctx, f)
	if v := args.Get(0); v != nil {
		return v.([]*sqlite.Entry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) MonthlyTotals(ctx context.Context, month, year int) ([]*sqlite.TaskTotal, error) {
	args := m.Called(ctx, month, year)
	if v := args.Get(0); v != nil {
		return v.([]*sqlite.TaskTotal), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) Close() error {
	return m.Called().Error(0)
}
