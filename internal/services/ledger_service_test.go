package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "task-timer/internal/errors"
	"task-timer/internal/repository/sqlite"
)

func TestLedgerService_TotalForIncludesCorrections(t *testing.T) {
	repo := setupRepo(t)
	seedRows(t, repo, "Email", "2025-03-14", 0, 3600, -600)
	seedRows(t, repo, "Email", "2025-03-15", 50)

	svc := NewLedgerService(repo, nil)
	total, err := svc.TotalFor(context.Background(), "Email", "2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, int64(3000), total)
}

func TestLedgerService_RecordCreationIsIdempotentPerDay(t *testing.T) {
	repo := setupRepo(t)
	svc := NewLedgerService(repo, nil)
	ctx := context.Background()

	created, err := svc.RecordCreation(ctx, "Email", "2025-03-14")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.RecordCreation(ctx, "Email", "2025-03-14")
	require.NoError(t, err)
	assert.False(t, created)

	rows, err := repo.SelectEntries(ctx, sqlite.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(0), rows[0].TotalTime)
	assert.Equal(t, "paused", rows[0].Status)
}

func TestLedgerService_RecordSnapshotAppendsDeltas(t *testing.T) {
	repo := setupRepo(t)
	seedRows(t, repo, "Email", "2025-03-14", 0, 100)
	svc := NewLedgerService(repo, nil)
	ctx := context.Background()

	delta, err := svc.RecordSnapshot(ctx, Snapshot{Name: "Email", Date: "2025-03-14", Total: 160, Status: "running"})
	require.NoError(t, err)
	assert.Equal(t, int64(60), delta)

	delta, err = svc.RecordSnapshot(ctx, Snapshot{Name: "Email", Date: "2025-03-14", Total: 160, Status: "paused"})
	require.NoError(t, err)
	assert.Zero(t, delta, "unchanged totals are not written")

	delta, err = svc.RecordSnapshot(ctx, Snapshot{Name: "Email", Date: "2025-03-14", Total: 200, Status: "paused"})
	require.NoError(t, err)
	assert.Equal(t, int64(40), delta)

	total, err := svc.TotalFor(ctx, "Email", "2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, int64(200), total)

	rows, err := repo.SelectEntries(ctx, sqlite.EntryFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	assert.Equal(t, "running", rows[2].Status)
}

func TestLedgerService_CorrectionKeepsBaseline(t *testing.T) {
	repo := setupRepo(t)
	svc := NewLedgerService(repo, nil)
	ctx := context.Background()

	svc.Seed("Email", "2025-03-14", 0)
	_, err := svc.RecordSnapshot(ctx, Snapshot{Name: "Email", Date: "2025-03-14", Total: 3600, Status: "paused"})
	require.NoError(t, err)

	require.NoError(t, svc.RecordCorrection(ctx, "Email", "2025-03-14", -600))
	persisted, ok := svc.Persisted("Email", "2025-03-14")
	require.True(t, ok)
	assert.Equal(t, int64(3600), persisted)

	delta, err := svc.RecordSnapshot(ctx, Snapshot{Name: "Email", Date: "2025-03-14", Total: 3600, Status: "paused"})
	require.NoError(t, err)
	assert.Zero(t, delta, "a correction is not undone by the next snapshot")

	total, err := svc.TotalFor(ctx, "Email", "2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, int64(3000), total)
}

// failOnceRepository fails the next InsertEntry and then behaves like the
// wrapped repository.
type failOnceRepository struct {
	sqlite.Repository
	fail bool
}

func (r *failOnceRepository) InsertEntry(ctx context.Context, e *sqlite.Entry) error {
	if r.fail {
		r.fail = false
		return apperrors.NewDatabaseError("insert entry", errors.New("database is locked"))
	}
	return r.Repository.InsertEntry(ctx, e)
}

func TestLedgerService_RetriedSnapshotKeepsCorrection(t *testing.T) {
	repo := &failOnceRepository{Repository: setupRepo(t)}
	seedRows(t, repo, "Email", "2025-03-13", 3600)
	svc := NewLedgerService(repo, nil)
	ctx := context.Background()
	svc.Seed("Email", "2025-03-13", 3600)

	closing := Snapshot{Name: "Email", Date: "2025-03-13", Total: 7200, Status: "running"}
	repo.fail = true
	_, err := svc.RecordSnapshot(ctx, closing)
	require.Error(t, err)

	require.NoError(t, svc.RecordCorrection(ctx, "Email", "2025-03-13", -600))

	delta, err := svc.RecordSnapshot(ctx, closing)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), delta)

	total, err := svc.TotalFor(ctx, "Email", "2025-03-13")
	require.NoError(t, err)
	assert.Equal(t, int64(6600), total)
}

func TestLedgerService_FailedSnapshotIsRetried(t *testing.T) {
	repo := new(mockRepository)
	svc := NewLedgerService(repo, nil)
	ctx := context.Background()
	svc.Seed("Email", "2025-03-14", 100)

	dbErr := apperrors.NewDatabaseError("insert entry", errors.New("database is locked"))
	repo.On("InsertEntry", ctx, mock.Anything).Return(dbErr).Once()

	_, err := svc.RecordSnapshot(ctx, Snapshot{Name: "Email", Date: "2025-03-14", Total: 130, Status: "running"})
	require.Error(t, err)
	persisted, _ := svc.Persisted("Email", "2025-03-14")
	assert.Equal(t, int64(100), persisted)

	repo.On("InsertEntry", ctx, mock.MatchedBy(func(e *sqlite.Entry) bool {
		return e.TotalTime == 50
	})).Return(nil).Once()

	delta, err := svc.RecordSnapshot(ctx, Snapshot{Name: "Email", Date: "2025-03-14", Total: 150, Status: "running"})
	require.NoError(t, err)
	assert.Equal(t, int64(50), delta)
	repo.AssertExpectations(t)
}

func TestLedgerService_ForgetDropsOnlyThatDay(t *testing.T) {
	svc := NewLedgerService(setupRepo(t), nil)
	svc.Seed("Email", "2025-03-14", 10)
	svc.Seed("Review", "2025-03-14", 20)
	svc.Seed("Email", "2025-03-15", 30)

	svc.Forget("2025-03-14")

	_, ok := svc.Persisted("Email", "2025-03-14")
	assert.False(t, ok)
	_, ok = svc.Persisted("Review", "2025-03-14")
	assert.False(t, ok)
	v, ok := svc.Persisted("Email", "2025-03-15")
	assert.True(t, ok)
	assert.Equal(t, int64(30), v)
}
