package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "task-timer/internal/errors"
)

func TestHandleDatabaseError(t *testing.T) {
	originalErr := errors.New("database is locked")
	result := HandleDatabaseError("insert entry", originalErr)

	assert.NotNil(t, result)
	assert.Contains(t, result.Error(), "insert entry")
	assert.Contains(t, result.Error(), "database is locked")
	assert.True(t, apperrors.IsErrorType(result, apperrors.ErrorTypeDatabase))
	assert.ErrorIs(t, result, originalErr)
}

func TestExecuteWithRowsAffected(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	insert(t, repo, "Email", "2025-03-14", 1, "paused")
	insert(t, repo, "Email", "2025-03-15", 1, "paused")

	_, rows, err := ExecuteWithRowsAffected(ctx, repo.db, "UPDATE tasks SET status = ? WHERE name = ?", "paused", "Email")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rows)

	_, _, err = ExecuteWithRowsAffected(ctx, repo.db, "UPDATE nowhere SET x = 1")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDatabase))
}

func TestQuerySingle_NoRows(t *testing.T) {
	repo := setupTestDB(t)

	_, err := QuerySingle(context.Background(), repo.db, "SELECT total_time FROM tasks WHERE id = ?", scanInt64, "entry", "7", 7)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestQueryMultiple_BadQuery(t *testing.T) {
	repo := setupTestDB(t)

	_, err := QueryMultiple(context.Background(), repo.db, "SELECT * FROM missing", ScanEntries, "entries")
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDatabase))
}
