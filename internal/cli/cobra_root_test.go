package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-timer/internal/api"
	"task-timer/internal/config"
	apperrors "task-timer/internal/errors"
	"task-timer/internal/tui"
)

type rootHarness struct {
	root     *RootCommand
	mock     *mockAPI
	out      *bytes.Buffer
	path     string
	opened   int
	lastCfg  *config.Config
	uiCalled bool
}

func newRootHarness(t *testing.T) *rootHarness {
	t.Helper()

	original := timeNow
	timeNow = func() time.Time {
		return time.Date(2025, time.March, 14, 9, 0, 0, 0, time.Local)
	}
	t.Cleanup(func() { timeNow = original })

	h := &rootHarness{
		mock: &mockAPI{},
		out:  &bytes.Buffer{},
		path: filepath.Join(t.TempDir(), "config.yaml"),
	}
	h.root = NewRootCommand(config.NewLoaderWithPath(h.path), h.out).
		WithSessionFactory(func(cfg *config.Config, configPath string) (*Session, error) {
			h.opened++
			h.lastCfg = cfg
			return StartSession(h.mock, nil), nil
		}).
		WithUI(func(ctx context.Context, tracker api.API, opts tui.Options) error {
			h.uiCalled = true
			return nil
		})
	return h
}

func (h *rootHarness) execute(args ...string) error {
	h.root.SetArgs(args)
	return h.root.Execute(context.Background())
}

func TestRootCommand_DefaultOpensWindow(t *testing.T) {
	h := newRootHarness(t)
	h.mock.On("Run").Return(nil)

	require.NoError(t, h.execute())

	assert.True(t, h.uiCalled)
	assert.Equal(t, 1, h.opened)
	h.mock.AssertExpectations(t)
}

func TestRootCommand_ReportFlags(t *testing.T) {
	h := newRootHarness(t)
	h.mock.On("Run").Return(nil)
	h.mock.On("GenerateReport", api.ReportRequest{Month: "02", Year: "2025", Format: "csv"}).
		Return(&api.ReportResult{Text: "2025-02 Report\n"}, nil)

	require.NoError(t, h.execute("report", "02", "2025", "--format", "csv"))

	assert.Equal(t, "2025-02 Report\n", h.out.String())
	h.mock.AssertExpectations(t)
}

func TestRootCommand_CorrectFlags(t *testing.T) {
	h := newRootHarness(t)
	h.mock.On("Run").Return(nil)
	h.mock.On("AddCorrection", api.CorrectionRequest{Task: "Writing", Hours: "1", Seconds: "5", Date: "2025-03-10"}).
		Return(&api.CorrectionResult{Message: "Removed 01:00:05 from 'Writing' on 2025-03-10."}, nil)

	require.NoError(t, h.execute("correct", "Writing", "--hours", "1", "--seconds", "5", "--date", "2025-03-10"))

	assert.Equal(t, "Removed 01:00:05 from 'Writing' on 2025-03-10.\n", h.out.String())
}

func TestRootCommand_GlobalFlagsOverrideConfig(t *testing.T) {
	h := newRootHarness(t)
	h.mock.On("Run").Return(nil)
	h.mock.On("DaySummary", "2025-03-14").Return(nil, nil)

	require.NoError(t, h.execute("tasks", "--idle=false", "--idle-timeout", "5", "--reports-dir", "/tmp/out"))

	require.NotNil(t, h.lastCfg)
	assert.False(t, h.lastCfg.Idle.Enabled)
	assert.Equal(t, 5, h.lastCfg.Idle.TimeoutMinutes)
	assert.Equal(t, "/tmp/out", h.lastCfg.Reports.Dir)
}

func TestRootCommand_UserFacingErrors(t *testing.T) {
	h := newRootHarness(t)
	h.mock.On("Run").Return(nil)
	h.mock.On("AddTask", "Writing").Return(api.TaskView{Name: "Writing"}, nil)
	h.mock.On("SetManualTime", "Writing", "1:2").
		Return(api.TaskView{}, errors.New("boom"))

	err := h.execute("set", "Writing", "1:2")

	assert.EqualError(t, err, "failed to set task time: boom")
}

func TestRootCommand_ValidationErrorShowsUsage(t *testing.T) {
	h := newRootHarness(t)
	h.mock.On("Run").Return(nil)
	h.mock.On("AddTask", "Writing").Return(api.TaskView{Name: "Writing"}, nil)
	h.mock.On("SetManualTime", "Writing", "1:2").
		Return(api.TaskView{}, apperrors.NewInvalidInputError("time", "1:2", "expected hh:mm:ss"))

	err := h.execute("set", "Writing", "1:2")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set task time: invalid input for time: expected hh:mm:ss\nusage: tm set <task> <hh:mm:ss>")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput), "the original error stays reachable")
}

func TestRootCommand_DatabaseErrorNamesDatabase(t *testing.T) {
	t.Setenv("TM_ENV", "production")
	h := newRootHarness(t)
	h.mock.On("Run").Return(nil)
	h.mock.On("DaySummary", "2025-03-14").
		Return(nil, apperrors.NewDatabaseError("sum duration", errors.New("disk I/O error")))

	err := h.execute("tasks", "--db-dir", "/tmp/ledger")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load day summary: A database error occurred.")
	assert.Contains(t, err.Error(), "database: "+filepath.Join("/tmp/ledger", "tasks.db"))
}

func TestRootCommand_SessionErrorIsReturnedOnClose(t *testing.T) {
	h := newRootHarness(t)
	h.mock.On("Run").Return(errors.New("flush failed"))
	h.mock.On("DaySummary", "2025-03-14").Return(nil, nil)

	err := h.execute("tasks")

	assert.EqualError(t, err, "flush failed")
}

func TestRootCommand_ConfigInitSkipsSession(t *testing.T) {
	h := newRootHarness(t)

	require.NoError(t, h.execute("config", "init"))

	assert.Equal(t, 0, h.opened)
	_, err := os.Stat(h.path)
	require.NoError(t, err)
	assert.Contains(t, h.out.String(), h.path)

	err = h.execute("config", "init")
	assert.Error(t, err, "existing file is kept without --force")

	require.NoError(t, h.execute("config", "init", "--force"))
}

func TestRootCommand_ConfigPath(t *testing.T) {
	h := newRootHarness(t)

	require.NoError(t, h.execute("config", "path"))

	assert.Equal(t, h.path+"\n", h.out.String())
	assert.Equal(t, 0, h.opened)
}
