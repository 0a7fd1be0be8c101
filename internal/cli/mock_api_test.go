package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"task-timer/internal/api"
	"task-timer/internal/config"
	"task-timer/internal/idle"
	"task-timer/internal/services"
)

// mockAPI is a testify mock of api.API
type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) Run(ctx context.Context) error {
	<-ctx.Done()
	args := m.Called()
	return args.Error(0)
}

func (m *mockAPI) AddTask(ctx context.Context, name string) (api.TaskView, error) {
	args := m.Called(name)
	return args.Get(0).(api.TaskView), args.Error(1)
}

func (m *mockAPI) Toggle(ctx context.Context, name string) (api.TaskView, error) {
	args := m.Called(name)
	return args.Get(0).(api.TaskView), args.Error(1)
}

func (m *mockAPI) Start(ctx context.Context, name string) (api.TaskView, error) {
	args := m.Called(name)
	return args.Get(0).(api.TaskView), args.Error(1)
}

func (m *mockAPI) Pause(ctx context.Context, name string) (api.TaskView, error) {
	args := m.Called(name)
	return args.Get(0).(api.TaskView), args.Error(1)
}

func (m *mockAPI) PauseAll(ctx context.Context) ([]api.TaskView, error) {
	args := m.Called()
	return args.Get(0).([]api.TaskView), args.Error(1)
}

func (m *mockAPI) SetManualTime(ctx context.Context, name, hms string) (api.TaskView, error) {
	args := m.Called(name, hms)
	return args.Get(0).(api.TaskView), args.Error(1)
}

func (m *mockAPI) AddCorrection(ctx context.Context, req api.CorrectionRequest) (*api.CorrectionResult, error) {
	args := m.Called(req)
	result, _ := args.Get(0).(*api.CorrectionResult)
	return result, args.Error(1)
}

func (m *mockAPI) SetIdleEnabled(ctx context.Context, enabled bool) (idle.Status, error) {
	args := m.Called(enabled)
	return args.Get(0).(idle.Status), args.Error(1)
}

func (m *mockAPI) SetIdleTimeout(ctx context.Context, minutes string) (idle.Status, error) {
	args := m.Called(minutes)
	return args.Get(0).(idle.Status), args.Error(1)
}

func (m *mockAPI) Tasks(ctx context.Context) ([]api.TaskView, error) {
	args := m.Called()
	return args.Get(0).([]api.TaskView), args.Error(1)
}

func (m *mockAPI) Overview(ctx context.Context) (*api.Overview, error) {
	args := m.Called()
	overview, _ := args.Get(0).(*api.Overview)
	return overview, args.Error(1)
}

func (m *mockAPI) TaskNames(ctx context.Context) ([]string, error) {
	args := m.Called()
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockAPI) AvailableYears(ctx context.Context) ([]string, error) {
	args := m.Called()
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockAPI) DaySummary(ctx context.Context, date string) ([]*services.TaskDay, error) {
	args := m.Called(date)
	days, _ := args.Get(0).([]*services.TaskDay)
	return days, args.Error(1)
}

func (m *mockAPI) History(ctx context.Context, criteria services.SearchCriteria, order services.SortOrder) ([]*services.TaskDay, error) {
	args := m.Called(criteria, order)
	days, _ := args.Get(0).([]*services.TaskDay)
	return days, args.Error(1)
}

func (m *mockAPI) GenerateReport(ctx context.Context, req api.ReportRequest) (*api.ReportResult, error) {
	args := m.Called(req)
	result, _ := args.Get(0).(*api.ReportResult)
	return result, args.Error(1)
}

var _ api.API = (*mockAPI)(nil)

// setupTestApp returns an app wired to a fresh mock, writing into a buffer.
// The clock is fixed at 2025-03-14 09:00 local time.
func setupTestApp(t *testing.T) (*App, *mockAPI, *bytes.Buffer) {
	t.Helper()

	original := timeNow
	timeNow = func() time.Time {
		return time.Date(2025, time.March, 14, 9, 0, 0, 0, time.Local)
	}
	t.Cleanup(func() { timeNow = original })

	m := &mockAPI{}
	out := &bytes.Buffer{}
	app := NewApp(m, config.NewConfig(), out)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return app, m, out
}
