// Package tui is the interactive timer window. It renders the tracker's
// overview once a second and forwards key presses to the tracker API.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"task-timer/internal/api"
	"task-timer/internal/domain"
	apperrors "task-timer/internal/errors"
)

type mode int

const (
	modeList mode = iota
	modeAddTask
	modeEditTime
	modeCorrection
	modeReport
	modeReportView
	modeIdleTimeout
)

// refreshInterval is how often the window asks the tracker for a new overview.
const refreshInterval = time.Second

// Options configures the window.
type Options struct {
	// Timeout bounds every call into the tracker. Defaults to 10s.
	Timeout time.Duration
	// Now is the clock used for form defaults. Defaults to time.Now.
	Now func() time.Time
}

type tickMsg time.Time

type overviewMsg struct {
	overview *api.Overview
	err      error
}

type resultMsg struct {
	text string
	err  error
}

type namesMsg struct {
	names []string
	err   error
}

type reportMsg struct {
	result *api.ReportResult
	err    error
}

// Model is the bubbletea model for the timer window.
type Model struct {
	ctx  context.Context
	api  api.API
	opts Options

	mode     mode
	overview *api.Overview
	cursor   int

	// target is the task an open form applies to.
	target string
	inputs []textinput.Model
	focus  int
	// known holds existing task names offered when adding a task.
	known []string

	status     string
	statusErr  bool
	reportText string
	quitting   bool
}

// New creates the window model.
func New(ctx context.Context, tracker api.API, opts Options) Model {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return Model{ctx: ctx, api: tracker, opts: opts}
}

// Run shows the window until the user quits or ctx is cancelled.
func Run(ctx context.Context, tracker api.API, opts Options) error {
	p := tea.NewProgram(New(ctx, tracker, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchOverview(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) call() (context.Context, context.CancelFunc) {
	return context.WithTimeout(m.ctx, m.opts.Timeout)
}

func (m Model) fetchOverview() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.call()
		defer cancel()
		ov, err := m.api.Overview(ctx)
		return overviewMsg{overview: ov, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tea.Batch(m.fetchOverview(), tick())
	case overviewMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.overview = msg.overview
		m.clampCursor()
		return m, nil
	case resultMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setStatus(msg.text)
		}
		return m, m.fetchOverview()
	case namesMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.known = msg.names
		if m.mode == modeAddTask && len(m.inputs) == 1 {
			m.inputs[0].ShowSuggestions = true
			m.inputs[0].SetSuggestions(msg.names)
		}
		return m, nil
	case reportMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.reportText = msg.result.Text
		m.mode = modeReportView
		return m, m.fetchOverview()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeList:
			return m.handleListKey(msg)
		case modeReportView:
			m.mode = modeList
			m.reportText = ""
			return m, nil
		default:
			return m.handleFormKey(msg)
		}
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks())-1 {
			m.cursor++
		}
	case "a":
		m.openForm(modeAddTask, "", field("Task name", "", 255))
		return m, m.fetchNames()
	case "enter", " ":
		if task, ok := m.selected(); ok {
			return m, m.toggle(task.Name)
		}
	case "p":
		return m, m.pauseAll()
	case "e":
		if task, ok := m.selected(); ok {
			m.openForm(modeEditTime, task.Name, field("Total (hh:mm:ss)", task.Time(), 12))
		}
	case "c":
		if task, ok := m.selected(); ok {
			m.openForm(modeCorrection, task.Name,
				field("Hours", "", 4),
				field("Minutes", "", 4),
				field("Seconds", "", 4),
				field("Date (YYYY-MM-DD)", domain.DateOf(m.opts.Now()), 10),
			)
		}
	case "r":
		now := m.opts.Now()
		m.openForm(modeReport, "",
			field("Month", fmt.Sprintf("%02d", int(now.Month())), 2),
			field("Year", strconv.Itoa(now.Year()), 4),
		)
	case "i":
		enabled := m.overview == nil || !m.overview.Idle.Enabled
		return m, m.setIdle(enabled)
	case "t":
		minutes := ""
		if m.overview != nil {
			minutes = strconv.Itoa(int(m.overview.Idle.Threshold.Minutes()))
		}
		m.openForm(modeIdleTimeout, "", field("Idle timeout (minutes)", minutes, 5))
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeForm()
		return m, nil
	case "tab", "down", "shift+tab", "up":
		// single-field forms leave these keys to the input for suggestions
		if len(m.inputs) > 1 {
			if s := msg.String(); s == "tab" || s == "down" {
				m.moveFocus(1)
			} else {
				m.moveFocus(-1)
			}
			return m, nil
		}
	case "enter":
		cmd := m.submit()
		m.closeForm()
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) submit() tea.Cmd {
	values := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		values[i] = in.Value()
	}
	target := m.target

	switch m.mode {
	case modeAddTask:
		return m.do(func(ctx context.Context) (string, error) {
			task, err := m.api.AddTask(ctx, values[0])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Added '%s'.", task.Name), nil
		})
	case modeEditTime:
		return m.do(func(ctx context.Context) (string, error) {
			task, err := m.api.SetManualTime(ctx, target, values[0])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("'%s' set to %s.", task.Name, task.Time()), nil
		})
	case modeCorrection:
		return m.do(func(ctx context.Context) (string, error) {
			res, err := m.api.AddCorrection(ctx, api.CorrectionRequest{
				Task:    target,
				Hours:   values[0],
				Minutes: values[1],
				Seconds: values[2],
				Date:    values[3],
			})
			if err != nil {
				return "", err
			}
			return res.Message, nil
		})
	case modeReport:
		return func() tea.Msg {
			ctx, cancel := m.call()
			defer cancel()
			res, err := m.api.GenerateReport(ctx, api.ReportRequest{Month: values[0], Year: values[1]})
			return reportMsg{result: res, err: err}
		}
	case modeIdleTimeout:
		return m.do(func(ctx context.Context) (string, error) {
			status, err := m.api.SetIdleTimeout(ctx, values[0])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Idle timeout set to %d minutes.", int(status.Threshold.Minutes())), nil
		})
	}
	return nil
}

func (m Model) do(fn func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.call()
		defer cancel()
		text, err := fn(ctx)
		return resultMsg{text: text, err: err}
	}
}

func (m Model) fetchNames() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.call()
		defer cancel()
		names, err := m.api.TaskNames(ctx)
		return namesMsg{names: names, err: err}
	}
}

func (m Model) toggle(name string) tea.Cmd {
	return m.do(func(ctx context.Context) (string, error) {
		task, err := m.api.Toggle(ctx, name)
		if err != nil {
			return "", err
		}
		if task.Running() {
			return fmt.Sprintf("Started '%s'.", task.Name), nil
		}
		return fmt.Sprintf("Paused '%s'.", task.Name), nil
	})
}

func (m Model) pauseAll() tea.Cmd {
	return m.do(func(ctx context.Context) (string, error) {
		paused, err := m.api.PauseAll(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Paused %d running task(s).", len(paused)), nil
	})
}

func (m Model) setIdle(enabled bool) tea.Cmd {
	return m.do(func(ctx context.Context) (string, error) {
		if _, err := m.api.SetIdleEnabled(ctx, enabled); err != nil {
			return "", err
		}
		if enabled {
			return "Idle detection on.", nil
		}
		return "Idle detection off.", nil
	})
}

func field(label, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = label + ": "
	in.CharLimit = limit
	in.Width = 40
	in.SetValue(value)
	return in
}

func (m *Model) openForm(md mode, target string, inputs ...textinput.Model) {
	m.mode = md
	m.target = target
	m.inputs = inputs
	m.focus = 0
	m.inputs[0].Focus()
}

func (m *Model) closeForm() {
	m.mode = modeList
	m.target = ""
	m.inputs = nil
	m.focus = 0
	m.known = nil
}

func (m *Model) moveFocus(delta int) {
	if len(m.inputs) == 0 {
		return
	}
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = strings.TrimSpace(apperrors.GetUserMessage(err))
	m.statusErr = true
}

func (m Model) tasks() []api.TaskView {
	if m.overview == nil {
		return nil
	}
	return m.overview.Tasks
}

func (m Model) selected() (api.TaskView, bool) {
	tasks := m.tasks()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return api.TaskView{}, false
	}
	return tasks[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.tasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
