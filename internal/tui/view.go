package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"task-timer/internal/api"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(m.header()))
	b.WriteString("\n\n")

	switch m.mode {
	case modeReportView:
		b.WriteString(boxStyle.Render(strings.TrimRight(m.reportText, "\n")))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("press any key to return"))
		return b.String()
	case modeList:
		b.WriteString(m.renderTasks())
	default:
		b.WriteString(m.renderForm())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) header() string {
	if m.overview == nil {
		return api.Header(m.opts.Now())
	}
	return m.overview.Header
}

func (m Model) renderTasks() string {
	tasks := m.tasks()
	if len(tasks) == 0 {
		return pausedStyle.Render("No tasks yet. Press a to add one.") + "\n"
	}

	var b strings.Builder
	for i, task := range tasks {
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		line := fmt.Sprintf("%-30s %s  [%s]", task.Name, task.Time(), task.Action)
		if task.Running() {
			line = runningStyle.Render(line)
		} else {
			line = pausedStyle.Render(line)
		}
		b.WriteString(pointer + line + "\n")
	}
	return b.String()
}

func (m Model) renderForm() string {
	var b strings.Builder
	b.WriteString(formTitle(m.mode, m.target))
	b.WriteString("\n")
	for _, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if m.mode == modeAddTask && len(m.known) > 0 {
		b.WriteString(helpStyle.Render("known: " + knownNames(m.known, 8)))
		b.WriteString("\n")
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

func knownNames(names []string, limit int) string {
	if len(names) <= limit {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:limit], ", ") + fmt.Sprintf(" and %d more", len(names)-limit)
}

func formTitle(md mode, target string) string {
	switch md {
	case modeAddTask:
		return "Add task"
	case modeEditTime:
		return "Edit time for '" + target + "'"
	case modeCorrection:
		return "Remove time from '" + target + "'"
	case modeReport:
		return "Monthly report"
	case modeIdleTimeout:
		return "Idle timeout"
	}
	return ""
}

func (m Model) renderStatus() string {
	var parts []string
	if m.overview != nil {
		idle := m.overview.Idle
		switch {
		case !idle.Enabled:
			parts = append(parts, "idle detection off")
		case idle.Degraded:
			parts = append(parts, "idle detection unavailable")
		default:
			parts = append(parts, fmt.Sprintf("idle pause after %d min", int(idle.Threshold.Minutes())))
		}
		if !m.overview.LastSaved.IsZero() {
			parts = append(parts, "saved "+humanize.Time(m.overview.LastSaved))
		}
		if m.overview.LastError != "" && !m.statusErr {
			parts = append(parts, errorStyle.Render("last save failed: "+m.overview.LastError))
		}
	}
	line := helpStyle.Render(strings.Join(parts, " · "))
	if m.status == "" {
		return line
	}
	if m.statusErr {
		return errorStyle.Render(m.status) + "\n" + line
	}
	return m.status + "\n" + line
}

func (m Model) help() string {
	if m.mode != modeList {
		if m.mode == modeAddTask {
			return "enter save · tab complete a known task · esc cancel"
		}
		return "enter save · tab next field · esc cancel"
	}
	return "a add · enter/space start/pause · p pause all · e edit time · c correct · r report · i idle on/off · t idle timeout · q quit"
}
