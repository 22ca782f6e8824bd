// Package styles provides shared lipgloss styles for CLI output.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/taskwright/internal/core/task"
)

var (
	Title   = lipgloss.NewStyle().Bold(true)
	Muted   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	Error   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	Accent  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

var statusStyles = map[task.Status]lipgloss.Style{
	task.StatusPending:    Muted,
	task.StatusInProgress: Warning,
	task.StatusCompleted:  Success,
}

var priorityStyles = map[task.Priority]lipgloss.Style{
	task.PriorityLow:    Muted,
	task.PriorityMedium: Accent,
	task.PriorityHigh:   Warning,
	task.PriorityUrgent: Error,
}

// Status renders a task status with its semantic color.
func Status(s task.Status) string {
	if style, ok := statusStyles[s]; ok {
		return style.Render(string(s))
	}
	return string(s)
}

// Priority renders a task priority with its semantic color.
func Priority(p task.Priority) string {
	if style, ok := priorityStyles[p]; ok {
		return style.Render(string(p))
	}
	return string(p)
}
