package ui

import (
	"github.com/Sakshi-Pise24/task-manager/pkg/task"
	"github.com/charmbracelet/lipgloss"
)

const (
	Primary   = lipgloss.Color("#fff")
	Secondary = lipgloss.Color("#888")
	Faded     = lipgloss.Color("#555")

	Blue   = lipgloss.Color("#4db7ff")
	Green  = lipgloss.Color("#00a352")
	Red    = lipgloss.Color("#c42912")
	Yellow = lipgloss.Color("#c4b810")
	Orange = lipgloss.Color("#c27510")
	Purple = lipgloss.Color("#a06cd5")
	Pink   = lipgloss.Color("#d5569a")
)

var categoryColors = map[task.Category]lipgloss.Color{
	task.Personal:  Blue,
	task.Work:      Purple,
	task.Shopping:  Pink,
	task.Health:    Green,
	task.Education: Orange,
}

var priorityColors = map[task.Priority]lipgloss.Color{
	task.High:   Red,
	task.Medium: Yellow,
	task.Low:    Green,
}

// CategoryColor falls back to Secondary for unknown values.
func CategoryColor(c task.Category) lipgloss.Color {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return Secondary
}

func PriorityColor(p task.Priority) lipgloss.Color {
	if color, ok := priorityColors[p]; ok {
		return color
	}
	return Secondary
}
