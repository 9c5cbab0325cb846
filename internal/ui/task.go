package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Sakshi-Pise24/task-manager/pkg/duedate"
	"github.com/Sakshi-Pise24/task-manager/pkg/task"
	"github.com/charmbracelet/lipgloss"
)

var (
	TaskIcon  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	TaskTitle = lipgloss.NewStyle().Bold(true)
	TaskDone  = lipgloss.NewStyle().Foreground(Secondary).Strikethrough(true)
	Cursor    = lipgloss.NewStyle().Background(Faded)

	TaskDivider = lipgloss.NewStyle().Foreground(Faded).Padding(0, 1).Render("∙")

	undone  = TaskIcon.Foreground(Secondary).Render("○")
	done    = TaskIcon.Foreground(Green).Render("✓")
	star    = lipgloss.NewStyle().Foreground(Yellow).Render("★")
	nostar  = lipgloss.NewStyle().Foreground(Faded).Render("☆")
	badge   = lipgloss.NewStyle().Padding(0, 1)
	overdue = lipgloss.NewStyle().Foreground(Red).Bold(true)

	Muted  = lipgloss.NewStyle().Foreground(Secondary)
	Help   = lipgloss.NewStyle().Foreground(Faded).Padding(0, 1)
	Status = lipgloss.NewStyle().Foreground(Orange).Padding(0, 1)
	Toast  = lipgloss.NewStyle().
		Foreground(Primary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Green).
		Padding(0, 1)
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Faded).
		Padding(0, 1)
)

// Line holds what is needed to draw one task row.
type Line struct {
	Task     task.Task
	Now      time.Time
	Selected bool
	// Editor replaces the title while the task is being edited.
	Editor string
}

func (l Line) Render() string {
	t := l.Task
	icon := undone
	if t.Completed {
		icon = done
	}
	s := icon

	mark := nostar
	if t.Starred {
		mark = star
	}
	s += mark + " "

	switch {
	case l.Editor != "":
		s += l.Editor
	default:
		title := TaskTitle
		if t.Completed {
			title = TaskDone
		}
		if l.Selected {
			title = title.Inherit(Cursor)
		}
		s += title.Render(t.Text)
	}

	s += TaskDivider + CategoryBadge(t.Category) + PriorityBadge(t.Priority)
	if t.DueDate != nil {
		s += TaskDivider + RenderDue(*t.DueDate, l.Now, t.Completed)
	}
	if l.Selected && !t.CreatedAt.IsZero() {
		s += TaskDivider + Muted.Render("created "+t.CreatedAt.Format("02 Jan 15:04"))
	}
	return s
}

func CategoryBadge(c task.Category) string {
	return badge.Foreground(CategoryColor(c)).Render(c.Label())
}

func PriorityBadge(p task.Priority) string {
	return badge.Foreground(PriorityColor(p)).Render(p.Label())
}

// RenderDue colours a due date by how close it is. Overdue only applies to
// tasks that are still open.
func RenderDue(due, now time.Time, completed bool) string {
	if due.Before(now) {
		if completed {
			return Muted.Render(due.Format("02 Jan 15:04"))
		}
		return overdue.Render("overdue " + due.Format("02 Jan 15:04"))
	}
	return lipgloss.NewStyle().Foreground(DueColor(due, now)).Render(duedate.Describe(due, now))
}

func DueColor(due, now time.Time) lipgloss.Color {
	diff := due.Sub(duedate.StartOfDay(now))
	switch days := int(diff.Hours()) / 24; {
	case days < 1:
		return Red
	case days <= 2:
		return Orange
	case days <= 14:
		return Yellow
	default:
		return Secondary
	}
}

// RenderStats draws the statistics panel.
func RenderStats(s task.Stats) string {
	rows := []string{
		TaskTitle.Render("Statistics"),
		fmt.Sprintf("Total %d  Active %d  Completed %d  Starred %d", s.Total, s.Active, s.Completed, s.Starred),
	}
	if s.Overdue > 0 {
		rows = append(rows, overdue.Render(fmt.Sprintf("Overdue %d", s.Overdue)))
	} else {
		rows = append(rows, Muted.Render("Overdue 0"))
	}

	cats := make([]string, 0, len(task.Categories))
	for _, c := range task.Categories {
		cats = append(cats, CategoryBadge(c)+Muted.Render(fmt.Sprint(s.ByCategory[c])))
	}
	rows = append(rows, strings.Join(cats, " "))

	prios := make([]string, 0, len(task.Priorities))
	for _, p := range task.Priorities {
		prios = append(prios, PriorityBadge(p)+Muted.Render(fmt.Sprint(s.ByPriority[p])))
	}
	rows = append(rows, strings.Join(prios, " "))

	return Panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
