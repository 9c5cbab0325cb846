package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/Sakshi-Pise24/task-manager/pkg/task"
	"github.com/charmbracelet/lipgloss"
	"github.com/matryer/is"
)

var now = time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC)

func TestLine(t *testing.T) {
	due := now.Add(48 * time.Hour)
	tests := []struct {
		name string
		line Line
		want []string
		not  []string
	}{
		{
			name: "active",
			line: Line{Task: task.Task{Text: "Pay rent", Category: task.Personal, Priority: task.High, DueDate: &due}, Now: now},
			want: []string{"○", "☆", "Pay rent", "Personal", "High", "2 days"},
		},
		{
			name: "completed and starred",
			line: Line{Task: task.Task{Text: "Read", Completed: true, Starred: true, Category: task.Education, Priority: task.Low}, Now: now},
			want: []string{"✓", "★", "Read", "Education", "Low"},
			not:  []string{"○"},
		},
		{
			name: "overdue",
			line: Line{Task: task.Task{Text: "Late", Category: task.Work, Priority: task.Medium, DueDate: &now}, Now: now.Add(time.Minute)},
			want: []string{"overdue"},
		},
		{
			name: "selected shows creation time",
			line: Line{Task: task.Task{Text: "Plan", Category: task.Work, Priority: task.Low, CreatedAt: now}, Now: now, Selected: true},
			want: []string{"created 19 Oct 10:30"},
		},
		{
			name: "unselected hides creation time",
			line: Line{Task: task.Task{Text: "Plan", Category: task.Work, Priority: task.Low, CreatedAt: now}, Now: now},
			not:  []string{"created"},
		},
		{
			name: "editing",
			line: Line{Task: task.Task{Text: "Old", Category: task.Work, Priority: task.Medium}, Now: now, Editor: "> New"},
			want: []string{"> New"},
			not:  []string{"Old"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			got := tt.line.Render()
			for _, w := range tt.want {
				is.True(strings.Contains(got, w)) // missing expected text
			}
			for _, n := range tt.not {
				is.True(!strings.Contains(got, n)) // unexpected text
			}
		})
	}
}

func TestDueColor(t *testing.T) {
	tests := []struct {
		due  time.Time
		want lipgloss.Color
	}{
		{now.Add(time.Hour), Red},
		{now.Add(26 * time.Hour), Orange},
		{now.Add(10 * 24 * time.Hour), Yellow},
		{now.Add(40 * 24 * time.Hour), Secondary},
	}
	for _, tt := range tests {
		is := is.New(t)
		is.Equal(DueColor(tt.due, now), tt.want)
	}
}

func TestRenderStats(t *testing.T) {
	is := is.New(t)
	s := task.Stats{
		Total: 3, Active: 2, Completed: 1, Starred: 1, Overdue: 1,
		ByCategory: map[task.Category]int{task.Work: 2, task.Health: 1},
		ByPriority: map[task.Priority]int{task.High: 3},
	}
	got := RenderStats(s)
	is.True(strings.Contains(got, "Total 3"))
	is.True(strings.Contains(got, "Active 2"))
	is.True(strings.Contains(got, "Overdue 1"))
	is.True(strings.Contains(got, "Work 2"))
	is.True(strings.Contains(got, "Shopping 0"))
	is.True(strings.Contains(got, "High 3"))
}

func TestTabs(t *testing.T) {
	is := is.New(t)
	tabs := NewTabs([]string{"All", "Active", "Completed"})
	tabs.Width = 80
	tabs.Info = "Sort: Date"

	tabs.Set(5)
	is.Equal(tabs.Value(), 2)
	tabs.Next()
	is.Equal(tabs.Value(), 0)
	tabs.SetLabels([]string{"All (3)", "Active (2)"})
	tabs.Set(1)
	is.Equal(tabs.Value(), 1)

	v := tabs.View()
	is.True(strings.Contains(v, "Active (2)"))
	is.True(strings.Contains(v, "Sort: Date"))
}
