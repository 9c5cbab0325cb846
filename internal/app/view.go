package app

import (
	"fmt"
	"strings"

	"github.com/Sakshi-Pise24/task-manager/internal/ui"
	"github.com/Sakshi-Pise24/task-manager/pkg/task"
	"github.com/charmbracelet/lipgloss"
)

var (
	formLabel   = lipgloss.NewStyle().Foreground(ui.Secondary).Width(10)
	formFocused = lipgloss.NewStyle().Foreground(ui.Primary).Bold(true)
	formChoice  = lipgloss.NewStyle().Foreground(ui.Secondary)
	empty       = lipgloss.NewStyle().Foreground(ui.Secondary).Padding(1, 2)
)

const normalHelp = "a add ∙ space done ∙ s star ∙ e edit ∙ d delete ∙ f/1-4 status ∙ c category ∙ / search ∙ o sort ∙ q quit"

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (a *App) View() string {
	return a.header() + a.viewport.View() + "\n" + a.footer()
}

func (a *App) header() string {
	s := a.tabs.View()
	if a.mode == modeSearch || a.query.Search != "" {
		s += " " + a.search.View() + "\n"
	}
	return s
}

func (a *App) footer() string {
	rows := []string{ui.RenderStats(a.stats)}
	if a.notice != "" {
		rows = append(rows, ui.Toast.Render(a.notice))
	}
	if a.status != "" {
		rows = append(rows, ui.Status.Render(a.status))
	}
	switch a.mode {
	case modeAdd:
		rows = append(rows, a.formView(), ui.Help.Render("tab next field ∙ ←/→ change ∙ enter add ∙ esc cancel"))
	case modeEdit:
		rows = append(rows, ui.Help.Render("enter save ∙ esc cancel"))
	case modeSearch:
		rows = append(rows, ui.Help.Render("enter keep ∙ esc clear"))
	case modeConfirmDelete:
		t, _ := a.store.Get(a.deleteID)
		rows = append(rows, ui.Status.Render(fmt.Sprintf("Delete %q? (y/n)", t.Text)))
	default:
		rows = append(rows, ui.Help.Render(normalHelp))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) formView() string {
	label := func(f field, name string) string {
		if a.field == f {
			return formLabel.Inherit(formFocused).Render(name)
		}
		return formLabel.Render(name)
	}
	choice := func(f field, value string) string {
		if a.field == f {
			return formFocused.Render("‹ " + value + " ›")
		}
		return formChoice.Render("  " + value)
	}
	return ui.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		label(fieldText, "Task")+a.text.View(),
		label(fieldCategory, "Category")+choice(fieldCategory, task.Categories[a.category].Label()),
		label(fieldPriority, "Priority")+choice(fieldPriority, task.Priorities[a.priority].Label()),
		label(fieldDue, "Due")+a.due.View(),
	))
}

// render redraws the task list into the viewport and keeps the cursor on
// screen.
func (a *App) render() {
	if a.height > 0 {
		a.viewport.Height = max(a.height-lipgloss.Height(a.header())-lipgloss.Height(a.footer())-1, 1)
	}
	a.viewport.SetContent(a.listView())

	if a.cursor < a.viewport.YOffset {
		a.viewport.SetYOffset(a.cursor)
	}
	if h := a.viewport.Height; h > 0 && a.cursor >= a.viewport.YOffset+h {
		a.viewport.SetYOffset(a.cursor - h + 1)
	}
}

func (a *App) listView() string {
	if len(a.visible) == 0 {
		if a.store.Len() > 0 && a.query.Filtered() {
			return empty.Render(MsgNoMatches)
		}
		return empty.Render(MsgNoTasks)
	}
	now := a.opts.Now()
	lines := make([]string, len(a.visible))
	for i, t := range a.visible {
		l := ui.Line{Task: t, Now: now, Selected: i == a.cursor}
		if a.mode == modeEdit && t.ID == a.editID {
			l.Editor = a.edit.View()
		}
		lines[i] = l.Render()
	}
	return strings.Join(lines, "\n")
}
