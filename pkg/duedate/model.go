package duedate

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	indicator = lipgloss.NewStyle().Padding(0, 1).Bold(true)
	checkmark = indicator.
			Foreground(lipgloss.AdaptiveColor{Light: "#00ad3b", Dark: "#73F59F"}).
			Render("✓")

	cross = indicator.
		Foreground(lipgloss.AdaptiveColor{Light: "", Dark: "#FF5047"}).
		Render("✗")

	faded = lipgloss.AdaptiveColor{Light: "#666", Dark: "#999"}
)

// Model is a text input for an optional due date. It reparses on every key
// and shows whether the text is understood.
type Model struct {
	i     textinput.Model
	value *time.Time
	err   error
	now   func() time.Time
}

func NewModel(now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	i := textinput.New()
	i.CharLimit = 32
	i.Prompt = ""
	i.Placeholder = "none"
	return Model{
		i:   i,
		now: now,
	}
}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.i, cmd = m.i.Update(msg)
		m.value, m.err = Parse(m.i.Value(), m.now())
		return m, cmd
	}
	return m, nil
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (m Model) View() string {
	status := cross
	switch {
	case m.i.Value() == "":
		status = ""
	case m.err == nil && m.value != nil:
		status = checkmark + lipgloss.NewStyle().Foreground(faded).Render(m.value.Format("Mon 02 Jan 2006 15:04"))
	}
	return lipgloss.NewStyle().Foreground(faded).Render("due: ") + m.i.View() + status
}

// Value is the parsed due date, nil when empty or invalid.
func (m Model) Value() *time.Time {
	return m.value
}

// Valid is false only when there is text that could not be parsed.
func (m Model) Valid() bool {
	return m.err == nil
}

func (m Model) Text() string {
	return m.i.Value()
}

func (m *Model) SetValue(s string) {
	m.i.SetValue(s)
	m.value, m.err = Parse(s, m.now())
}

func (m *Model) Reset() {
	m.i.Reset()
	m.value, m.err = nil, nil
}

func (m *Model) Focus() tea.Cmd {
	return m.i.Focus()
}

func (m *Model) Blur() {
	m.i.Blur()
}
