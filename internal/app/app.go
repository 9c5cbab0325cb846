// Package app is the taskman terminal application. App owns the task store
// for the lifetime of the program and is the only code that mutates it.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Sakshi-Pise24/task-manager/internal/ui"
	"github.com/Sakshi-Pise24/task-manager/pkg/duedate"
	"github.com/Sakshi-Pise24/task-manager/pkg/persist"
	"github.com/Sakshi-Pise24/task-manager/pkg/task"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

const (
	MsgAdded   = "Task added successfully!"
	MsgDeleted = "Task deleted successfully!"

	MsgNoTasks   = "No tasks yet. Press a to add one."
	MsgNoMatches = "No tasks match the current filter or search."
)

type Options struct {
	Log *log.Logger
	Now task.Clock

	// defaults for the add form and the initial sort
	Category task.Category
	Priority task.Priority
	Sort     task.SortMode

	// NoticeDuration is how long a notification stays on screen.
	NoticeDuration time.Duration
	// SaveTimeout bounds a single write to the backend.
	SaveTimeout time.Duration
}

type mode int

const (
	modeNormal mode = iota
	modeAdd
	modeEdit
	modeSearch
	modeConfirmDelete
)

type field int

const (
	fieldText field = iota
	fieldCategory
	fieldPriority
	fieldDue
	fieldCount
)

type (
	savedMsg struct {
		gen     uint64
		written bool
		err     error
	}
	hideNoticeMsg struct {
		seq int
	}
	clockMsg time.Time
)

var categoryFilters = append([]task.Category{task.AllCategories}, task.Categories...)

type App struct {
	opts  Options
	log   *log.Logger
	store task.StoreManager
	saver *persist.Saver

	mode   mode
	width  int
	height int

	query    task.Query
	visible  []task.Task
	stats    task.Stats
	cursor   int
	tabs     ui.Tabs
	viewport viewport.Model

	// add form
	field    field
	text     textinput.Model
	category int
	priority int
	due      duedate.Model

	edit     textinput.Model
	editID   task.ID
	search   textinput.Model
	deleteID task.ID

	// gen numbers snapshots handed to the saver
	gen uint64

	notice    string
	noticeSeq int
	status    string

	initCmd tea.Cmd
}

// New builds the application around an already loaded store.
func New(store task.StoreManager, saver *persist.Saver, opts Options) *App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = log.New(io.Discard)
	}
	if !opts.Category.Valid() {
		opts.Category = task.Personal
	}
	if !opts.Priority.Valid() {
		opts.Priority = task.Medium
	}
	if _, err := task.ParseSortMode(string(opts.Sort)); err != nil {
		opts.Sort = task.SortDate
	}
	if opts.NoticeDuration <= 0 {
		opts.NoticeDuration = 5 * time.Second
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = 5 * time.Second
	}

	text := textinput.New()
	text.Prompt = "> "
	text.Placeholder = "What needs to be done?"
	text.Width = 50

	edit := textinput.New()
	edit.Prompt = ""

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search tasks"

	a := &App{
		opts:     opts,
		log:      opts.Log,
		store:    store,
		saver:    saver,
		text:     text,
		edit:     edit,
		search:   search,
		due:      duedate.NewModel(opts.Now),
		category: indexOf(task.Categories, opts.Category),
		priority: indexOf(task.Priorities, opts.Priority),
		tabs:     ui.NewTabs(nil),
		query: task.Query{
			Status:   task.StatusAll,
			Category: task.AllCategories,
			Sort:     opts.Sort,
		},
	}
	a.refresh()
	a.initCmd = a.checkDueSoon()
	return a
}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.initCmd, clockTick())
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.tabs, _ = a.tabs.Update(msg)
		a.viewport.Width = msg.Width
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		a.status = ""
		cmd = a.keyUpdate(msg)
	case savedMsg:
		if msg.err != nil {
			a.log.Error("saving tasks", "gen", msg.gen, "err", msg.err)
			a.status = "Could not save tasks: " + msg.err.Error()
		} else {
			a.log.Debug("saved tasks", "gen", msg.gen, "written", msg.written)
		}
	case hideNoticeMsg:
		// an older timer must not hide a newer notice
		if msg.seq == a.noticeSeq {
			a.notice = ""
		}
	case clockMsg:
		cmd = clockTick()
	}
	a.refresh()
	return a, cmd
}

// handle keys differently based on the current mode
func (a *App) keyUpdate(msg tea.KeyMsg) tea.Cmd {
	switch a.mode {
	case modeAdd:
		return a.addKey(msg)
	case modeEdit:
		return a.editKey(msg)
	case modeSearch:
		return a.searchKey(msg)
	case modeConfirmDelete:
		return a.confirmKey(msg)
	}

	switch key := msg.String(); key {
	case "q":
		return tea.Quit
	case "j", "down":
		a.setCursor(a.cursor + 1)
	case "k", "up":
		a.setCursor(a.cursor - 1)
	case "g", "home":
		a.setCursor(0)
	case "G", "end":
		a.setCursor(len(a.visible) - 1)
	case "a":
		return a.openForm()
	case "f":
		a.tabs.Next()
		a.setStatus(task.Statuses[a.tabs.Value()])
	case "1", "2", "3", "4":
		a.setStatus(task.Statuses[int(key[0]-'1')])
	case "c":
		i := indexOf(categoryFilters, a.query.Category)
		a.query.Category = categoryFilters[(i+1)%len(categoryFilters)]
		a.setCursor(0)
	case "o":
		i := indexOf(task.SortModes, a.query.Sort)
		a.query.Sort = task.SortModes[(i+1)%len(task.SortModes)]
		a.setCursor(0)
	case "/":
		a.mode = modeSearch
		a.search.CursorEnd()
		return a.search.Focus()
	case "esc":
		a.clearSearch()
	case " ", "x":
		if t, ok := a.selected(); ok {
			return a.apply(a.store.ToggleCompleted(t.ID))
		}
	case "s":
		if t, ok := a.selected(); ok {
			return a.apply(a.store.ToggleStarred(t.ID))
		}
	case "e":
		if t, ok := a.selected(); ok {
			a.mode = modeEdit
			a.editID = t.ID
			a.edit.SetValue(t.Text)
			a.edit.CursorEnd()
			return a.edit.Focus()
		}
	case "d", "delete":
		if t, ok := a.selected(); ok {
			a.mode = modeConfirmDelete
			a.deleteID = t.ID
		}
	}
	return nil
}

func (a *App) addKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		a.closeForm()
		return nil
	case "enter":
		return a.submitForm()
	case "tab":
		return a.focusField((a.field + 1) % fieldCount)
	case "shift+tab":
		return a.focusField((a.field + fieldCount - 1) % fieldCount)
	case "left", "right":
		d := 1
		if msg.String() == "left" {
			d = -1
		}
		switch a.field {
		case fieldCategory:
			a.category = wrap(a.category+d, len(task.Categories))
			return nil
		case fieldPriority:
			a.priority = wrap(a.priority+d, len(task.Priorities))
			return nil
		}
	}

	var cmd tea.Cmd
	switch a.field {
	case fieldText:
		a.text, cmd = a.text.Update(msg)
	case fieldDue:
		a.due, cmd = a.due.Update(msg)
	}
	return cmd
}

func (a *App) openForm() tea.Cmd {
	a.mode = modeAdd
	a.text.Reset()
	a.due.Reset()
	return a.focusField(fieldText)
}

func (a *App) closeForm() {
	a.mode = modeNormal
	a.text.Blur()
	a.due.Blur()
}

func (a *App) focusField(f field) tea.Cmd {
	a.field = f
	a.text.Blur()
	a.due.Blur()
	switch f {
	case fieldText:
		return a.text.Focus()
	case fieldDue:
		return a.due.Focus()
	}
	return nil
}

// submitForm adds the task. Blank text leaves the form open untouched.
func (a *App) submitForm() tea.Cmd {
	text := strings.TrimSpace(a.text.Value())
	if text == "" {
		return nil
	}
	if !a.due.Valid() {
		a.status = fmt.Sprintf("Unrecognised due date %q", a.due.Text())
		return nil
	}
	t, err := a.store.Add(text, task.Categories[a.category], task.Priorities[a.priority], a.due.Value())
	if err != nil {
		a.status = err.Error()
		return nil
	}
	a.log.Info("task added", "id", t.ID, "category", t.Category, "priority", t.Priority)
	a.closeForm()
	return a.changed(MsgAdded)
}

func (a *App) editKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.edit.Blur()
		return nil
	case "enter":
		_, err := a.store.SetText(a.editID, a.edit.Value())
		if errors.Is(err, task.ErrEmptyText) {
			a.status = "Task text cannot be empty"
			return nil
		}
		a.mode = modeNormal
		a.edit.Blur()
		return a.apply(task.Task{}, err)
	}
	var cmd tea.Cmd
	a.edit, cmd = a.edit.Update(msg)
	return cmd
}

func (a *App) searchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		a.clearSearch()
		a.mode = modeNormal
		return nil
	case "enter":
		a.search.Blur()
		a.mode = modeNormal
		return nil
	}
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	a.query.Search = a.search.Value()
	a.setCursor(0)
	return cmd
}

func (a *App) clearSearch() {
	a.search.Reset()
	a.search.Blur()
	a.query.Search = ""
}

func (a *App) confirmKey(msg tea.KeyMsg) tea.Cmd {
	a.mode = modeNormal
	switch msg.String() {
	case "y", "Y":
		if err := a.store.Remove(a.deleteID); err != nil {
			a.log.Warn("deleting task", "id", a.deleteID, "err", err)
			a.status = err.Error()
			return nil
		}
		a.log.Info("task deleted", "id", a.deleteID)
		return a.changed(MsgDeleted)
	}
	return nil
}

// apply finishes a single-task mutation.
func (a *App) apply(_ task.Task, err error) tea.Cmd {
	if err != nil {
		a.log.Warn("updating task", "err", err)
		a.status = err.Error()
		return nil
	}
	return a.changed("")
}

// changed runs after every successful store mutation: persist the new state,
// show notice if any and look for tasks that are due soon.
func (a *App) changed(notice string) tea.Cmd {
	a.refresh()
	cmds := []tea.Cmd{a.save()}
	if notice != "" {
		cmds = append(cmds, a.notify(notice))
	}
	if cmd := a.checkDueSoon(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// save hands a snapshot to the saver off the update loop.
func (a *App) save() tea.Cmd {
	a.gen++
	gen, snapshot := a.gen, a.store.Tasks()
	saver, timeout := a.saver, a.opts.SaveTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		written, err := saver.Save(ctx, gen, snapshot)
		return savedMsg{gen: gen, written: written, err: err}
	}
}

func (a *App) notify(msg string) tea.Cmd {
	a.notice = msg
	a.noticeSeq++
	seq := a.noticeSeq
	return tea.Tick(a.opts.NoticeDuration, func(time.Time) tea.Msg {
		return hideNoticeMsg{seq: seq}
	})
}

// checkDueSoon shows the last due-soon notice, if any.
func (a *App) checkDueSoon() tea.Cmd {
	notices := task.DueSoon(a.store.Tasks(), a.opts.Now())
	if len(notices) == 0 {
		return nil
	}
	for _, n := range notices {
		a.log.Debug("task due soon", "id", n.ID, "hours", n.Hours)
	}
	return a.notify(notices[len(notices)-1].Message)
}

func (a *App) setStatus(s task.Status) {
	a.query.Status = s
	a.setCursor(0)
}

func (a *App) selected() (task.Task, bool) {
	if a.cursor < 0 || a.cursor >= len(a.visible) {
		return task.Task{}, false
	}
	return a.visible[a.cursor], true
}

func (a *App) setCursor(i int) {
	a.cursor = clamp(i, 0, max(len(a.visible)-1, 0))
}

// refresh recomputes everything derived from the store and the query.
func (a *App) refresh() {
	tasks := a.store.Tasks()
	a.visible = task.Derive(tasks, a.query)
	a.stats = task.Summarize(tasks, a.opts.Now())
	a.setCursor(a.cursor)

	a.tabs.SetLabels(statusLabels(a.stats))
	a.tabs.Set(indexOf(task.Statuses, a.query.Status))
	a.tabs.Info = fmt.Sprintf("Category: %s ∙ Sort: %s", categoryLabel(a.query.Category), a.query.Sort.Label())

	a.render()
}

func clockTick() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

func statusLabels(s task.Stats) []string {
	return []string{
		fmt.Sprintf("All (%d)", s.Total),
		fmt.Sprintf("Active (%d)", s.Active),
		fmt.Sprintf("Completed (%d)", s.Completed),
		fmt.Sprintf("Starred (%d)", s.Starred),
	}
}

func categoryLabel(c task.Category) string {
	if c == task.AllCategories || c == "" {
		return "All"
	}
	return c.Label()
}

func indexOf[T comparable](list []T, v T) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return 0
}

func clamp(v, low, high int) int {
	return min(high, max(low, v))
}

func wrap(i, n int) int {
	return (i%n + n) % n
}
