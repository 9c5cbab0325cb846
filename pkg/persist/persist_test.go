package persist

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Sakshi-Pise24/task-manager/pkg/kv"
	"github.com/Sakshi-Pise24/task-manager/pkg/task"
	"github.com/charmbracelet/log"
	"github.com/matryer/is"
)

var epoch = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func TestJSON_SaveLoad(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	due := epoch.Add(3 * time.Hour)
	s := task.NewStore(func() time.Time { return epoch })
	_, err := s.Add("goal1", task.Work, task.High, &due)
	is.NoErr(err)
	b, err := s.Add("goal2", task.Health, task.Low, nil)
	is.NoErr(err)
	_, err = s.SetStarred(b.ID, true)
	is.NoErr(err)
	_, err = s.SetCompleted(b.ID, true)
	is.NoErr(err)
	tasks := s.Tasks()

	p := InJSON(kv.NewMemory(), "tasks")
	is.NoErr(p.Save(ctx, tasks))

	tasks2, err := p.Load(ctx)
	is.NoErr(err)
	is.Equal(len(tasks2), len(tasks))
	for i := range tasks {
		is.Equal(tasks2[i].ID, tasks[i].ID)
		is.Equal(tasks2[i].Text, tasks[i].Text)
		is.Equal(tasks2[i].Category, tasks[i].Category)
		is.Equal(tasks2[i].Priority, tasks[i].Priority)
		is.Equal(tasks2[i].Completed, tasks[i].Completed)
		is.Equal(tasks2[i].Starred, tasks[i].Starred)
		is.True(tasks2[i].CreatedAt.Equal(tasks[i].CreatedAt))
	}
	is.True(tasks2[0].DueDate.Equal(due))
	is.True(tasks2[1].DueDate == nil)
}

func TestJSON_LoadMissing(t *testing.T) {
	is := is.New(t)
	p := InJSON(kv.NewMemory(), "tasks")
	tasks, err := p.Load(context.Background())
	is.NoErr(err)
	is.Equal(len(tasks), 0)
}

func TestJSON_LoadCorrupt(t *testing.T) {
	for _, blob := range []string{`{"id":1}`, `not json`, `[{"id":1,`} {
		t.Run(blob, func(t *testing.T) {
			is := is.New(t)
			store := kv.NewMemory()
			is.NoErr(store.Set(context.Background(), "tasks", []byte(blob)))
			_, err := InJSON(store, "tasks").Load(context.Background())
			is.True(err != nil)
		})
	}
}

func TestJSON_LoadSkipsBadEntries(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	blob := `[
		{"id": 1, "text": "ok", "completed": false, "category": "work", "priority": "high", "createdAt": "2026-10-19T12:00:00Z", "starred": false},
		{"id": 2, "text": "   ", "category": "work", "priority": "high", "createdAt": "2026-10-19T12:00:00Z"},
		{"id": 3, "text": "bad category", "category": "chores", "priority": "high", "createdAt": "2026-10-19T12:00:00Z"},
		{"id": 4, "text": "bad date", "category": "work", "priority": "low", "createdAt": "yesterday"},
		{"id": 5, "text": "bad due", "category": "work", "priority": "low", "createdAt": "2026-10-19T12:00:00Z", "dueDate": "soon"},
		{"id": 1, "text": "duplicate", "category": "work", "priority": "low", "createdAt": "2026-10-19T12:00:00Z"},
		"a string",
		{"id": 6.5, "text": "fractional id", "category": "work", "priority": "low", "createdAt": "2026-10-19T12:00:00Z"},
		{"id": 7, "text": "also ok", "category": "education", "priority": "medium", "createdAt": "2026-10-19T13:00:00Z"}
	]`
	store := kv.NewMemory()
	is.NoErr(store.Set(ctx, "tasks", []byte(blob)))

	var out bytes.Buffer
	logger := log.New(&out)
	tasks, err := InJSON(store, "tasks", WithLogger(logger)).Load(ctx)
	is.NoErr(err)
	is.Equal(len(tasks), 2)
	is.Equal(tasks[0].Text, "ok")
	is.Equal(tasks[1].Text, "also ok")
	is.True(strings.Contains(out.String(), "skipped=7"))
}

func TestJSON_LoadLegacyBrowserBlob(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	blob := `[
		{"id": 1729339200000, "text": "Pay rent", "completed": false, "category": "personal", "dueDate": "2026-10-21T09:30", "priority": "high", "createdAt": "2026-10-19T12:00:00.000Z", "starred": true},
		{"id": 1729339260000, "text": "Read", "completed": true, "category": "education", "dueDate": "", "priority": "low", "createdAt": "2026-10-19T12:01:00.000Z", "starred": false}
	]`
	store := kv.NewMemory()
	is.NoErr(store.Set(ctx, "tasks", []byte(blob)))

	loc := time.FixedZone("CEST", 2*60*60)
	tasks, err := InJSON(store, "tasks", WithLocation(loc)).Load(ctx)
	is.NoErr(err)
	is.Equal(len(tasks), 2)
	is.Equal(tasks[0].ID, task.ID(1729339200000))
	is.True(tasks[0].Starred)
	is.True(tasks[0].DueDate.Equal(time.Date(2026, 10, 21, 9, 30, 0, 0, loc)))
	is.True(tasks[1].DueDate == nil)
	is.True(tasks[1].Completed)
}

func TestEntryError(t *testing.T) {
	is := is.New(t)
	err := error(&EntryError{Index: 3, Err: ErrDuplicateID})
	is.Equal(err.Error(), "tasks[3]: duplicate task id")
	is.True(errors.Is(err, ErrDuplicateID))
}

type failing struct {
	kv.Store
}

func (failing) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestSaver(t *testing.T) {
	ctx := context.Background()
	snapshot := func(text string) []task.Task {
		return []task.Task{{ID: 1, Text: text, Category: task.Work, Priority: task.Low, CreatedAt: epoch}}
	}

	t.Run("drops stale generations", func(t *testing.T) {
		is := is.New(t)
		store := kv.NewMemory()
		p := InJSON(store, "tasks")
		s := NewSaver(p)

		ok, err := s.Save(ctx, 2, snapshot("newer"))
		is.NoErr(err)
		is.True(ok)
		ok, err = s.Save(ctx, 1, snapshot("older"))
		is.NoErr(err)
		is.True(!ok) // older snapshot must not be written
		is.Equal(s.Written(), uint64(2))

		tasks, err := p.Load(ctx)
		is.NoErr(err)
		is.Equal(tasks[0].Text, "newer")
	})

	t.Run("failed write does not advance", func(t *testing.T) {
		is := is.New(t)
		s := NewSaver(InJSON(failing{kv.NewMemory()}, "tasks"))
		ok, err := s.Save(ctx, 1, snapshot("x"))
		is.True(err != nil)
		is.True(!ok)
		is.Equal(s.Written(), uint64(0))
	})
}
