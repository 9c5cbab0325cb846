package task

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrEmptyText = errors.New("task text is empty")
)

// Clock returns the current time. Stores take one so tests can pin "now".
type Clock func() time.Time

// StoreManager is the set of operations the UI performs on tasks.
// Every mutator is total: on error the collection is left untouched.
type StoreManager interface {
	Add(text string, c Category, p Priority, due *time.Time) (Task, error)
	Remove(ID) error
	SetCompleted(ID, bool) (Task, error)
	SetStarred(ID, bool) (Task, error)
	ToggleCompleted(ID) (Task, error)
	ToggleStarred(ID) (Task, error)
	SetText(ID, string) (Task, error)

	Get(ID) (Task, bool)
	Tasks() []Task
	Len() int
}

var _ StoreManager = &Store{}

// Store holds the authoritative task collection in insertion order.
// It is not safe for concurrent use; the owner serialises access.
type Store struct {
	tasks  []Task
	index  map[ID]int
	lastID ID
	now    Clock
}

// NewStore creates a store seeded with previously saved tasks.
// Tasks with an ID already present are dropped so IDs stay unique.
func NewStore(now Clock, tasks ...Task) *Store {
	if now == nil {
		now = time.Now
	}
	s := &Store{
		tasks: make([]Task, 0, len(tasks)),
		index: map[ID]int{},
		now:   now,
	}
	for _, t := range tasks {
		if _, found := s.index[t.ID]; found {
			continue
		}
		s.append(t.clone())
	}
	return s
}

func (s *Store) append(t Task) {
	s.index[t.ID] = len(s.tasks)
	s.tasks = append(s.tasks, t)
	if t.ID > s.lastID {
		s.lastID = t.ID
	}
}

// nextID derives an ID from the creation time in milliseconds, bumped past
// the last issued ID so two adds within the same millisecond never collide.
func (s *Store) nextID(created time.Time) ID {
	id := ID(created.UnixMilli())
	if id <= s.lastID {
		id = s.lastID + 1
	}
	return id
}

func (s *Store) Add(text string, c Category, p Priority, due *time.Time) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyText
	}
	if !c.Valid() {
		return Task{}, ErrInvalidCategory
	}
	if !p.Valid() {
		return Task{}, ErrInvalidPriority
	}
	created := s.now()
	t := Task{
		ID:        s.nextID(created),
		Text:      text,
		Category:  c,
		Priority:  p,
		DueDate:   due,
		CreatedAt: created,
	}.clone()
	s.append(t)
	return t.clone(), nil
}

// Remove deletes a task. Removing an unknown ID returns ErrNotFound and
// changes nothing, so a repeated remove is harmless.
func (s *Store) Remove(id ID) error {
	i, ok := s.index[id]
	if !ok {
		return ErrNotFound
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.tasks); j++ {
		s.index[s.tasks[j].ID] = j
	}
	return nil
}

func (s *Store) update(id ID, fn func(*Task) error) (Task, error) {
	i, ok := s.index[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	t := s.tasks[i]
	if err := fn(&t); err != nil {
		return s.tasks[i].clone(), err
	}
	s.tasks[i] = t
	return t.clone(), nil
}

func (s *Store) SetCompleted(id ID, value bool) (Task, error) {
	return s.update(id, func(t *Task) error {
		t.Completed = value
		return nil
	})
}

func (s *Store) SetStarred(id ID, value bool) (Task, error) {
	return s.update(id, func(t *Task) error {
		t.Starred = value
		return nil
	})
}

func (s *Store) ToggleCompleted(id ID) (Task, error) {
	return s.update(id, func(t *Task) error {
		t.Completed = !t.Completed
		return nil
	})
}

func (s *Store) ToggleStarred(id ID) (Task, error) {
	return s.update(id, func(t *Task) error {
		t.Starred = !t.Starred
		return nil
	})
}

// SetText renames a task. Blank text is rejected the same way Add rejects it
// and the previous text is kept.
func (s *Store) SetText(id ID, text string) (Task, error) {
	text = strings.TrimSpace(text)
	return s.update(id, func(t *Task) error {
		if text == "" {
			return ErrEmptyText
		}
		t.Text = text
		return nil
	})
}

func (s *Store) Get(id ID) (Task, bool) {
	i, ok := s.index[id]
	if !ok {
		return Task{}, false
	}
	return s.tasks[i].clone(), true
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.clone()
	}
	return out
}

func (s *Store) Len() int {
	return len(s.tasks)
}
