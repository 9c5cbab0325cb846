// Package persist saves the task list as a JSON blob in a kv.Store.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Sakshi-Pise24/task-manager/pkg/kv"
	"github.com/Sakshi-Pise24/task-manager/pkg/task"
	"github.com/charmbracelet/log"
)

type Persistor interface {
	Save(context.Context, []task.Task) error
	Load(context.Context) ([]task.Task, error)
}

var _ Persistor = &JSON{}

var ErrDuplicateID = errors.New("duplicate task id")

// EntryError describes a saved task that was skipped while loading.
type EntryError struct {
	Index int
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("tasks[%d]: %s", e.Index, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

type JSON struct {
	store kv.Store
	key   string
	log   *log.Logger
	loc   *time.Location
}

type Option func(*JSON)

// WithLogger reports skipped entries to l.
func WithLogger(l *log.Logger) Option {
	return func(j *JSON) {
		j.log = l
	}
}

// WithLocation sets the zone for legacy due dates that carry none.
func WithLocation(loc *time.Location) Option {
	return func(j *JSON) {
		j.loc = loc
	}
}

// InJSON stores the task list under key in store.
func InJSON(store kv.Store, key string, opts ...Option) *JSON {
	j := &JSON{
		store: store,
		key:   key,
		log:   log.New(io.Discard),
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Save writes the whole list in insertion order.
func (j *JSON) Save(ctx context.Context, ts []task.Task) error {
	records := make([]record, len(ts))
	for i, t := range ts {
		records[i] = newRecord(t)
	}
	bs, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	if err := j.store.Set(ctx, j.key, bs); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// Load reads the list back. Nothing saved yet is an empty list, not an
// error. A blob that is not a JSON array is an error; single entries that
// fail validation are logged and skipped so one bad task cannot lose the rest.
func (j *JSON) Load(ctx context.Context) ([]task.Task, error) {
	bs, err := j.store.Get(ctx, j.key)
	if errors.Is(err, kv.ErrNotFound) {
		return []task.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if len(bytes.TrimSpace(bs)) == 0 {
		return []task.Task{}, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(bs, &raws); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}

	tasks := make([]task.Task, 0, len(raws))
	seen := make(map[task.ID]bool, len(raws))
	for i, raw := range raws {
		t, err := j.decode(raw)
		if err == nil && seen[t.ID] {
			err = ErrDuplicateID
		}
		if err != nil {
			j.log.Warn("skipping saved task", "key", j.key, "err", &EntryError{Index: i, Err: err})
			continue
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	if skipped := len(raws) - len(tasks); skipped > 0 {
		j.log.Warn("some saved tasks could not be loaded", "key", j.key, "skipped", skipped, "loaded", len(tasks))
	}
	return tasks, nil
}

func (j *JSON) decode(raw json.RawMessage) (task.Task, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return task.Task{}, err
	}
	if err := entrySchema.Validate(v); err != nil {
		return task.Task{}, err
	}
	var r record
	if err := json.Unmarshal(raw, &r); err != nil {
		return task.Task{}, err
	}
	return r.task(j.loc)
}
