package persist

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sakshi-Pise24/task-manager/pkg/task"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// record is how a task is written to storage. Field names match the blob the
// browser version kept in local storage, so old exports load unchanged.
type record struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Category  string `json:"category"`
	Priority  string `json:"priority"`
	DueDate   string `json:"dueDate,omitempty"`
	CreatedAt string `json:"createdAt"`
	Starred   bool   `json:"starred"`
}

const schemaURL = "task.schema.json"

const schemaJSON = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["id", "text", "category", "priority", "createdAt"],
	"properties": {
		"id": {"type": "integer", "minimum": 1},
		"text": {"type": "string", "pattern": "\\S"},
		"completed": {"type": "boolean"},
		"category": {"enum": ["personal", "work", "shopping", "health", "education"]},
		"priority": {"enum": ["low", "medium", "high"]},
		"dueDate": {"type": ["string", "null"]},
		"createdAt": {"type": "string", "format": "date-time"},
		"starred": {"type": "boolean"}
	}
}`

var entrySchema = compileSchema()

func compileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.AssertFormat = true
	if err := c.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		panic(err)
	}
	return c.MustCompile(schemaURL)
}

// legacy due dates come from an <input type="datetime-local"> and carry no zone
var localDueFormats = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

func newRecord(t task.Task) record {
	r := record{
		ID:        int64(t.ID),
		Text:      t.Text,
		Completed: t.Completed,
		Category:  string(t.Category),
		Priority:  string(t.Priority),
		CreatedAt: t.CreatedAt.Format(time.RFC3339Nano),
		Starred:   t.Starred,
	}
	if t.DueDate != nil {
		r.DueDate = t.DueDate.Format(time.RFC3339Nano)
	}
	return r
}

// task converts a record that already passed schema validation. loc is used
// for due dates written without a time zone.
func (r record) task(loc *time.Location) (task.Task, error) {
	c, err := task.ParseCategory(r.Category)
	if err != nil {
		return task.Task{}, err
	}
	p, err := task.ParsePriority(r.Priority)
	if err != nil {
		return task.Task{}, err
	}
	text := strings.TrimSpace(r.Text)
	if text == "" {
		return task.Task{}, task.ErrEmptyText
	}
	created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return task.Task{}, fmt.Errorf("createdAt: %w", err)
	}
	t := task.Task{
		ID:        task.ID(r.ID),
		Text:      text,
		Completed: r.Completed,
		Category:  c,
		Priority:  p,
		CreatedAt: created,
		Starred:   r.Starred,
	}
	if r.DueDate != "" {
		due, err := parseDue(r.DueDate, loc)
		if err != nil {
			return task.Task{}, fmt.Errorf("dueDate: %w", err)
		}
		t.DueDate = &due
	}
	return t, nil
}

var errBadDue = errors.New("unrecognised date format")

func parseDue(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, f := range localDueFormats {
		if t, err := time.ParseInLocation(f, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errBadDue
}
