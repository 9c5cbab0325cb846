package task

import (
	"errors"
	"strings"
	"time"
)

type ID int64

type Category string

const (
	Personal  Category = "personal"
	Work      Category = "work"
	Shopping  Category = "shopping"
	Health    Category = "health"
	Education Category = "education"
)

// Categories lists every category in display order.
var Categories = []Category{Personal, Work, Shopping, Health, Education}

type Priority string

const (
	Low    Priority = "low"
	Medium Priority = "medium"
	High   Priority = "high"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{Low, Medium, High}

var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidPriority = errors.New("invalid priority")
)

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Label is the capitalised name shown in the UI
func (c Category) Label() string {
	return label(string(c))
}

func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Rank orders priorities: high 3, medium 2, low 1. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case High:
		return 3
	case Medium:
		return 2
	case Low:
		return 1
	}
	return 0
}

func (p Priority) Label() string {
	return label(string(p))
}

func label(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type Task struct {
	ID        ID
	Text      string
	Completed bool
	Category  Category
	Priority  Priority
	DueDate   *time.Time
	CreatedAt time.Time
	Starred   bool
}

// Overdue reports whether an active task's due date has passed at now.
// It is never stored: the same task can become overdue between two calls.
func (t Task) Overdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

func (t Task) clone() Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}
