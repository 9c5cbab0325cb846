package task

import (
	"errors"
	"sort"
	"strings"
	"time"
)

type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusStarred   Status = "starred"
)

var Statuses = []Status{StatusAll, StatusActive, StatusCompleted, StatusStarred}

// AllCategories disables the category filter.
const AllCategories Category = "all"

type SortMode string

const (
	SortDate     SortMode = "date"
	SortPriority SortMode = "priority"
	SortDueDate  SortMode = "dueDate"
)

var SortModes = []SortMode{SortDate, SortPriority, SortDueDate}

var ErrInvalidSort = errors.New("invalid sort mode")

func ParseSortMode(s string) (SortMode, error) {
	for _, m := range SortModes {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", ErrInvalidSort
}

func (m SortMode) Label() string {
	switch m {
	case SortPriority:
		return "Priority"
	case SortDueDate:
		return "Due Date"
	default:
		return "Date"
	}
}

// Query describes which tasks are visible and in what order.
// The zero value shows everything sorted by creation date.
type Query struct {
	Status   Status
	Category Category
	Search   string
	Sort     SortMode
}

func (q Query) match(t Task, search string) bool {
	switch q.Status {
	case StatusActive:
		if t.Completed {
			return false
		}
	case StatusCompleted:
		if !t.Completed {
			return false
		}
	case StatusStarred:
		if !t.Starred {
			return false
		}
	}
	if q.Category != "" && q.Category != AllCategories && t.Category != q.Category {
		return false
	}
	return strings.Contains(strings.ToLower(t.Text), search)
}

// Filtered reports whether any predicate narrows the view.
func (q Query) Filtered() bool {
	return (q.Status != "" && q.Status != StatusAll) ||
		(q.Category != "" && q.Category != AllCategories) ||
		q.Search != ""
}

// max time that still works with comparisons
var maxTime = time.Unix(1<<63-1-unixToInternal, 999999999)

const unixToInternal int64 = (1969*365 + 1969/4 - 1969/100 + 1969/400) * 24 * 60 * 60

func dueOrMax(t Task) time.Time {
	if t.DueDate == nil {
		return maxTime
	}
	return *t.DueDate
}

// Derive returns the visible tasks for q. The input slice is not modified;
// sorting is stable so equal keys keep their insertion order.
func Derive(tasks []Task, q Query) []Task {
	search := strings.ToLower(q.Search)
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if q.match(t, search) {
			out = append(out, t.clone())
		}
	}

	var less func(a, b Task) bool
	switch q.Sort {
	case SortPriority:
		less = func(a, b Task) bool { return a.Priority.Rank() > b.Priority.Rank() }
	case SortDueDate:
		less = func(a, b Task) bool { return dueOrMax(a).Before(dueOrMax(b)) }
	default:
		less = func(a, b Task) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
