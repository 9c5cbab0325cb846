package task

import (
	"fmt"
	"math"
	"time"
)

type Stats struct {
	Total      int
	Completed  int
	Active     int
	Starred    int
	Overdue    int
	ByCategory map[Category]int
	ByPriority map[Priority]int
}

// Summarize aggregates the whole collection; filters do not apply.
func Summarize(tasks []Task, now time.Time) Stats {
	s := Stats{
		Total:      len(tasks),
		ByCategory: make(map[Category]int, len(Categories)),
		ByPriority: make(map[Priority]int, len(Priorities)),
	}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		} else {
			s.Active++
		}
		if t.Starred {
			s.Starred++
		}
		if t.Overdue(now) {
			s.Overdue++
		}
		s.ByCategory[t.Category]++
		s.ByPriority[t.Priority]++
	}
	return s
}

// DueSoonWindow is how far ahead DueSoon looks.
const DueSoonWindow = 24 * time.Hour

type Notice struct {
	ID      ID
	Hours   int
	Message string
}

// DueSoon returns a notice for every active task due within the next 24
// hours. Tasks that are already overdue are not included.
func DueSoon(tasks []Task, now time.Time) []Notice {
	var out []Notice
	for _, t := range tasks {
		if t.Completed || t.DueDate == nil {
			continue
		}
		left := t.DueDate.Sub(now)
		if left <= 0 || left > DueSoonWindow {
			continue
		}
		hours := int(math.Round(left.Hours()))
		out = append(out, Notice{
			ID:      t.ID,
			Hours:   hours,
			Message: fmt.Sprintf("Task \"%s\" is due in %d hours!", t.Text, hours),
		})
	}
	return out
}
