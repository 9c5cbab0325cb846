// Package duedate turns what a user types into a due date.
package duedate

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrParsing = errors.New("error parsing date")

// Parse reads a due date relative to now. An empty string means "no due
// date" and returns nil without error. Dates without a time of day are due
// at the end of that day.
func Parse(s string, now time.Time) (*time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, nil
	}
	if t, err := parseDateTime(s, now.Location()); err == nil {
		return &t, nil
	}

	hour, minute := 23, 59
	if fields := strings.Fields(s); len(fields) > 1 {
		if h, m, ok := parseClock(fields[len(fields)-1]); ok {
			hour, minute = h, m
			s = strings.Join(fields[:len(fields)-1], " ")
		}
	} else if h, m, ok := parseClock(s); ok {
		// a bare time means today
		hour, minute = h, m
		s = "today"
	}

	day, err := parseDay(s, now)
	if err != nil {
		return nil, err
	}
	t := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
	return &t, nil
}

// datetime-local is what the browser form used, keep accepting it
var dateTimeFormats = []string{
	"2006-01-02t15:04",
	"2006-01-02t15:04:05",
	"2006-01-02 15:04",
}

func parseDateTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, strings.ToUpper(s)); err == nil {
		return t, nil
	}
	for _, f := range dateTimeFormats {
		if t, err := time.ParseInLocation(f, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrParsing
}

func parseClock(s string) (int, int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}

var (
	ordinal    = regexp.MustCompile(`([0-9])(st|nd|rd|th)`)
	dayOfMonth = regexp.MustCompile(`^([0-9]{1,2})(st|nd|rd|th)$`)
)

func parseDay(s string, now time.Time) (time.Time, error) {
	today := StartOfDay(now)
	switch s {
	case "today", "tod":
		return today, nil
	case "tomorrow", "tom":
		return today.AddDate(0, 0, 1), nil
	}
	if wd, ok := parseWeekday(s); ok {
		return nextWeekday(today, wd), nil
	}
	if days, err := parseRelative(s); err == nil {
		return today.AddDate(0, 0, days), nil
	}
	if m := dayOfMonth.FindStringSubmatch(s); m != nil {
		return parseDayOfMonth(m[1], today)
	}
	s = ordinal.ReplaceAllString(s, "$1")
	if t, err := parseAbsolute(s, today); err == nil {
		return t, nil
	}
	return time.Time{}, ErrParsing
}

func parseWeekday(s string) (time.Weekday, bool) {
	for i := time.Sunday; i <= time.Saturday; i++ {
		name := strings.ToLower(i.String())
		if s == name || s == name[:3] {
			return i, true
		}
	}
	return 0, false
}

// nextWeekday never returns today: "fri" on a friday means next week
func nextWeekday(today time.Time, d time.Weekday) time.Time {
	days := int(d - today.Weekday())
	if days <= 0 {
		days += 7
	}
	return today.AddDate(0, 0, days)
}

// parseDayOfMonth picks the next date with the given day number, today included
func parseDayOfMonth(s string, today time.Time) (time.Time, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 31 {
		return time.Time{}, ErrParsing
	}
	for months := 0; months < 12; months++ {
		first := time.Date(today.Year(), today.Month()+time.Month(months), 1, 0, 0, 0, 0, today.Location())
		d := first.AddDate(0, 0, n-1)
		// skip months that are too short for the day
		if d.Month() != first.Month() || d.Before(today) {
			continue
		}
		return d, nil
	}
	return time.Time{}, ErrParsing
}

type multiplier struct {
	key   string
	value int
}

var multipliers = []multiplier{
	{"days", 1},
	{"weeks", 7},
	{"months", 30},
	{"years", 365},
}

// parseRelative reads offsets like "3", "in 2 weeks" or "1m" as a number of days
func parseRelative(s string) (int, error) {
	s = strings.TrimPrefix(s, "in")
	s = strings.TrimSpace(s)
	var n int
	// parse quantity
	{
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 {
			return 0, ErrParsing
		}
		var err error
		n, err = strconv.Atoi(s[:i])
		if err != nil {
			return 0, err
		}
		s = strings.TrimSpace(s[i:])
	}

	multiplier := 1
	if len(s) > 0 {
		multiplier = 0
		for _, m := range multipliers {
			end := min(len(m.key), len(s))
			if m.key[:end] == s {
				multiplier = m.value
				break
			}
		}
		if multiplier == 0 {
			return 0, errors.New("unexpected postfix")
		}
	}

	return n * multiplier, nil
}

var absoluteFormats = []string{
	"2006-01-02",
	"_2/1/2006",
	"_2/1/06",
	"_2/1",
	"_2-1-2006",
	"Jan _2 2006",
	"Jan _2",
	"January _2 2006",
	"January _2",
	"_2 Jan 2006",
	"_2 Jan",
	"_2 January 2006",
	"_2 January",
}

// parseAbsolute resolves calendar dates. A date without a year is taken in
// the current year, or next year if that day already passed.
func parseAbsolute(s string, today time.Time) (time.Time, error) {
	for _, f := range absoluteFormats {
		t, err := time.Parse(f, s)
		if err != nil {
			continue
		}
		if t.Year() != 0 {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, today.Location()), nil
		}
		d := time.Date(today.Year(), t.Month(), t.Day(), 0, 0, 0, 0, today.Location())
		if d.Before(today) {
			d = d.AddDate(1, 0, 0)
		}
		return d, nil
	}
	return time.Time{}, errors.New("format not found")
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Describe renders how far away t is from now, the way the task list shows it.
func Describe(t, now time.Time) string {
	if t.Before(now) {
		return "overdue"
	}
	days := int(math.Round(StartOfDay(t).Sub(StartOfDay(now)).Hours() / 24))
	switch {
	case days == 0:
		return "today " + t.Format("15:04")
	case days == 1:
		return "tomorrow " + t.Format("15:04")
	case days < 14:
		return strconv.Itoa(days) + " days"
	// max 1 month
	case days <= 31:
		return strconv.Itoa(days/7) + " weeks"
	// months
	default:
		postfix := ""
		months := days / 31
		if months > 1 {
			postfix = "s"
		}
		return strconv.Itoa(months) + " month" + postfix
	}
}
