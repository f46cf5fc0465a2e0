// Package dateutil converts between calendar-date strings, local day
// boundaries and display strings.
//
// Every conversion uses the process-local timezone (time.Local). There is no
// per-user timezone: a deployment is assumed to serve users in one zone.
package dateutil

import (
	"fmt"
	"regexp"
	"time"

	"github.com/ncruces/go-strftime"
)

const (
	// URLDateLayout is the YYYY-MM-DD form used in query strings and form fields.
	URLDateLayout = "2006-01-02"
	// DateTimeLocalLayout matches the value of an HTML datetime-local input.
	DateTimeLocalLayout = "2006-01-02T15:04"
	// TimeOfDayLayout is the HH:MM form of a time input.
	TimeOfDayLayout = "15:04"
)

var (
	urlDatePattern       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateTimeLocalPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}$`)
	timeOfDayPattern     = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
)

// ParseError reports a string that does not match the expected date or time form.
type ParseError struct {
	Input    string
	Expected string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %q as %s: %v", e.Input, e.Expected, e.Err)
	}
	return fmt.Sprintf("parse %q as %s", e.Input, e.Expected)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseURLDate parses YYYY-MM-DD into local midnight of that day.
// Impossible calendar dates such as 2025-02-30 are rejected.
func ParseURLDate(s string) (time.Time, error) {
	if !urlDatePattern.MatchString(s) {
		return time.Time{}, &ParseError{Input: s, Expected: "YYYY-MM-DD"}
	}
	t, err := time.ParseInLocation(URLDateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, &ParseError{Input: s, Expected: "YYYY-MM-DD", Err: err}
	}
	return t, nil
}

// FormatURLDate renders t's local calendar day as YYYY-MM-DD.
func FormatURLDate(t time.Time) string {
	return t.In(time.Local).Format(URLDateLayout)
}

// StartOfDay returns local 00:00:00.000 of t's local calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(time.Local).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// EndOfDay returns local 23:59:59.999 of t's local calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.In(time.Local).Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), time.Local)
}

// FormatDateWithOrdinal renders t as "3rd March 2025".
func FormatDateWithOrdinal(t time.Time) string {
	local := t.In(time.Local)
	day := local.Day()
	return fmt.Sprintf("%d%s %s", day, OrdinalSuffix(day), local.Format("January 2006"))
}

// OrdinalSuffix returns st, nd, rd or th for a day of the month.
func OrdinalSuffix(day int) string {
	j := day % 10
	k := day % 100
	switch {
	case j == 1 && k != 11:
		return "st"
	case j == 2 && k != 12:
		return "nd"
	case j == 3 && k != 13:
		return "rd"
	}
	return "th"
}

// FormatTimestampForDisplay formats t in local time with a strftime pattern,
// e.g. "%H:%M" or "%a %d %b".
func FormatTimestampForDisplay(t time.Time, pattern string) string {
	return strftime.Format(pattern, t.In(time.Local))
}

// FormatDateTimeLocal renders t as YYYY-MM-DDTHH:MM in local time.
func FormatDateTimeLocal(t time.Time) string {
	return t.In(time.Local).Format(DateTimeLocalLayout)
}

// ParseDateTimeLocal parses YYYY-MM-DDTHH:MM as a local instant.
func ParseDateTimeLocal(s string) (time.Time, error) {
	if !dateTimeLocalPattern.MatchString(s) {
		return time.Time{}, &ParseError{Input: s, Expected: "YYYY-MM-DDTHH:MM"}
	}
	t, err := time.ParseInLocation(DateTimeLocalLayout, s, time.Local)
	if err != nil {
		return time.Time{}, &ParseError{Input: s, Expected: "YYYY-MM-DDTHH:MM", Err: err}
	}
	return t, nil
}

// ParseTimeOfDay parses HH:MM into hour and minute.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	if !timeOfDayPattern.MatchString(s) {
		return 0, 0, &ParseError{Input: s, Expected: "HH:MM"}
	}
	t, err := time.Parse(TimeOfDayLayout, s)
	if err != nil {
		return 0, 0, &ParseError{Input: s, Expected: "HH:MM", Err: err}
	}
	return t.Hour(), t.Minute(), nil
}

// ResolveStartedAt combines a workout date and an optional start time into one
// local instant. Without a start time the workout is placed at local noon.
func ResolveStartedAt(workoutDate, startTime string) (time.Time, error) {
	day, err := ParseURLDate(workoutDate)
	if err != nil {
		return time.Time{}, err
	}

	hour, minute := 12, 0
	if startTime != "" {
		hour, minute, err = ParseTimeOfDay(startTime)
		if err != nil {
			return time.Time{}, err
		}
	}

	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, time.Local), nil
}
