// Package schedule implements the availability engine for courts: wall-clock
// parsing, half-open interval overlap and hourly slot computation.  Everything
// in this package is pure; callers load bookings and blocked slots from the
// database and pass them in.
package schedule

import (
	"fmt"
	"regexp"
	"time"
)

// clockRe matches 24-hour HH:MM strings (e.g. "06:00", "21:30").
var clockRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// dateRe matches ISO-8601 calendar dates (YYYY-MM-DD).  Parse still performs
// the real calendar validation; the regex only rejects obviously wrong shapes.
var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidClock reports whether s is a well-formed HH:MM 24-hour time string.
func ValidClock(s string) bool { return clockRe.MatchString(s) }

// ValidDate reports whether s is a valid YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ParseClock converts an HH:MM string to minutes since midnight.
func ParseClock(s string) (int, error) {
	if !ValidClock(s) {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h*60 + m, nil
}

// FormatClock converts minutes since midnight back to an HH:MM string.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// StartOf combines a YYYY-MM-DD date and an HH:MM start time into a UTC
// time.Time.  Bookings store date and time-of-day separately; cancellation
// and reschedule rules need the combined instant.
func StartOf(date, clock string) (time.Time, error) {
	if !ValidDate(date) {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	min, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(time.Duration(min) * time.Minute), nil
}

// StartsInFuture reports whether the booking instant date+clock is strictly
// after now.  A booking whose start has passed can no longer be cancelled or
// rescheduled.
func StartsInFuture(date, clock string, now time.Time) (bool, error) {
	at, err := StartOf(date, clock)
	if err != nil {
		return false, err
	}
	return at.After(now.UTC()), nil
}
