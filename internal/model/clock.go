package model

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// DateLayout is the layout of ScheduleEntry.Date.
const DateLayout = "2006-01-02"

// ParseClock parses a zero-padded "HH:MM" string into minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, errors.Errorf("invalid clock %q (want HH:MM)", s)
	}
	h, m := 0, 0
	for i, c := range []byte(s) {
		if i == 2 {
			continue
		}
		if c < '0' || c > '9' {
			return 0, errors.Errorf("invalid clock %q (want HH:MM)", s)
		}
		d := int(c - '0')
		if i < 2 {
			h = h*10 + d
		} else {
			m = m*10 + d
		}
	}
	if h > 23 || m > 59 {
		return 0, errors.Errorf("clock %q out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock formats minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ClockOf returns the wall clock of t as "HH:MM".
func ClockOf(t time.Time) string {
	return FormatClock(t.Hour()*60 + t.Minute())
}

// DateOf returns the calendar date of t as "YYYY-MM-DD".
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}
