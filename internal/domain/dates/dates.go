// Package dates parses spreadsheet date cells against a fixed set of
// accepted layouts plus Excel serial day numbers.
package dates

import (
	"strconv"
	"strings"
	"time"
)

// Excel serial date constants. Serial 1 is 1900-01-01, and anything below
// the floor is more likely a plain number than a date.
const (
	serialFloor   = 60
	serialCeiling = 2958465 // 9999-12-31
)

// epoch is day zero of the 1900 date system, adjusted by excelize for the
// historical leap-year bug.
var epoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// layouts is the fixed accepted-format list: ISO dates with optional
// time, RFC3339, US slash dates, and common written-out month forms.
// Anything else is an unparseable-date finding, not a guess.
var layouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Parse attempts to interpret raw as a calendar date. It returns the
// parsed day (UTC, midnight) and whether parsing succeeded. Empty input
// never parses.
func Parse(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return day(t), true
		}
	}
	// Excel surfaces raw date cells as serial day numbers.
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if serial >= serialFloor && serial <= serialCeiling && serial == float64(int64(serial)) {
			return epoch.AddDate(0, 0, int(serial)), true
		}
	}
	return time.Time{}, false
}

// FromSerial converts an Excel serial day number to a date.
func FromSerial(serial int) time.Time {
	return epoch.AddDate(0, 0, serial)
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
