package helpers

import (
	"fmt"
	"time"
)

// EntryDateLayout is the wire format for logbook entry dates
const EntryDateLayout = "2006-01-02"

// ParseEntryDate parses a logbook entry date from its wire format
func ParseEntryDate(value string) (time.Time, error) {
	date, err := time.Parse(EntryDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return date, nil
}

// StartOfWeek returns midnight of the Monday of t's week
func StartOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the preceding week
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -(weekday - 1))
}
