package common

import (
	"fmt"
	"sort"
	"time"
)

// Standard date format constants
const (
	// ISO8601Date is the format of the date keys in a site file and of the
	// {date} segment of tile asset paths
	ISO8601Date = "2006-01-02"

	// DisplayDate is the human-readable format used for the date label
	DisplayDate = "Jan 02, 2006"
)

// ParseISO8601 parses a date string in ISO 8601 format (YYYY-MM-DD)
func ParseISO8601(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("date string is empty")
	}
	return time.Parse(ISO8601Date, dateStr)
}

// ValidateISO8601 checks if a date string is in valid ISO 8601 format
func ValidateISO8601(dateStr string) bool {
	_, err := ParseISO8601(dateStr)
	return err == nil
}

// DisplayLabel formats an ISO date key for the UI.
// Keys that are not ISO dates are returned unchanged.
func DisplayLabel(dateStr string) string {
	t, err := ParseISO8601(dateStr)
	if err != nil {
		return dateStr
	}
	return t.Format(DisplayDate)
}

// IsChronological reports whether the date keys are in ascending order.
// Non-ISO keys compare lexically.
func IsChronological(dates []string) bool {
	return sort.SliceIsSorted(dates, func(i, j int) bool {
		return dates[i] < dates[j]
	})
}
