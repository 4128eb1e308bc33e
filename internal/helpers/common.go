package helpers

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ParseOptionalInt parses a string pointer to int pointer
// Returns nil if the string is nil or empty
func ParseOptionalInt(s *string) (*int, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(*s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// DateInYear builds month/day in year using loc. ok is false when the
// date does not exist in that year (e.g. 2/30 or 2/29 outside leap years).
func DateInYear(year, month, day int, loc *time.Location) (date time.Time, ok bool) {
	date = time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	return date, int(date.Month()) == month && date.Day() == day
}

// InvalidDateMessage is the reply for a month/day that does not exist
func InvalidDateMessage(month, day int) string {
	return fmt.Sprintf("Invalid date: %d/%d", month, day)
}

// ResolveDate returns now when both month and day are nil, otherwise the
// given month/day in now's year. A partial or non-existent date is an error.
func ResolveDate(now time.Time, month, day *int) (time.Time, error) {
	if month == nil && day == nil {
		return now, nil
	}
	if month == nil || day == nil {
		return time.Time{}, errors.New("month and day must be given together")
	}
	date, ok := DateInYear(now.Year(), *month, *day, now.Location())
	if !ok {
		return time.Time{}, errors.New(InvalidDateMessage(*month, *day))
	}
	return date, nil
}

// ClampLimit applies the default for limit < 1 and caps it at max
func ClampLimit(limit, def, max int) int {
	if limit < 1 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
