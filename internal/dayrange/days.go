// Package dayrange turns calendar days into half-open time intervals and
// fetches the candidates uploaded in them from the remote query endpoints.
package dayrange

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DayLayout is the wire format of every day string (YYYY-MM-DD).
const DayLayout = "2006-01-02"

// ErrInvalidRange wraps every malformed day and every empty or reversed
// range.
var ErrInvalidRange = errors.New("invalid day range")

// ParseDay parses a YYYY-MM-DD string as midnight UTC.
func ParseDay(day string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, strings.TrimSpace(day), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day %q: %w", ErrInvalidRange, day, err)
	}
	return t, nil
}

// NextDay returns the day after day, e.g. 2024-01-31 -> 2024-02-01.
func NextDay(day string) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, 1).Format(DayLayout), nil
}

// DayBounds returns [day 00:00, next day 00:00) in UTC.
func DayBounds(day string) (from, to time.Time, err error) {
	from, err = ParseDay(day)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, from.AddDate(0, 0, 1), nil
}

// HalfOpenBounds parses a from/to pair that is already half-open. to must
// be after from.
func HalfOpenBounds(from, to string) (time.Time, time.Time, error) {
	f, err := ParseDay(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	t, err := ParseDay(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !t.After(f) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to %s must be after from %s", ErrInvalidRange, to, from)
	}
	return f, t, nil
}

// RangeBounds converts an inclusive day range, as picked in the UI, into
// the half-open [from, toInclusive+1) interval.
func RangeBounds(from, toInclusive string) (string, string, error) {
	f, err := ParseDay(from)
	if err != nil {
		return "", "", err
	}
	t, err := ParseDay(toInclusive)
	if err != nil {
		return "", "", err
	}
	if t.Before(f) {
		return "", "", fmt.Errorf("%w: %s is before %s", ErrInvalidRange, toInclusive, from)
	}
	return f.Format(DayLayout), t.AddDate(0, 0, 1).Format(DayLayout), nil
}
