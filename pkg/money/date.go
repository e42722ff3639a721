package money

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

var (
	isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	dmyDate       = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// NormalizeDate parses user-supplied date input into a UTC instant.
// Accepted forms: anything starting with YYYY-MM-DD (taken as UTC midnight of
// that day, time-of-day ignored unless RFC3339), and strict DD/MM/YYYY.
// Ambiguous forms such as MM/DD/YYYY are never guessed at.
func NormalizeDate(input string) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrInvalidDate)
	}

	if isoDatePrefix.MatchString(s) {
		// Any time-of-day suffix is ignored: the calendar date is what the
		// user picked, and it is pinned to UTC midnight.
		t, err := time.Parse("2006-01-02", s[:10])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, input)
		}
		return t, nil
	}

	if m := dmyDate.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, input)
		}
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// time.Date normalizes out-of-range days (31/02 becomes 02/03 or
		// 03/03), so a round-trip mismatch means the calendar date never
		// existed.
		if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
			return time.Time{}, fmt.Errorf("%w: %q is not a real calendar date", ErrInvalidDate, input)
		}
		return t, nil
	}

	// Generic fallback for formats the UI may still emit.
	for _, layout := range []string{time.RFC1123, "2006-01-02 15:04:05", "Jan 2, 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, input)
}

// ToISODate renders an instant as its ISO-8601 calendar date in UTC.
func ToISODate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
