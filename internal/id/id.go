package id

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// shortLen is how many hex characters of a UUID make up a record ID.
const shortLen = 12

// New returns a random record ID like "3f2a9c0d41b7".
func New() string {
	return ShortUUID(uuid.New())
}

// ShortUUID trims a UUID to its first twelve hex characters.
func ShortUUID(u uuid.UUID) string {
	return strings.ReplaceAll(u.String(), "-", "")[:shortLen]
}

// Sequence returns a deterministic generator yielding "prefix-1", "prefix-2", ...
func Sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// FormatMonthKey returns a month key like "2025-01".
func FormatMonthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// ParseMonthKey parses "2025-01" into the first instant of that month in loc.
func ParseMonthKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01", strings.TrimSpace(key), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", key, err)
	}
	return t, nil
}
