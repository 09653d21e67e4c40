package domain

import "time"

// timestampLayout matches the millisecond ISO-8601 form the panel has
// historically persisted, so new writes sort consistently with old records.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in the persisted wire form (UTC, milliseconds).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseTimestamp parses a persisted timestamp string.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
