package models

import (
	"fmt"
	"time"
)

// Timestamps in document fields use a postgres-style layout rather than
// RFC 3339, because that is what the backing collections contain.
const (
	timestampLayout       = "2006-01-02 15:04:05"
	timestampLayoutMillis = "2006-01-02 15:04:05.000"
)

// FormatTimestamp renders t in the collection timestamp layout. Milliseconds
// are included only when non-zero, matching the records already stored.
func FormatTimestamp(t time.Time) string {
	if t.Nanosecond() == 0 {
		return t.Format(timestampLayout)
	}
	return t.Format(timestampLayoutMillis)
}

// ParseTimestamp parses a collection timestamp in either precision.
// An unparseable value is an error; callers fail closed rather than
// defaulting the date.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{timestampLayoutMillis, timestampLayout} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
