// Package timestamp parses the creation timestamps emitted by commerce
// APIs, which are inconsistent across endpoints: RFC3339, zone-less
// datetimes, space-separated datetimes, and bare dates all appear.
//
// Zero Value Semantics:
//   - An empty or unparseable value reports ok=false
//   - Callers decide how to treat unknown timestamps; aggregations
//     typically exclude them from date grouping but keep the record
package timestamp

import (
	"time"
)

// DayLayout is the canonical calendar-date key used for daily grouping.
const DayLayout = "2006-01-02"

// layouts are tried in order. RFC3339 first since it is the documented
// format; the rest cover what the API actually returns.
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DayLayout,
}

// Parse parses a commerce API creation timestamp. The second return value
// is false when the value is empty or matches no known layout.
func Parse(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DayKey formats a time as its UTC calendar date, the key used for daily
// aggregation.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// ParseDayKey parses a timestamp straight to its daily grouping key.
func ParseDayKey(value string) (string, bool) {
	t, ok := Parse(value)
	if !ok {
		return "", false
	}
	return DayKey(t), true
}
