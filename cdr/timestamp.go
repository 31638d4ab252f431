package cdr

import (
	"strings"
	"time"
)

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02/01/2006 15:04:05",
	"2006-01-02",
}

// placeholder years some switches write for unset clocks
var badTimestampMarkers = []string{"2040"}

// ParseTimestamp parses a call date in the layouts seen in switch exports.
// ok is false for empty, unparseable or placeholder values; callers keep the
// raw string for display and carry on.
func ParseTimestamp(raw string) (t time.Time, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, m := range badTimestampMarkers {
		if strings.Contains(raw, m) {
			return time.Time{}, false
		}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Time is ParseTimestamp applied to the call's raw timestamp.
func (c NormalizedCall) Time() (time.Time, bool) { return ParseTimestamp(c.Timestamp) }
