package core

import (
	"fmt"
	"strings"
	"time"
)

// ISODate is the layout of date-only values exchanged with clients and stored for expiry dates.
const ISODate = "2006-01-02"

// storedDateLayouts are tried in order. Layouts without a zone are read in the caller's location.
var storedDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	ISODate,
}

// ParseItemDate parses a persisted item date (Postgres ::text output, RFC 3339 or a bare date).
func ParseItemDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range storedDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

// ParseOptionalDate parses a nullable stored date. An empty value means "no date";
// an unparseable value yields nil with malformed set.
func ParseOptionalDate(raw string, loc *time.Location) (t *time.Time, malformed bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	parsed, err := ParseItemDate(raw, loc)
	if err != nil {
		return nil, true
	}
	return &parsed, false
}

// civilDay maps t to midnight UTC of its calendar date in t's own location,
// so that two civil days can be subtracted without DST drift.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts calendar days from from to to; negative when to is earlier.
func daysBetween(from, to time.Time) int {
	return int(civilDay(to).Sub(civilDay(from)).Hours() / 24)
}
