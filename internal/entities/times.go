package entities

import (
	"fmt"
	"time"
)

// TimeLayout is the wire format for reservation and availability intervals.
// The occupancy release path matches records by literal string equality on
// timestamps in this layout, so every service must format through it.
const TimeLayout = "2006-01-02T15:04:05"

// ParseTime accepts RFC3339 or the zone-less wire layout, always in UTC.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: expected RFC3339 or %s", s, TimeLayout)
	}
	return t.UTC(), nil
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
