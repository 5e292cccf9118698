// Package period defines the accounting-period keys used throughout the
// ledger: one window per calendar date and half-day segment, with the
// AM/PM boundary at local noon.
package period

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "02/01/2006"

// DefaultTimezone is where the book operates. The half-day boundary is
// noon in this zone.
const DefaultTimezone = "Asia/Yangon"

// Location resolves a timezone name, falling back to the fixed +06:30
// Myanmar offset when the tz database is unavailable.
func Location(name string) *time.Location {
	if name == "" {
		name = DefaultTimezone
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.FixedZone("MMT", (6*60+30)*60)
}

// Segment returns "AM" before local noon, "PM" after.
func Segment(t time.Time) string {
	if t.Hour() < 12 {
		return "AM"
	}
	return "PM"
}

// Key builds the period key for the given local time, e.g. "05/01/2026 PM".
func Key(t time.Time) string {
	return fmt.Sprintf("%s %s", t.Format(dateLayout), Segment(t))
}

// ParseKey parses a period key back into its date and segment.
func ParseKey(key string) (date time.Time, segment string, err error) {
	parts := strings.Fields(key)
	if len(parts) != 2 || (parts[1] != "AM" && parts[1] != "PM") {
		return time.Time{}, "", fmt.Errorf("invalid period key %q", key)
	}
	date, err = time.Parse(dateLayout, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid period key %q: %w", key, err)
	}
	return date, parts[1], nil
}
