package period

import (
	"testing"
	"time"
)

func TestKeySegmentBoundary(t *testing.T) {
	loc := Location("")
	tests := []struct {
		hour, min int
		want      string
	}{
		{0, 0, "AM"},
		{11, 59, "AM"},
		{12, 0, "PM"},
		{23, 59, "PM"},
	}
	for _, tt := range tests {
		ts := time.Date(2026, 1, 5, tt.hour, tt.min, 0, 0, loc)
		if got := Segment(ts); got != tt.want {
			t.Errorf("%02d:%02d: expected %s, got %s", tt.hour, tt.min, tt.want, got)
		}
	}

	ts := time.Date(2026, 1, 5, 13, 0, 0, 0, loc)
	if got := Key(ts); got != "05/01/2026 PM" {
		t.Errorf("unexpected key: %s", got)
	}
}

func TestParseKey(t *testing.T) {
	date, seg, err := ParseKey("05/01/2026 PM")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if seg != "PM" {
		t.Errorf("expected PM, got %s", seg)
	}
	if date.Day() != 5 || date.Month() != time.January || date.Year() != 2026 {
		t.Errorf("unexpected date: %v", date)
	}

	for _, bad := range []string{"", "05/01/2026", "05/01/2026 XX", "garbage AM"} {
		if _, _, err := ParseKey(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestLocationFallback(t *testing.T) {
	loc := Location("No/Such_Zone")
	_, offset := time.Now().In(loc).Zone()
	if offset != (6*60+30)*60 {
		t.Errorf("expected +06:30 fallback, got offset %d", offset)
	}
}
