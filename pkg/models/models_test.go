package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPortalTimeUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"naive UTC", `"2024-01-01T08:00:00"`, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)},
		{"naive with microseconds", `"2024-01-01T08:00:00.123456"`, time.Date(2024, 1, 1, 8, 0, 0, 123456000, time.UTC)},
		{"rfc3339", `"2024-01-01T08:00:00Z"`, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)},
		{"null", `null`, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pt PortalTime
			if err := json.Unmarshal([]byte(tt.in), &pt); err != nil {
				t.Fatal(err)
			}
			if !pt.Time().Equal(tt.want) {
				t.Errorf("got %s, want %s", pt.Time(), tt.want)
			}
		})
	}

	var pt PortalTime
	if err := json.Unmarshal([]byte(`"yesterday-ish"`), &pt); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
}

func TestAlarmSnoozing(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		alarm Alarm
		want  bool
	}{
		{"snoozed into the future", Alarm{IsSnoozed: true, SnoozeUntil: NewPortalTime(now.Add(time.Minute))}, true},
		{"snooze elapsed", Alarm{IsSnoozed: true, SnoozeUntil: NewPortalTime(now.Add(-time.Minute))}, false},
		{"snoozed flag without timestamp", Alarm{IsSnoozed: true}, false},
		{"not snoozed", Alarm{SnoozeUntil: NewPortalTime(now.Add(time.Minute))}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.alarm.Snoozing(now); got != tt.want {
				t.Errorf("Snoozing = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsInQuietHours(t *testing.T) {
	config := &Config{QuietHourRanges: []TimeRange{
		{StartHour: 22, StartMinute: 0, EndHour: 7, EndMinute: 30}, // overnight
		{StartHour: 12, StartMinute: 30, EndHour: 13, EndMinute: 0},
	}}

	at := func(h, m int) time.Time {
		return time.Date(2024, 1, 1, h, m, 0, 0, time.Local)
	}

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"late evening", at(23, 0), true},
		{"past midnight", at(3, 0), true},
		{"just before overnight end", at(7, 29), true},
		{"overnight end", at(7, 30), false},
		{"lunch range", at(12, 45), true},
		{"mid afternoon", at(15, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := config.IsInQuietHours(tt.t); got != tt.want {
				t.Errorf("IsInQuietHours(%s) = %v, want %v", tt.t.Format("15:04"), got, tt.want)
			}
		})
	}

	empty := &Config{}
	if empty.IsInQuietHours(at(23, 0)) {
		t.Error("no ranges configured but quiet hours reported")
	}
}

func TestParseTimeRanges(t *testing.T) {
	ranges, err := ParseTimeRanges("22:00-07:30, 12:30-13:00")
	if err != nil {
		t.Fatal(err)
	}
	if len(ranges) != 2 {
		t.Fatalf("got %d ranges", len(ranges))
	}
	if ranges[0] != (TimeRange{22, 0, 7, 30}) {
		t.Errorf("first range = %+v", ranges[0])
	}

	if got := FormatTimeRanges(ranges); got != "22:00-07:30, 12:30-13:00" {
		t.Errorf("round trip = %q", got)
	}

	for _, bad := range []string{"22-07", "25:00-07:00", "22:00-07:75", "whenever"} {
		if _, err := ParseTimeRanges(bad); err == nil {
			t.Errorf("ParseTimeRanges(%q) accepted", bad)
		}
	}

	if ranges, err := ParseTimeRanges(""); err != nil || len(ranges) != 0 {
		t.Errorf("empty input: ranges=%v err=%v", ranges, err)
	}
}
