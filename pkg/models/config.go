package models

import (
	"fmt"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	PortalURL       string      `json:"portal_url"`    // Penlet API base URL
	APIToken        string      `json:"api_token"`     // Bearer token issued by the portal
	TimetableURL    string      `json:"timetable_url"` // optional iCal export of the user's timetable
	AutoStart       bool        `json:"auto_start"`
	PollInterval    int         `json:"poll_interval"`     // seconds between alarm fetches
	CheckInterval   int         `json:"check_interval"`    // seconds between trigger evaluations
	NotifyInterval  int         `json:"notify_interval"`   // seconds between unread-count fetches
	SnoozeMinutes   int         `json:"snooze_minutes"`    // default snooze duration
	HoldTimeSeconds int         `json:"hold_time_seconds"` // dismiss button hold time
	QuietHourRanges []TimeRange `json:"quiet_hour_ranges"` // sound suppressed inside these ranges
}

// TimeRange represents a time range within a day
type TimeRange struct {
	StartHour   int `json:"start_hour"`   // 0-23
	StartMinute int `json:"start_minute"` // 0-59
	EndHour     int `json:"end_hour"`     // 0-23
	EndMinute   int `json:"end_minute"`   // 0-59
}

// NeedsConfiguration returns true if the config needs initial setup
func (c *Config) NeedsConfiguration() bool {
	return c.PortalURL == "" || c.APIToken == ""
}

// PollEvery returns the alarm poll cadence, floored so the evaluator always
// runs strictly more often than the poll.
func (c *Config) PollEvery() time.Duration {
	if c.PollInterval < 10 {
		return 10 * time.Second
	}
	return time.Duration(c.PollInterval) * time.Second
}

// CheckEvery returns the trigger evaluation cadence.
func (c *Config) CheckEvery() time.Duration {
	if c.CheckInterval < 1 {
		return time.Second
	}
	return time.Duration(c.CheckInterval) * time.Second
}

// NotifyEvery returns the unread-count poll cadence.
func (c *Config) NotifyEvery() time.Duration {
	if c.NotifyInterval < 15 {
		return 15 * time.Second
	}
	return time.Duration(c.NotifyInterval) * time.Second
}

// ParseTimeRanges parses a settings string like "22:00-07:30, 12:00-13:00"
// into time ranges. An empty string means no ranges.
func ParseTimeRanges(s string) ([]TimeRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []TimeRange{}, nil
	}

	ranges := []TimeRange{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		var tr TimeRange
		if _, err := fmt.Sscanf(part, "%d:%d-%d:%d", &tr.StartHour, &tr.StartMinute, &tr.EndHour, &tr.EndMinute); err != nil {
			return nil, fmt.Errorf("invalid time range %q, expected HH:MM-HH:MM", part)
		}
		if tr.StartHour < 0 || tr.StartHour > 23 || tr.EndHour < 0 || tr.EndHour > 23 ||
			tr.StartMinute < 0 || tr.StartMinute > 59 || tr.EndMinute < 0 || tr.EndMinute > 59 {
			return nil, fmt.Errorf("time range %q out of bounds", part)
		}
		ranges = append(ranges, tr)
	}
	return ranges, nil
}

// FormatTimeRanges renders ranges back into the settings string format.
func FormatTimeRanges(ranges []TimeRange) string {
	parts := make([]string, 0, len(ranges))
	for _, tr := range ranges {
		parts = append(parts, fmt.Sprintf("%02d:%02d-%02d:%02d", tr.StartHour, tr.StartMinute, tr.EndHour, tr.EndMinute))
	}
	return strings.Join(parts, ", ")
}

// IsInQuietHours returns true if the given time is in a quiet hour range
func (c *Config) IsInQuietHours(t time.Time) bool {
	if len(c.QuietHourRanges) == 0 {
		return false
	}

	currentMinutes := t.Hour()*60 + t.Minute()

	for _, tr := range c.QuietHourRanges {
		startMinutes := tr.StartHour*60 + tr.StartMinute
		endMinutes := tr.EndHour*60 + tr.EndMinute

		// Handle overnight ranges (e.g., 22:00 to 08:00)
		if endMinutes < startMinutes {
			if currentMinutes >= startMinutes || currentMinutes < endMinutes {
				return true
			}
		} else {
			if currentMinutes >= startMinutes && currentMinutes < endMinutes {
				return true
			}
		}
	}

	return false
}
