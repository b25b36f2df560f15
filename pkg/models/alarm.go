package models

import (
	"fmt"
	"strings"
	"time"
)

// Alarm is a reminder owned by the portal backend. The client never mutates
// one directly; snooze/dismiss go through the API and show up in the next
// poll.
type Alarm struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	AlarmTime         PortalTime `json:"alarm_time"`
	IsRecurring       bool       `json:"is_recurring"`
	RecurrencePattern string     `json:"recurrence_pattern"`
	IsActive          bool       `json:"is_active"`
	IsSnoozed         bool       `json:"is_snoozed"`
	SnoozeUntil       PortalTime `json:"snooze_until"`
}

// Snoozing reports whether the alarm's snooze is still holding at now.
func (a Alarm) Snoozing(now time.Time) bool {
	return a.IsSnoozed && !a.SnoozeUntil.IsZero() && a.SnoozeUntil.Time().After(now)
}

// Notification is one entry from the portal's notification feed.
type Notification struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Link      string     `json:"link"`
	IsRead    bool       `json:"is_read"`
	CreatedAt PortalTime `json:"created_at"`
}

// PortalTime wraps time.Time to cope with the portal's mixed timestamp
// formats: RFC3339 for clients that send zones, zone-less ISO 8601 for
// values the backend stored naive. Zone-less values are UTC.
type PortalTime struct {
	t time.Time
}

var portalTimeFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
}

func NewPortalTime(t time.Time) PortalTime { return PortalTime{t: t} }

func (pt PortalTime) Time() time.Time { return pt.t }

func (pt PortalTime) IsZero() bool { return pt.t.IsZero() }

func (pt *PortalTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		pt.t = time.Time{}
		return nil
	}
	for _, format := range portalTimeFormats {
		if t, err := time.ParseInLocation(format, s, time.UTC); err == nil {
			pt.t = t
			return nil
		}
	}
	return fmt.Errorf("unable to parse portal timestamp: %s", s)
}

func (pt PortalTime) MarshalJSON() ([]byte, error) {
	if pt.t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + pt.t.UTC().Format(time.RFC3339) + `"`), nil
}
