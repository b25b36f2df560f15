package timetable

import (
	"time"

	"github.com/penlet/reminders/pkg/models"
)

func includeClass(class models.Class, windowStart, windowEnd time.Time) bool {
	if class.StartTime.IsZero() || class.EndTime.IsZero() {
		return false
	}
	if class.Status == "CANCELLED" {
		return false
	}
	if isAllDay(class) {
		return false
	}
	return class.StartTime.Before(windowEnd) && class.EndTime.After(windowStart)
}

// isAllDay treats anything spanning days and lasting 24h or more as an
// all-day marker rather than a class.
func isAllDay(class models.Class) bool {
	startDate := class.StartTime.Format("2006-01-02")
	endDate := class.EndTime.Format("2006-01-02")
	return startDate != endDate && class.EndTime.Sub(class.StartTime) >= 24*time.Hour
}
