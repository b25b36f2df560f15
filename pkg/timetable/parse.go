package timetable

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/penlet/reminders/pkg/models"
)

func parseClass(comp *ical.Component) models.Class {
	class := models.Class{}

	if uidProp := comp.Props.Get(ical.PropUID); uidProp != nil {
		class.ID = uidProp.Value
	}
	if summaryProp := comp.Props.Get(ical.PropSummary); summaryProp != nil {
		class.Subject = summaryProp.Value
	}
	if locProp := comp.Props.Get(ical.PropLocation); locProp != nil {
		class.Room = locProp.Value
	}
	if startProp := comp.Props.Get(ical.PropDateTimeStart); startProp != nil {
		if t, err := parseDateTimeProperty(startProp); err == nil {
			class.StartTime = t
		}
	}
	if endProp := comp.Props.Get(ical.PropDateTimeEnd); endProp != nil {
		if t, err := parseDateTimeProperty(endProp); err == nil {
			class.EndTime = t
		}
	}
	if statusProp := comp.Props.Get(ical.PropStatus); statusProp != nil {
		class.Status = statusProp.Value
	}

	// Some exports mark a cancelled class only in its title.
	if class.Status != "CANCELLED" && isCancelledTitle(class.Subject) {
		class.Status = "CANCELLED"
	}

	// Fallback: deterministic ID when the export omits UIDs.
	if class.ID == "" {
		class.ID = class.StartTime.Format(time.RFC3339) + "-" + class.Subject
	}

	return class
}

func parseDateTimeProperty(prop *ical.Prop) (time.Time, error) {
	if t, err := prop.DateTime(time.Local); err == nil {
		return t.In(time.Local), nil
	}

	// The library gave up; try the raw value against the formats seen in
	// the wild.
	formats := []string{
		"20060102T150405",
		"20060102T150405Z",
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, prop.Value, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse datetime value: %s", prop.Value)
}

func isCancelledTitle(title string) bool {
	cleaned := regexp.MustCompile(`[^a-zA-Z0-9]+`).ReplaceAllString(strings.ToLower(title), "")
	return strings.HasPrefix(cleaned, "canceled") || strings.HasPrefix(cleaned, "cancelled")
}
