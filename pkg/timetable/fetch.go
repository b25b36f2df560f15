// Package timetable turns the portal's iCal timetable export into the
// tray's "today's classes" section. Classes never ring; they are display
// only.
package timetable

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/penlet/reminders/pkg/models"
)

// FetchClasses fetches the iCal feed and returns the classes that overlap
// the next 24 hours, recurring entries expanded, duplicates and cancelled
// classes removed.
func FetchClasses(feedURL string) ([]models.Class, error) {
	resp, err := http.Get(feedURL)
	if err != nil {
		return nil, fmt.Errorf("timetable request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read timetable feed: %w", err)
	}

	if err := validateFeed(string(body)); err != nil {
		return nil, err
	}

	now := time.Now()
	return decodeClasses(strings.NewReader(string(body)), now, now.Add(24*time.Hour))
}

func decodeClasses(r io.Reader, windowStart, windowEnd time.Time) ([]models.Class, error) {
	decoder := ical.NewDecoder(r)

	classes := []models.Class{}
	seen := make(map[string]bool)

	for {
		cal, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode timetable feed: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}

			class := parseClass(comp)

			if rruleProp := comp.Props.Get(ical.PropRecurrenceRule); rruleProp != nil {
				instances, err := expandRecurring(class, rruleProp.Value, windowStart, windowEnd)
				if err != nil {
					log.Printf("Skipping unparseable RRULE %q for class %q: %v", rruleProp.Value, class.Subject, err)
					continue
				}
				for _, instance := range instances {
					if includeClass(instance, windowStart, windowEnd) && !seen[classKey(instance)] {
						seen[classKey(instance)] = true
						classes = append(classes, instance)
					}
				}
				continue
			}

			if includeClass(class, windowStart, windowEnd) && !seen[classKey(class)] {
				seen[classKey(class)] = true
				classes = append(classes, class)
			}
		}
	}

	return classes, nil
}

func validateFeed(body string) error {
	trimmed := strings.TrimSpace(body)
	upper := strings.ToUpper(trimmed)
	if strings.HasPrefix(upper, "<!DOCTYPE") || strings.HasPrefix(upper, "<HTML") {
		return fmt.Errorf("received HTML instead of iCalendar data - check if the feed URL requires authentication")
	}
	if !strings.HasPrefix(trimmed, "BEGIN:VCALENDAR") {
		return fmt.Errorf("invalid iCalendar feed")
	}
	return nil
}

// classKey dedupes by subject and start time; some exports repeat an event
// once per attendee group with distinct UIDs.
func classKey(c models.Class) string {
	return c.Subject + "|" + c.StartTime.Format(time.RFC3339)
}
