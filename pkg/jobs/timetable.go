package jobs

import (
	"context"
	"log"
	"time"

	"github.com/penlet/reminders/pkg/models"
	"github.com/penlet/reminders/pkg/timetable"
)

// StartTimetableSync refreshes the timetable feed on a slow cadence. A
// failed fetch keeps the last classes on screen. No-op when no feed is
// configured.
func StartTimetableSync(ctx context.Context, interval time.Duration, feedURL string, onClasses func([]models.Class)) {
	if feedURL == "" {
		return
	}

	sync := func() {
		classes, err := timetable.FetchClasses(feedURL)
		if err != nil {
			log.Printf("timetable sync error: %v", err)
			return
		}
		onClasses(classes)
	}

	go sync()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sync()
			}
		}
	}()
}
